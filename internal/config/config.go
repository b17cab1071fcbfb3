package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blackwell-systems/papershelf/internal/migrate"
	"github.com/blackwell-systems/papershelf/internal/util"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "papershelf", "config.yml")
}

// Load reads the config from disk and the environment. A missing config
// file is not an error: every key has a default.
func Load() (*Config, error) {
	// A .env next to the working directory may supply PAPERSHELF_* values.
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("mode", "installed")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("open.app", "")
	v.SetDefault("migrate.ledger", migrate.DefaultLedgerPath())
	v.SetDefault("mirror.s3.endpoint", "")
	v.SetDefault("mirror.s3.access_key", "")
	v.SetDefault("mirror.s3.secret_key", "")
	v.SetDefault("mirror.s3.use_ssl", true)

	v.SetEnvPrefix("PAPERSHELF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath := os.Getenv("PAPERSHELF_CONFIG")
	if configPath == "" {
		configPath = DefaultPath()
	}
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			if _, isCfgNotFound := err.(viper.ConfigFileNotFoundError); !isCfgNotFound {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Migrate.Ledger = util.ExpandHome(cfg.Migrate.Ledger)

	return &cfg, nil
}

// Save writes the config to path, or to the default path when path is empty.
// S3 credentials are never written.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	return enc.Encode(cfg)
}
