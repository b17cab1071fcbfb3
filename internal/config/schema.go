package config

// Config is the top-level papershelf configuration. Library data (articles,
// settings, mirror target) lives in the database; this file only holds what
// must be known before the database can be opened.
type Config struct {
	Mode    string        `mapstructure:"mode" yaml:"mode"` // "installed" or "development"
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Open    OpenConfig    `mapstructure:"open" yaml:"open"`
	Migrate MigrateConfig `mapstructure:"migrate" yaml:"migrate"`
	Mirror  MirrorConfig  `mapstructure:"mirror" yaml:"mirror"`
}

// LogConfig controls the diagnostic logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // "console" or "json"
}

// OpenConfig holds settings for opening documents.
type OpenConfig struct {
	App string `mapstructure:"app" yaml:"app,omitempty"` // empty = platform default
}

// MigrateConfig holds settings for the file-naming migration.
type MigrateConfig struct {
	Ledger string `mapstructure:"ledger" yaml:"ledger"`
}

// MirrorConfig holds credentials for S3-compatible mirror targets
// (external paths of the form s3://bucket/prefix).
type MirrorConfig struct {
	S3 S3Config `mapstructure:"s3" yaml:"s3"`
}

// S3Config describes an S3-compatible endpoint.
type S3Config struct {
	Endpoint  string `mapstructure:"endpoint" yaml:"endpoint,omitempty"`
	AccessKey string `mapstructure:"access_key" yaml:"-"` // env only, never written
	SecretKey string `mapstructure:"secret_key" yaml:"-"` // env only, never written
	UseSSL    bool   `mapstructure:"use_ssl" yaml:"use_ssl"`
}

// Configured reports whether enough is set to build an S3 client.
func (s S3Config) Configured() bool {
	return s.Endpoint != "" && s.AccessKey != "" && s.SecretKey != ""
}
