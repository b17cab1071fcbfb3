package app

import (
	"fmt"
	"os"
	"strconv"

	"github.com/blackwell-systems/papershelf/internal/config"
	"github.com/blackwell-systems/papershelf/internal/logging"
	"github.com/blackwell-systems/papershelf/internal/paths"
	"github.com/blackwell-systems/papershelf/internal/util"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or write the config file",
		Long: `The config file holds what must be known before the library is opened:
run mode, logging, the rename ledger and the S3 endpoint. S3 credentials
are read from PAPERSHELF_MIRROR_S3_ACCESS_KEY and
PAPERSHELF_MIRROR_S3_SECRET_KEY and are never written to the file.`,
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := initConfig(force)
			if err != nil {
				return err
			}
			ok("Wrote %s", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	cmd.AddCommand(
		initCmd,
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective config",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := loadConfig()
				if err != nil {
					return err
				}
				header("Config (%s)", configFile())
				return printYAML(c)
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Change one key in the config file",
			Long: `Change one key in the config file.

Keys: mode, log.level, log.format, open.app, migrate.ledger,
mirror.s3.endpoint, mirror.s3.use_ssl`,
			Args: cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := setConfig(args[0], args[1]); err != nil {
					return err
				}
				ok("Set %s = %s", args[0], args[1])
				return nil
			},
		},
	)
	return cmd
}

// configFile returns the config path in effect for this run.
func configFile() string {
	if flagConfig != "" {
		return flagConfig
	}
	if p := os.Getenv("PAPERSHELF_CONFIG"); p != "" {
		return p
	}
	return config.DefaultPath()
}

func loadConfig() (*config.Config, error) {
	if flagConfig != "" {
		if err := os.Setenv("PAPERSHELF_CONFIG", flagConfig); err != nil {
			return nil, err
		}
	}
	c, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return c, nil
}

// initConfig writes the effective config to the config path and returns
// that path. An existing file is only replaced when force is set.
func initConfig(force bool) (string, error) {
	path := configFile()
	if _, err := os.Stat(path); err == nil && !force {
		return "", fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	c, err := loadConfig()
	if err != nil {
		return "", err
	}
	if err := config.Save(c, path); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}
	return path, nil
}

func setConfig(key, value string) error {
	c, err := loadConfig()
	if err != nil {
		return err
	}
	switch key {
	case "mode":
		if _, err := paths.ParseMode(value); err != nil {
			return err
		}
		c.Mode = value
	case "log.level":
		if _, err := logging.New(value, c.Log.Format); err != nil {
			return err
		}
		c.Log.Level = value
	case "log.format":
		if value != "console" && value != "json" {
			return fmt.Errorf("log.format must be console or json, got %q", value)
		}
		c.Log.Format = value
	case "open.app":
		c.Open.App = value
	case "migrate.ledger":
		c.Migrate.Ledger = util.ExpandHome(value)
	case "mirror.s3.endpoint":
		c.Mirror.S3.Endpoint = value
	case "mirror.s3.use_ssl":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("mirror.s3.use_ssl: %w", err)
		}
		c.Mirror.S3.UseSSL = b
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return config.Save(c, configFile())
}
