package app

import (
	"context"
	"fmt"
	"os"

	"github.com/blackwell-systems/papershelf/internal/config"
	"github.com/blackwell-systems/papershelf/internal/files"
	"github.com/blackwell-systems/papershelf/internal/library"
	"github.com/blackwell-systems/papershelf/internal/logging"
	"github.com/blackwell-systems/papershelf/internal/migrate"
	"github.com/blackwell-systems/papershelf/internal/paths"
	"github.com/blackwell-systems/papershelf/internal/store"
	"github.com/blackwell-systems/papershelf/internal/util"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg      *config.Config
	log      *zap.Logger
	db       *store.Store
	resolver *paths.Resolver
	articles *library.Articles
	entities *library.Entities
	settings *library.Settings
	fileMgr  *files.Manager

	flagNoColor       bool
	flagNoInteractive bool
	flagConfig        string
)

var rootCmd = &cobra.Command{
	Use:   "papershelf",
	Short: "Manage a personal library of research articles",
	Long: `papershelf keeps a local library of research articles.

Article metadata lives in a SQLite database. PDFs and notes live next to it
under the storage root and can be mirrored to a sync folder or an S3 bucket.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.
func Execute() {
	err := rootCmd.Execute()
	closeLibrary()
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagNoInteractive, "no-interactive", false, "Disable progress bars and prompts")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/papershelf/config.yml)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		util.InitColor(flagNoColor)
		if !needsLibrary(cmd) {
			return nil
		}
		return openLibrary()
	}

	rootCmd.AddCommand(
		newAddCmd(),
		newInfoCmd(),
		newListCmd(),
		newEditCmd(),
		newDeleteCmd(),
		newAttachCmd(),
		newLocateCmd(),
		newOpenCmd(),
		newMigrateNamesCmd(),
		newStorageCmd(),
		newSettingsCmd(),
		newFieldsCmd(),
		newVocabCmd(),
		newVerifyCmd(),
		newConfigCmd(),
		newVersionCmd(),
		newCompletionCmd(),
	)
}

// needsLibrary reports whether cmd works against the database.
func needsLibrary(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "version", "completion", "help", "config":
			return false
		}
	}
	return cmd != rootCmd
}

// openLibrary loads config and wires the store, repositories and file
// manager for the configured run mode.
func openLibrary() error {
	var err error
	cfg, err = loadConfig()
	if err != nil {
		return err
	}
	log, err = logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}

	mode, err := paths.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}
	resolver, err = paths.New(mode)
	if err != nil {
		return err
	}
	if err := resolver.EnsureDirectories(); err != nil {
		return fmt.Errorf("creating storage directories: %w", err)
	}

	db, err = store.Open(resolver.DatabaseFile(), log.Named("store"))
	if err != nil {
		return err
	}
	articles = library.NewArticles(db)
	entities = library.NewEntities(db)
	settings = library.NewSettings(db)

	var opts []files.Option
	if s3 := cfg.Mirror.S3; s3.Configured() {
		opts = append(opts, files.WithRemoteMirror(func(ctx context.Context, target string) (files.Mirror, error) {
			mr, err := files.NewMinioMirror(ctx, s3.Endpoint, s3.AccessKey, s3.SecretKey, s3.UseSSL, target)
			if err != nil {
				return nil, err
			}
			return mr, nil
		}))
	}
	if cfg.Migrate.Ledger != "" {
		ledger, err := migrate.OpenLedger(cfg.Migrate.Ledger)
		if err != nil {
			log.Warn("rename ledger unavailable", zap.String("path", cfg.Migrate.Ledger), zap.Error(err))
		} else {
			opts = append(opts, files.WithLedger(ledger))
		}
	}
	fileMgr = files.NewManager(resolver, articles, settings, log.Named("files"), opts...)

	log.Debug("library opened",
		zap.Stringer("mode", mode),
		zap.String("root", resolver.Root()),
		zap.String("database", db.Path()))
	return nil
}

func closeLibrary() {
	if db != nil {
		if err := db.Close(); err != nil {
			warn("closing database: %v", err)
		}
		db = nil
	}
	if log != nil {
		_ = log.Sync()
	}
}

// ok prints a green success line.
func ok(format string, a ...interface{}) {
	fmt.Println(color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func warn(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, color.YellowString("!"), fmt.Sprintf(format, a...))
}

// header prints a cyan section heading.
func header(format string, a ...interface{}) {
	fmt.Println(color.CyanString(fmt.Sprintf(format, a...)))
}
