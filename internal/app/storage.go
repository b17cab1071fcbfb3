package app

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/blackwell-systems/papershelf/internal/files"
	"github.com/blackwell-systems/papershelf/internal/library"
	"github.com/blackwell-systems/papershelf/internal/util"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newStorageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storage",
		Short: "Inspect and maintain where documents are stored",
	}
	cmd.AddCommand(
		newStorageRootCmd(),
		newStorageRelocateCmd(),
		newStorageMirrorCmd(),
	)
	return cmd
}

func newStorageRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "root",
		Short: "Print the active storage root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := settings.Get(cmd.Context())
			if err != nil {
				return err
			}
			header("Storage")
			printField("mode", resolver.Mode.String())
			printField("root", resolver.Root())
			printField("database", resolver.DatabaseFile())
			printField("pdfs", resolver.PDFDir())
			printField("notes", resolver.NotesDir())
			if s.CustomStoragePath != "" {
				printField("relocated to", s.CustomStoragePath)
				if filepath.Clean(s.CustomStoragePath) != filepath.Clean(resolver.Root()) {
					warn("the active root is chosen by run mode; the relocated copy at %s is not in use", s.CustomStoragePath)
				}
			}
			return nil
		},
	}
}

func newStorageRelocateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "relocate [path]",
		Short: "Copy the database and all documents to a new root",
		Long: `Copy the database and the pdfs and notes folders to a new root,
overwriting files already there, and remember the new root in settings.

papershelf exits afterwards; restart it before making further changes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var newRoot string
			if len(args) == 1 {
				newRoot = args[0]
			} else {
				if !util.IsTTY() || flagNoInteractive {
					return fmt.Errorf("path required in non-interactive mode")
				}
				answer, err := prompt("New storage root (empty to cancel): ")
				if err != nil {
					return err
				}
				newRoot = answer
			}
			if newRoot == "" {
				fmt.Println("Cancelled.")
				return nil
			}
			newRoot, err := filepath.Abs(util.ExpandHome(newRoot))
			if err != nil {
				return err
			}

			before, err := settings.Get(ctx)
			if err != nil {
				return err
			}
			if _, err := settings.Update(ctx, library.SettingsUpdate{CustomStoragePath: library.Some(newRoot)}); err != nil {
				return err
			}

			var report files.CopyReport
			err = runBulk(cmd, "Copying library", func(m *files.Manager) error {
				var err error
				report, err = m.RelocateRoot(ctx, newRoot, db.SnapshotTo)
				return err
			})
			if err != nil {
				restore := library.SettingsUpdate{CustomStoragePath: library.Some(before.CustomStoragePath)}
				if _, rerr := settings.Update(ctx, restore); rerr != nil {
					warn("restoring settings: %v", rerr)
				}
				return err
			}

			for _, e := range report.Errors {
				warn("%s", e.Error())
			}
			ok("Copied %d file(s) to %s", report.Copied, newRoot)
			fmt.Println()
			fmt.Println(color.YellowString("Restart papershelf before making further changes."))
			return nil
		},
	}
}

func newStorageMirrorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mirror",
		Short: "Show or change the external mirror",
		Long: `Documents can be copied to a second location as they are stored: a
directory (for example a cloud-sync folder) or an S3 bucket given as
s3://bucket/prefix. S3 credentials come from the mirror.s3 config keys.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showMirror(cmd)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the mirror configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return showMirror(cmd)
			},
		},
		&cobra.Command{
			Use:   "enable <path|s3://bucket/prefix>",
			Short: "Mirror documents to path",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				target, err := mirrorTarget(args[0])
				if err != nil {
					return err
				}
				if files.IsS3Target(target) && !cfg.Mirror.S3.Configured() {
					warn("no S3 endpoint configured; set mirror.s3.endpoint before storing documents")
				}
				_, err = settings.Update(cmd.Context(), library.SettingsUpdate{
					ExternalSyncEnabled: library.Some(true),
					ExternalSyncPath:    library.Some(target),
				})
				if err != nil {
					return err
				}
				ok("Mirroring to %s", target)
				fmt.Printf("  Run %s to copy existing documents.\n", color.CyanString("papershelf storage mirror seed"))
				return nil
			},
		},
		&cobra.Command{
			Use:   "disable",
			Short: "Stop mirroring documents",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := settings.Update(cmd.Context(), library.SettingsUpdate{ExternalSyncEnabled: library.Some(false)})
				if err != nil {
					return err
				}
				ok("Mirroring disabled")
				return nil
			},
		},
		newMirrorSeedCmd(),
	)
	return cmd
}

// mirrorTarget normalizes a mirror argument: directories become absolute
// paths, S3 targets are kept as given.
func mirrorTarget(arg string) (string, error) {
	if files.IsS3Target(arg) {
		return arg, nil
	}
	return filepath.Abs(util.ExpandHome(arg))
}

func showMirror(cmd *cobra.Command) error {
	s, err := settings.Get(cmd.Context())
	if err != nil {
		return err
	}
	header("External mirror")
	state := color.RedString("disabled")
	if s.ExternalSyncEnabled {
		state = color.GreenString("enabled")
	}
	printField("state", state)
	if s.ExternalSyncPath != "" {
		printField("path", s.ExternalSyncPath)
	}
	if files.IsS3Target(s.ExternalSyncPath) {
		printField("endpoint", cfg.Mirror.S3.Endpoint)
	}
	return nil
}

func newMirrorSeedCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "seed [path]",
		Short: "Copy existing documents to the mirror",
		Long: `Copy every stored PDF and notes document to the mirror, or to path when
given. Files already present there are skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			target := ""
			if len(args) == 1 {
				t, err := mirrorTarget(args[0])
				if err != nil {
					return err
				}
				target = t
			} else {
				s, err := settings.Get(ctx)
				if err != nil {
					return err
				}
				target = s.ExternalSyncPath
			}
			if target == "" {
				return errors.New("no mirror path configured; pass one or run 'papershelf storage mirror enable <path>'")
			}

			var report files.CopyReport
			err := runBulk(cmd, "Seeding mirror", func(m *files.Manager) error {
				var err error
				report, err = m.CopyTreeToExternal(ctx, target)
				return err
			})
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(report)
			}
			for _, e := range report.Errors {
				warn("%s", e.Error())
			}
			ok("Copied %d file(s), skipped %d already present", report.Copied, report.Skipped)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
