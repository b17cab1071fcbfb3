package app

import (
	"fmt"

	"github.com/blackwell-systems/papershelf/internal/util"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newDeleteCmd() *cobra.Command {
	var skipConfirm bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove an article and its documents",
		Long: `Remove an article, its classification links and its PDF and notes,
at the storage root and on the external mirror. Authors, tags and the other
vocabularies are kept.

This action is DESTRUCTIVE and cannot be undone.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := mustGet(cmd, args[0])
			if err != nil {
				return err
			}

			if !skipConfirm {
				if !util.IsTTY() || flagNoInteractive {
					return fmt.Errorf("refusing to delete %s without --yes in non-interactive mode", a.ID)
				}
				fmt.Printf("%s %s  %s\n", color.RedString("Deleting"), a.ID, a.Title)
				if !confirm("Delete this article and its documents?") {
					fmt.Println("Cancelled.")
					return nil
				}
			}

			// Documents go first, while the title still resolves the file name.
			if err := fileMgr.Remove(ctx, a.ID); err != nil {
				warn("some documents could not be removed: %v", err)
			}
			if err := articles.Delete(ctx, a.ID); err != nil {
				return err
			}
			ok("Deleted %s", a.ID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipConfirm, "yes", false, "Skip confirmation prompt")
	return cmd
}
