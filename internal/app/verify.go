package app

import (
	"fmt"

	"github.com/blackwell-systems/papershelf/internal/files"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newVerifyCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Detect mismatches between articles and stored documents",
		Long: `Check every article for a PDF at the storage root and every stored file for
an article it belongs to. Reports:

  missing_pdf   article has no PDF under any naming scheme
  legacy_name   PDF is stored under the bare id (fix with migrate-names)
  stale_title   PDF is stored under an earlier title
  orphaned      file whose id matches no article`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var report files.VerifyReport
			err := runBulk(cmd, "Verifying library", func(m *files.Manager) error {
				var err error
				report, err = m.Verify(cmd.Context())
				return err
			})
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(report)
			}

			for _, is := range report.Issues {
				label := color.YellowString("%-12s", is.Type)
				switch {
				case is.ID != "" && is.Path != "":
					fmt.Printf("  %s %s  %s\n", label, is.ID, is.Path)
				case is.ID != "":
					fmt.Printf("  %s %s\n", label, is.ID)
				default:
					fmt.Printf("  %s %s\n", label, is.Path)
				}
			}
			if len(report.Issues) == 0 {
				ok("No issues found (%d articles, %d files)", report.Articles, report.Files)
				return nil
			}
			fmt.Println()
			warn("%d issues found", len(report.Issues))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
