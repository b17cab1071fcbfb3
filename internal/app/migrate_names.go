package app

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/blackwell-systems/papershelf/internal/files"
	"github.com/blackwell-systems/papershelf/internal/migrate"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newMigrateNamesCmd() *cobra.Command {
	var (
		asJSON  bool
		history bool
	)

	cmd := &cobra.Command{
		Use:   "migrate-names",
		Short: "Rename documents stored under bare ids to \"{id} - {title}\"",
		Long: `Rename documents stored under the legacy "{id}.pdf" / "{id}.docx" names to
the current "{id} - {title}" scheme, at the storage root and on the external
mirror. Files whose new name is already taken are left alone. Running it
again does nothing.

Every rename is appended to the rename ledger (see --history).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if history {
				return printHistory(asJSON)
			}

			var report files.MigrationReport
			err := runBulk(cmd, "Renaming documents", func(m *files.Manager) error {
				var err error
				report, err = m.MigrateNamingScheme(cmd.Context())
				return err
			})
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(report)
			}

			ids := make([]string, 0, len(report.Migrated))
			for id := range report.Migrated {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				fmt.Printf("  %s  %d file(s)\n", color.CyanString(id), report.Migrated[id])
			}
			for _, e := range report.Errors {
				warn("%s", e.Error())
			}
			ok("Renamed %d file(s) across %d article(s) (%d checked)", report.Total(), len(report.Migrated), report.Articles)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&history, "history", false, "Show past renames from the ledger")
	return cmd
}

func printHistory(asJSON bool) error {
	ledger, err := migrate.OpenLedger(cfg.Migrate.Ledger)
	if err != nil {
		return err
	}
	entries, err := ledger.Entries()
	if err != nil {
		return err
	}
	if asJSON {
		if entries == nil {
			entries = []migrate.LedgerEntry{}
		}
		return printJSON(entries)
	}
	if len(entries) == 0 {
		fmt.Println("No renames recorded.")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %s  %-4s %s → %s  (%s)\n",
			e.Timestamp.Local().Format("2006-01-02 15:04"),
			color.CyanString(e.ArticleID), e.Kind,
			filepath.Base(e.From), filepath.Base(e.To), e.Location)
	}
	return nil
}
