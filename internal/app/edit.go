package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newEditCmd() *cobra.Command {
	var fields articleFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an article",
		Long: `Change fields of an article. Only the flags you pass are applied.

A collection flag replaces the whole collection; pass an empty value to clear it.

Examples:
  papershelf edit 0012 --rating 4 --read
  papershelf edit 0012 --tag nlp,transformers
  papershelf edit 0012 --tag ""`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u := fields.update(cmd)
			before, err := mustGet(cmd, args[0])
			if err != nil {
				return err
			}
			a, err := articles.Update(cmd.Context(), args[0], u)
			if err != nil {
				return err
			}
			ok("Updated %s  %s", a.ID, a.Title)
			if before.FileBaseName != a.FileBaseName {
				fmt.Printf("  New documents are stored as %q; existing ones keep their name.\n", a.FileBaseName)
			}
			return nil
		},
	}

	fields.register(cmd, "")
	return cmd
}
