package app

import (
	"github.com/blackwell-systems/papershelf/internal/notes"
	"github.com/spf13/cobra"
)

func newFieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields <id>",
		Short: "Print the note-template fields of an article as JSON",
		Long: `Print the flattened key/value map used to fill note templates:
every scalar field, collections joined with "; ", the rating as stars and
read/favorite as Yes/No.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := mustGet(cmd, args[0])
			if err != nil {
				return err
			}
			return printJSON(notes.Fields(a))
		},
	}
}
