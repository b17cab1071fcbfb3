package app

import (
	"fmt"
	"strings"

	"github.com/blackwell-systems/papershelf/internal/library"
	"github.com/spf13/cobra"
)

func newVocabCmd() *cobra.Command {
	var asJSON bool

	kinds := make([]string, 0, len(library.Kinds()))
	for _, k := range library.Kinds() {
		kinds = append(kinds, k.String())
	}

	cmd := &cobra.Command{
		Use:       "vocab <kind>",
		Short:     "List every known author, keyword, subject, tag, university or company",
		Long:      "List the vocabulary of one classification kind: " + strings.Join(kinds, ", ") + ".",
		Args:      cobra.ExactArgs(1),
		ValidArgs: kinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := library.ParseKind(args[0])
			if err != nil {
				return err
			}
			list, err := entities.List(cmd.Context(), k)
			if err != nil {
				return err
			}
			if asJSON {
				if list == nil {
					list = []library.Entity{}
				}
				return printJSON(list)
			}
			for _, e := range list {
				fmt.Println(e.Name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
