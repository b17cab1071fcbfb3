package app

import (
	"fmt"
	"strings"

	"github.com/blackwell-systems/papershelf/internal/library"
	"github.com/blackwell-systems/papershelf/internal/notes"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var (
		filter Filter
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List articles",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := articles.List(cmd.Context())
			if err != nil {
				return err
			}
			matched := filter.Apply(all)

			if asJSON {
				if matched == nil {
					matched = []library.Article{}
				}
				return printJSON(matched)
			}
			if len(matched) == 0 {
				fmt.Println("No articles found.")
				return nil
			}

			for _, a := range matched {
				marks := ""
				if a.Favorite {
					marks += color.YellowString(" ★")
				}
				if !a.Read {
					marks += color.CyanString(" •")
				}
				authors := strings.Join(a.Names(library.KindAuthor), notes.ListSeparator)
				fmt.Printf("%s  %s%s\n", color.CyanString(a.ID), a.Title, marks)
				if authors != "" {
					fmt.Printf("      %s (%d)\n", color.HiBlackString(authors), a.Year)
				} else {
					fmt.Printf("      %s\n", color.HiBlackString(fmt.Sprintf("(%d)", a.Year)))
				}
			}
			fmt.Printf("\n%d of %d articles\n", len(matched), len(all))
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.Tag, "tag", "", "Only articles with this tag")
	cmd.Flags().StringVar(&filter.Search, "search", "", "Search titles, authors and keywords")
	cmd.Flags().BoolVar(&filter.Favorite, "favorite", false, "Only favorites")
	cmd.Flags().BoolVar(&filter.Unread, "unread", false, "Only unread articles")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
