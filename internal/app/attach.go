package app

import (
	"fmt"

	"github.com/blackwell-systems/papershelf/internal/files"
	"github.com/blackwell-systems/papershelf/internal/ingest"
	"github.com/blackwell-systems/papershelf/internal/library"
	"github.com/spf13/cobra"
)

func newAttachCmd() *cobra.Command {
	var kindName string

	cmd := &cobra.Command{
		Use:   "attach <id> <file|url>",
		Short: "Store a PDF or notes document for an article",
		Long: `Store a PDF or notes document for an article under the current naming
scheme, replacing any existing document of that kind. When the external mirror
is enabled the file is copied there too.

Attaching a PDF to an article without a page count fills it in.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			k, err := files.ParseKind(kindName)
			if err != nil {
				return err
			}
			a, err := mustGet(cmd, args[0])
			if err != nil {
				return err
			}

			doc, err := readDocument(args[1])
			if err != nil {
				return err
			}
			if k == files.PDF {
				meta, err := ingest.InspectPDF(doc.Data)
				if err != nil {
					return fmt.Errorf("%s: %w", doc.Name, err)
				}
				if a.PageCount == 0 && meta.Pages > 0 {
					a, err = articles.Update(ctx, a.ID, library.ArticleUpdate{PageCount: library.Some(meta.Pages)})
					if err != nil {
						return err
					}
					ok("Page count set to %d", a.PageCount)
				}
			}
			return storeDocument(ctx, a, k, doc)
		},
	}

	cmd.Flags().StringVar(&kindName, "kind", "pdf", "Document kind: pdf or note")
	return cmd
}

// mustGet loads an article, turning a missing id into library.ErrNotFound.
func mustGet(cmd *cobra.Command, id string) (library.Article, error) {
	a, found, err := articles.Get(cmd.Context(), id)
	if err != nil {
		return library.Article{}, err
	}
	if !found {
		return library.Article{}, fmt.Errorf("%w: %s", library.ErrNotFound, id)
	}
	return a, nil
}
