package app

import (
	"context"
	"fmt"

	"github.com/blackwell-systems/papershelf/internal/files"
	"github.com/blackwell-systems/papershelf/internal/ingest"
	"github.com/blackwell-systems/papershelf/internal/library"
	"github.com/spf13/cobra"
)

func newAddCmd() *cobra.Command {
	var (
		fields   articleFlags
		pdfPath  string
		notePath string
		fromPDF  string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an article to the library",
		Long: `Add an article to the library.

Title, abstract, year, date and language are required. Authors, keywords,
subjects, tags, universities and companies are created on first use.

Examples:
  papershelf add --title "Attention Is All You Need" --author "Ashish Vaswani" \
    --abstract "..." --year 2017 --date 2017-06-12 --pdf ~/Downloads/1706.03762.pdf

  # Take title, authors and keywords from the PDF's document info
  papershelf add --from-pdf paper.pdf --abstract "..." --year 2017 --date 2017-06-12`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			in := fields.newArticle()

			if fromPDF != "" {
				meta, err := ingest.ExtractPDFMetadata(fromPDF)
				if err != nil {
					return fmt.Errorf("reading %s: %w", fromPDF, err)
				}
				prefill(&in, meta)
				if pdfPath == "" {
					pdfPath = fromPDF
				}
			}

			var pdf *ingest.Document
			if pdfPath != "" {
				doc, err := readDocument(pdfPath)
				if err != nil {
					return err
				}
				pdf = doc
				if in.PageCount == 0 {
					in.PageCount = pageCount(doc)
				}
			}

			a, err := articles.Create(ctx, in)
			if err != nil {
				return err
			}
			ok("Added %s  %s", a.ID, a.Title)

			if pdf != nil {
				if err := storeDocument(ctx, a, files.PDF, pdf); err != nil {
					return err
				}
			}
			if notePath != "" {
				doc, err := readDocument(notePath)
				if err != nil {
					return err
				}
				if err := storeDocument(ctx, a, files.Note, doc); err != nil {
					return err
				}
			}
			return nil
		},
	}

	fields.register(cmd, "en")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "PDF file or URL to attach")
	cmd.Flags().StringVar(&notePath, "note", "", "Notes document (.docx) to attach")
	cmd.Flags().StringVar(&fromPDF, "from-pdf", "", "Prefill title, authors and keywords from this PDF and attach it")
	return cmd
}

// prefill copies PDF document info into fields the user left empty.
func prefill(in *library.NewArticle, meta *ingest.PDFMetadata) {
	if in.Title == "" {
		in.Title = meta.Title
	}
	if len(in.Authors) == 0 {
		in.Authors = meta.Authors()
	}
	if len(in.Keywords) == 0 {
		in.Keywords = meta.KeywordList()
	}
	if len(in.Subjects) == 0 && meta.Subject != "" {
		in.Subjects = []string{meta.Subject}
	}
	if in.PageCount == 0 {
		in.PageCount = meta.Pages
	}
}

func readDocument(input string) (*ingest.Document, error) {
	src, err := ingest.Resolve(input)
	if err != nil {
		return nil, err
	}
	return src.Read()
}

// pageCount returns the page count of a PDF document, or 0 when it cannot
// be read.
func pageCount(doc *ingest.Document) int {
	meta, err := ingest.InspectPDF(doc.Data)
	if err != nil {
		return 0
	}
	return meta.Pages
}

func storeDocument(ctx context.Context, a library.Article, k files.Kind, doc *ingest.Document) error {
	name, err := fileMgr.Store(ctx, k, a.ID, a.Title, doc.Data)
	if err != nil {
		return err
	}
	ok("%s", storedSummary(name, doc))
	return nil
}

// storedSummary describes a stored document by name, size and the
// checksum of the bytes that were read from the source.
func storedSummary(name string, doc *ingest.Document) string {
	sum := doc.SHA256
	if len(sum) > 12 {
		sum = sum[:12]
	}
	return fmt.Sprintf("Stored %s (%s, sha256 %s)", name, humanBytes(int64(len(doc.Data))), sum)
}
