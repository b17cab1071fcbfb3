package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/blackwell-systems/papershelf/internal/files"
	"github.com/blackwell-systems/papershelf/internal/library"
	"github.com/blackwell-systems/papershelf/internal/notes"
	"github.com/blackwell-systems/papershelf/internal/util"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newInfoCmd() *cobra.Command {
	var (
		asJSON bool
		asYAML bool
	)

	cmd := &cobra.Command{
		Use:   "info <id>",
		Short: "Show an article with its classifications and documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := mustGet(cmd, args[0])
			if err != nil {
				return err
			}
			switch {
			case asJSON:
				return printJSON(a)
			case asYAML:
				return printYAML(a)
			}

			header("Article %s", a.ID)
			printField("title", a.Title)
			for _, k := range library.Kinds() {
				if names := a.Names(k); len(names) > 0 {
					printField(k.String()+"s", strings.Join(names, notes.ListSeparator))
				}
			}
			printField("year", strconv.Itoa(a.Year))
			printField("date", a.Date)
			printField("language", a.Language)
			optional := []struct{ label, value string }{
				{"journal", a.Journal},
				{"doi", a.DOI},
				{"research question", a.ResearchQuestion},
				{"methodology", a.Methodology},
				{"data used", a.DataUsed},
				{"results", a.Results},
				{"limitations", a.Limitations},
				{"conclusion", a.Conclusion},
				{"first impression", a.FirstImpression},
				{"comment", a.Comment},
			}
			for _, f := range optional {
				if f.value != "" {
					printField(f.label, f.value)
				}
			}
			if a.PageCount > 0 {
				printField("pages", strconv.Itoa(a.PageCount))
			}
			printField("rating", notes.Stars(a.Rating))
			printField("read", yesNo(a.Read))
			printField("favorite", yesNo(a.Favorite))
			printField("added", a.CreatedAt.Local().Format("2006-01-02 15:04"))

			fmt.Println()
			printField("abstract", a.Abstract)
			if a.Notes != "" {
				printField("notes", a.Notes)
			}

			fmt.Println()
			for _, k := range files.Kinds() {
				status, p := documentStatus(cmd.Context(), k, a.ID)
				printField(k.String(), status)
				if k == files.PDF && p != "" {
					if sum, err := util.SHA256File(p); err == nil {
						printField("sha256", sum)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Output as YAML")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")
	return cmd
}

// documentStatus describes the stored kind-k document of id and returns
// its path when it exists.
func documentStatus(ctx context.Context, k files.Kind, id string) (string, string) {
	p, err := fileMgr.Locate(ctx, k, id)
	if errors.Is(err, files.ErrNotFound) {
		return color.RedString("missing"), ""
	}
	if err != nil {
		return color.RedString(err.Error()), ""
	}
	status := color.GreenString("stored") + "  " + p
	if fi, err := os.Stat(p); err == nil {
		status += "  " + humanBytes(fi.Size())
	}
	return status, p
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
