// Package notes flattens an article into the key/value map consumed by
// note templates.
package notes

import (
	"strconv"
	"strings"
	"time"

	"github.com/blackwell-systems/papershelf/internal/library"
)

// ListSeparator joins collection names.
const ListSeparator = "; "

// Renderer turns fields and a template document into note bytes.
type Renderer interface {
	Render(fields map[string]string, template []byte) ([]byte, error)
}

// Fields returns every scalar field of a plus its joined collections.
func Fields(a library.Article) map[string]string {
	f := map[string]string{
		"id":                a.ID,
		"title":             a.Title,
		"abstract":          a.Abstract,
		"conclusion":        a.Conclusion,
		"year":              strconv.Itoa(a.Year),
		"date":              a.Date,
		"journal":           a.Journal,
		"doi":               a.DOI,
		"language":          a.Language,
		"page_count":        pageCount(a.PageCount),
		"research_question": a.ResearchQuestion,
		"methodology":       a.Methodology,
		"data_used":         a.DataUsed,
		"results":           a.Results,
		"limitations":       a.Limitations,
		"first_impression":  a.FirstImpression,
		"notes":             a.Notes,
		"comment":           a.Comment,
		"rating":            Stars(a.Rating),
		"read":              yesNo(a.Read),
		"favorite":          yesNo(a.Favorite),
		"file_base_name":    a.FileBaseName,
		"created_at":        a.CreatedAt.Format(time.RFC3339),
		"updated_at":        a.UpdatedAt.Format(time.RFC3339),
	}
	for _, k := range library.Kinds() {
		f[pluralKey(k)] = strings.Join(a.Names(k), ListSeparator)
	}
	return f
}

// Stars renders a 0-5 rating as filled and empty stars.
func Stars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func pageCount(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func pluralKey(k library.Kind) string {
	switch k {
	case library.KindUniversity:
		return "universities"
	case library.KindCompany:
		return "companies"
	}
	return k.String() + "s"
}
