package files

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
)

// MaxTitleRunes bounds the title part of a file name.
const MaxTitleRunes = 100

// Kind is a document type stored per article.
type Kind int

const (
	PDF Kind = iota
	Note
)

// Kinds returns every document kind.
func Kinds() []Kind { return []Kind{PDF, Note} }

func (k Kind) String() string {
	if k == Note {
		return "note"
	}
	return "pdf"
}

// Ext returns the file extension including the dot.
func (k Kind) Ext() string {
	if k == Note {
		return ".docx"
	}
	return ".pdf"
}

// Subdir returns the directory name under a storage root.
func (k Kind) Subdir() string {
	if k == Note {
		return "notes"
	}
	return "pdfs"
}

// ParseKind accepts "pdf" or "note" (or "notes", "docx").
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pdf", "pdfs", "":
		return PDF, nil
	case "note", "notes", "docx":
		return Note, nil
	}
	return PDF, fmt.Errorf("unknown file kind %q (want pdf or note)", s)
}

// Sanitize makes title safe for use in a file name: characters that are
// illegal on common filesystems become "-", runs of whitespace collapse to
// one space, trailing dots and spaces are trimmed, and the result is
// capped at MaxTitleRunes.
func Sanitize(title string) string {
	var b strings.Builder
	space := false
	for _, r := range title {
		switch {
		case strings.ContainsRune(`<>:"/\|?*`, r) || unicode.IsControl(r) && !unicode.IsSpace(r):
			b.WriteRune('-')
			space = false
		case unicode.IsSpace(r):
			if !space {
				b.WriteRune(' ')
			}
			space = true
		default:
			b.WriteRune(r)
			space = false
		}
	}
	s := strings.TrimSpace(b.String())
	if runes := []rune(s); len(runes) > MaxTitleRunes {
		s = string(runes[:MaxTitleRunes])
	}
	return strings.TrimRight(s, ". ")
}

// BaseName is the current naming scheme: "{id} - {title}", or the bare id
// when nothing of the title survives sanitization.
func BaseName(id, title string) string {
	t := Sanitize(title)
	if t == "" {
		return id
	}
	return id + " - " + t
}

// LegacyName is the old bare-id naming scheme.
func LegacyName(id string) string { return id }

// candidateFunc lists file names, in a directory, that may hold the
// document for id. title is empty when the article is unknown.
type candidateFunc func(dir, id, title, ext string) []string

// lookupOrder is tried in sequence by Locate and collected by Remove.
var lookupOrder = []candidateFunc{currentScheme, legacyScheme, renamedTitleScheme}

func currentScheme(_, id, title, ext string) []string {
	if title == "" {
		return nil
	}
	return []string{BaseName(id, title) + ext}
}

func legacyScheme(_, id, _, ext string) []string {
	return []string{LegacyName(id) + ext}
}

// renamedTitleScheme finds files stored under an earlier title.
func renamedTitleScheme(dir, id, _, ext string) []string {
	matches, err := filepath.Glob(filepath.Join(dir, escapeGlob(id+" - ")+"*"+ext))
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, filepath.Base(m))
	}
	sort.Strings(names)
	return names
}

// candidates returns the distinct candidate names for id in lookup order.
func candidates(dir, id, title, ext string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, gen := range lookupOrder {
		for _, name := range gen(dir, id, title, ext) {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out
}

// mirrorCandidates is candidates for a mirror: the current and legacy
// names, plus every "{id} - *" file the mirror lists. On a list error the
// fixed names are still returned.
func mirrorCandidates(ctx context.Context, mr Mirror, k Kind, id, title string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(names []string) {
		for _, name := range names {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	add(currentScheme("", id, title, k.Ext()))
	add(legacyScheme("", id, title, k.Ext()))

	listed, err := mr.List(ctx, k.Subdir(), id+" - ")
	if err != nil {
		return out, err
	}
	var matching []string
	for _, name := range listed {
		if strings.HasSuffix(name, k.Ext()) {
			matching = append(matching, name)
		}
	}
	sort.Strings(matching)
	add(matching)
	return out, nil
}

func escapeGlob(s string) string {
	r := strings.NewReplacer(`*`, `\*`, `?`, `\?`, `[`, `\[`, `\`, `\\`)
	return r.Replace(s)
}
