package app

import (
	"strings"

	"github.com/blackwell-systems/papershelf/internal/library"
)

// Filter applies all non-empty criteria and returns matching articles.
type Filter struct {
	Tag      string
	Search   string // matches title, authors or keywords
	Favorite bool
	Unread   bool
}

// Apply returns the subset of articles matching every set field.
func (f Filter) Apply(list []library.Article) []library.Article {
	var out []library.Article
	for _, a := range list {
		if f.Tag != "" && !hasName(a.Tags, f.Tag) {
			continue
		}
		if f.Favorite && !a.Favorite {
			continue
		}
		if f.Unread && a.Read {
			continue
		}
		if f.Search != "" && !matchesSearch(a, f.Search) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func hasName(list []library.Entity, name string) bool {
	for _, e := range list {
		if strings.EqualFold(e.Name, name) {
			return true
		}
	}
	return false
}

func matchesSearch(a library.Article, q string) bool {
	q = strings.ToLower(q)
	if strings.Contains(strings.ToLower(a.Title), q) {
		return true
	}
	for _, k := range []library.Kind{library.KindAuthor, library.KindKeyword} {
		for _, name := range a.Names(k) {
			if strings.Contains(strings.ToLower(name), q) {
				return true
			}
		}
	}
	return false
}
