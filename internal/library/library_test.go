package library_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/blackwell-systems/papershelf/internal/library"
	"github.com/blackwell-systems/papershelf/internal/store"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "library.db"), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sample(title string, authors ...string) library.NewArticle {
	return library.NewArticle{
		Title:    title,
		Abstract: "An abstract.",
		Year:     2021,
		Date:     "2021-05-01",
		Language: "en",
		Authors:  authors,
	}
}

func mustCreate(t *testing.T, repo *library.Articles, in library.NewArticle) library.Article {
	t.Helper()
	a, err := repo.Create(context.Background(), in)
	require.NoError(t, err)
	return a
}
