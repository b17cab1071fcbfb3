package library_test

import (
	"context"
	"sync"
	"testing"

	"github.com/blackwell-systems/papershelf/internal/library"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	k, err := library.ParseKind("Authors")
	require.NoError(t, err)
	assert.Equal(t, library.KindAuthor, k)

	k, err = library.ParseKind("university")
	require.NoError(t, err)
	assert.Equal(t, library.KindUniversity, k)

	_, err = library.ParseKind("publisher")
	assert.ErrorIs(t, err, library.ErrValidation)
	assert.Len(t, library.Kinds(), 6)
}

func TestGetOrCreate_Idempotent(t *testing.T) {
	ents := library.NewEntities(openStore(t))
	ctx := context.Background()

	a, err := ents.GetOrCreate(ctx, library.KindKeyword, "  graphs ")
	require.NoError(t, err)
	assert.Equal(t, "graphs", a.Name)

	b, err := ents.GetOrCreate(ctx, library.KindKeyword, "graphs")
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)

	// Case-sensitive: a different entity.
	c, err := ents.GetOrCreate(ctx, library.KindKeyword, "Graphs")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, c.ID)

	// Same name, different kind: independent vocabularies.
	d, err := ents.GetOrCreate(ctx, library.KindTag, "graphs")
	require.NoError(t, err)
	assert.Equal(t, "graphs", d.Name)

	list, err := ents.List(ctx, library.KindKeyword)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestGetOrCreate_RejectsEmpty(t *testing.T) {
	ents := library.NewEntities(openStore(t))

	_, err := ents.GetOrCreate(context.Background(), library.KindAuthor, "   ")
	var verr *library.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "author", verr.Field)
	assert.ErrorIs(t, err, library.ErrValidation)
}

func TestGetOrCreate_Concurrent(t *testing.T) {
	ents := library.NewEntities(openStore(t))
	ctx := context.Background()

	const n = 8
	ids := make([]uint, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e, err := ents.GetOrCreate(ctx, library.KindSubject, "Economics")
			ids[i], errs[i] = e.ID, err
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
}

func TestLinkAndReplaceLinks(t *testing.T) {
	s := openStore(t)
	repo := library.NewArticles(s)
	ents := library.NewEntities(s)
	ctx := context.Background()

	a := mustCreate(t, repo, sample("Linked", "Author"))
	e, err := ents.GetOrCreate(ctx, library.KindTag, "todo")
	require.NoError(t, err)

	require.NoError(t, ents.Link(ctx, library.KindTag, a.ID, e.ID))
	require.NoError(t, ents.Link(ctx, library.KindTag, a.ID, e.ID))

	got, _, err := repo.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"todo"}, got.Names(library.KindTag))

	require.NoError(t, ents.ReplaceLinks(ctx, library.KindTag, a.ID, []string{"done", "cited"}))
	got, _, err = repo.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"done", "cited"}, got.Names(library.KindTag))

	// The replaced entity survives as an orphan.
	tags, err := ents.List(ctx, library.KindTag)
	require.NoError(t, err)
	assert.Len(t, tags, 3)
}

func TestLink_UnknownArticle(t *testing.T) {
	ents := library.NewEntities(openStore(t))
	ctx := context.Background()

	e, err := ents.GetOrCreate(ctx, library.KindAuthor, "Nobody")
	require.NoError(t, err)
	assert.Error(t, ents.Link(ctx, library.KindAuthor, "9999", e.ID))
}
