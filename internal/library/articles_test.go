package library_test

import (
	"context"
	"testing"
	"time"

	"github.com/blackwell-systems/papershelf/internal/library"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGet(t *testing.T) {
	repo := library.NewArticles(openStore(t))
	ctx := context.Background()

	in := sample("  Foo Bar ", "A. Doe", "B. Roe")
	in.Keywords = []string{"graphs", "graphs", "flows"}
	in.Universities = []string{"MIT"}
	in.Rating = 4
	in.Favorite = true
	in.DOI = "10.1000/xyz"

	a := mustCreate(t, repo, in)
	assert.Equal(t, "0001", a.ID)
	assert.Equal(t, "Foo Bar", a.Title)
	assert.Equal(t, "0001 - Foo Bar", a.FileBaseName)
	assert.Equal(t, []string{"A. Doe", "B. Roe"}, a.Names(library.KindAuthor))
	assert.Equal(t, []string{"graphs", "flows"}, a.Names(library.KindKeyword))
	assert.Equal(t, []string{"MIT"}, a.Names(library.KindUniversity))
	assert.Empty(t, a.Companies)
	assert.NotNil(t, a.Companies)
	assert.Equal(t, 4, a.Rating)
	assert.True(t, a.Favorite)
	assert.False(t, a.Read)
	assert.Empty(t, a.Journal)
	assert.False(t, a.CreatedAt.IsZero())

	got, ok, err := repo.Get(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, a.Title, got.Title)
	assert.Equal(t, a.DOI, got.DOI)
	assert.Equal(t, a.Names(library.KindKeyword), got.Names(library.KindKeyword))
}

func TestGet_Missing(t *testing.T) {
	repo := library.NewArticles(openStore(t))

	_, ok, err := repo.Get(context.Background(), "0042")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreate_Validation(t *testing.T) {
	repo := library.NewArticles(openStore(t))
	ctx := context.Background()

	cases := []struct {
		name  string
		field string
		edit  func(*library.NewArticle)
	}{
		{"empty title", "title", func(n *library.NewArticle) { n.Title = "  " }},
		{"no abstract", "abstract", func(n *library.NewArticle) { n.Abstract = "" }},
		{"zero year", "year", func(n *library.NewArticle) { n.Year = 0 }},
		{"no date", "date", func(n *library.NewArticle) { n.Date = "" }},
		{"no language", "language", func(n *library.NewArticle) { n.Language = "" }},
		{"rating too high", "rating", func(n *library.NewArticle) { n.Rating = 6 }},
		{"negative rating", "rating", func(n *library.NewArticle) { n.Rating = -1 }},
		{"blank keyword", "keyword", func(n *library.NewArticle) { n.Keywords = []string{"ok", " "} }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			in := sample("Valid", "Author")
			c.edit(&in)
			_, err := repo.Create(ctx, in)
			var verr *library.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, c.field, verr.Field)
			assert.ErrorIs(t, err, library.ErrValidation)
		})
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "validation failures must not write")
}

func TestCreate_DuplicateGuard(t *testing.T) {
	repo := library.NewArticles(openStore(t))
	ctx := context.Background()

	mustCreate(t, repo, sample("Foo Bar", "A. Doe", "B. Roe"))

	// Same title and author set, different order.
	_, err := repo.Create(ctx, sample("Foo Bar ", "B. Roe", "A. Doe"))
	assert.ErrorIs(t, err, library.ErrDuplicateArticle)
	assert.ErrorIs(t, err, library.ErrValidation)

	// Different author set: allowed.
	mustCreate(t, repo, sample("Foo Bar", "A. Doe"))
	// Different title: allowed.
	mustCreate(t, repo, sample("Foo Baz", "A. Doe", "B. Roe"))
	// No authors at all, twice.
	mustCreate(t, repo, sample("Untitled"))
	_, err = repo.Create(ctx, sample("Untitled"))
	assert.ErrorIs(t, err, library.ErrDuplicateArticle)
}

func TestCreate_RepeatedAuthorCountsOnce(t *testing.T) {
	repo := library.NewArticles(openStore(t))
	ctx := context.Background()

	a := mustCreate(t, repo, sample("Solo", "A. Doe", " A. Doe"))
	assert.Equal(t, []string{"A. Doe"}, a.Names(library.KindAuthor))

	_, err := repo.Create(ctx, sample("Solo", "A. Doe"))
	assert.ErrorIs(t, err, library.ErrDuplicateArticle)
	_, err = repo.Create(ctx, sample("Solo", "A. Doe", "A. Doe", "A. Doe"))
	assert.ErrorIs(t, err, library.ErrDuplicateArticle)
}

func TestUpdate_EmptyPayloadTouchesOnlyTimestamp(t *testing.T) {
	repo := library.NewArticles(openStore(t))
	ctx := context.Background()

	in := sample("Stable", "Author")
	in.Keywords = []string{"k1", "k2"}
	in.Notes = "some notes"
	a := mustCreate(t, repo, in)
	before, _, err := repo.Get(ctx, a.ID)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	after, err := repo.Update(ctx, a.ID, library.ArticleUpdate{})
	require.NoError(t, err)

	assert.True(t, after.UpdatedAt.After(before.UpdatedAt), "updated_at must move forward")
	assert.True(t, after.CreatedAt.Equal(before.CreatedAt))
	before.UpdatedAt, after.UpdatedAt = time.Time{}, time.Time{}
	before.CreatedAt, after.CreatedAt = time.Time{}, time.Time{}
	assert.Equal(t, before, after)
}

func TestUpdate_Scalars(t *testing.T) {
	repo := library.NewArticles(openStore(t))
	ctx := context.Background()

	in := sample("Old Title", "Author")
	in.Journal = "Nature"
	a := mustCreate(t, repo, in)

	got, err := repo.Update(ctx, a.ID, library.ArticleUpdate{
		Title:     library.Some("New Title"),
		Journal:   library.Some(""), // explicitly cleared
		Rating:    library.Some(5),
		Read:      library.Some(true),
		PageCount: library.Some(12),
	})
	require.NoError(t, err)
	assert.Equal(t, "New Title", got.Title)
	assert.Equal(t, "0001 - New Title", got.FileBaseName)
	assert.Empty(t, got.Journal)
	assert.Equal(t, 5, got.Rating)
	assert.True(t, got.Read)
	assert.Equal(t, 12, got.PageCount)
	assert.Equal(t, in.Abstract, got.Abstract)
	assert.Equal(t, []string{"Author"}, got.Names(library.KindAuthor))
}

func TestUpdate_ReplacesCollections(t *testing.T) {
	repo := library.NewArticles(openStore(t))
	ctx := context.Background()

	in := sample("Coll", "Author")
	in.Keywords = []string{"old1", "old2"}
	in.Tags = []string{"keep"}
	a := mustCreate(t, repo, in)

	got, err := repo.Update(ctx, a.ID, library.ArticleUpdate{
		Keywords: library.Some([]string{"new"}),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, got.Names(library.KindKeyword))
	assert.Equal(t, []string{"keep"}, got.Names(library.KindTag))

	// Set to an empty list clears the collection.
	got, err = repo.Update(ctx, a.ID, library.ArticleUpdate{Tags: library.Some([]string{})})
	require.NoError(t, err)
	assert.Empty(t, got.Tags)
}

func TestUpdate_Errors(t *testing.T) {
	repo := library.NewArticles(openStore(t))
	ctx := context.Background()
	a := mustCreate(t, repo, sample("Err", "Author"))

	_, err := repo.Update(ctx, "0999", library.ArticleUpdate{})
	assert.ErrorIs(t, err, library.ErrNotFound)

	_, err = repo.Update(ctx, a.ID, library.ArticleUpdate{Title: library.Some(" ")})
	assert.ErrorIs(t, err, library.ErrValidation)

	_, err = repo.Update(ctx, a.ID, library.ArticleUpdate{Rating: library.Some(9)})
	assert.ErrorIs(t, err, library.ErrValidation)

	got, _, err := repo.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Err", got.Title)
}

func TestDelete_CascadesLinksKeepsEntities(t *testing.T) {
	s := openStore(t)
	repo := library.NewArticles(s)
	ents := library.NewEntities(s)
	ctx := context.Background()

	in := sample("Foo Bar", "A. Doe")
	in.Keywords = []string{"k"}
	a := mustCreate(t, repo, in)
	mustCreate(t, repo, sample("Other", "A. Doe"))

	require.NoError(t, repo.Delete(ctx, a.ID))

	_, ok, err := repo.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	var links int64
	require.NoError(t, s.DB().Table("article_authors").Where("article_id = ?", a.ID).Count(&links).Error)
	assert.Zero(t, links)
	require.NoError(t, s.DB().Table("article_keywords").Where("article_id = ?", a.ID).Count(&links).Error)
	assert.Zero(t, links)

	authors, err := ents.List(ctx, library.KindAuthor)
	require.NoError(t, err)
	assert.Len(t, authors, 1)
	keywords, err := ents.List(ctx, library.KindKeyword)
	require.NoError(t, err)
	assert.Len(t, keywords, 1, "orphaned entities are kept")

	assert.ErrorIs(t, repo.Delete(ctx, a.ID), library.ErrNotFound)
}

func TestListAndTitles(t *testing.T) {
	repo := library.NewArticles(openStore(t))
	ctx := context.Background()

	one := sample("One", "X")
	one.Tags = []string{"t1"}
	mustCreate(t, repo, one)
	mustCreate(t, repo, sample("Two", "Y", "Z"))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "0001", all[0].ID)
	assert.Equal(t, []string{"t1"}, all[0].Names(library.KindTag))
	assert.Equal(t, []string{"Y", "Z"}, all[1].Names(library.KindAuthor))

	titles, err := repo.Titles(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"0001": "One", "0002": "Two"}, titles)

	title, ok, err := repo.TitleOf(ctx, "0002")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Two", title)

	_, ok, err = repo.TitleOf(ctx, "0003")
	require.NoError(t, err)
	assert.False(t, ok)
}
