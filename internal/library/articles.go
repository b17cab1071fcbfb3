package library

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/blackwell-systems/papershelf/internal/files"
	"github.com/blackwell-systems/papershelf/internal/store"
	"gorm.io/gorm"
)

// Articles is the article repository. Every multi-table write runs in one
// transaction.
type Articles struct {
	store    *store.Store
	ids      *Allocator
	entities *Entities
	now      func() time.Time
}

// NewArticles returns a repository bound to s.
func NewArticles(s *store.Store) *Articles {
	return &Articles{
		store:    s,
		ids:      NewAllocator(s),
		entities: NewEntities(s),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Get returns the article with the given id. The bool is false when no
// such article exists.
func (r *Articles) Get(ctx context.Context, id string) (Article, bool, error) {
	return r.get(r.store.DB().WithContext(ctx), id)
}

func (r *Articles) get(db *gorm.DB, id string) (Article, bool, error) {
	var m store.ArticleModel
	if err := db.Take(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Article{}, false, nil
		}
		return Article{}, false, fmt.Errorf("get article %s: %w", id, err)
	}
	a := articleFromModel(m)
	for _, k := range Kinds() {
		rows, err := linked(db, k, []string{id})
		if err != nil {
			return Article{}, false, err
		}
		coll := a.collection(k)
		for _, row := range rows {
			*coll = append(*coll, Entity{ID: row.ID, Name: row.Name})
		}
	}
	return a, true, nil
}

// List returns every article with its collections, ordered by id.
func (r *Articles) List(ctx context.Context) ([]Article, error) {
	db := r.store.DB().WithContext(ctx)

	var models []store.ArticleModel
	if err := db.Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	out := make([]Article, len(models))
	index := make(map[string]int, len(models))
	for i, m := range models {
		out[i] = articleFromModel(m)
		index[m.ID] = i
	}

	for _, k := range Kinds() {
		rows, err := linked(db, k, nil)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			i, ok := index[row.ArticleID]
			if !ok {
				continue
			}
			coll := out[i].collection(k)
			*coll = append(*coll, Entity{ID: row.ID, Name: row.Name})
		}
	}
	return out, nil
}

// Create validates in, rejects duplicates, and stores the article with
// its collections. The new id is consumed only if the article commits.
func (r *Articles) Create(ctx context.Context, in NewArticle) (Article, error) {
	normalizeNew(&in)
	if err := validateNew(&in); err != nil {
		return Article{}, err
	}

	var id string
	err := r.store.Transaction(ctx, func(tx *gorm.DB) error {
		dup, err := isDuplicate(tx, in.Title, in.Authors)
		if err != nil {
			return err
		}
		if dup {
			return ErrDuplicateArticle
		}

		id, err = r.ids.next(tx)
		if err != nil {
			return err
		}
		m := in.model(id, files.BaseName(id, in.Title), r.now())
		if err := tx.Create(&m).Error; err != nil {
			return fmt.Errorf("insert article %s: %w", id, err)
		}
		for _, k := range Kinds() {
			if err := r.entities.linkNamesTx(tx, k, id, in.names(k)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Article{}, err
	}

	a, _, err := r.Get(ctx, id)
	return a, err
}

// Update applies the set fields of u. updated_at is refreshed even when
// nothing else is set.
func (r *Articles) Update(ctx context.Context, id string, u ArticleUpdate) (Article, error) {
	normalizeUpdate(&u)
	if err := validateUpdate(&u); err != nil {
		return Article{}, err
	}

	err := r.store.Transaction(ctx, func(tx *gorm.DB) error {
		var cur store.ArticleModel
		if err := tx.Take(&cur, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrNotFound, id)
			}
			return fmt.Errorf("update article %s: %w", id, err)
		}

		fields := map[string]any{"updated_at": r.now()}
		if title, ok := u.Title.Get(); ok {
			fields["title"] = title
			fields["file_base_name"] = files.BaseName(id, title)
		}
		setField(fields, "abstract", u.Abstract)
		setField(fields, "conclusion", u.Conclusion)
		setField(fields, "year", u.Year)
		setField(fields, "date", u.Date)
		setField(fields, "journal", u.Journal)
		setField(fields, "doi", u.DOI)
		setField(fields, "language", u.Language)
		setField(fields, "page_count", u.PageCount)
		setField(fields, "research_question", u.ResearchQuestion)
		setField(fields, "methodology", u.Methodology)
		setField(fields, "data_used", u.DataUsed)
		setField(fields, "results", u.Results)
		setField(fields, "limitations", u.Limitations)
		setField(fields, "first_impression", u.FirstImpression)
		setField(fields, "notes", u.Notes)
		setField(fields, "comment", u.Comment)
		setField(fields, "rating", u.Rating)
		setField(fields, "read", u.Read)
		setField(fields, "favorite", u.Favorite)

		if err := tx.Model(&store.ArticleModel{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return fmt.Errorf("update article %s: %w", id, err)
		}

		for _, k := range Kinds() {
			if names, ok := u.names(k).Get(); ok {
				if err := r.entities.ReplaceLinksTx(tx, k, id, names); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return Article{}, err
	}

	a, _, err := r.Get(ctx, id)
	return a, err
}

// Delete removes the article row; its links go with it. Files are the
// caller's concern.
func (r *Articles) Delete(ctx context.Context, id string) error {
	res := r.store.DB().WithContext(ctx).Delete(&store.ArticleModel{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete article %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// TitleOf returns the title of one article.
func (r *Articles) TitleOf(ctx context.Context, id string) (string, bool, error) {
	var m store.ArticleModel
	err := r.store.DB().WithContext(ctx).Select("id", "title").Take(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("title of %s: %w", id, err)
	}
	return m.Title, true, nil
}

// Titles maps every article id to its title.
func (r *Articles) Titles(ctx context.Context) (map[string]string, error) {
	var models []store.ArticleModel
	if err := r.store.DB().WithContext(ctx).Select("id", "title").Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}
	out := make(map[string]string, len(models))
	for _, m := range models {
		out[m.ID] = m.Title
	}
	return out, nil
}

func setField[T any](fields map[string]any, column string, o Optional[T]) {
	if v, ok := o.Get(); ok {
		fields[column] = v
	}
}

// isDuplicate reports whether an article with this exact title and the
// same set of authors exists. authors has already been through cleanNames,
// so a repeated name counts once.
func isDuplicate(tx *gorm.DB, title string, authors []string) (bool, error) {
	var ids []string
	if err := tx.Model(&store.ArticleModel{}).Where("title = ?", title).Pluck("id", &ids).Error; err != nil {
		return false, fmt.Errorf("duplicate check: %w", err)
	}
	if len(ids) == 0 {
		return false, nil
	}

	want := slices.Clone(authors)
	slices.Sort(want)

	rows, err := linked(tx, KindAuthor, ids)
	if err != nil {
		return false, err
	}
	byArticle := make(map[string][]string, len(ids))
	for _, row := range rows {
		byArticle[row.ArticleID] = append(byArticle[row.ArticleID], row.Name)
	}
	for _, id := range ids {
		got := byArticle[id]
		slices.Sort(got)
		if slices.Equal(got, want) {
			return true, nil
		}
	}
	return false, nil
}

// cleanNames trims names and drops repeats, keeping first-seen order.
// An article never links the same name twice, so "A, A" and "A" are the
// same author list. Empty names are kept so validation can report them.
func cleanNames(names []string) []string {
	if names == nil {
		return nil
	}
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" && seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func normalizeNew(in *NewArticle) {
	in.Title = strings.TrimSpace(in.Title)
	in.Authors = cleanNames(in.Authors)
	in.Keywords = cleanNames(in.Keywords)
	in.Subjects = cleanNames(in.Subjects)
	in.Tags = cleanNames(in.Tags)
	in.Universities = cleanNames(in.Universities)
	in.Companies = cleanNames(in.Companies)
}

func normalizeUpdate(u *ArticleUpdate) {
	if t, ok := u.Title.Get(); ok {
		u.Title = Some(strings.TrimSpace(t))
	}
	cleanOpt := func(o Optional[[]string]) Optional[[]string] {
		if v, ok := o.Get(); ok {
			return Some(cleanNames(v))
		}
		return o
	}
	u.Authors = cleanOpt(u.Authors)
	u.Keywords = cleanOpt(u.Keywords)
	u.Subjects = cleanOpt(u.Subjects)
	u.Tags = cleanOpt(u.Tags)
	u.Universities = cleanOpt(u.Universities)
	u.Companies = cleanOpt(u.Companies)
}

func validateNew(in *NewArticle) error {
	switch {
	case in.Title == "":
		return invalid("title", "is required")
	case strings.TrimSpace(in.Abstract) == "":
		return invalid("abstract", "is required")
	case in.Year <= 0:
		return invalid("year", "must be a positive year")
	case strings.TrimSpace(in.Date) == "":
		return invalid("date", "is required")
	case strings.TrimSpace(in.Language) == "":
		return invalid("language", "is required")
	}
	if err := validateRating(in.Rating); err != nil {
		return err
	}
	if in.PageCount < 0 {
		return invalid("page_count", "must not be negative")
	}
	for _, k := range Kinds() {
		if err := validateNames(k, in.names(k)); err != nil {
			return err
		}
	}
	return nil
}

func validateUpdate(u *ArticleUpdate) error {
	required := []struct {
		field string
		o     Optional[string]
	}{
		{"title", u.Title},
		{"abstract", u.Abstract},
		{"date", u.Date},
		{"language", u.Language},
	}
	for _, r := range required {
		if v, ok := r.o.Get(); ok && strings.TrimSpace(v) == "" {
			return invalid(r.field, "must not be empty")
		}
	}
	if y, ok := u.Year.Get(); ok && y <= 0 {
		return invalid("year", "must be a positive year")
	}
	if rating, ok := u.Rating.Get(); ok {
		if err := validateRating(rating); err != nil {
			return err
		}
	}
	if pc, ok := u.PageCount.Get(); ok && pc < 0 {
		return invalid("page_count", "must not be negative")
	}
	for _, k := range Kinds() {
		if names, ok := u.names(k).Get(); ok {
			if err := validateNames(k, names); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateRating(r int) error {
	if r < 0 || r > 5 {
		return invalid("rating", "must be between 0 and 5")
	}
	return nil
}

func validateNames(k Kind, names []string) error {
	for _, n := range names {
		if n == "" {
			return invalid(k.String(), "names must not be empty")
		}
	}
	return nil
}
