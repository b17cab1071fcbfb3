package library

import (
	"context"
	"fmt"
	"strings"

	"github.com/blackwell-systems/papershelf/internal/store"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entities resolves classification names to rows and links them to
// articles.
type Entities struct {
	store *store.Store
}

// NewEntities returns an Entities bound to s.
func NewEntities(s *store.Store) *Entities {
	return &Entities{store: s}
}

// GetOrCreate returns the entity of kind k named name, inserting it first
// if needed. Names are trimmed and matched case-sensitively.
func (e *Entities) GetOrCreate(ctx context.Context, k Kind, name string) (Entity, error) {
	var ent Entity
	err := e.store.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		ent, err = e.GetOrCreateTx(tx, k, name)
		return err
	})
	return ent, err
}

// GetOrCreateTx is GetOrCreate inside an existing transaction. The insert
// ignores a uniqueness conflict and the row is always read back, so two
// writers racing on the same name get the same id.
func (e *Entities) GetOrCreateTx(tx *gorm.DB, k Kind, name string) (Entity, error) {
	if !k.valid() {
		return Entity{}, invalid("kind", fmt.Sprintf("unknown kind %d", int(k)))
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Entity{}, invalid(k.String(), "name must not be empty")
	}
	t := k.table()

	err := tx.Table(t.Table).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&store.EntityModel{Name: name}).Error
	if err != nil {
		return Entity{}, fmt.Errorf("insert %s %q: %w", k, name, err)
	}

	var m store.EntityModel
	if err := tx.Table(t.Table).Where("name = ?", name).Take(&m).Error; err != nil {
		return Entity{}, fmt.Errorf("read %s %q: %w", k, name, err)
	}
	return Entity{ID: m.ID, Name: m.Name}, nil
}

// Link attaches an entity to an article. Linking twice is a no-op.
func (e *Entities) Link(ctx context.Context, k Kind, articleID string, entityID uint) error {
	return e.store.Transaction(ctx, func(tx *gorm.DB) error {
		return e.LinkTx(tx, k, articleID, entityID)
	})
}

// LinkTx is Link inside an existing transaction.
func (e *Entities) LinkTx(tx *gorm.DB, k Kind, articleID string, entityID uint) error {
	if !k.valid() {
		return invalid("kind", fmt.Sprintf("unknown kind %d", int(k)))
	}
	t := k.table()
	err := tx.Table(t.JoinTable).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(map[string]any{"article_id": articleID, t.Column: entityID}).Error
	if err != nil {
		return fmt.Errorf("link %s %d to article %s: %w", k, entityID, articleID, err)
	}
	return nil
}

// ReplaceLinks drops every link of kind k from the article and links the
// given names instead.
func (e *Entities) ReplaceLinks(ctx context.Context, k Kind, articleID string, names []string) error {
	return e.store.Transaction(ctx, func(tx *gorm.DB) error {
		return e.ReplaceLinksTx(tx, k, articleID, names)
	})
}

// ReplaceLinksTx is ReplaceLinks inside an existing transaction.
func (e *Entities) ReplaceLinksTx(tx *gorm.DB, k Kind, articleID string, names []string) error {
	if !k.valid() {
		return invalid("kind", fmt.Sprintf("unknown kind %d", int(k)))
	}
	t := k.table()
	if err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE article_id = ?", t.JoinTable), articleID).Error; err != nil {
		return fmt.Errorf("clear %s links of article %s: %w", k, articleID, err)
	}
	return e.linkNamesTx(tx, k, articleID, names)
}

func (e *Entities) linkNamesTx(tx *gorm.DB, k Kind, articleID string, names []string) error {
	for _, name := range names {
		ent, err := e.GetOrCreateTx(tx, k, name)
		if err != nil {
			return err
		}
		if err := e.LinkTx(tx, k, articleID, ent.ID); err != nil {
			return err
		}
	}
	return nil
}

// List returns the whole vocabulary of kind k ordered by name.
func (e *Entities) List(ctx context.Context, k Kind) ([]Entity, error) {
	if !k.valid() {
		return nil, invalid("kind", fmt.Sprintf("unknown kind %d", int(k)))
	}
	var rows []store.EntityModel
	if err := e.store.DB().WithContext(ctx).Table(k.table().Table).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", k, err)
	}
	out := make([]Entity, len(rows))
	for i, r := range rows {
		out[i] = Entity{ID: r.ID, Name: r.Name}
	}
	return out, nil
}

type linkedEntity struct {
	ArticleID string
	ID        uint
	Name      string
}

// linked returns the entities of kind k linked to the given articles, or
// to every article when ids is nil, in link insertion order.
func linked(tx *gorm.DB, k Kind, ids []string) ([]linkedEntity, error) {
	t := k.table()
	q := fmt.Sprintf(
		"SELECT j.article_id AS article_id, e.id AS id, e.name AS name FROM %s j JOIN %s e ON e.id = j.%s",
		t.JoinTable, t.Table, t.Column)
	args := []any{}
	if ids != nil {
		q += " WHERE j.article_id IN ?"
		args = append(args, ids)
	}
	q += " ORDER BY j.rowid"

	var rows []linkedEntity
	if err := tx.Raw(q, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("load %s links: %w", k, err)
	}
	return rows, nil
}
