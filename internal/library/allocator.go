package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/blackwell-systems/papershelf/internal/store"
	"gorm.io/gorm"
)

const articleCounter = "article"

// Allocator hands out article identifiers. Identifiers are never reused,
// even after the article that held one is deleted.
type Allocator struct {
	store *store.Store
}

// NewAllocator returns an Allocator bound to s.
func NewAllocator(s *store.Store) *Allocator {
	return &Allocator{store: s}
}

// NextArticleID reserves and returns the next identifier in its own
// transaction.
func (a *Allocator) NextArticleID(ctx context.Context) (string, error) {
	var id string
	err := a.store.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		id, err = a.next(tx)
		return err
	})
	return id, err
}

// next reads the counter, stores value+1 and returns the value formatted
// as a zero-padded four-digit string. tx must be a transaction.
func (a *Allocator) next(tx *gorm.DB) (string, error) {
	var c store.CounterModel
	err := tx.Where("name = ?", articleCounter).First(&c).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		seed, err := seedValue(tx)
		if err != nil {
			return "", err
		}
		c = store.CounterModel{Name: articleCounter, NextValue: seed}
		if err := tx.Create(&c).Error; err != nil {
			return "", fmt.Errorf("seed id counter: %w", err)
		}
	case err != nil:
		return "", fmt.Errorf("read id counter: %w", err)
	}

	value := c.NextValue
	res := tx.Model(&store.CounterModel{}).
		Where("name = ? AND next_value = ?", articleCounter, value).
		Update("next_value", value+1)
	if res.Error != nil {
		return "", fmt.Errorf("advance id counter: %w", res.Error)
	}
	if res.RowsAffected != 1 {
		return "", fmt.Errorf("advance id counter: counter moved concurrently")
	}
	return FormatID(value), nil
}

// seedValue is one past the highest numeric id among existing articles,
// or 1 for an empty library.
func seedValue(tx *gorm.DB) (int64, error) {
	var maxID sql.NullInt64
	row := tx.Raw("SELECT MAX(CAST(id AS INTEGER)) FROM articles").Row()
	if err := row.Scan(&maxID); err != nil {
		return 0, fmt.Errorf("seed id counter: %w", err)
	}
	if !maxID.Valid {
		return 1, nil
	}
	return maxID.Int64 + 1, nil
}

// FormatID renders n as an article identifier.
func FormatID(n int64) string {
	return fmt.Sprintf("%04d", n)
}
