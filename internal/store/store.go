package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ErrForeignKeysOff is returned by Open when the engine refuses to enable
// foreign-key enforcement.
var ErrForeignKeysOff = errors.New("foreign key enforcement is not enabled")

// Store owns the connection to the embedded library database.
type Store struct {
	db   *gorm.DB
	path string
	log  *zap.Logger
}

// Open opens (or creates) the database at path, creates missing tables and
// applies additive column migrations.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}

	gormLog := gormlogger.New(
		zap.NewStdLog(log.Named("gorm")),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	dsn := path + "?_foreign_keys=on&_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("open db %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open db %s: %w", path, err)
	}
	// One writer; the foreign_keys pragma is per connection.
	sqlDB.SetMaxOpenConns(1)

	s := &Store{db: db, path: path, log: log}
	if err := s.enableForeignKeys(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	if err := s.createSchema(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	s.migrate()

	log.Debug("store opened", zap.String("path", path))
	return s, nil
}

func (s *Store) enableForeignKeys() error {
	if err := s.db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return fmt.Errorf("enable foreign keys: %w", err)
	}
	var on int
	if err := s.db.Raw("PRAGMA foreign_keys").Scan(&on).Error; err != nil {
		return fmt.Errorf("check foreign keys: %w", err)
	}
	if on != 1 {
		return ErrForeignKeysOff
	}
	return nil
}

func (s *Store) createSchema() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, stmt := range schemaStatements() {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("create schema: %w", err)
			}
		}
		return nil
	})
}

// migrate applies additiveMigrations. Failures are logged and skipped.
func (s *Store) migrate() {
	for _, am := range additiveMigrations {
		exists, err := s.hasColumn(am.Table, am.Column)
		if err != nil {
			s.log.Warn("inspect columns failed, skipping migration",
				zap.String("table", am.Table), zap.String("column", am.Column), zap.Error(err))
			continue
		}
		if exists {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", am.Table, am.Column, am.Definition)
		if err := s.db.Exec(stmt).Error; err != nil {
			s.log.Warn("additive migration failed, treating as applied",
				zap.String("table", am.Table), zap.String("column", am.Column), zap.Error(err))
			continue
		}
		s.log.Info("added column", zap.String("table", am.Table), zap.String("column", am.Column))
	}
}

func (s *Store) hasColumn(table, column string) (bool, error) {
	cols, err := s.db.Migrator().ColumnTypes(table)
	if err != nil {
		return false, err
	}
	for _, c := range cols {
		if c.Name() == column {
			return true, nil
		}
	}
	return false, nil
}

// DB returns the underlying gorm handle.
func (s *Store) DB() *gorm.DB { return s.db }

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Transaction runs fn in a single transaction; any returned error rolls
// it back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(fn)
}

// SnapshotTo writes a consistent copy of the database to dest. An existing
// file at dest is replaced.
func (s *Store) SnapshotTo(ctx context.Context, dest string) error {
	if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("snapshot %s: %w", dest, err)
	}
	if err := s.db.WithContext(ctx).Exec("VACUUM INTO ?", dest).Error; err != nil {
		return fmt.Errorf("snapshot %s: %w", dest, err)
	}
	return nil
}

// Close releases the connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
