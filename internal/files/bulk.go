package files

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/blackwell-systems/papershelf/internal/migrate"
	"github.com/blackwell-systems/papershelf/internal/paths"
	"github.com/blackwell-systems/papershelf/internal/util"
	"go.uber.org/zap"
)

// MigrationReport summarizes a naming-scheme migration.
type MigrationReport struct {
	Articles int            `json:"articles"`
	Migrated map[string]int `json:"migrated"` // article id -> files renamed at the primary root
	Errors   []FileError    `json:"errors,omitempty"`
}

// Total returns the number of files renamed at the primary root.
func (r MigrationReport) Total() int {
	n := 0
	for _, c := range r.Migrated {
		n += c
	}
	return n
}

// CopyReport summarizes a tree copy.
type CopyReport struct {
	Copied  int         `json:"copied"`
	Skipped int         `json:"skipped"`
	Errors  []FileError `json:"errors,omitempty"`
}

// MigrateNamingScheme renames legacy "{id}.ext" files to the current
// scheme wherever the current name is not already taken. The mirror gets
// the same treatment, after any stray current-named file there is removed.
// Per-file failures are collected; running it again is a no-op.
func (m *Manager) MigrateNamingScheme(ctx context.Context) (MigrationReport, error) {
	report := MigrationReport{Migrated: map[string]int{}}
	if m.catalog == nil {
		return report, fmt.Errorf("migrate names: no catalog")
	}
	titles, err := m.catalog.Titles(ctx)
	if err != nil {
		return report, fmt.Errorf("migrate names: %w", err)
	}
	ids := make([]string, 0, len(titles))
	for id := range titles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	report.Articles = len(ids)

	mr, mirrored := m.mirror(ctx)
	for i, id := range ids {
		for _, k := range Kinds() {
			legacy := LegacyName(id) + k.Ext()
			current := BaseName(id, titles[id]) + k.Ext()
			if legacy == current {
				continue
			}
			migrated := m.migratePrimary(k, id, legacy, current, &report)
			if migrated {
				report.Migrated[id]++
			}
			if mirrored {
				m.migrateMirror(ctx, mr, k, id, legacy, current, migrated, &report)
			}
		}
		m.report(i+1, len(ids))
	}
	for id, n := range report.Migrated {
		if n == 0 {
			delete(report.Migrated, id)
		}
	}
	return report, nil
}

func (m *Manager) migratePrimary(k Kind, id, legacy, current string, report *MigrationReport) bool {
	dir := m.Dir(k)
	from, to := filepath.Join(dir, legacy), filepath.Join(dir, current)
	if !util.Exists(from) || util.Exists(to) {
		return false
	}
	if err := os.Rename(from, to); err != nil {
		report.Errors = append(report.Errors, fileErr(id, from, err))
		return false
	}
	m.record(id, k, "primary", from, to)
	return true
}

// migrateMirror renames the mirror's legacy file. When the primary was just
// migrated, a current-named file on the mirror is stale and is replaced.
// Otherwise the mirror follows the same rule as the primary: rename only
// when its own current name is free.
func (m *Manager) migrateMirror(ctx context.Context, mr Mirror, k Kind, id, legacy, current string, primaryMigrated bool, report *MigrationReport) {
	from, to := relPath(k, legacy), relPath(k, current)
	exists, err := mr.Exists(ctx, from)
	if err != nil {
		report.Errors = append(report.Errors, fileErr(id, mr.Describe()+"/"+from, err))
		return
	}
	if !exists {
		return
	}
	if primaryMigrated {
		if err := mr.Remove(ctx, to); err != nil {
			report.Errors = append(report.Errors, fileErr(id, mr.Describe()+"/"+to, err))
			return
		}
	} else {
		taken, err := mr.Exists(ctx, to)
		if err != nil {
			report.Errors = append(report.Errors, fileErr(id, mr.Describe()+"/"+to, err))
			return
		}
		if taken {
			return
		}
	}
	if err := mr.Rename(ctx, from, to); err != nil {
		report.Errors = append(report.Errors, fileErr(id, mr.Describe()+"/"+from, err))
		return
	}
	m.record(id, k, mr.Describe(), from, to)
}

func (m *Manager) record(id string, k Kind, location, from, to string) {
	m.log.Info("renamed document", zap.String("id", id), zap.String("location", location),
		zap.String("from", from), zap.String("to", to))
	if m.ledger == nil {
		return
	}
	err := m.ledger.Append(migrate.LedgerEntry{
		ArticleID: id,
		Kind:      k.String(),
		Location:  location,
		From:      from,
		To:        to,
	})
	if err != nil {
		m.log.Warn("ledger append failed", zap.String("ledger", m.ledger.Path()), zap.Error(err))
	}
}

// CopyTreeToExternal seeds the mirror at target with every primary
// document, leaving files that already exist there untouched.
func (m *Manager) CopyTreeToExternal(ctx context.Context, target string) (CopyReport, error) {
	var report CopyReport
	mr, err := m.MirrorFor(ctx, target)
	if err != nil {
		return report, err
	}

	docs, err := m.documents()
	if err != nil {
		return report, err
	}
	for i, d := range docs {
		rel := relPath(d.kind, d.name)
		exists, err := mr.Exists(ctx, rel)
		switch {
		case err != nil:
			report.Errors = append(report.Errors, fileErr("", rel, err))
		case exists:
			report.Skipped++
		default:
			if err := copyToMirror(ctx, mr, d.path, rel); err != nil {
				report.Errors = append(report.Errors, fileErr("", rel, err))
			} else {
				report.Copied++
			}
		}
		m.report(i+1, len(docs))
	}
	m.log.Info("mirror seeded", zap.String("mirror", mr.Describe()),
		zap.Int("copied", report.Copied), zap.Int("skipped", report.Skipped), zap.Int("errors", len(report.Errors)))
	return report, nil
}

func copyToMirror(ctx context.Context, mr Mirror, src, rel string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return mr.Put(ctx, rel, data)
}

// SnapshotFunc writes a consistent copy of the open database to dest.
type SnapshotFunc func(ctx context.Context, dest string) error

// RelocateRoot copies the database and both document folders to newRoot,
// overwriting what is there. The database goes through snapshot when one
// is given, otherwise the file is copied as is. A database failure aborts;
// document failures are collected. The caller must restart against the new
// root before writing again.
func (m *Manager) RelocateRoot(ctx context.Context, newRoot string, snapshot SnapshotFunc) (CopyReport, error) {
	var report CopyReport
	if newRoot == "" {
		return report, fmt.Errorf("%w: empty path", ErrInvalidRoot)
	}
	newRoot, err := filepath.Abs(util.ExpandHome(newRoot))
	if err != nil {
		return report, fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}
	oldRoot, _ := filepath.Abs(m.layout.Root)
	if newRoot == oldRoot {
		return report, fmt.Errorf("%w: %s is already the storage root", ErrInvalidRoot, newRoot)
	}

	dest := paths.Layout{Root: newRoot}
	if err := dest.EnsureDirectories(); err != nil {
		return report, err
	}

	dbDest := dest.DatabaseFile()
	if snapshot != nil {
		err = snapshot(ctx, dbDest)
	} else {
		err = util.CopyFile(m.layout.DatabaseFile(), dbDest)
	}
	if err != nil {
		return report, fmt.Errorf("copy database: %w", err)
	}
	report.Copied++

	docs, err := m.documents()
	if err != nil {
		return report, err
	}
	for i, d := range docs {
		target := filepath.Join(newRoot, d.kind.Subdir(), d.name)
		if err := util.CopyFile(d.path, target); err != nil {
			report.Errors = append(report.Errors, fileErr("", d.path, err))
		} else {
			report.Copied++
		}
		m.report(i+1, len(docs))
	}
	m.log.Info("storage root copied", zap.String("from", m.layout.Root), zap.String("to", newRoot),
		zap.Int("copied", report.Copied), zap.Int("errors", len(report.Errors)))
	return report, nil
}

type document struct {
	kind Kind
	name string
	path string
}

// documents lists the regular files in both primary document folders.
func (m *Manager) documents() ([]document, error) {
	var docs []document
	for _, k := range Kinds() {
		dir := m.Dir(k)
		entries, err := os.ReadDir(dir)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", dir, err)
		}
		for _, e := range entries {
			if !e.Type().IsRegular() || isTempName(e.Name()) {
				continue
			}
			docs = append(docs, document{kind: k, name: e.Name(), path: filepath.Join(dir, e.Name())})
		}
	}
	return docs, nil
}

func (m *Manager) report(done, total int) {
	if m.progress != nil {
		m.progress(done, total)
	}
}
