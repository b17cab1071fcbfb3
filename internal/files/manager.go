// Package files places, finds and removes the documents that belong to
// articles, under the primary storage root and an optional mirror.
package files

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blackwell-systems/papershelf/internal/migrate"
	"github.com/blackwell-systems/papershelf/internal/paths"
	"github.com/blackwell-systems/papershelf/internal/util"
	"go.uber.org/zap"
)

// Catalog supplies article titles for the current naming scheme.
type Catalog interface {
	TitleOf(ctx context.Context, id string) (string, bool, error)
	Titles(ctx context.Context) (map[string]string, error)
}

// Manager handles the document tree under one storage root.
type Manager struct {
	layout   paths.Layout
	catalog  Catalog
	mirrors  MirrorSource
	remote   RemoteMirrorFunc
	ledger   *migrate.Ledger
	opener   func(path, app string) error
	progress func(done, total int)
	log      *zap.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithRemoteMirror enables s3:// mirror targets.
func WithRemoteMirror(fn RemoteMirrorFunc) Option {
	return func(m *Manager) { m.remote = fn }
}

// WithLedger records every naming-migration rename in l.
func WithLedger(l *migrate.Ledger) Option {
	return func(m *Manager) { m.ledger = l }
}

// WithOpener replaces the platform opener used by Open.
func WithOpener(fn func(path, app string) error) Option {
	return func(m *Manager) { m.opener = fn }
}

// NewManager returns a Manager for the root chosen by r.
func NewManager(r *paths.Resolver, catalog Catalog, mirrors MirrorSource, log *zap.Logger, opts ...Option) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Manager{
		layout:  r.Layout(),
		catalog: catalog,
		mirrors: mirrors,
		opener:  openFile,
		log:     log,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithProgress returns a copy of m that reports bulk-operation progress
// to fn.
func (m *Manager) WithProgress(fn func(done, total int)) *Manager {
	c := *m
	c.progress = fn
	return &c
}

// Root returns the primary storage root.
func (m *Manager) Root() string { return m.layout.Root }

// Dir returns the primary directory for kind k.
func (m *Manager) Dir(k Kind) string {
	if k == Note {
		return m.layout.NotesDir()
	}
	return m.layout.PDFDir()
}

// Store writes data as the kind-k document of article id under the
// current naming scheme, replacing any file at that path, and copies it to
// the mirror when one is enabled. A mirror failure is logged, not
// returned. It returns the stored file name.
func (m *Manager) Store(ctx context.Context, k Kind, id, title string, data []byte) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", fmt.Errorf("store %s: empty article id", k)
	}
	name := BaseName(id, title) + k.Ext()
	dest := filepath.Join(m.Dir(k), name)
	if err := writeAtomic(dest, data); err != nil {
		return "", fmt.Errorf("store %s for %s: %w", k, id, err)
	}
	m.log.Debug("stored document", zap.String("id", id), zap.Stringer("kind", k), zap.String("path", dest))

	if mr, ok := m.mirror(ctx); ok {
		if err := mr.Put(ctx, relPath(k, name), data); err != nil {
			m.log.Warn("mirror copy failed",
				zap.String("id", id), zap.Stringer("kind", k),
				zap.String("mirror", mr.Describe()), zap.Error(err))
		}
	}
	return name, nil
}

// Locate returns the path of the kind-k document of article id, trying the
// current naming scheme, then the legacy bare-id scheme, then any file
// stored under an earlier title.
func (m *Manager) Locate(ctx context.Context, k Kind, id string) (string, error) {
	title, err := m.title(ctx, id)
	if err != nil {
		return "", err
	}
	dir := m.Dir(k)
	for _, name := range candidates(dir, id, title, k.Ext()) {
		p := filepath.Join(dir, name)
		if util.Exists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: no %s for article %s", ErrNotFound, k, id)
}

// Open hands the located document to app, or to the platform default
// application when app is empty.
func (m *Manager) Open(ctx context.Context, k Kind, id, app string) error {
	p, err := m.Locate(ctx, k, id)
	if err != nil {
		return err
	}
	return m.opener(p, app)
}

// Remove deletes every document of article id under any naming scheme,
// at the primary root and on the mirror. Missing files are ignored.
// Mirror failures are logged.
func (m *Manager) Remove(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("remove: empty article id")
	}
	title, err := m.title(ctx, id)
	if err != nil {
		return err
	}
	mr, mirrored := m.mirror(ctx)

	var errs []error
	for _, k := range Kinds() {
		dir := m.Dir(k)
		for _, name := range candidates(dir, id, title, k.Ext()) {
			p := filepath.Join(dir, name)
			if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
				errs = append(errs, fmt.Errorf("remove %s: %w", p, err))
			} else if err == nil {
				m.log.Debug("removed document", zap.String("id", id), zap.String("path", p))
			}
		}
		if mirrored {
			m.removeFromMirror(ctx, mr, k, id, title)
		}
	}
	return errors.Join(errs...)
}

// removeFromMirror deletes the kind-k documents of id on the mirror. The
// earlier-title candidates are listed from the mirror itself, which may
// hold names the primary no longer has.
func (m *Manager) removeFromMirror(ctx context.Context, mr Mirror, k Kind, id, title string) {
	names, err := mirrorCandidates(ctx, mr, k, id, title)
	if err != nil {
		m.log.Warn("mirror list failed",
			zap.String("id", id), zap.Stringer("kind", k),
			zap.String("mirror", mr.Describe()), zap.Error(err))
	}
	for _, name := range names {
		if err := mr.Remove(ctx, relPath(k, name)); err != nil {
			m.log.Warn("mirror remove failed",
				zap.String("id", id), zap.String("file", name),
				zap.String("mirror", mr.Describe()), zap.Error(err))
		}
	}
}

// title looks up the article title; an unknown article yields "".
func (m *Manager) title(ctx context.Context, id string) (string, error) {
	if m.catalog == nil {
		return "", nil
	}
	title, _, err := m.catalog.TitleOf(ctx, id)
	if err != nil {
		return "", fmt.Errorf("title of %s: %w", id, err)
	}
	return title, nil
}

// mirror returns the configured mirror, if mirroring is enabled and the
// target can be reached.
func (m *Manager) mirror(ctx context.Context) (Mirror, bool) {
	if m.mirrors == nil {
		return nil, false
	}
	enabled, target, err := m.mirrors.Mirror(ctx)
	if err != nil {
		m.log.Warn("reading mirror settings failed", zap.Error(err))
		return nil, false
	}
	if !enabled || target == "" {
		return nil, false
	}
	mr, err := m.MirrorFor(ctx, target)
	if err != nil {
		m.log.Warn("mirror unavailable", zap.String("target", target), zap.Error(err))
		return nil, false
	}
	return mr, true
}

// MirrorFor builds the Mirror for target: a directory, or an S3 bucket
// when target has the form s3://bucket/prefix.
func (m *Manager) MirrorFor(ctx context.Context, target string) (Mirror, error) {
	if IsS3Target(target) {
		if m.remote == nil {
			return nil, fmt.Errorf("s3 mirror %q: no S3 endpoint configured", target)
		}
		return m.remote(ctx, target)
	}
	return NewDirMirror(util.ExpandHome(target)), nil
}
