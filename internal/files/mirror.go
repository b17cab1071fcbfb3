package files

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blackwell-systems/papershelf/internal/util"
	"github.com/google/uuid"
)

// Mirror is a secondary location that receives copies of stored
// documents. Paths are slash-separated and relative to the mirror root,
// e.g. "pdfs/0001 - Title.pdf".
type Mirror interface {
	Put(ctx context.Context, rel string, data []byte) error
	Exists(ctx context.Context, rel string) (bool, error)
	// Remove deletes rel; a missing file is not an error.
	Remove(ctx context.Context, rel string) error
	Rename(ctx context.Context, from, to string) error
	// List returns the names of the files in subdir that start with prefix.
	List(ctx context.Context, subdir, prefix string) ([]string, error)
	Describe() string
}

// MirrorSource reports whether mirroring is enabled and where to.
type MirrorSource interface {
	Mirror(ctx context.Context) (enabled bool, target string, err error)
}

// RemoteMirrorFunc builds a Mirror for a non-directory target such as
// s3://bucket/prefix.
type RemoteMirrorFunc func(ctx context.Context, target string) (Mirror, error)

// DirMirror mirrors into a plain directory tree, typically a folder kept
// in sync by a cloud client.
type DirMirror struct {
	Root string
}

// NewDirMirror returns a DirMirror rooted at root.
func NewDirMirror(root string) *DirMirror {
	return &DirMirror{Root: root}
}

func (d *DirMirror) path(rel string) string {
	return filepath.Join(d.Root, filepath.FromSlash(rel))
}

// Put writes data atomically, creating parent directories.
func (d *DirMirror) Put(_ context.Context, rel string, data []byte) error {
	return writeAtomic(d.path(rel), data)
}

func (d *DirMirror) Exists(_ context.Context, rel string) (bool, error) {
	_, err := os.Stat(d.path(rel))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (d *DirMirror) Remove(_ context.Context, rel string) error {
	err := os.Remove(d.path(rel))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (d *DirMirror) Rename(_ context.Context, from, to string) error {
	dst := d.path(to)
	if err := util.EnsureDir(filepath.Dir(dst)); err != nil {
		return err
	}
	return os.Rename(d.path(from), dst)
}

func (d *DirMirror) List(_ context.Context, subdir, prefix string) ([]string, error) {
	entries, err := os.ReadDir(d.path(subdir))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.Type().IsRegular() && strings.HasPrefix(name, prefix) && !isTempName(name) {
			names = append(names, name)
		}
	}
	return names, nil
}

func (d *DirMirror) Describe() string { return d.Root }

// writeAtomic writes data to a uniquely named temp file next to path and
// renames it into place.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := util.EnsureDir(dir); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	tmpPath := filepath.Join(dir, "."+uuid.NewString()+".tmp")

	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// relPath joins a kind's subdirectory and a file name with a slash.
func relPath(k Kind, name string) string {
	return k.Subdir() + "/" + name
}

// isTempName reports whether name is an in-flight atomic write.
func isTempName(name string) bool {
	return strings.HasPrefix(name, ".") && strings.HasSuffix(name, ".tmp")
}
