// Package paths computes where the library lives on disk. The result
// depends only on the run mode; the custom storage path kept in user
// settings is never consulted here.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/blackwell-systems/papershelf/internal/util"
)

const (
	AppName      = "papershelf"
	DatabaseFile = "library.db"

	databaseSubdir = "database"
	pdfSubdir      = "pdfs"
	notesSubdir    = "notes"
	devSubdir      = "data"
)

// Mode selects between a development checkout and an installed build.
type Mode int

const (
	ModeInstalled Mode = iota
	ModeDevelopment
)

func (m Mode) String() string {
	if m == ModeDevelopment {
		return "development"
	}
	return "installed"
}

// ParseMode accepts "installed" and "development" (or "dev").
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "installed":
		return ModeInstalled, nil
	case "development", "dev":
		return ModeDevelopment, nil
	}
	return ModeInstalled, fmt.Errorf("unknown run mode %q", s)
}

// Layout is the directory structure under one root.
type Layout struct {
	Root string
}

func (l Layout) DatabaseDir() string  { return filepath.Join(l.Root, databaseSubdir) }
func (l Layout) DatabaseFile() string { return filepath.Join(l.Root, databaseSubdir, DatabaseFile) }
func (l Layout) PDFDir() string       { return filepath.Join(l.Root, pdfSubdir) }
func (l Layout) NotesDir() string     { return filepath.Join(l.Root, notesSubdir) }

// EnsureDirectories creates the root and its three subdirectories.
func (l Layout) EnsureDirectories() error {
	for _, dir := range []string{l.Root, l.DatabaseDir(), l.PDFDir(), l.NotesDir()} {
		if err := util.EnsureDir(dir); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// Resolver maps a run mode to a storage root.
type Resolver struct {
	Mode     Mode
	WorkDir  string // development root parent
	DataHome string // per-user application data directory
}

// New returns a Resolver for mode using the current working directory and
// the platform data directory.
func New(mode Mode) (*Resolver, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("working directory: %w", err)
	}
	home, err := dataHome()
	if err != nil {
		return nil, err
	}
	return &Resolver{Mode: mode, WorkDir: wd, DataHome: home}, nil
}

// Root returns the storage root.
func (r *Resolver) Root() string {
	if r.Mode == ModeDevelopment {
		return filepath.Join(r.WorkDir, devSubdir)
	}
	return filepath.Join(r.DataHome, AppName)
}

// Layout returns the directory structure under Root.
func (r *Resolver) Layout() Layout { return Layout{Root: r.Root()} }

func (r *Resolver) DatabaseDir() string  { return r.Layout().DatabaseDir() }
func (r *Resolver) DatabaseFile() string { return r.Layout().DatabaseFile() }
func (r *Resolver) PDFDir() string       { return r.Layout().PDFDir() }
func (r *Resolver) NotesDir() string     { return r.Layout().NotesDir() }

// EnsureDirectories creates the root and its subdirectories. Safe to call
// repeatedly.
func (r *Resolver) EnsureDirectories() error { return r.Layout().EnsureDirectories() }

// dataHome is $XDG_DATA_HOME or ~/.local/share on Linux and the BSDs, and
// the OS config dir (Application Support, %AppData%) elsewhere.
func dataHome() (string, error) {
	switch runtime.GOOS {
	case "darwin", "windows":
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("user data directory: %w", err)
		}
		return dir, nil
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return xdg, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("user data directory: %w", err)
	}
	return filepath.Join(home, ".local", "share"), nil
}
