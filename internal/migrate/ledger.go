// Package migrate keeps an append-only record of file renames made by the
// naming-scheme migration.
package migrate

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// LedgerEntry records one completed rename.
type LedgerEntry struct {
	ArticleID string    `json:"article_id"`
	Kind      string    `json:"kind"`     // "pdf" or "note"
	Location  string    `json:"location"` // "primary" or the mirror description
	From      string    `json:"from"`
	To        string    `json:"to"`
	Timestamp time.Time `json:"timestamp"`
}

// Ledger is a JSONL append-only rename log.
type Ledger struct {
	path string
}

// DefaultLedgerPath returns the default path for the rename ledger.
func DefaultLedgerPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "papershelf", "renamed.jsonl")
}

// OpenLedger opens (or creates) the ledger at path.
func OpenLedger(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, err
	}
	return &Ledger{path: path}, nil
}

// Path returns the ledger file path.
func (l *Ledger) Path() string { return l.path }

// Append adds an entry to the ledger, stamping it with the current time.
func (l *Ledger) Append(e LedgerEntry) error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	e.Timestamp = time.Now().UTC()
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f, string(data))
	return err
}

// Entries returns all ledger entries in append order. Malformed lines are
// skipped.
func (l *Ledger) Entries() ([]LedgerEntry, error) {
	f, err := os.Open(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []LedgerEntry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e LedgerEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, sc.Err()
}
