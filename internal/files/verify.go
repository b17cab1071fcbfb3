package files

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/blackwell-systems/papershelf/internal/util"
)

// Issue types reported by Verify.
const (
	IssueMissingPDF = "missing_pdf" // article has no PDF under any scheme
	IssueOrphaned   = "orphaned"    // file belongs to no article
	IssueLegacyName = "legacy_name" // stored under the bare id
	IssueStaleTitle = "stale_title" // stored under an earlier title
)

// Issue is one mismatch between the library and the document folders.
type Issue struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`
	Path string `json:"path,omitempty"`
}

// VerifyReport lists every issue found by Verify.
type VerifyReport struct {
	Articles int     `json:"articles"`
	Files    int     `json:"files"`
	Issues   []Issue `json:"issues"`
}

// Verify cross-checks articles against the files at the primary root.
func (m *Manager) Verify(ctx context.Context) (VerifyReport, error) {
	report := VerifyReport{Issues: []Issue{}}
	if m.catalog == nil {
		return report, fmt.Errorf("verify: no catalog")
	}
	titles, err := m.catalog.Titles(ctx)
	if err != nil {
		return report, fmt.Errorf("verify: %w", err)
	}
	docs, err := m.documents()
	if err != nil {
		return report, err
	}
	report.Articles = len(titles)
	report.Files = len(docs)

	ids := make([]string, 0, len(titles))
	for id := range titles {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for i, id := range ids {
		dir := m.Dir(PDF)
		if !util.Exists(filepath.Join(dir, BaseName(id, titles[id])+PDF.Ext())) {
			if p, found := firstExisting(dir, id, titles[id], PDF.Ext()); found {
				report.Issues = append(report.Issues, Issue{Type: schemeIssue(id, p), ID: id, Path: p})
			} else {
				report.Issues = append(report.Issues, Issue{Type: IssueMissingPDF, ID: id})
			}
		}
		m.report(i+1, len(ids))
	}

	for _, d := range docs {
		if filepath.Ext(d.name) != d.kind.Ext() {
			continue
		}
		if _, known := titles[documentID(d.name, d.kind)]; !known {
			report.Issues = append(report.Issues, Issue{Type: IssueOrphaned, Path: d.path})
		}
	}
	return report, nil
}

func firstExisting(dir, id, title, ext string) (string, bool) {
	for _, name := range candidates(dir, id, title, ext) {
		p := filepath.Join(dir, name)
		if util.Exists(p) {
			return p, true
		}
	}
	return "", false
}

func schemeIssue(id, path string) string {
	if filepath.Base(path) == LegacyName(id)+filepath.Ext(path) {
		return IssueLegacyName
	}
	return IssueStaleTitle
}

// documentID returns the article id a document file name belongs to.
func documentID(name string, k Kind) string {
	base := strings.TrimSuffix(name, k.Ext())
	if i := strings.Index(base, " - "); i >= 0 {
		return base[:i]
	}
	return base
}
