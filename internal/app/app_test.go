package app

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/blackwell-systems/papershelf/internal/ingest"
	"github.com/blackwell-systems/papershelf/internal/library"
	"github.com/blackwell-systems/papershelf/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// isolate points config, data home and ledger at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)
	t.Setenv("PAPERSHELF_CONFIG", filepath.Join(dir, "config.yml"))
	t.Setenv("PAPERSHELF_MIGRATE_LEDGER", filepath.Join(dir, "renamed.jsonl"))
	t.Setenv("PAPERSHELF_MODE", "installed")
	return dir
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(append(args, "--no-interactive", "--no-color"))
	err := rootCmd.Execute()
	closeLibrary()
	return err
}

func TestNeedsLibrary(t *testing.T) {
	find := func(args ...string) *cobra.Command {
		c, _, err := rootCmd.Find(args)
		if err != nil {
			t.Fatalf("Find(%v): %v", args, err)
		}
		return c
	}

	cases := []struct {
		args []string
		want bool
	}{
		{[]string{"version"}, false},
		{[]string{"completion"}, false},
		{[]string{"config", "init"}, false},
		{[]string{"list"}, true},
		{[]string{"storage", "mirror", "seed"}, true},
	}
	for _, c := range cases {
		if got := needsLibrary(find(c.args...)); got != c.want {
			t.Errorf("needsLibrary(%v) = %v, want %v", c.args, got, c.want)
		}
	}
	if needsLibrary(rootCmd) {
		t.Error("root command should not open the library")
	}
}

func TestPrefill_KeepsUserValues(t *testing.T) {
	meta := &ingest.PDFMetadata{
		Title:    "From PDF",
		Author:   "Ada Lovelace; Charles Babbage",
		Subject:  "Computing",
		Keywords: "engines, notes",
		Pages:    12,
	}

	in := library.NewArticle{Title: "Given"}
	prefill(&in, meta)

	if in.Title != "Given" {
		t.Errorf("Title = %q, want user value kept", in.Title)
	}
	if len(in.Authors) != 2 || in.Authors[1] != "Charles Babbage" {
		t.Errorf("Authors = %v", in.Authors)
	}
	if len(in.Keywords) != 2 || in.Keywords[0] != "engines" {
		t.Errorf("Keywords = %v", in.Keywords)
	}
	if len(in.Subjects) != 1 || in.Subjects[0] != "Computing" {
		t.Errorf("Subjects = %v", in.Subjects)
	}
	if in.PageCount != 12 {
		t.Errorf("PageCount = %d, want 12", in.PageCount)
	}
}

func TestHumanBytes(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
	}
	for _, c := range cases {
		if got := humanBytes(c.n); got != c.want {
			t.Errorf("humanBytes(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}

func TestStoredSummary(t *testing.T) {
	doc := &ingest.Document{
		Data:   make([]byte, 2048),
		SHA256: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
	}
	got := storedSummary("0001 - Foo.pdf", doc)
	want := "Stored 0001 - Foo.pdf (2.0 KiB, sha256 e3b0c44298fc)"
	if got != want {
		t.Errorf("storedSummary = %q, want %q", got, want)
	}
}

func TestMirrorTarget(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		in, want string
	}{
		{"~/Dropbox/papers", filepath.Join(home, "Dropbox", "papers")},
		{"sync/papers", filepath.Join(cwd, "sync", "papers")},
		{"/mnt/backup/", "/mnt/backup"},
		{"s3://bucket/prefix", "s3://bucket/prefix"},
	}
	for _, c := range cases {
		got, err := mirrorTarget(c.in)
		if err != nil {
			t.Fatalf("mirrorTarget(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("mirrorTarget(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestConfig_InitAndSet(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.yml")

	got, err := initConfig(false)
	if err != nil {
		t.Fatalf("initConfig: %v", err)
	}
	if got != path {
		t.Errorf("initConfig wrote %q, want %q", got, path)
	}
	if _, err := initConfig(false); err == nil {
		t.Error("initConfig should refuse to overwrite without force")
	}
	if _, err := initConfig(true); err != nil {
		t.Fatalf("initConfig with force: %v", err)
	}

	if err := setConfig("log.format", "json"); err != nil {
		t.Fatalf("setConfig: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "format: json") {
		t.Errorf("config file missing log format:\n%s", data)
	}

	if err := setConfig("mode", "staging"); err == nil {
		t.Error("unknown mode should be rejected")
	}
	if err := setConfig("mirror.s3.use_ssl", "maybe"); err == nil {
		t.Error("non-boolean use_ssl should be rejected")
	}
	if err := setConfig("no.such.key", "x"); err == nil {
		t.Error("unknown key should be rejected")
	}
}

func TestArticleFlags_UpdateOnlyChanged(t *testing.T) {
	var f articleFlags
	cmd := &cobra.Command{Use: "edit"}
	f.register(cmd, "")
	if err := cmd.ParseFlags([]string{"--rating", "4", "--tag", "a,b", "--read"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	u := f.update(cmd)
	if v, set := u.Rating.Get(); !set || v != 4 {
		t.Errorf("Rating = %v, %v", v, set)
	}
	if v, set := u.Tags.Get(); !set || len(v) != 2 {
		t.Errorf("Tags = %v, %v", v, set)
	}
	if v, set := u.Read.Get(); !set || !v {
		t.Errorf("Read = %v, %v", v, set)
	}
	if u.Title.IsSet() || u.Year.IsSet() || u.Favorite.IsSet() || u.Authors.IsSet() {
		t.Error("flags that were not passed must stay unset")
	}
}

func TestArticleFlags_EmptyCollectionClears(t *testing.T) {
	var f articleFlags
	cmd := &cobra.Command{Use: "edit"}
	f.register(cmd, "")
	if err := cmd.ParseFlags([]string{"--tag", ""}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	v, set := f.update(cmd).Tags.Get()
	if !set || len(v) != 0 {
		t.Errorf("Tags = %v, %v; want set and empty", v, set)
	}
}

func TestCommands_AddAttachDelete(t *testing.T) {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("data home is not taken from XDG_DATA_HOME on this platform")
	}
	dir := isolate(t)
	root := filepath.Join(dir, "papershelf")

	pdf := filepath.Join(dir, "paper.pdf")
	body := "%PDF-1.4\n1 0 obj\n<< /Type /Page >>\nendobj\n2 0 obj\n<< /Type /Page >>\nendobj\n" +
		"3 0 obj\n<< /Title (Scanned Title) /Author (Grace Hopper) >>\nendobj\n%%EOF\n"
	if err := os.WriteFile(pdf, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	err := run(t, "add",
		"--title", "Compilers for Everyone",
		"--author", "Grace Hopper",
		"--abstract", "An abstract.",
		"--year", "1952",
		"--date", "1952-05-01",
		"--tag", "history",
		"--pdf", pdf)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	stored := filepath.Join(root, "pdfs", "0001 - Compilers for Everyone.pdf")
	if _, err := os.Stat(stored); err != nil {
		t.Fatalf("expected stored PDF: %v", err)
	}

	s, err := store.Open(filepath.Join(root, "database", "library.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	a, found, err := library.NewArticles(s).Get(context.Background(), "0001")
	_ = s.Close()
	if err != nil || !found {
		t.Fatalf("Get: found=%v err=%v", found, err)
	}
	if a.PageCount != 2 {
		t.Errorf("PageCount = %d, want 2 from the attached PDF", a.PageCount)
	}
	if got := a.Names(library.KindTag); len(got) != 1 || got[0] != "history" {
		t.Errorf("tags = %v", got)
	}

	if err := run(t, "delete", "0001", "--yes"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(stored); !os.IsNotExist(err) {
		t.Errorf("PDF should be removed, stat err = %v", err)
	}

	if err := run(t, "info", "0001"); err == nil {
		t.Error("info on a deleted article should fail")
	}
}
