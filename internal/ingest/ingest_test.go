package ingest_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blackwell-systems/papershelf/internal/ingest"
)

func TestReader_SHA256AndSize(t *testing.T) {
	data := "hello, papershelf"
	r := ingest.NewReader(strings.NewReader(data))

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != data {
		t.Errorf("content mismatch: got %q", string(out))
	}
	if r.Size() != int64(len(data)) {
		t.Errorf("Size() = %d, want %d", r.Size(), len(data))
	}
	got := r.SHA256()
	if got == "" {
		t.Error("SHA256() returned empty string")
	}
	// Just check it looks like a sha256 hex string (64 chars).
	if len(got) != 64 {
		t.Errorf("SHA256() length = %d, want 64", len(got))
	}
}

func TestReader_EmptyInput(t *testing.T) {
	r := ingest.NewReader(strings.NewReader(""))
	io.ReadAll(r) //nolint:errcheck
	if r.Size() != 0 {
		t.Errorf("Size() = %d, want 0", r.Size())
	}
	// sha256 of empty string is well-known
	const emptySHA = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if r.SHA256() != emptySHA {
		t.Errorf("SHA256('') = %q, want %q", r.SHA256(), emptySHA)
	}
}

func TestReader_MultipleReads(t *testing.T) {
	payload := strings.Repeat("abcdefgh", 1000) // 8000 bytes
	r := ingest.NewReader(strings.NewReader(payload))

	buf := make([]byte, 100)
	total := 0
	for {
		n, err := r.Read(buf)
		total += n
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
	}
	if r.Size() != int64(len(payload)) {
		t.Errorf("Size() = %d, want %d", r.Size(), len(payload))
	}
	if len(r.SHA256()) != 64 {
		t.Error("SHA256() not 64 hex chars")
	}
}

func TestResolve_LocalFile_NotFound(t *testing.T) {
	_, err := ingest.Resolve("/no/such/file.pdf")
	if err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestResolve_LocalFile_IsDirectory(t *testing.T) {
	_, err := ingest.Resolve(t.TempDir())
	if err == nil {
		t.Error("expected error for directory input, got nil")
	}
}

func TestResolve_LocalFile_Read(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paper.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 body"), 0600); err != nil {
		t.Fatal(err)
	}
	src, err := ingest.Resolve(path)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if src.Name != "paper.pdf" || src.Size != 13 {
		t.Errorf("Source = {%q, %d}, want {paper.pdf, 13}", src.Name, src.Size)
	}
	doc, err := src.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(doc.Data) != "%PDF-1.4 body" {
		t.Errorf("Data = %q", doc.Data)
	}
	if len(doc.SHA256) != 64 {
		t.Errorf("SHA256 length = %d, want 64", len(doc.SHA256))
	}
}

func TestResolve_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/papers/foo.pdf" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, "%PDF-1.7")
	}))
	defer srv.Close()

	src, err := ingest.Resolve(srv.URL + "/papers/foo.pdf?download=1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if src.Name != "foo.pdf" {
		t.Errorf("Name = %q, want foo.pdf", src.Name)
	}
	doc, err := src.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(doc.Data) != "%PDF-1.7" {
		t.Errorf("Data = %q", doc.Data)
	}

	missing, err := ingest.Resolve(srv.URL + "/other.pdf")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, err := missing.Read(); err == nil {
		t.Error("expected error for 404 response")
	}
}
