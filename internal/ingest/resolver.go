package ingest

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MaxDocumentSize caps how much is read from any source.
const MaxDocumentSize = 512 << 20

// Source holds a resolved input ready for reading.
type Source struct {
	// Name is the original filename (no directory).
	Name string
	// Size is the byte count if known in advance (-1 if unknown).
	Size int64
	// Open returns a new ReadCloser.
	Open func() (io.ReadCloser, error)
}

// Resolve determines the type of input and returns a Source.
// Supported formats:
//
//	/path/to/file.pdf          local file
//	https://example.com/f.pdf  HTTP URL
func Resolve(input string) (*Source, error) {
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		return resolveHTTP(input)
	}
	return resolveFile(input)
}

func resolveFile(path string) (*Source, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%q is a directory", path)
	}
	return &Source{
		Name: filepath.Base(path),
		Size: fi.Size(),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

func resolveHTTP(url string) (*Source, error) {
	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Head(url)
	size := int64(-1)
	if err == nil {
		if resp.StatusCode == http.StatusOK && resp.ContentLength > 0 {
			size = resp.ContentLength
		}
		resp.Body.Close()
	}

	return &Source{
		Name: guessFilenameFromURL(url),
		Size: size,
		Open: func() (io.ReadCloser, error) {
			getClient := &http.Client{Timeout: 5 * time.Minute}
			r, err := getClient.Get(url)
			if err != nil {
				return nil, err
			}
			if r.StatusCode != http.StatusOK {
				r.Body.Close()
				return nil, fmt.Errorf("GET %s: status %d", url, r.StatusCode)
			}
			return r.Body, nil
		},
	}, nil
}

func guessFilenameFromURL(rawURL string) string {
	if idx := strings.Index(rawURL, "?"); idx >= 0 {
		rawURL = rawURL[:idx]
	}
	base := filepath.Base(rawURL)
	if base == "" || base == "." || base == "/" {
		return "download"
	}
	return base
}

// Document is a fully read source.
type Document struct {
	Name   string
	Data   []byte
	SHA256 string
}

// Read reads the whole source, up to MaxDocumentSize bytes.
func (s *Source) Read() (*Document, error) {
	rc, err := s.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	r := NewReader(io.LimitReader(rc, MaxDocumentSize+1))
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.Name, err)
	}
	if r.Size() > MaxDocumentSize {
		return nil, fmt.Errorf("%s is larger than %d MB", s.Name, MaxDocumentSize>>20)
	}
	return &Document{Name: s.Name, Data: data, SHA256: r.SHA256()}, nil
}
