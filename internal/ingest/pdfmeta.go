package ingest

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode/utf16"

	"github.com/ledongthuc/pdf"
)

// PDFMetadata holds what can be read from a PDF without rendering it.
type PDFMetadata struct {
	Title    string
	Author   string
	Subject  string
	Keywords string
	Pages    int
}

// Authors splits the Author field on ";" or "," into names.
func (m *PDFMetadata) Authors() []string {
	return splitList(m.Author)
}

// KeywordList splits the Keywords field on ";" or "," into terms.
func (m *PDFMetadata) KeywordList() []string {
	return splitList(m.Keywords)
}

// ExtractPDFMetadata reads the metadata of the PDF at path.
func ExtractPDFMetadata(path string) (*PDFMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return InspectPDF(data)
}

// InspectPDF parses data with the PDF reader and falls back to scanning
// the raw bytes for the Info dictionary when the document's cross-reference
// table cannot be parsed.
func InspectPDF(data []byte) (*PDFMetadata, error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, fmt.Errorf("not a PDF document")
	}
	if meta, err := parsePDF(data); err == nil {
		return meta, nil
	}
	return scanPDF(data), nil
}

func parsePDF(data []byte) (meta *PDFMetadata, err error) {
	// The reader panics on some malformed objects.
	defer func() {
		if r := recover(); r != nil {
			meta, err = nil, fmt.Errorf("parse pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse pdf: %w", err)
	}
	info := r.Trailer().Key("Info")
	field := func(name string) string {
		v := info.Key(name)
		if v.IsNull() {
			return ""
		}
		return strings.TrimSpace(v.Text())
	}
	return &PDFMetadata{
		Title:    field("Title"),
		Author:   field("Author"),
		Subject:  field("Subject"),
		Keywords: field("Keywords"),
		Pages:    r.NumPage(),
	}, nil
}

// pageObjectRe matches page objects but not the /Pages tree nodes.
var pageObjectRe = regexp.MustCompile(`/Type\s*/Page\b`)

// scanPDF is a best-effort regex scan of the first and last 8KB, which is
// where the Info dictionary usually sits.
func scanPDF(data []byte) *PDFMetadata {
	const window = 8192
	text := data
	if len(data) > 2*window {
		text = append(append([]byte{}, data[:window]...), data[len(data)-window:]...)
	}
	s := string(text)
	return &PDFMetadata{
		Title:    extractField(s, "Title"),
		Author:   extractField(s, "Author"),
		Subject:  extractField(s, "Subject"),
		Keywords: extractField(s, "Keywords"),
		Pages:    len(pageObjectRe.FindAllIndex(data, -1)),
	}
}

// extractField looks for /FieldName (value) or /FieldName <hex> patterns
func extractField(text, field string) string {
	pattern := `\/` + field + `\s*\(([^)]+)\)`
	re := regexp.MustCompile(pattern)
	if match := re.FindStringSubmatch(text); len(match) > 1 {
		return decodePDFString(match[1])
	}

	hexPattern := `\/` + field + `\s*<([0-9A-Fa-f]+)>`
	reHex := regexp.MustCompile(hexPattern)
	if match := reHex.FindStringSubmatch(text); len(match) > 1 {
		return decodeHexString(match[1])
	}

	return ""
}

// decodePDFString handles basic PDF string escaping
func decodePDFString(s string) string {
	s = strings.ReplaceAll(s, `\n`, "\n")
	s = strings.ReplaceAll(s, `\r`, "\r")
	s = strings.ReplaceAll(s, `\t`, "\t")
	s = strings.ReplaceAll(s, `\(`, "(")
	s = strings.ReplaceAll(s, `\)`, ")")
	s = strings.ReplaceAll(s, `\\`, "\\")
	return strings.TrimSpace(s)
}

// decodeHexString decodes UTF-16BE hex strings
func decodeHexString(hex string) string {
	hex = strings.TrimPrefix(hex, "FEFF")
	hex = strings.TrimPrefix(hex, "feff")

	if len(hex)%2 != 0 {
		return ""
	}

	rawBytes := make([]byte, len(hex)/2)
	for i := 0; i < len(rawBytes); i++ {
		rawBytes[i] = hexValue(hex[i*2])<<4 | hexValue(hex[i*2+1])
	}

	if len(rawBytes)%2 != 0 {
		return string(rawBytes)
	}

	u16 := make([]uint16, len(rawBytes)/2)
	for i := 0; i < len(u16); i++ {
		u16[i] = uint16(rawBytes[i*2])<<8 | uint16(rawBytes[i*2+1])
	}
	return string(utf16.Decode(u16))
}

func hexValue(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

func splitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == ',' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
