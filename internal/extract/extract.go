package extract

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Document is the best-effort extracted text of one source file, page
// by page. Pages with no extractable text stay in the slice with empty
// text; the quiz parser drops them when joining.
type Document struct {
	Name  string
	Pages []Page
}

// Page is one page of extracted text.
type Page struct {
	Number int
	Text   string
}

// PageTexts returns the page texts in order, for handing to the quiz
// parser.
func (d *Document) PageTexts() []string {
	texts := make([]string, len(d.Pages))
	for i, p := range d.Pages {
		texts[i] = p.Text
	}
	return texts
}

// Extractor converts raw document bytes into per-page text.
type Extractor interface {
	Extract(r io.Reader, filename string) (*Document, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".csv":  true,
	".html": true,
	".htm":  true,
	".pdf":  true,
	".docx": true,
}

// ForFile returns the appropriate extractor for a filename.
func ForFile(filename string) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextExtractor{}, nil
	case ".md", ".markdown":
		return &MarkdownExtractor{}, nil
	case ".csv":
		return &CSVExtractor{}, nil
	case ".html", ".htm":
		return &HTMLExtractor{}, nil
	case ".pdf":
		return &PDFExtractor{}, nil
	case ".docx":
		return &DOCXExtractor{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// docName strips the extension to get a display name for the document.
func docName(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}
