package extract

import (
	"fmt"
	"io"
	"strings"
)

// TextExtractor handles plain text files. Form feeds act as page
// separators when present; otherwise the whole file is one page.
type TextExtractor struct{}

func (p *TextExtractor) Extract(r io.Reader, filename string) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}

	doc := &Document{Name: docName(filename)}
	for i, page := range strings.Split(string(data), "\f") {
		doc.Pages = append(doc.Pages, Page{Number: i + 1, Text: page})
	}
	return doc, nil
}
