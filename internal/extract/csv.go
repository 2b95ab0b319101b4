package extract

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVExtractor handles CSV files: each row becomes one line of text
// with cells joined by spaces, so a paper exported as a sheet still
// carries its markers and option lines.
type CSVExtractor struct{}

func (p *CSVExtractor) Extract(r io.Reader, filename string) (*Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	lines := make([]string, 0, len(records))
	for _, row := range records {
		lines = append(lines, strings.TrimSpace(strings.Join(row, " ")))
	}

	return &Document{
		Name:  docName(filename),
		Pages: []Page{{Number: 1, Text: strings.Join(lines, "\n")}},
	}, nil
}
