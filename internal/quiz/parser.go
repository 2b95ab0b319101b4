package quiz

import (
	"errors"
	"strings"
)

// ErrNoContent means text extraction produced no usable text for a
// document. It is the one fatal condition in a parse: callers get this
// instead of a silently empty record set.
var ErrNoContent = errors.New("quiz: no extractable content")

// Parser turns raw extracted exam-paper text into validated question
// records. It is a pure transformation over its input: no I/O, no
// state shared between calls, so one Parser may serve any number of
// documents in parallel.
type Parser struct {
	cfg Config
}

// NewParser builds a Parser, filling unset config fields with the
// package defaults.
func NewParser(cfg Config) *Parser {
	return &Parser{cfg: cfg.withDefaults()}
}

// Result is everything one parse yields: the (possibly incomplete)
// paper, the gap report against the expected id range, and the
// per-question diagnostics. The caller always receives all three and
// decides whether a partial capture is acceptable.
type Result struct {
	Paper    Paper
	Missing  []int
	Warnings []Warning
}

// ParsePages concatenates the non-empty page texts of one document
// with newline separators and parses the whole. Pages with no
// extractable text contribute nothing and never break the
// concatenation.
func (p *Parser) ParsePages(pages []string) (*Result, error) {
	joined := make([]string, 0, len(pages))
	for _, page := range pages {
		if strings.TrimSpace(page) != "" {
			joined = append(joined, page)
		}
	}
	return p.Parse(strings.Join(joined, "\n"))
}

// Parse runs the full pipeline over one document's text: scrub,
// locate markers, segment, classify each block, validate, aggregate.
func (p *Parser) Parse(text string) (*Result, error) {
	text = Scrub(text, p.cfg.NoiseTokens)
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoContent
	}

	marks := locateMarkers(text, p.cfg.MaxQuestions)
	blocks := segment(text, marks)

	records := make([]Question, 0, len(blocks))
	var warnings []Warning
	for _, b := range blocks {
		q, ws := finalize(b.id, classifyBlock(b), p.cfg.OptionFiller)
		records = append(records, q)
		warnings = append(warnings, ws...)
	}

	questions, missing, dupWarnings := aggregate(records, p.cfg.MaxQuestions)
	warnings = append(warnings, dupWarnings...)

	return &Result{
		Paper:    Paper{Questions: questions},
		Missing:  missing,
		Warnings: warnings,
	}, nil
}
