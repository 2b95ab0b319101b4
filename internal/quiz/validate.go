package quiz

import "fmt"

// WarningKind labels a data-quality finding on one record. Warnings
// never block output; they let a reviewer decide whether a partial
// capture is acceptable.
type WarningKind string

const (
	WarnEmptyQuestion  WarningKind = "empty_question"
	WarnPaddedOptions  WarningKind = "padded_options"
	WarnFallbackAnswer WarningKind = "fallback_answer"
	WarnDuplicateID    WarningKind = "duplicate_id"
)

// Warning is one diagnostic attached to a question id.
type Warning struct {
	ID     int         `json:"id"`
	Kind   WarningKind `json:"kind"`
	Detail string      `json:"detail,omitempty"`
}

// finalize freezes one classified block into a Question, applying the
// deterministic recovery policy: options are padded with the sentinel
// filler to exactly four, and when no answer marker was detected the
// first option stands in, so the answer is always one of the options.
// A detected answer is always preferred over the fallback.
func finalize(id int, c classified, filler string) (Question, []Warning) {
	var warnings []Warning

	options := append([]string(nil), c.options...)
	if n := len(options); n < OptionCount {
		warnings = append(warnings, Warning{
			ID:     id,
			Kind:   WarnPaddedOptions,
			Detail: fmt.Sprintf("%d of %d options detected", n, OptionCount),
		})
		for len(options) < OptionCount {
			options = append(options, filler)
		}
	}

	answer := c.answer
	if answer == "" {
		answer = options[0]
		warnings = append(warnings, Warning{ID: id, Kind: WarnFallbackAnswer})
	}

	if c.question == "" {
		// Emitted anyway: dropping the id would corrupt the gap report.
		warnings = append(warnings, Warning{ID: id, Kind: WarnEmptyQuestion})
	}

	return Question{
		ID:       id,
		Question: c.question,
		Options:  options,
		Answer:   answer,
	}, warnings
}
