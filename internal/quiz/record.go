package quiz

import (
	"encoding/json"
	"fmt"
)

// Question is one parsed exam question. Options always holds exactly
// four entries once a record has been validated, and Answer is one of
// them (possibly the sentinel filler when nothing was detected).
type Question struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// Paper is the stable output contract: an ordered question set plus an
// optional free-form metadata map that collaborators pass through
// unchanged.
type Paper struct {
	Questions []Question        `json:"questions"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Encode serializes the paper in the wire format consumed by the quiz
// frontend and stored in the content store.
func (p *Paper) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encode paper: %w", err)
	}
	return data, nil
}

// DecodePaper parses the wire format back into a Paper.
func DecodePaper(data []byte) (*Paper, error) {
	var p Paper
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode paper: %w", err)
	}
	if p.Questions == nil {
		p.Questions = []Question{}
	}
	return &p, nil
}

// Check verifies the structural invariants of a decoded paper: four
// options per question and an answer drawn from them.
func (p *Paper) Check() error {
	for _, q := range p.Questions {
		if len(q.Options) != OptionCount {
			return fmt.Errorf("question %d: %d options, want %d", q.ID, len(q.Options), OptionCount)
		}
		found := false
		for _, opt := range q.Options {
			if opt == q.Answer {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("question %d: answer %q not among options", q.ID, q.Answer)
		}
	}
	return nil
}
