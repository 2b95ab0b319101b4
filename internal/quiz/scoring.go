package quiz

import "strings"

// ScoreConfig controls marking behavior for the quiz frontend.
type ScoreConfig struct {
	// WrongPenalty is the fraction of one mark deducted per incorrect
	// answer (negative marking, e.g. 1.0/3). Zero disables it.
	WrongPenalty float64
}

// QuestionScore is the per-question line of a marked attempt.
type QuestionScore struct {
	ID       int    `json:"id"`
	Answered bool   `json:"answered"`
	Selected string `json:"selected,omitempty"`
	Answer   string `json:"answer"`
	Correct  bool   `json:"correct"`
}

// ScoreResult is the outcome of marking one attempt against a paper.
type ScoreResult struct {
	Total      float64         `json:"total"`
	MaxTotal   float64         `json:"max_total"`
	Correct    int             `json:"correct"`
	Wrong      int             `json:"wrong"`
	Unanswered int             `json:"unanswered"`
	Breakdown  []QuestionScore `json:"breakdown"`
}

// ScorePaper marks a set of single-choice selections, keyed by
// question id, against a paper. One mark per question, correctness by
// exact string equality with the stored answer; unanswered questions
// score zero.
func ScorePaper(p *Paper, selections map[int]string, cfg ScoreConfig) ScoreResult {
	res := ScoreResult{
		MaxTotal:  float64(len(p.Questions)),
		Breakdown: make([]QuestionScore, 0, len(p.Questions)),
	}

	for _, q := range p.Questions {
		qs := QuestionScore{ID: q.ID, Answer: q.Answer}
		sel, ok := selections[q.ID]
		if !ok || strings.TrimSpace(sel) == "" {
			res.Unanswered++
			res.Breakdown = append(res.Breakdown, qs)
			continue
		}
		qs.Answered = true
		qs.Selected = sel
		if sel == q.Answer {
			qs.Correct = true
			res.Correct++
			res.Total++
		} else {
			res.Wrong++
			res.Total -= cfg.WrongPenalty
		}
		res.Breakdown = append(res.Breakdown, qs)
	}
	return res
}
