package quiz

import (
	"strings"
	"unicode/utf8"
)

// classifierState tracks where the block walk is: still gathering
// question text, gathering options, or finished after the fourth
// option.
type classifierState int

const (
	collectingQuestion classifierState = iota
	collectingOptions
	done
)

// Answer markers seen in the source papers: a check glyph on the
// correct option line, a cross glyph on wrong ones, or the keyword
// "Ans" when the extractor loses the glyphs.
const (
	checkGlyph = '✔'
	crossGlyph = '✗'

	answerKeyword = "Ans"
)

// classified is the raw outcome of walking one block, before padding
// and fallback policy are applied.
type classified struct {
	question string
	options  []string
	answer   string // empty when no marker line was seen
}

// classifyBlock walks a block line by line. Option lines are collected
// in encounter order (the leading digit is a label, not an index)
// until four are seen; everything else accumulates into the question
// text until then. A line carrying an answer marker that is also an
// option line sets the tentative answer, last detection winning.
// Non-option lines carrying the answer keyword are extractor metadata
// and dropped. Once the fourth option is in, the rest of the block is
// trailing boilerplate and ignored.
func classifyBlock(b block) classified {
	var (
		state         = collectingQuestion
		questionParts []string
		options       []string
		answer        string
	)

	for _, raw := range strings.Split(b.text, "\n") {
		if state == done {
			break
		}
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if text, ok := optionText(line); ok {
			options = append(options, text)
			if isAnswerLine(line) {
				answer = text
			}
			state = collectingOptions
			if len(options) == OptionCount {
				state = done
			}
			continue
		}

		if strings.Contains(line, answerKeyword) {
			continue
		}
		questionParts = append(questionParts, line)
	}

	return classified{
		question: strings.Join(questionParts, " "),
		options:  options,
		answer:   answer,
	}
}

// optionText reports whether a line is an option line and, if so,
// returns its trailing text. The shape is an optional single leading
// marker glyph, optional whitespace, then a digit 1..4 followed by a
// period.
func optionText(line string) (string, bool) {
	s := line
	if r, size := utf8.DecodeRuneInString(s); r == checkGlyph || r == crossGlyph {
		s = strings.TrimSpace(s[size:])
	}
	if len(s) < 2 || s[0] < '1' || s[0] > '4' || s[1] != '.' {
		return "", false
	}
	return strings.TrimSpace(s[2:]), true
}

// isAnswerLine reports whether a line claims to carry the correct
// answer.
func isAnswerLine(line string) bool {
	return strings.ContainsRune(line, checkGlyph) || strings.Contains(line, answerKeyword)
}
