package quiz

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// markerPrefix introduces a question boundary in the source text.
const markerPrefix = "Q."

// marker records where one question begins. start is the offset of the
// marker token itself, contentStart the offset just past it.
type marker struct {
	id           int
	start        int
	contentStart int
}

// locateMarkers finds the first occurrence of each question marker for
// sequence numbers 1..maxQuestions. The digit run after "Q." is read
// maximally and the marker is accepted only when the next rune is
// whitespace, an uppercase letter, or end of text; a digit would have
// extended the number instead, which is what keeps marker 3 from
// matching inside "Q.35". Numbers that never occur are simply absent
// and surface later in the gap report.
//
// The result is sorted by byte offset, not by sequence number:
// out-of-order page extraction can make the two orders differ, and the
// segmenter needs positional order.
func locateMarkers(text string, maxQuestions int) []marker {
	seen := make(map[int]bool)
	var marks []marker

	for pos := 0; pos < len(text); {
		rel := strings.Index(text[pos:], markerPrefix)
		if rel < 0 {
			break
		}
		start := pos + rel
		digits := start + len(markerPrefix)
		end := digits
		for end < len(text) && text[end] >= '0' && text[end] <= '9' {
			end++
		}
		pos = digits

		if end == digits || text[digits] == '0' {
			continue
		}
		if !markerBoundary(text, end) {
			continue
		}
		id, err := strconv.Atoi(text[digits:end])
		if err != nil || id < 1 || id > maxQuestions {
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		marks = append(marks, marker{id: id, start: start, contentStart: end})
	}

	sort.Slice(marks, func(i, j int) bool { return marks[i].start < marks[j].start })
	return marks
}

// markerBoundary reports whether the rune at offset terminates a
// marker token.
func markerBoundary(text string, offset int) bool {
	if offset >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[offset:])
	return unicode.IsSpace(r) || unicode.IsUpper(r)
}
