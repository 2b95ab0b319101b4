package quiz

import "strings"

// Scrub removes every occurrence of the given noise tokens by literal
// substring removal. Removal is irreversible and best-effort: tokens
// that do not occur are no-ops, and scrubbing already-scrubbed text
// changes nothing.
func Scrub(text string, tokens []string) string {
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		text = strings.ReplaceAll(text, tok, "")
	}
	return text
}
