package quiz

import "testing"

func TestScrub_RemovesNoiseTokens(t *testing.T) {
	in := "Adda247 Q.1 Which river?Test Prime\n1. Ganga Google Play"
	got := Scrub(in, DefaultNoiseTokens)
	want := " Q.1 Which river?\n1. Ganga "
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestScrub_Idempotent(t *testing.T) {
	in := "Adda247 Q.1 What?\nINDIAN R text AILWAY"
	once := Scrub(in, DefaultNoiseTokens)
	twice := Scrub(once, DefaultNoiseTokens)
	if once != twice {
		t.Errorf("scrubbing scrubbed text changed it: %q vs %q", once, twice)
	}
}

func TestScrub_AbsentTokensAreNoOps(t *testing.T) {
	in := "Q.1 Clean question text\n1. A"
	if got := Scrub(in, DefaultNoiseTokens); got != in {
		t.Errorf("expected unchanged text, got %q", got)
	}
}

func TestScrub_EmptyTokenIgnored(t *testing.T) {
	in := "some text"
	if got := Scrub(in, []string{"", "text"}); got != "some " {
		t.Errorf("expected %q, got %q", "some ", got)
	}
}
