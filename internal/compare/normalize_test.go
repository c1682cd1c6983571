package compare

import (
	"strings"
	"testing"
)

func TestNormalizeCollapsesWhitespace(t *testing.T) {
	in := "Payment   terms\t are  net 30.\n\n\nLate  fees   apply.\n"
	want := "Payment terms are net 30.\nLate fees apply."
	if got := Normalize(in); got != want {
		t.Fatalf("Normalize = %q, want %q", got, want)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"single line",
		"a  b\nc\t\td\n\n\ne",
		"already normal\ntext here",
		"trailing spaces   \n   leading spaces",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); once != twice {
			t.Fatalf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalizePreservesWords(t *testing.T) {
	in := "The  Seller retains\n\ntitle to   the Equipment."
	got := strings.Fields(Normalize(in))
	want := strings.Fields(in)
	if len(got) != len(want) {
		t.Fatalf("word count changed: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("word %d changed: got %q, want %q", i, got[i], want[i])
		}
	}
}
