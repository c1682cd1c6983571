package compare

import (
	"strings"
	"testing"
)

func TestFormatSummaryHeaderNamesCompanyUpperCase(t *testing.T) {
	out := FormatSummary("---\nCLAUSE: Payment\n---", "Acme Rentals")
	if !strings.HasPrefix(out, "=== CONTRACT ANALYSIS REPORT FOR ACME RENTALS ===") {
		t.Fatalf("missing report header: %q", out)
	}
}

func TestFormatSummaryPassthroughWithoutDelimiter(t *testing.T) {
	in := "No structured sections were produced for this pair."
	if out := FormatSummary(in, "Acme"); out != in {
		t.Fatalf("expected unmodified passthrough, got %q", out)
	}
}

func TestFormatSummarySubstitutesCompanyName(t *testing.T) {
	in := "---\nThis damages Seller's cash flow. Seller must retain title.\n---"
	out := FormatSummary(in, "Acme")
	if !strings.Contains(out, "Acme's cash flow") {
		t.Fatalf("possessive substitution missing: %q", out)
	}
	if !strings.Contains(out, "Acme must retain title") {
		t.Fatalf("plain substitution missing: %q", out)
	}
	if strings.Contains(out, "Seller's") {
		t.Fatalf("generic possessive left behind: %q", out)
	}
}

func TestFormatSummaryDefaultNameLeavesSellerAlone(t *testing.T) {
	in := "---\nSeller's interests and Seller remedies.\n---"
	out := FormatSummary(in, "")
	if !strings.Contains(out, "Seller's interests") {
		t.Fatalf("default company name must not rewrite Seller: %q", out)
	}
	if !strings.HasPrefix(out, "=== CONTRACT ANALYSIS REPORT FOR SELLER ===") {
		t.Fatalf("missing default header: %q", out)
	}
}

func TestFormatSummaryDropsEmptySections(t *testing.T) {
	in := "---\n\n---\nCLAUSE: Liability\nDetails here.\n---\n   \n---"
	out := FormatSummary(in, "Acme")
	if strings.Count(out, "CLAUSE:") != 1 {
		t.Fatalf("expected a single section, got %q", out)
	}
	if strings.Contains(out, "------") {
		t.Fatalf("empty sections leaked into output: %q", out)
	}
}

func TestFormatSummaryAllDelimiterNoContent(t *testing.T) {
	in := "---"
	if out := FormatSummary(in, "Acme"); out != in {
		t.Fatalf("delimiter-only input should pass through, got %q", out)
	}
}
