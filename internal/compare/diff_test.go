package compare

import "testing"

func TestDiffReconstruction(t *testing.T) {
	cases := []struct{ a, b string }{
		{"", ""},
		{"same text", "same text"},
		{"payment within 120 days", "payment within 30 days"},
		{"", "entirely new"},
		{"entirely removed", ""},
		{"The Buyer may assign this agreement freely.", "The Buyer may not assign this agreement without the Seller's written consent."},
	}
	for _, c := range cases {
		d := DiffTexts(c.a, c.b)
		if got := d.Original(); got != c.a {
			t.Fatalf("original reconstruction failed: %q != %q", got, c.a)
		}
		if got := d.Transformed(); got != c.b {
			t.Fatalf("transformed reconstruction failed: %q != %q", got, c.b)
		}
	}
}

func TestDiffEqualInputsSingleUnchangedSpan(t *testing.T) {
	d := DiffTexts("identical clause", "identical clause")
	if len(d) != 1 {
		t.Fatalf("expected 1 span, got %d", len(d))
	}
	if d[0].Op != OpUnchanged || d[0].Text != "identical clause" {
		t.Fatalf("unexpected span: %+v", d[0])
	}
}

func TestDiffClassifiesInsertAndDelete(t *testing.T) {
	d := DiffTexts("keep old end", "keep new end")
	var sawInsert, sawDelete bool
	for _, s := range d {
		switch s.Op {
		case OpInserted:
			sawInsert = true
		case OpDeleted:
			sawDelete = true
		}
	}
	if !sawInsert || !sawDelete {
		t.Fatalf("expected both insert and delete spans, got %+v", d)
	}
}
