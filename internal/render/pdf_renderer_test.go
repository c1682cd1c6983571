package render

import (
	"strings"
	"testing"
	"time"
)

func TestSummaryToMarkdownPromotesBannerAndClauses(t *testing.T) {
	in := "=== CONTRACT ANALYSIS REPORT FOR ACME ===\n\nCLAUSE: Payment Terms\nSeller requires net 30."
	out := summaryToMarkdown(in)
	if !strings.Contains(out, "## CONTRACT ANALYSIS REPORT FOR ACME") {
		t.Fatalf("expected banner heading, got: %s", out)
	}
	if !strings.Contains(out, "**CLAUSE: Payment Terms**") {
		t.Fatalf("expected bold clause label, got: %s", out)
	}
	if !strings.Contains(out, "Seller requires net 30.") {
		t.Fatalf("body text lost: %s", out)
	}
}

func TestSummaryToMarkdownNoopOnPlainText(t *testing.T) {
	in := "just a sentence\nand another"
	if out := summaryToMarkdown(in); out != in {
		t.Fatalf("expected no change for plain text, got: %s", out)
	}
}

func TestBuildHTMLIncludesMetaAndTitle(t *testing.T) {
	doc, err := buildHTML(Report{
		CompanyName:    "Acme Rentals",
		SellerFilename: "seller.pdf",
		BuyerFilename:  "buyer.pdf",
		Summary:        "=== CONTRACT ANALYSIS REPORT FOR ACME RENTALS ===\n\nCLAUSE: Liability",
		CreatedAt:      time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("buildHTML: %v", err)
	}
	if !strings.Contains(doc, "Contract Analysis Report for Acme Rentals") {
		t.Fatalf("title missing: %s", doc)
	}
	if !strings.Contains(doc, "seller.pdf") || !strings.Contains(doc, "buyer.pdf") {
		t.Fatalf("document filenames missing: %s", doc)
	}
	if !strings.Contains(doc, "<strong>CLAUSE: Liability</strong>") {
		t.Fatalf("clause label not rendered: %s", doc)
	}
}

func TestBuildHTMLEscapesCompanyName(t *testing.T) {
	doc, err := buildHTML(Report{CompanyName: "<script>alert(1)</script>", Summary: "body"})
	if err != nil {
		t.Fatalf("buildHTML: %v", err)
	}
	if strings.Contains(doc, "<script>alert(1)</script>") {
		t.Fatalf("company name not escaped: %s", doc)
	}
}
