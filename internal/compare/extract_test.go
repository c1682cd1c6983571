package compare

import (
	"errors"
	"strings"
	"testing"
)

type fakePDF struct {
	pages    []string
	pageErrs []error
	closed   bool
}

func (f *fakePDF) NumPage() int { return len(f.pages) }

func (f *fakePDF) Text(page int) (string, error) {
	if f.pageErrs[page] != nil {
		return "", f.pageErrs[page]
	}
	return f.pages[page], nil
}

func (f *fakePDF) Close() error {
	f.closed = true
	return nil
}

func withFakePDF(t *testing.T, doc *fakePDF, openErr error) {
	t.Helper()
	prev := openPDF
	openPDF = func([]byte) (pdfDocument, error) {
		if openErr != nil {
			return nil, openErr
		}
		return doc, nil
	}
	t.Cleanup(func() { openPDF = prev })
}

func TestExtractTextSkipsFailedPage(t *testing.T) {
	doc := &fakePDF{
		pages:    []string{"Page one terms.", ""},
		pageErrs: []error{nil, errors.New("no text layer")},
	}
	withFakePDF(t, doc, nil)

	got, err := ExtractText([]byte("%PDF"), "buyer.pdf")
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if !strings.Contains(got.Text, "Page one terms.") {
		t.Fatalf("page 1 text missing: %q", got.Text)
	}
	if got.FailedPages != 1 {
		t.Fatalf("expected 1 failed page, got %d", got.FailedPages)
	}
	if got.PageCount != 2 {
		t.Fatalf("expected 2 pages, got %d", got.PageCount)
	}
	if !doc.closed {
		t.Fatal("document not closed")
	}
}

func TestExtractTextPreservesPageOrder(t *testing.T) {
	doc := &fakePDF{
		pages:    []string{"alpha", "beta", "gamma"},
		pageErrs: []error{nil, nil, nil},
	}
	withFakePDF(t, doc, nil)

	got, err := ExtractText([]byte("%PDF"), "seller.pdf")
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	a := strings.Index(got.Text, "alpha")
	b := strings.Index(got.Text, "beta")
	c := strings.Index(got.Text, "gamma")
	if a < 0 || b < 0 || c < 0 || a > b || b > c {
		t.Fatalf("page order not preserved: %q", got.Text)
	}
}

func TestExtractTextCorruptPDF(t *testing.T) {
	withFakePDF(t, nil, errors.New("not a PDF"))

	_, err := ExtractText([]byte("garbage"), "corrupt.pdf")
	var ee *ExtractionError
	if !errors.As(err, &ee) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
	if ee.Filename != "corrupt.pdf" {
		t.Fatalf("filename not carried: %+v", ee)
	}
}
