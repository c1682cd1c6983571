package compare

import (
	"log"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// pdfDocument is the subset of go-fitz we use, so tests can inject a fake.
type pdfDocument interface {
	NumPage() int
	Text(page int) (string, error)
	Close() error
}

type pdfOpener func(pdf []byte) (pdfDocument, error)

func defaultPDFOpener(pdf []byte) (pdfDocument, error) {
	return fitz.NewFromMemory(pdf)
}

// openPDF is the package-level opener, overridable in tests.
var openPDF pdfOpener = defaultPDFOpener

// ExtractText pulls plain text out of a PDF byte stream page by page. A page
// that yields no text is counted and skipped; the whole extraction fails only
// when the stream is not a parseable PDF.
func ExtractText(pdf []byte, filename string) (ExtractedText, error) {
	doc, err := openPDF(pdf)
	if err != nil {
		return ExtractedText{}, &ExtractionError{Filename: filename, Err: err}
	}
	defer doc.Close()

	var sb strings.Builder
	out := ExtractedText{PageCount: doc.NumPage()}
	for i := 0; i < out.PageCount; i++ {
		pageText, err := doc.Text(i)
		if err != nil {
			log.Printf("extract: %s page %d yielded no text: %v", filename, i+1, err)
			out.FailedPages++
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}
	out.Text = sb.String()
	return out, nil
}
