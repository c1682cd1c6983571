package compare

import (
	"github.com/sergi/go-diff/diffmatchpatch"
)

type DiffOp string

const (
	OpUnchanged DiffOp = "unchanged"
	OpInserted  DiffOp = "inserted"
	OpDeleted   DiffOp = "deleted"
)

// DiffSpan is one classified segment of the comparison between the original
// and transformed text.
type DiffSpan struct {
	Op   DiffOp `json:"op"`
	Text string `json:"text"`
}

// DiffResult is ordered. Concatenating unchanged+deleted spans reconstructs
// the original input; unchanged+inserted spans reconstruct the transformed
// input.
type DiffResult []DiffSpan

// DiffTexts computes a character-level diff with semantic cleanup, merging
// adjacent spans and discarding coincidental micro-matches so the span list
// stays readable.
func DiffTexts(original, transformed string) DiffResult {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(original, transformed, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	result := make(DiffResult, 0, len(diffs))
	for _, d := range diffs {
		span := DiffSpan{Text: d.Text}
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			span.Op = OpInserted
		case diffmatchpatch.DiffDelete:
			span.Op = OpDeleted
		default:
			span.Op = OpUnchanged
		}
		result = append(result, span)
	}
	return result
}

// Original reassembles the pre-transformation input from the spans.
func (r DiffResult) Original() string {
	var out []byte
	for _, s := range r {
		if s.Op != OpInserted {
			out = append(out, s.Text...)
		}
	}
	return string(out)
}

// Transformed reassembles the post-transformation text from the spans.
func (r DiffResult) Transformed() string {
	var out []byte
	for _, s := range r {
		if s.Op != OpDeleted {
			out = append(out, s.Text...)
		}
	}
	return string(out)
}
