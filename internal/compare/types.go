package compare

import "time"

// ExtractedText is the page-ordered text of one uploaded PDF. Pages that
// yield no extractable text are skipped and counted, never fatal.
type ExtractedText struct {
	Text        string
	PageCount   int
	FailedPages int
}

// CompanyPriority is one company-specific priority weighting sourced from the
// profile store. An empty list is valid and omits the priorities section from
// the prompt.
type CompanyPriority struct {
	Name        string `json:"priority_name"`
	Description string `json:"priority_description"`
}

// ChunkPair aligns one buyer chunk with one seller chunk by position.
type ChunkPair struct {
	Index  int
	Buyer  string
	Seller string
}

// TransformationResult is the model's free-text analysis for one chunk pair,
// tagged with the attempt count the call consumed.
type TransformationResult struct {
	Index    int
	Analysis string
	Attempts int
}

// Request carries everything needed for one comparison. CompanyName defaults
// to "Seller" when empty; Priorities may be nil.
type Request struct {
	SellerPDF      []byte
	BuyerPDF       []byte
	SellerFilename string
	BuyerFilename  string
	CompanyName    string
	Priorities     []CompanyPriority
}

// Result is the complete outcome of one comparison request. Either the whole
// pipeline succeeds and produces a summary, or the request fails with no
// partial output.
type Result struct {
	Summary         string
	Diff            DiffResult
	TransformedText string

	BuyerPages  ExtractedText
	SellerPages ExtractedText

	BuyerChunks         int
	SellerChunks        int
	DroppedBuyerChunks  int
	DroppedSellerChunks int

	TotalLLMCalls int
	TotalRetries  int

	StartedAt   time.Time
	CompletedAt time.Time
}
