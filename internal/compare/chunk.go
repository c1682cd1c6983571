package compare

import "strings"

const (
	// charsPerToken converts a token budget into a character budget. It is a
	// documented approximation, not a tokenizer; downstream only needs each
	// chunk to fit one model call, never an exact token count.
	charsPerToken = 4

	// DefaultTokenBudget is the per-chunk token target for one model call.
	DefaultTokenBudget = 3000
)

// SplitChunks splits normalized text into ordered chunks of at most
// tokenBudget*charsPerToken characters. Sections (blank-line boundaries) are
// accumulated greedily; a section that alone exceeds the budget is split
// again on sentence boundaries with the same greedy accumulation. Only a
// single sentence longer than the whole budget can produce an oversized
// chunk. No input content is dropped.
func SplitChunks(text string, tokenBudget int) []string {
	if tokenBudget <= 0 {
		tokenBudget = DefaultTokenBudget
	}
	budget := tokenBudget * charsPerToken

	var chunks []string
	current := ""

	flush := func() {
		if trimmed := strings.TrimSpace(current); trimmed != "" {
			chunks = append(chunks, trimmed)
		}
		current = ""
	}

	sections := strings.Split(text, "\n\n")
	for i, section := range sections {
		piece := section
		if i < len(sections)-1 {
			piece += "\n\n"
		}

		if len(current)+len(piece) < budget {
			current += piece
			continue
		}
		flush()

		if len(piece) <= budget {
			current = piece
			continue
		}

		// Section alone exceeds the budget: fall back to sentence boundaries.
		sentences := strings.Split(piece, ". ")
		for j, sentence := range sentences {
			sp := sentence
			if j < len(sentences)-1 {
				sp += ". "
			}
			if len(current)+len(sp) < budget {
				current += sp
				continue
			}
			flush()
			current = sp
		}
	}
	flush()
	return chunks
}

// PairChunks aligns buyer and seller chunks positionally. When the counts
// differ, the shorter sequence bounds the pairs and the caller is told how
// many trailing chunks on each side went unanalyzed.
func PairChunks(buyer, seller []string) (pairs []ChunkPair, droppedBuyer, droppedSeller int) {
	n := len(buyer)
	if len(seller) < n {
		n = len(seller)
	}
	pairs = make([]ChunkPair, 0, n)
	for i := 0; i < n; i++ {
		pairs = append(pairs, ChunkPair{Index: i, Buyer: buyer[i], Seller: seller[i]})
	}
	return pairs, len(buyer) - n, len(seller) - n
}
