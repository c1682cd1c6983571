package compare

import (
	"context"
	"log"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Transformer is the outbound-calling stage of the pipeline, satisfied by
// *ClauseTransformer and by fakes in tests.
type Transformer interface {
	TransformAll(ctx context.Context, pairs []ChunkPair, companyName string, priorities []CompanyPriority) ([]TransformationResult, error)
}

// Pipeline sequences extraction, normalization, chunking, transformation,
// diffing and formatting for one comparison request. It holds no per-request
// state and is safe for concurrent use; retry policy lives entirely inside
// the transformer.
type Pipeline struct {
	transformer Transformer
	tokenBudget int
	tracer      trace.Tracer
}

func NewPipeline(transformer Transformer) *Pipeline {
	return &Pipeline{
		transformer: transformer,
		tokenBudget: DefaultTokenBudget,
		tracer:      otel.Tracer("contractlens/compare"),
	}
}

// WithTokenBudget overrides the per-chunk token target.
func (p *Pipeline) WithTokenBudget(tokens int) *Pipeline {
	if tokens > 0 {
		p.tokenBudget = tokens
	}
	return p
}

// Compare runs the full pipeline once. It fails fast: the first stage error
// aborts the request and no partial summary is ever returned.
func (p *Pipeline) Compare(ctx context.Context, req Request) (Result, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.compare")
	defer span.End()

	if req.CompanyName == "" {
		req.CompanyName = "Seller"
	}
	res := Result{StartedAt: time.Now()}

	var err error
	res.SellerPages, res.BuyerPages, err = p.extract(ctx, req)
	if err != nil {
		return Result{}, p.fail(span, &StageError{Stage: "extract", Err: err})
	}

	sellerText := Normalize(res.SellerPages.Text)
	buyerText := Normalize(res.BuyerPages.Text)

	sellerChunks := SplitChunks(sellerText, p.tokenBudget)
	buyerChunks := SplitChunks(buyerText, p.tokenBudget)
	res.SellerChunks = len(sellerChunks)
	res.BuyerChunks = len(buyerChunks)

	pairs, droppedBuyer, droppedSeller := PairChunks(buyerChunks, sellerChunks)
	res.DroppedBuyerChunks = droppedBuyer
	res.DroppedSellerChunks = droppedSeller
	if droppedBuyer > 0 || droppedSeller > 0 {
		log.Printf("compare: chunk counts differ (buyer=%d seller=%d); %d buyer and %d seller trailing chunk(s) not analyzed",
			len(buyerChunks), len(sellerChunks), droppedBuyer, droppedSeller)
	}
	span.SetAttributes(
		attribute.Int("chunks.buyer", res.BuyerChunks),
		attribute.Int("chunks.seller", res.SellerChunks),
		attribute.Int("chunks.dropped", droppedBuyer+droppedSeller),
	)

	transformed, err := p.transform(ctx, pairs, req.CompanyName, req.Priorities)
	if err != nil {
		return Result{}, p.fail(span, &StageError{Stage: "transform", Err: err})
	}
	for _, t := range transformed {
		res.TotalLLMCalls += t.Attempts
		if t.Attempts > 1 {
			res.TotalRetries += t.Attempts - 1
		}
	}

	parts := make([]string, len(transformed))
	for i, t := range transformed {
		parts[i] = t.Analysis
	}
	res.TransformedText = strings.Join(parts, "\n\n")

	_, diffSpan := p.tracer.Start(ctx, "pipeline.diff")
	res.Diff = DiffTexts(buyerText, res.TransformedText)
	diffSpan.End()

	res.Summary = FormatSummary(res.TransformedText, req.CompanyName)
	res.CompletedAt = time.Now()
	return res, nil
}

func (p *Pipeline) extract(ctx context.Context, req Request) (seller, buyer ExtractedText, err error) {
	_, span := p.tracer.Start(ctx, "pipeline.extract")
	defer span.End()

	seller, err = ExtractText(req.SellerPDF, req.SellerFilename)
	if err != nil {
		return ExtractedText{}, ExtractedText{}, err
	}
	buyer, err = ExtractText(req.BuyerPDF, req.BuyerFilename)
	if err != nil {
		return ExtractedText{}, ExtractedText{}, err
	}
	span.SetAttributes(
		attribute.Int("pages.seller_failed", seller.FailedPages),
		attribute.Int("pages.buyer_failed", buyer.FailedPages),
	)
	return seller, buyer, nil
}

func (p *Pipeline) transform(ctx context.Context, pairs []ChunkPair, companyName string, priorities []CompanyPriority) ([]TransformationResult, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.transform",
		trace.WithAttributes(attribute.Int("pairs", len(pairs))))
	defer span.End()

	results, err := p.transformer.TransformAll(ctx, pairs, companyName, priorities)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return results, nil
}

func (p *Pipeline) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
