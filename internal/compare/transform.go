package compare

import (
	"context"
	"log"
	"time"
)

// RetryPolicy bounds the transformer's reaction to transient provider
// failures. Only errors matched by Retryable are retried; everything else
// fails the request on the first attempt.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
	Retryable   func(error) bool
}

// DefaultRetryPolicy retries rate-limit responses up to 3 attempts total,
// waiting 30s then 60s between attempts.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   30 * time.Second,
		Multiplier:  2,
		Retryable:   IsRateLimited,
	}
}

// pairPacing is the fixed delay between successive chunk-pair calls (not
// retries) to stay under the provider's rate limits.
const pairPacing = 2 * time.Second

// ClauseTransformer issues one model call per aligned chunk pair. It is the
// only pipeline component that performs network I/O.
type ClauseTransformer struct {
	caller ClauseCaller
	policy RetryPolicy
	pacing time.Duration
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewClauseTransformer(caller ClauseCaller) *ClauseTransformer {
	return &ClauseTransformer{
		caller: caller,
		policy: DefaultRetryPolicy(),
		pacing: pairPacing,
		sleep:  sleepCtx,
	}
}

// WithRetryPolicy replaces the default policy. Zero-valued fields fall back
// to the defaults.
func (t *ClauseTransformer) WithRetryPolicy(p RetryPolicy) *ClauseTransformer {
	d := DefaultRetryPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = d.MaxAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = d.BaseDelay
	}
	if p.Multiplier <= 0 {
		p.Multiplier = d.Multiplier
	}
	if p.Retryable == nil {
		p.Retryable = d.Retryable
	}
	t.policy = p
	return t
}

// TransformAll processes pairs strictly in order with the pacing delay
// between calls. The first failure aborts: no partial result is returned.
func (t *ClauseTransformer) TransformAll(ctx context.Context, pairs []ChunkPair, companyName string, priorities []CompanyPriority) ([]TransformationResult, error) {
	results := make([]TransformationResult, 0, len(pairs))
	for i, pair := range pairs {
		if i > 0 {
			if err := t.sleep(ctx, t.pacing); err != nil {
				return nil, &TransformationError{PairIndex: pair.Index, Attempts: 0, Err: err}
			}
		}
		res, err := t.TransformPair(ctx, pair, companyName, priorities)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// TransformPair runs one model call with bounded retry on rate limiting.
func (t *ClauseTransformer) TransformPair(ctx context.Context, pair ChunkPair, companyName string, priorities []CompanyPriority) (TransformationResult, error) {
	prompt := buildUserPrompt(pair, companyName, priorities)
	delay := t.policy.BaseDelay

	var lastErr error
	for attempt := 1; attempt <= t.policy.MaxAttempts; attempt++ {
		analysis, err := t.caller.Complete(ctx, prompt)
		if err == nil {
			return TransformationResult{Index: pair.Index, Analysis: analysis, Attempts: attempt}, nil
		}
		lastErr = err
		if !t.policy.Retryable(err) || attempt == t.policy.MaxAttempts {
			return TransformationResult{}, &TransformationError{PairIndex: pair.Index, Attempts: attempt, Err: err}
		}
		log.Printf("transform: chunk pair %d rate limited, retrying in %s (attempt %d/%d)", pair.Index, delay, attempt, t.policy.MaxAttempts)
		if err := t.sleep(ctx, delay); err != nil {
			return TransformationResult{}, &TransformationError{PairIndex: pair.Index, Attempts: attempt, Err: err}
		}
		delay = time.Duration(float64(delay) * t.policy.Multiplier)
	}
	return TransformationResult{}, &TransformationError{PairIndex: pair.Index, Attempts: t.policy.MaxAttempts, Err: lastErr}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
