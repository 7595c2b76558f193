// Package evaluator orchestrates validation, scoring and aggregation for one
// submission.
package evaluator

import (
	"context"
	"math"
	"time"

	"github.com/matheusft/hackathon-evaluator/internal/domain/model"
	"github.com/matheusft/hackathon-evaluator/internal/domain/scoring"
	"github.com/matheusft/hackathon-evaluator/internal/domain/validate"
)

// displayPrecision is the number of decimals kept on the display score.
// Internal comparisons always use the full-precision final score.
const displayPrecision = 3

// BatchVerifier confirms a submission references the batch actually issued
// for its participant/tag pair.
type BatchVerifier interface {
	VerifyBatchID(participant, tag, id string) bool
}

// Option applies a configuration option to the Evaluator.
type Option func(*Evaluator)

// WithClock overrides the timestamp source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(e *Evaluator) {
		if now != nil {
			e.now = now
		}
	}
}

// Evaluator turns a submission plus its batch into an EvaluationResult. It
// never persists; the caller owns leaderboard updates.
type Evaluator struct {
	strategy scoring.Strategy
	verifier BatchVerifier
	now      func() time.Time
}

// New creates an Evaluator bound to a scoring strategy and batch verifier.
func New(strategy scoring.Strategy, verifier BatchVerifier, opts ...Option) *Evaluator {
	e := &Evaluator{
		strategy: strategy,
		verifier: verifier,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate validates and scores one submission. Validation failures,
// including a stale or forged batch reference, produce a terminal
// zero-score result with a reason; errors only surface for faults the
// evaluator cannot absorb (context cancellation, broken strategy).
func (e *Evaluator) Evaluate(ctx context.Context, sub *model.Submission, batch *model.TestDataBatch) (*model.EvaluationResult, error) {
	if outcome := validate.Submission(sub); !outcome.Valid {
		return e.invalid(outcome.Reason), nil
	}

	if e.verifier != nil && !e.verifier.VerifyBatchID(sub.ParticipantName, sub.SubmissionTag, sub.BatchID) {
		return e.invalid("test_data_id does not match the batch issued for this participant"), nil
	}

	criteria, err := e.strategy.Score(ctx, sub, batch)
	if err != nil {
		return nil, err
	}

	var final float64
	for _, c := range criteria {
		final += c.WeightedScore
	}

	return &model.EvaluationResult{
		Valid:        true,
		FinalScore:   final,
		DisplayScore: roundTo(final, displayPrecision),
		Criteria:     criteria,
		Timestamp:    e.now().UTC(),
	}, nil
}

func (e *Evaluator) invalid(reason string) *model.EvaluationResult {
	return &model.EvaluationResult{
		Valid:     false,
		Reason:    reason,
		Timestamp: e.now().UTC(),
	}
}

func roundTo(x float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(x*pow) / pow
}
