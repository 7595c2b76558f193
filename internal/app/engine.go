// Package app provides the evaluation engine facade that binds the
// test-data provider, the evaluator and the leaderboard store into the
// operations the HTTP boundary needs.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/matheusft/hackathon-evaluator/internal/adapters/repository"
	"github.com/matheusft/hackathon-evaluator/internal/adapters/submitlog"
	"github.com/matheusft/hackathon-evaluator/internal/domain/evaluator"
	"github.com/matheusft/hackathon-evaluator/internal/domain/model"
	"github.com/matheusft/hackathon-evaluator/internal/domain/scoring"
	"github.com/matheusft/hackathon-evaluator/internal/domain/testdata"
	"github.com/matheusft/hackathon-evaluator/internal/domain/validate"
	"github.com/matheusft/hackathon-evaluator/pkg/logger"
	"github.com/matheusft/hackathon-evaluator/pkg/metrics"
)

// Receipt is the composed response for one submission.
type Receipt struct {
	Valid      bool
	Reason     string
	Accepted   bool // whether the leaderboard entry changed
	Score      float64
	Rank       int
	Evaluation *model.EvaluationResult
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithStrategy sets the scoring strategy.
func WithStrategy(s scoring.Strategy) Option {
	return func(e *Engine) {
		if s != nil {
			e.strategy = s
		}
	}
}

// WithStore sets the leaderboard store.
func WithStore(s repository.Store) Option {
	return func(e *Engine) {
		if s != nil {
			e.store = s
		}
	}
}

// WithProvider sets the test-data provider.
func WithProvider(p testdata.Provider) Option {
	return func(e *Engine) {
		if p != nil {
			e.provider = p
		}
	}
}

// WithSubmitLog sets the submission-history recorder.
func WithSubmitLog(r submitlog.Recorder) Option {
	return func(e *Engine) {
		if r != nil {
			e.submitLog = r
		}
	}
}

// Engine implements the evaluation and ranking operations. It owns no
// mutable state of its own; the store is the single shared resource and
// guards itself.
type Engine struct {
	provider  testdata.Provider
	strategy  scoring.Strategy
	store     repository.Store
	submitLog submitlog.Recorder
	eval      *evaluator.Evaluator
	logger    logger.Logger
}

// New constructs an Engine with default in-memory collaborators, then
// applies options.
func New(opts ...Option) *Engine {
	e := &Engine{
		provider:  testdata.NewTemplateProvider(),
		strategy:  scoring.NewRubricStrategy(),
		store:     repository.NewMemStore(),
		submitLog: submitlog.Nop{},
		logger:    logger.Get().Named("engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.eval = evaluator.New(e.strategy, e.provider)
	return e
}

// GetTestData issues the deterministic batch for a participant/tag pair.
func (e *Engine) GetTestData(ctx context.Context, participant, tag string) (*model.TestDataBatch, error) {
	if tag == "" {
		tag = validate.DefaultSubmissionTag
	}
	batch, err := e.provider.Generate(ctx, participant, tag)
	if err != nil {
		return nil, fmt.Errorf("generate test data: %w", err)
	}
	metrics.RecordBatchIssued()
	e.logger.Debug(ctx, "issued test data batch",
		logger.String("participant", participant),
		logger.String("tag", tag),
		logger.String("batchID", batch.BatchID),
		logger.Int("testCases", len(batch.TestCases)),
	)
	return batch, nil
}

// SubmitResults evaluates a submission, updates the leaderboard on success,
// and composes the score/rank receipt. Validation failures come back as an
// invalid receipt, not an error; only persistence faults are errors.
func (e *Engine) SubmitResults(ctx context.Context, sub *model.Submission) (*Receipt, error) {
	start := time.Now()
	defer func() {
		metrics.RecordEvaluationDuration(time.Since(start).Seconds())
	}()

	batch := e.batchFor(ctx, sub)

	result, err := e.eval.Evaluate(ctx, sub, batch)
	if err != nil {
		return nil, fmt.Errorf("evaluate submission: %w", err)
	}
	metrics.RecordSubmissionEvaluated()

	if !result.Valid {
		metrics.RecordValidationFailure()
		e.logger.Info(ctx, "submission rejected",
			logger.String("participant", sub.ParticipantName),
			logger.String("reason", result.Reason),
		)
		return &Receipt{Valid: false, Reason: result.Reason, Evaluation: result}, nil
	}
	metrics.RecordFinalScore(result.FinalScore)

	// Leaderboard comparison uses the full-precision score; only the
	// receipt carries the rounded display value.
	accepted, err := e.store.SubmitScore(ctx, sub.ParticipantName, sub.SubmissionTag, result.FinalScore, result.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("update leaderboard: %w", err)
	}

	rank, err := e.store.RankOf(ctx, sub.ParticipantName)
	if err != nil {
		return nil, fmt.Errorf("rank lookup: %w", err)
	}

	if !e.submitLog.Record(ctx, sub.ParticipantName, sub.SubmissionTag, result, rank) {
		e.logger.Warn(ctx, "submission history write failed",
			logger.String("participant", sub.ParticipantName),
		)
	}

	e.logger.Info(ctx, "submission scored",
		logger.String("participant", sub.ParticipantName),
		logger.String("tag", sub.SubmissionTag),
		logger.Float64("score", result.DisplayScore),
		logger.Int("rank", rank),
		logger.Bool("accepted", accepted),
	)

	return &Receipt{
		Valid:      true,
		Accepted:   accepted,
		Score:      result.DisplayScore,
		Rank:       rank,
		Evaluation: result,
	}, nil
}

// Leaderboard returns the ranked snapshot, truncated to limit when limit is
// positive.
func (e *Engine) Leaderboard(ctx context.Context, limit int) ([]repository.Entry, error) {
	entries, err := e.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("leaderboard snapshot: %w", err)
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Rank returns one participant's entry from the current snapshot.
func (e *Engine) Rank(ctx context.Context, participant string) (repository.Entry, error) {
	entries, err := e.store.Snapshot(ctx)
	if err != nil {
		return repository.Entry{}, fmt.Errorf("leaderboard snapshot: %w", err)
	}
	for _, entry := range entries {
		if entry.ParticipantName == participant {
			return entry, nil
		}
	}
	return repository.Entry{}, repository.ErrNotFound
}

// Stats returns service statistics for monitoring.
func (e *Engine) Stats(ctx context.Context) map[string]any {
	return map[string]any{
		"strategy":     e.strategy.Name(),
		"participants": e.store.Count(ctx),
	}
}

// batchFor regenerates the batch a submission claims to answer. Submissions
// that fail structural validation later don't need one, so generation
// problems fall through to nil and the evaluator's stub path.
func (e *Engine) batchFor(ctx context.Context, sub *model.Submission) *model.TestDataBatch {
	if sub == nil || sub.ParticipantName == "" {
		return nil
	}
	tag := sub.SubmissionTag
	if tag == "" {
		tag = validate.DefaultSubmissionTag
	}
	batch, err := e.provider.Generate(ctx, sub.ParticipantName, tag)
	if err != nil {
		e.logger.Warn(ctx, "batch regeneration failed", logger.Error(err))
		return nil
	}
	return batch
}
