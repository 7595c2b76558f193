// Package scoring defines the pluggable strategies that turn a submission
// into criterion-level scores.
package scoring

import (
	"context"
	"fmt"
	"math"

	"github.com/matheusft/hackathon-evaluator/internal/domain/model"
)

// Strategy names selectable by configuration.
const (
	StrategyRubric     = "rubric"
	StrategySimilarity = "similarity"
)

// Strategy computes criterion scores for a submission against its batch.
// Implementations are pure with respect to their inputs: same submission and
// batch always produce the same criteria.
type Strategy interface {
	// Name returns the configuration name of the strategy.
	Name() string

	// Score produces the ordered criterion results. Raw scores are in [0,1];
	// weighted scores are raw * weight.
	Score(ctx context.Context, sub *model.Submission, batch *model.TestDataBatch) ([]model.CriterionResult, error)
}

// Params carries strategy tuning from configuration. Zero values keep the
// strategy defaults; fields a strategy does not use are ignored.
type Params struct {
	Weights              map[string]float64
	TimeThresholdSeconds float64
	MemoryThresholdMB    float64
	BaseScoreMin         float64
	BaseScoreMax         float64
}

// New constructs the named strategy with the given tuning. An empty name
// selects the rubric strategy. Unknown names are a configuration error.
func New(name string, p Params) (Strategy, error) {
	switch name {
	case "", StrategyRubric:
		return NewRubricStrategy(
			WithRubricWeights(p.Weights),
			WithPerformanceThresholds(p.TimeThresholdSeconds, p.MemoryThresholdMB),
			WithBaseScoreRange(p.BaseScoreMin, p.BaseScoreMax),
		), nil
	case StrategySimilarity:
		return NewSimilarityStrategy(WithCheckWeights(p.Weights)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// WeightNames returns the weight keys the named strategy recognizes.
// Configured weights outside this set would silently break weight
// conservation, so config validation rejects them up front.
func WeightNames(name string) ([]string, error) {
	switch name {
	case "", StrategyRubric:
		return []string{"accuracy", "performance", "completeness"}, nil
	case StrategySimilarity:
		s := NewSimilarityStrategy()
		names := make([]string, len(s.checks))
		for i, check := range s.checks {
			names[i] = check.name
		}
		return names, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// clamp01 bounds a score to [0,1].
func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}

// asFloat coerces loosely-typed metadata numbers.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
