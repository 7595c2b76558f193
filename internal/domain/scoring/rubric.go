package scoring

import (
	"context"
	"hash/fnv"
	"math/rand"

	"github.com/matheusft/hackathon-evaluator/internal/domain/model"
)

// Default rubric configuration.
const (
	defaultAccuracyWeight     = 0.4
	defaultPerformanceWeight  = 0.3
	defaultCompletenessWeight = 0.3

	defaultTimeThreshold   = 10.0   // seconds
	defaultMemoryThreshold = 1000.0 // megabytes

	// Missing performance metadata is scored neutrally, not punitively, so
	// omitting a value is cheaper than reporting a bad one.
	neutralSubScore = 0.5

	defaultBaseScoreMin = 0.6
	defaultBaseScoreMax = 0.95
)

// Completeness point allocations.
const (
	processedDataPoints    = 0.5
	metadataPoints         = 0.2
	qualityChecksPoints    = 0.2
	validationStatusPoints = 0.1
)

// RubricOption applies a configuration option to the RubricStrategy.
type RubricOption func(*RubricStrategy)

// WithRubricWeights sets the criterion weights. Unknown keys are ignored;
// weight-sum validation happens at config load.
func WithRubricWeights(weights map[string]float64) RubricOption {
	return func(s *RubricStrategy) {
		if w, found := weights["accuracy"]; found && w > 0 {
			s.accuracyWeight = w
		}
		if w, found := weights["performance"]; found && w > 0 {
			s.performanceWeight = w
		}
		if w, found := weights["completeness"]; found && w > 0 {
			s.completenessWeight = w
		}
	}
}

// WithPerformanceThresholds sets the time and memory thresholds.
func WithPerformanceThresholds(timeSec, memoryMB float64) RubricOption {
	return func(s *RubricStrategy) {
		if timeSec > 0 {
			s.timeThreshold = timeSec
		}
		if memoryMB > 0 {
			s.memoryThreshold = memoryMB
		}
	}
}

// WithBaseScoreRange sets the range the stub accuracy model draws from when
// no batch context is available.
func WithBaseScoreRange(min, max float64) RubricOption {
	return func(s *RubricStrategy) {
		if min >= 0 && max <= 1 && max > min {
			s.baseScoreMin = min
			s.baseScoreMax = max
		}
	}
}

// RubricStrategy scores a submission on accuracy, performance and
// completeness.
type RubricStrategy struct {
	accuracyWeight     float64
	performanceWeight  float64
	completenessWeight float64

	timeThreshold   float64
	memoryThreshold float64

	baseScoreMin float64
	baseScoreMax float64
}

// NewRubricStrategy creates the rubric strategy with configuration options.
func NewRubricStrategy(opts ...RubricOption) *RubricStrategy {
	s := &RubricStrategy{
		accuracyWeight:     defaultAccuracyWeight,
		performanceWeight:  defaultPerformanceWeight,
		completenessWeight: defaultCompletenessWeight,
		timeThreshold:      defaultTimeThreshold,
		memoryThreshold:    defaultMemoryThreshold,
		baseScoreMin:       defaultBaseScoreMin,
		baseScoreMax:       defaultBaseScoreMax,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements Strategy.
func (s *RubricStrategy) Name() string { return StrategyRubric }

// Score implements Strategy.
func (s *RubricStrategy) Score(ctx context.Context, sub *model.Submission, batch *model.TestDataBatch) ([]model.CriterionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	accuracy := s.accuracyScore(sub, batch)
	performance := s.performanceScore(sub.Results.Metadata)
	completeness := s.completenessScore(sub.Results)

	return []model.CriterionResult{
		criterion("accuracy", accuracy, s.accuracyWeight),
		criterion("performance", performance, s.performanceWeight),
		criterion("completeness", completeness, s.completenessWeight),
	}, nil
}

func criterion(name string, raw, weight float64) model.CriterionResult {
	return model.CriterionResult{
		Name:          name,
		RawScore:      raw,
		Weight:        weight,
		WeightedScore: raw * weight,
	}
}

// accuracyScore is the credited fraction of the batch's test cases. A test
// case earns credit when the submission carries a well-formed result object
// for it. Without a batch it falls back to the deterministic stub model.
func (s *RubricStrategy) accuracyScore(sub *model.Submission, batch *model.TestDataBatch) float64 {
	if batch == nil || len(batch.TestCases) == 0 {
		return s.stubAccuracy(sub)
	}

	credited := 0
	for _, tc := range batch.TestCases {
		if wellFormedResult(sub.Results.ProcessedData[tc.ID]) {
			credited++
		}
	}
	return float64(credited) / float64(len(batch.TestCases))
}

// wellFormedResult reports whether a submitted result is an object carrying
// a result value.
func wellFormedResult(v any) bool {
	obj, isObject := v.(map[string]any)
	if !isObject {
		return false
	}
	_, hasResult := obj["result"]
	return hasResult
}

// stubAccuracy draws a reproducible score from the configured base range,
// seeded from the submission's identifying fields.
func (s *RubricStrategy) stubAccuracy(sub *model.Submission) float64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(sub.ParticipantName))
	_, _ = h.Write([]byte{'|'})
	_, _ = h.Write([]byte(sub.SubmissionTag))
	_, _ = h.Write([]byte{'|'})
	_, _ = h.Write([]byte(sub.BatchID))
	rng := rand.New(rand.NewSource(int64(h.Sum64()))) //nolint:gosec // deterministic by design
	return s.baseScoreMin + rng.Float64()*(s.baseScoreMax-s.baseScoreMin)
}

// performanceScore averages the clamped time and memory sub-scores.
func (s *RubricStrategy) performanceScore(metadata map[string]any) float64 {
	timeScore := neutralSubScore
	if t, found := asFloat(metadata["processing_time_seconds"]); found {
		timeScore = clamp01(1 - t/s.timeThreshold)
	}

	memoryScore := neutralSubScore
	if m, found := asFloat(metadata["memory_usage_mb"]); found {
		memoryScore = clamp01(1 - m/s.memoryThreshold)
	}

	return (timeScore + memoryScore) / 2
}

// completenessScore sums fixed point allocations, capped at 1.0.
func (s *RubricStrategy) completenessScore(results model.SubmissionResults) float64 {
	score := 0.0
	if len(results.ProcessedData) > 0 {
		score += processedDataPoints
	}
	if len(results.Metadata) > 0 {
		score += metadataPoints
	}
	if passed, isBool := results.Metadata["quality_checks_passed"].(bool); isBool && passed {
		score += qualityChecksPoints
	}
	if status, isString := results.Metadata["validation_status"].(string); isString && status == "passed" {
		score += validationStatusPoints
	}
	return clamp01(score)
}
