package scoring

import (
	"context"
	"math"

	"github.com/matheusft/hackathon-evaluator/internal/domain/model"
)

// Similarity thresholds shared by the checks.
const (
	defaultHighSimilarity      = 0.85
	defaultLowSimilarity       = 0.30
	defaultSingleOptionDiffMin = 0.75
)

// similarityCheck is one named groupwise check over submitted embeddings.
type similarityCheck struct {
	id     string // test-case key in processed_data
	name   string // configuration/weight key
	weight float64
	eval   func(s *SimilarityStrategy, embeddings [][]float64) float64
}

// SimilarityOption applies a configuration option to the SimilarityStrategy.
type SimilarityOption func(*SimilarityStrategy)

// WithCheckWeights overrides per-check weights by check name.
func WithCheckWeights(weights map[string]float64) SimilarityOption {
	return func(s *SimilarityStrategy) {
		for i := range s.checks {
			if w, found := weights[s.checks[i].name]; found && w > 0 {
				s.checks[i].weight = w
			}
		}
	}
}

// WithSimilarityThresholds overrides the shared similarity bands.
func WithSimilarityThresholds(high, low float64) SimilarityOption {
	return func(s *SimilarityStrategy) {
		if high > low && high <= 1 && low >= 0 {
			s.highSimilarity = high
			s.lowSimilarity = low
		}
	}
}

// SimilarityStrategy scores embedding submissions with a fixed battery of
// pairwise and groupwise cosine-similarity checks. Each check declares a
// directionality: reward-low (separation), reward-high (invariance) or a
// moderate target band.
type SimilarityStrategy struct {
	highSimilarity      float64
	lowSimilarity       float64
	singleOptionDiffMin float64

	checks []similarityCheck
}

// NewSimilarityStrategy creates the similarity strategy with configuration
// options.
func NewSimilarityStrategy(opts ...SimilarityOption) *SimilarityStrategy {
	s := &SimilarityStrategy{
		highSimilarity:      defaultHighSimilarity,
		lowSimilarity:       defaultLowSimilarity,
		singleOptionDiffMin: defaultSingleOptionDiffMin,
		checks: []similarityCheck{
			{"test_1", "price_extremes", 0.15, (*SimilarityStrategy).priceExtremes},
			{"test_2", "single_option_difference", 0.15, (*SimilarityStrategy).singleOptionDiff},
			{"test_3", "model_year_sensitivity", 0.10, (*SimilarityStrategy).modelYearSensitivity},
			{"test_4", "color_sensitivity", 0.10, (*SimilarityStrategy).colorSensitivity},
			{"test_5", "trim_level_similarity", 0.10, (*SimilarityStrategy).trimSimilarity},
			{"test_6", "vehicle_line_separation", 0.10, (*SimilarityStrategy).vehicleLineSeparation},
			{"test_7", "derivative_clustering", 0.10, (*SimilarityStrategy).derivativeClustering},
			{"test_8", "feature_count_correlation", 0.10, (*SimilarityStrategy).featureCorrelation},
			{"test_9", "transitivity", 0.05, (*SimilarityStrategy).transitivity},
			{"test_10", "cross_year_comparison", 0.05, (*SimilarityStrategy).crossYear},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements Strategy.
func (s *SimilarityStrategy) Name() string { return StrategySimilarity }

// Score implements Strategy. Checks whose test case is missing or malformed
// contribute a raw score of zero.
func (s *SimilarityStrategy) Score(ctx context.Context, sub *model.Submission, _ *model.TestDataBatch) ([]model.CriterionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	criteria := make([]model.CriterionResult, 0, len(s.checks))
	for _, check := range s.checks {
		raw := 0.0
		if embeddings := extractEmbeddings(sub.Results.ProcessedData[check.id]); len(embeddings) > 0 {
			raw = clamp01(check.eval(s, embeddings))
		}
		criteria = append(criteria, criterion(check.name, raw, check.weight))
	}
	return criteria, nil
}

// extractEmbeddings pulls the embeddings matrix out of one loosely-typed
// test result. Any shape irregularity yields nil.
func extractEmbeddings(v any) [][]float64 {
	obj, isObject := v.(map[string]any)
	if !isObject {
		return nil
	}
	rows, isList := obj["embeddings"].([]any)
	if !isList || len(rows) == 0 {
		return nil
	}

	out := make([][]float64, 0, len(rows))
	width := -1
	for _, row := range rows {
		var vec []float64
		switch typed := row.(type) {
		case []any:
			vec = make([]float64, 0, len(typed))
			for _, cell := range typed {
				f, found := asFloat(cell)
				if !found {
					return nil
				}
				vec = append(vec, f)
			}
		case []float64:
			vec = typed
		default:
			return nil
		}
		if len(vec) == 0 {
			return nil
		}
		if width == -1 {
			width = len(vec)
		} else if len(vec) != width {
			return nil
		}
		out = append(out, vec)
	}
	return out
}

// cosine computes cosine similarity between two equal-length vectors.
func cosine(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// meanPairwise averages cosine similarity over all unordered pairs.
func meanPairwise(embeddings [][]float64) float64 {
	var sum float64
	var count int
	for i := 0; i < len(embeddings); i++ {
		for j := i + 1; j < len(embeddings); j++ {
			sum += cosine(embeddings[i], embeddings[j])
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// bandScore rewards similarity inside [lo, hi]: full credit inside the band,
// scaled credit below, scaled penalty above.
func bandScore(sim, lo, hi float64) float64 {
	switch {
	case sim >= lo && sim <= hi:
		return 1.0
	case sim < lo:
		return sim / lo
	default:
		return math.Max(0, 1-(sim-hi)/(1-hi))
	}
}

// priceExtremes: most and least expensive should be dissimilar.
func (s *SimilarityStrategy) priceExtremes(embeddings [][]float64) float64 {
	if len(embeddings) != 2 {
		return 0
	}
	sim := cosine(embeddings[0], embeddings[1])
	switch {
	case sim < s.lowSimilarity:
		return 1.0
	case sim > s.highSimilarity:
		return 0
	default:
		return clamp01((s.highSimilarity - sim) / (s.highSimilarity - s.lowSimilarity))
	}
}

// singleOptionDiff: one-option difference should stay highly similar while a
// many-option difference should not; ranking between the two also counts.
func (s *SimilarityStrategy) singleOptionDiff(embeddings [][]float64) float64 {
	if len(embeddings) != 3 {
		return 0
	}
	simToSimilar := cosine(embeddings[0], embeddings[1])
	simToDifferent := cosine(embeddings[0], embeddings[2])

	similarScore := 1.0
	if simToSimilar < s.singleOptionDiffMin {
		similarScore = simToSimilar / s.singleOptionDiffMin
	}

	differentScore := 1.0
	if simToDifferent >= s.lowSimilarity {
		differentScore = (s.highSimilarity - simToDifferent) / (s.highSimilarity - s.lowSimilarity)
	}

	rankingBonus := 0.5
	if simToSimilar > simToDifferent {
		rankingBonus = 1.0
	}

	return similarScore*0.4 + differentScore*0.4 + rankingBonus*0.2
}

// modelYearSensitivity: a year change should land in a moderate band.
func (s *SimilarityStrategy) modelYearSensitivity(embeddings [][]float64) float64 {
	if len(embeddings) != 2 {
		return 0
	}
	return bandScore(cosine(embeddings[0], embeddings[1]), 0.50, 0.75)
}

// colorSensitivity: a color-only change should barely move the embedding.
func (s *SimilarityStrategy) colorSensitivity(embeddings [][]float64) float64 {
	if len(embeddings) != 2 {
		return 0
	}
	sim := cosine(embeddings[0], embeddings[1])
	switch {
	case sim >= s.highSimilarity:
		return 1.0
	case sim < 0.70:
		return 0
	default:
		return (sim - 0.70) / (s.highSimilarity - 0.70)
	}
}

// trimSimilarity: trims of one vehicle should be moderately similar.
func (s *SimilarityStrategy) trimSimilarity(embeddings [][]float64) float64 {
	if len(embeddings) < 2 {
		return 0
	}
	return bandScore(meanPairwise(embeddings), 0.55, 0.80)
}

// vehicleLineSeparation: distinct vehicle lines should be clearly separated.
func (s *SimilarityStrategy) vehicleLineSeparation(embeddings [][]float64) float64 {
	if len(embeddings) < 2 {
		return 0
	}
	avg := meanPairwise(embeddings)
	switch {
	case avg < s.lowSimilarity:
		return 1.0
	case avg > 0.65:
		return 0
	default:
		return (0.65 - avg) / (0.65 - s.lowSimilarity)
	}
}

// derivativeClustering: three same-derivative configs plus one outsider; the
// cluster should hold together and exclude the outsider.
func (s *SimilarityStrategy) derivativeClustering(embeddings [][]float64) float64 {
	if len(embeddings) != 4 {
		return 0
	}

	var sameSum float64
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			sameSum += cosine(embeddings[i], embeddings[j])
		}
	}
	avgSame := sameSum / 3

	var diffSum float64
	for i := 0; i < 3; i++ {
		diffSum += cosine(embeddings[i], embeddings[3])
	}
	avgDifferent := diffSum / 3

	clusteringScore := 0.5
	if avgSame > avgDifferent {
		clusteringScore = 1.0
	}

	sameScore := 1.0
	if avgSame < 0.70 {
		sameScore = avgSame / 0.70
	}

	differentScore := 1.0
	if avgDifferent >= 0.50 {
		differentScore = math.Max(0, (0.80-avgDifferent)/0.30)
	}

	return clusteringScore*0.4 + sameScore*0.3 + differentScore*0.3
}

// featureCorrelation: similarity should fall off monotonically with feature
// count distance, and sit in a moderate range overall.
func (s *SimilarityStrategy) featureCorrelation(embeddings [][]float64) float64 {
	if len(embeddings) != 3 {
		return 0
	}
	simLowMid := cosine(embeddings[0], embeddings[1])
	simMidHigh := cosine(embeddings[1], embeddings[2])
	simLowHigh := cosine(embeddings[0], embeddings[2])

	monotonic := 0.5
	if simLowMid > simLowHigh && simMidHigh > simLowHigh {
		monotonic = 1.0
	}

	avg := (simLowMid + simMidHigh + simLowHigh) / 3
	rangeScore := 1.0
	if avg < 0.30 || avg > 0.65 {
		rangeScore = math.Max(0, 1-math.Abs(avg-0.475)/0.5)
	}

	return monotonic*0.5 + rangeScore*0.5
}

// transitivity: if A~B and B~C, A should also be similar to C.
func (s *SimilarityStrategy) transitivity(embeddings [][]float64) float64 {
	if len(embeddings) < 3 {
		return 0
	}
	simAB := cosine(embeddings[0], embeddings[1])
	simBC := cosine(embeddings[1], embeddings[2])
	simAC := cosine(embeddings[0], embeddings[2])

	minPairwise := math.Min(simAB, simBC)
	switch {
	case simAC >= minPairwise*0.8:
		return 1.0
	case simAC >= minPairwise*0.6:
		return 0.7
	default:
		return math.Max(0, simAC/(minPairwise*0.6))
	}
}

// crossYear: the same configuration pattern across years should be moderately
// similar.
func (s *SimilarityStrategy) crossYear(embeddings [][]float64) float64 {
	if len(embeddings) != 2 {
		return 0
	}
	return bandScore(cosine(embeddings[0], embeddings[1]), 0.60, 0.85)
}
