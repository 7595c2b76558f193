package loadtest

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
	"github.com/matheusft/hackathon-evaluator/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	archetypeDivisor   = 5
)

// Participant archetypes. The mix exercises both ends of the rubric: full
// coverage with strong metadata down to sparse answers with none.
const (
	caseThorough = 0
	caseQuick    = 1
	casePartial  = 2
	caseSloppy   = 3
	caseSilent   = 4
)

// batchWire mirrors the subset of the test-data response the generator needs.
type batchWire struct {
	TestDataID string `json:"test_data_id"`
	TestCases  []struct {
		TestID string `json:"test_id"`
	} `json:"test_cases"`
}

// submissionWire mirrors the request body for POST /api/submit-results.
type submissionWire struct {
	ParticipantName string      `json:"participant_name"`
	SubmissionTag   string      `json:"submission_tag"`
	TestDataID      string      `json:"test_data_id"`
	Results         resultsWire `json:"results"`
}

type resultsWire struct {
	ProcessedData map[string]any `json:"processed_data"`
	Metadata      map[string]any `json:"metadata"`
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

func randomArchetype() int64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(archetypeDivisor))
	return n.Int64()
}

// generateSubmissions fetches each participant's batch and builds its rounds
// of submissions. Later rounds answer more of the batch than earlier ones, so
// replays through the service exercise best-score retention in both
// directions once workers interleave them.
func generateSubmissions(ctx context.Context, config *Config, client *httpClient, stats *Stats) ([]submissionWire, error) {
	logger.Get().Info(ctx, "generating submissions",
		logger.Int("participants", config.NumParticipants),
		logger.Int("roundsPerEntry", config.RoundsPerEntry))

	subs := make([]submissionWire, 0, config.NumParticipants*config.RoundsPerEntry)

	for i := 0; i < config.NumParticipants; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during generation: %w", ctx.Err())
		default:
		}

		name := fmt.Sprintf("participant_%d_%s", i, strings.Split(uuid.New().String(), "-")[0])
		tag := "run-1"

		batch, err := fetchBatch(ctx, client, config.BaseURL, name, tag)
		if err != nil {
			return nil, fmt.Errorf("fetch batch for %s: %w", name, err)
		}

		archetype := randomArchetype()
		for round := 1; round <= config.RoundsPerEntry; round++ {
			coverage := float64(round) / float64(config.RoundsPerEntry)
			subs = append(subs, buildSubmission(name, tag, batch, archetype, coverage))
		}
	}

	stats.SubmissionsGenerated = len(subs)
	logger.Get().Info(ctx, "generated submissions", logger.Int("count", len(subs)))
	return subs, nil
}

// buildSubmission fabricates results for one round. Coverage scales how many
// test cases get answered; the archetype shapes the performance metadata.
func buildSubmission(name, tag string, batch *batchWire, archetype int64, coverage float64) submissionWire {
	answered := int(float64(len(batch.TestCases)) * coverage)
	if answered < 1 {
		answered = 1
	}
	if answered > len(batch.TestCases) {
		answered = len(batch.TestCases)
	}

	processed := make(map[string]any, answered)
	for i := 0; i < answered; i++ {
		tc := batch.TestCases[i]
		entry := map[string]any{
			"result": fmt.Sprintf("processed output for %s", tc.TestID),
		}
		if archetype == caseSloppy && getRandomFloat() < 0.4 {
			// Sloppy participants drop the result field now and then.
			delete(entry, "result")
		}
		processed[tc.TestID] = entry
	}

	metadata := buildMetadata(archetype, answered)

	return submissionWire{
		ParticipantName: name,
		SubmissionTag:   tag,
		TestDataID:      batch.TestDataID,
		Results: resultsWire{
			ProcessedData: processed,
			Metadata:      metadata,
		},
	}
}

func buildMetadata(archetype int64, answered int) map[string]any {
	switch archetype {
	case caseThorough:
		return map[string]any{
			"processing_time_seconds": 0.5 + getRandomFloat()*2.0,
			"memory_usage_mb":         50 + getRandomFloat()*150,
			"tests_completed":         answered,
			"quality_checks_passed":   true,
			"validation_status":       "passed",
		}
	case caseQuick:
		return map[string]any{
			"processing_time_seconds": getRandomFloat() * 0.5,
			"memory_usage_mb":         20 + getRandomFloat()*50,
			"tests_completed":         answered,
		}
	case casePartial:
		return map[string]any{
			"processing_time_seconds": 2.0 + getRandomFloat()*6.0,
			"tests_completed":         answered,
			"optimization_applied":    getRandomFloat() < 0.5,
		}
	case caseSloppy:
		return map[string]any{
			"processing_time_seconds": 8.0 + getRandomFloat()*8.0,
			"memory_usage_mb":         800 + getRandomFloat()*600,
		}
	default: // caseSilent submits empty metadata
		return map[string]any{}
	}
}
