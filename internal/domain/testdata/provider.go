// Package testdata generates deterministic test-case batches for
// participants. Re-requesting a batch for the same participant/tag pair
// yields identical test cases, which keeps scoring auditable.
package testdata

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/matheusft/hackathon-evaluator/internal/domain/model"
)

// batchIDLength is the number of hex characters kept from the batch digest.
const batchIDLength = 16

// Provider issues test-data batches and verifies batch references.
type Provider interface {
	// Generate builds the batch for a participant/tag pair.
	Generate(ctx context.Context, participant, tag string) (*model.TestDataBatch, error)

	// VerifyBatchID reports whether id is the batch ID this provider would
	// have issued for the pair. Stateless: the ID is re-derived, not looked up.
	VerifyBatchID(participant, tag, id string) bool
}

// Option applies a configuration option to the TemplateProvider.
type Option func(*TemplateProvider)

// WithClock overrides the timestamp source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(p *TemplateProvider) {
		if now != nil {
			p.now = now
		}
	}
}

// TemplateProvider implements Provider by expanding fixed templates with
// participant-seeded jitter.
type TemplateProvider struct {
	templates []template
	now       func() time.Time
}

// NewTemplateProvider creates a provider with the built-in template set.
func NewTemplateProvider(opts ...Option) *TemplateProvider {
	p := &TemplateProvider{
		templates: builtinTemplates(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// BatchID derives the stable batch identifier for a participant/tag pair.
func BatchID(participant, tag string) string {
	sum := sha256.Sum256([]byte(participant + "|" + tag))
	return hex.EncodeToString(sum[:])[:batchIDLength]
}

// Generate builds the deterministic batch for the pair.
func (p *TemplateProvider) Generate(ctx context.Context, participant, tag string) (*model.TestDataBatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rng := newSeededRand(participant, tag)
	cases := make([]model.TestCase, 0, len(p.templates)*samplesPerTemplate)
	for _, tpl := range p.templates {
		cases = append(cases, tpl.expand(rng)...)
	}

	return &model.TestDataBatch{
		BatchID:         BatchID(participant, tag),
		ParticipantName: participant,
		SubmissionTag:   tag,
		CreatedAt:       p.now().UTC(),
		Instructions: model.Instructions{
			Description: "Process the provided test cases and return results",
			ExpectedFormat: map[string]any{
				"processed_data": "Object with a result for each test case",
				"metadata": map[string]any{
					"processing_time_seconds": "Time taken to process",
					"memory_usage_mb":         "Memory usage (optional)",
					"quality_checks_passed":   "Boolean indicating quality",
					"validation_status":       "Status of validation (passed/failed)",
				},
			},
			SubmissionEndpoint: "/api/submit-results",
		},
		TestCases: cases,
		EvaluationCriteria: map[string]string{
			"accuracy":     "Correctness of results (40%)",
			"performance":  "Processing efficiency (30%)",
			"completeness": "Coverage and metadata (30%)",
		},
	}, nil
}

// VerifyBatchID re-derives the ID and compares.
func (p *TemplateProvider) VerifyBatchID(participant, tag, id string) bool {
	return id != "" && id == BatchID(participant, tag)
}

// newSeededRand builds the per-call generator seeded from the identifying
// fields, so generation never depends on ambient randomness.
func newSeededRand(participant, tag string) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(participant))
	_, _ = h.Write([]byte{'_'})
	_, _ = h.Write([]byte(tag))
	return rand.New(rand.NewSource(int64(h.Sum64()))) //nolint:gosec // deterministic by design
}
