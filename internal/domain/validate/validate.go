// Package validate checks the structural contract of submission payloads
// before they reach scoring.
package validate

import (
	"fmt"

	"github.com/matheusft/hackathon-evaluator/internal/domain/model"
)

// DefaultSubmissionTag is assumed when a payload omits submission_tag.
const DefaultSubmissionTag = "default"

// Outcome reports the result of validating one submission. A failed outcome
// short-circuits evaluation into a zero score; it is never an error value.
type Outcome struct {
	Valid  bool
	Err    error
	Reason string
}

// ok is the shared success outcome.
var ok = Outcome{Valid: true}

// Submission checks required fields and field types on a decoded payload.
// Failure order is stable: participant_name, results.processed_data,
// results.metadata, then type mismatches.
func Submission(sub *model.Submission) Outcome {
	if sub == nil {
		return failMissing("participant_name")
	}
	if sub.ParticipantName == "" {
		return failMissing("participant_name")
	}
	if sub.SubmissionTag == "" {
		sub.SubmissionTag = DefaultSubmissionTag
	}
	if sub.Results.ProcessedData == nil {
		return failMissing("results.processed_data")
	}
	if sub.Results.Metadata == nil {
		return failMissing("results.metadata")
	}
	return ok
}

// RawResults validates the loosely-typed results object before it is decoded
// into model.SubmissionResults. It distinguishes a missing key from one
// present with the wrong type.
func RawResults(results map[string]any) Outcome {
	for _, field := range []string{"processed_data", "metadata"} {
		v, present := results[field]
		if !present {
			return failMissing("results." + field)
		}
		if _, isObject := v.(map[string]any); !isObject {
			return Outcome{
				Valid:  false,
				Err:    fmt.Errorf("%w: results.%s must be an object", ErrTypeMismatch, field),
				Reason: fmt.Sprintf("results.%s must be an object", field),
			}
		}
	}
	return ok
}

func failMissing(field string) Outcome {
	return Outcome{
		Valid:  false,
		Err:    fmt.Errorf("%w: %s", ErrMissingField, field),
		Reason: "missing required field: " + field,
	}
}
