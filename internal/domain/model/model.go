// Package model contains domain models passed between layers.
package model

import "time"

// TestCase is one unit of work issued to a participant. Immutable once
// generated; ID is unique within its batch.
type TestCase struct {
	ID             string         `json:"test_id"`
	Type           string         `json:"type"`
	Description    string         `json:"description"`
	Input          map[string]any `json:"input_data"`
	ExpectedOutput map[string]any `json:"expected_output_format"`
}

// Instructions describe to the participant what to do with a batch.
type Instructions struct {
	Description        string         `json:"description"`
	ExpectedFormat     map[string]any `json:"expected_format"`
	SubmissionEndpoint string         `json:"submission_endpoint"`
}

// TestDataBatch is one deterministic set of test cases issued for a
// participant/tag pair.
type TestDataBatch struct {
	BatchID            string            `json:"test_data_id"`
	ParticipantName    string            `json:"participant_name"`
	SubmissionTag      string            `json:"submission_tag"`
	CreatedAt          time.Time         `json:"timestamp"`
	Instructions       Instructions      `json:"instructions"`
	TestCases          []TestCase        `json:"test_cases"`
	EvaluationCriteria map[string]string `json:"evaluation_criteria"`
}

// SubmissionResults holds the participant's output for a batch. ProcessedData
// maps test-case IDs to result objects; Metadata drives the performance and
// completeness criteria. Both arrive loosely typed from the wire.
type SubmissionResults struct {
	ProcessedData map[string]any `json:"processed_data"`
	Metadata      map[string]any `json:"metadata"`
}

// Submission is the payload a participant sends back for scoring.
type Submission struct {
	ParticipantName string            `json:"participant_name"`
	SubmissionTag   string            `json:"submission_tag"`
	BatchID         string            `json:"test_data_id"`
	Results         SubmissionResults `json:"results"`
}

// CriterionResult is one named, weighted scoring dimension of an evaluation.
type CriterionResult struct {
	Name          string  `json:"name"`
	RawScore      float64 `json:"raw_score"`
	Weight        float64 `json:"weight"`
	WeightedScore float64 `json:"weighted_score"`
}

// EvaluationResult is the terminal outcome of evaluating one submission.
// FinalScore carries full precision; DisplayScore is rounded to 3 decimals
// for presentation. Immutable once produced.
type EvaluationResult struct {
	Valid        bool              `json:"valid"`
	Reason       string            `json:"reason,omitempty"`
	FinalScore   float64           `json:"-"`
	DisplayScore float64           `json:"score"`
	Criteria     []CriterionResult `json:"criteria,omitempty"`
	Timestamp    time.Time         `json:"timestamp"`
}

// LeaderboardEntry is the best-known scored result for one participant.
// Rank is derived from snapshot position, never stored.
type LeaderboardEntry struct {
	Rank            int       `json:"rank"`
	ParticipantName string    `json:"participant_name"`
	SubmissionTag   string    `json:"submission_tag"`
	Score           float64   `json:"score"`
	Timestamp       time.Time `json:"timestamp"`
}
