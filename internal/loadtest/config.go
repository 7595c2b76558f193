// Package loadtest drives a running evaluator instance end to end:
// it fetches test-data batches, submits generated results concurrently,
// and verifies the leaderboard against the rank endpoint.
package loadtest

import "time"

// Config holds configuration for the submission test.
type Config struct {
	BaseURL         string        // Base URL of the service
	NumParticipants int           // Number of distinct participants
	RoundsPerEntry  int           // Submissions per participant
	TopN            int           // Number of top entries to fetch
	Workers         int           // Number of concurrent workers
	Timeout         time.Duration // HTTP request timeout
	OutputFile      string        // Output file for submissions
	LogFile         string        // Log file for test output
	Verbose         bool          // Enable verbose logging
}

// Entry represents a leaderboard entry as returned by the service.
type Entry struct {
	Rank            int     `json:"rank"`
	ParticipantName string  `json:"participant_name"`
	SubmissionTag   string  `json:"submission_tag"`
	Score           float64 `json:"score"`
}

// submitResult represents the response from a submission.
type submitResult struct {
	Status string  `json:"status"`
	Score  float64 `json:"score"`
	Rank   int     `json:"rank"`
	Error  string  `json:"error"`
}

// leaderboardResult represents the response from the leaderboard endpoint.
type leaderboardResult struct {
	Status            string  `json:"status"`
	Leaderboard       []Entry `json:"leaderboard"`
	TotalParticipants int     `json:"total_participants"`
}

// Stats holds test statistics.
type Stats struct {
	SubmissionsGenerated int
	SubmissionsSent      int
	SubmissionsAccepted  int
	SubmissionsRejected  int
	SubmissionsFailed    int
	RanksRetrieved       int
	LeaderboardEntries   int
	StartTime            time.Time
	EndTime              time.Time
	Duration             time.Duration
}
