// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults come from New; file and env layers override.
// - Validation happens once at load time; the process refuses to start on an
//   invalid configuration rather than mis-score requests later.
package config

import (
	"github.com/matheusft/hackathon-evaluator/internal/domain/scoring"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Strategy selects the scoring strategy: "rubric" or "similarity".
	Strategy string `koanf:"strategy"`

	// CriterionWeights maps criterion (or check) names to weights for the
	// selected strategy. Empty means the strategy defaults; when set it must
	// name every criterion the strategy recognizes and sum to 1.0 within
	// WeightTolerance.
	CriterionWeights map[string]float64 `koanf:"criterion_weights"`

	// TimeThresholdSeconds and MemoryThresholdMB bound the performance
	// criterion's sub-scores.
	TimeThresholdSeconds float64 `koanf:"time_threshold_seconds"`
	MemoryThresholdMB    float64 `koanf:"memory_threshold_mb"`

	// BaseScoreMin and BaseScoreMax bound the stub accuracy model.
	BaseScoreMin float64 `koanf:"base_score_min"`
	BaseScoreMax float64 `koanf:"base_score_max"`

	// LeaderboardCSVPath is the durable leaderboard file.
	LeaderboardCSVPath string `koanf:"leaderboard_csv_path"`

	// MaxLeaderboardLimit caps GET /api/leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// SubmissionsDSN enables the PostgreSQL submission log when set.
	SubmissionsDSN string `koanf:"submissions_dsn"`
}

// WeightTolerance is the allowed deviation of the criterion weight sum
// from 1.0.
const WeightTolerance = 1e-6

// New creates a Config carrying the defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":8080",
		Strategy:             scoring.StrategyRubric,
		TimeThresholdSeconds: 10.0,
		MemoryThresholdMB:    1000.0,
		BaseScoreMin:         0.6,
		BaseScoreMax:         0.95,
		LeaderboardCSVPath:   "data/leaderboard.csv",
		MaxLeaderboardLimit:  100,
	}
}
