package config

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/matheusft/hackathon-evaluator/internal/domain/scoring"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if EVAL_CONFIG is set
//  3. env (prefix EVAL_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("EVAL_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: EVAL_ADDR, EVAL_STRATEGY, ...
	// Keys keep their underscores to match the koanf tags on the struct.
	envProvider := env.Provider("EVAL_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "eval_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration invariants. A violation is fatal at
// startup, never surfaced per request.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}

	switch c.Strategy {
	case scoring.StrategyRubric, scoring.StrategySimilarity:
	default:
		return fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfig, c.Strategy)
	}

	// Empty weights mean the strategy defaults, which already sum to 1.0.
	// Overrides must cover the strategy's full criterion set: the strategies
	// ignore keys they do not recognize and keep defaults for keys left out,
	// so anything partial would make the effective weights stop summing to
	// 1.0 without any error surfacing.
	if len(c.CriterionWeights) > 0 {
		names, err := scoring.WeightNames(c.Strategy)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		known := make(map[string]bool, len(names))
		for _, name := range names {
			known[name] = true
		}
		var sum float64
		for name, w := range c.CriterionWeights {
			if !known[name] {
				return fmt.Errorf("%w: criterion weight %q is not recognized by strategy %q", ErrInvalidConfig, name, c.Strategy)
			}
			if w <= 0 || w > 1 {
				return fmt.Errorf("%w: weight for %q must be in (0,1], got %g", ErrInvalidConfig, name, w)
			}
			sum += w
		}
		for _, name := range names {
			if _, found := c.CriterionWeights[name]; !found {
				return fmt.Errorf("%w: criterion weight for %q is missing; overrides must cover every criterion of strategy %q", ErrInvalidConfig, name, c.Strategy)
			}
		}
		if math.Abs(sum-1.0) > WeightTolerance {
			return fmt.Errorf("%w: criterion weights sum to %g, want 1.0", ErrInvalidConfig, sum)
		}
	}

	if c.TimeThresholdSeconds <= 0 {
		return fmt.Errorf("%w: time_threshold_seconds must be positive", ErrInvalidConfig)
	}
	if c.MemoryThresholdMB <= 0 {
		return fmt.Errorf("%w: memory_threshold_mb must be positive", ErrInvalidConfig)
	}
	if c.BaseScoreMin < 0 || c.BaseScoreMax > 1 || c.BaseScoreMin >= c.BaseScoreMax {
		return fmt.Errorf("%w: base score range [%g,%g] is invalid", ErrInvalidConfig, c.BaseScoreMin, c.BaseScoreMax)
	}
	if c.MaxLeaderboardLimit < 1 {
		return fmt.Errorf("%w: max_leaderboard_limit must be at least 1", ErrInvalidConfig)
	}
	return nil
}
