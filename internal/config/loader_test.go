package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/matheusft/hackathon-evaluator/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoadDefaults(t *testing.T) {
	Convey("Given no overriding configuration", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then the defaults load and validate", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":8080")
			So(cfg.Strategy, ShouldEqual, "rubric")
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.CriterionWeights, ShouldBeEmpty)
			So(cfg.TimeThresholdSeconds, ShouldEqual, 10.0)
			So(cfg.MemoryThresholdMB, ShouldEqual, 1000.0)
			So(cfg.LeaderboardCSVPath, ShouldEqual, "data/leaderboard.csv")
			So(cfg.MaxLeaderboardLimit, ShouldEqual, 100)
		})
	})
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("EVAL_ADDR", ":9090")
	t.Setenv("EVAL_STRATEGY", "similarity")
	t.Setenv("EVAL_LOG_LEVEL", "debug")

	Convey("Given environment variable overrides", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then env values win over defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":9090")
			So(cfg.Strategy, ShouldEqual, "similarity")
			So(cfg.LogLevel, ShouldEqual, "debug")
		})
	})
}

func TestLoadUnknownStrategy(t *testing.T) {
	t.Setenv("EVAL_STRATEGY", "vibes")

	Convey("Given an unknown strategy from the environment", t, func() {
		_, err := config.Load(context.Background())

		Convey("Then loading fails at startup", func() {
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}

func TestLoadInvalidWeightsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "criterion_weights:\n  accuracy: 0.5\n  performance: 0.3\n  completeness: 0.3\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("EVAL_CONFIG", path)

	Convey("Given a config file whose weights sum past 1.0", t, func() {
		_, err := config.Load(context.Background())

		Convey("Then the weight-sum violation is fatal", func() {
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}

func TestLoadFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "addr: \":7070\"\nmax_leaderboard_limit: 25\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("EVAL_CONFIG", path)

	Convey("Given a config file with a valid override", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then file values layer over defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":7070")
			So(cfg.MaxLeaderboardLimit, ShouldEqual, 25)
			So(cfg.Strategy, ShouldEqual, "rubric")
		})
	})
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("EVAL_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	Convey("Given a config path that does not exist", t, func() {
		_, err := config.Load(context.Background())

		Convey("Then loading fails", func() {
			So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
		})
	})
}

func TestValidate(t *testing.T) {
	Convey("Given a default configuration", t, func() {
		Convey("Then it validates", func() {
			So(config.New().Validate(), ShouldBeNil)
		})

		Convey("When a weight is out of range", func() {
			cfg := config.New()
			cfg.CriterionWeights = map[string]float64{
				"accuracy":     1.4,
				"performance":  0.3,
				"completeness": 0.3,
			}

			So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("When the weights do not sum to 1.0", func() {
			cfg := config.New()
			cfg.CriterionWeights = map[string]float64{
				"accuracy":     0.4,
				"performance":  0.4,
				"completeness": 0.3,
			}

			So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("When the weights are off by less than the tolerance", func() {
			cfg := config.New()
			cfg.CriterionWeights = map[string]float64{
				"accuracy":     0.4 + 1e-9,
				"performance":  0.3,
				"completeness": 0.3,
			}

			Convey("Then the float tolerance absorbs the drift", func() {
				So(cfg.Validate(), ShouldBeNil)
			})
		})

		Convey("When weights are empty", func() {
			cfg := config.New()
			cfg.CriterionWeights = nil

			Convey("Then the strategy defaults apply", func() {
				So(cfg.Validate(), ShouldBeNil)
			})
		})

		Convey("When a weight key is not recognized by the strategy", func() {
			cfg := config.New()
			cfg.CriterionWeights = map[string]float64{
				"accuracy":     0.6,
				"performance":  0.2,
				"completeness": 0.1,
				"bonus":        0.1,
			}

			Convey("Then the sum being 1.0 does not save it", func() {
				So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), ShouldBeTrue)
			})
		})

		Convey("When the weights leave a criterion uncovered", func() {
			cfg := config.New()
			cfg.CriterionWeights = map[string]float64{
				"accuracy":    0.5,
				"performance": 0.5,
			}

			So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("When rubric weight keys are given to the similarity strategy", func() {
			cfg := config.New()
			cfg.Strategy = "similarity"
			cfg.CriterionWeights = map[string]float64{
				"accuracy":     0.4,
				"performance":  0.3,
				"completeness": 0.3,
			}

			So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("When thresholds are not positive", func() {
			cfg := config.New()
			cfg.TimeThresholdSeconds = 0

			So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("When the base score range is inverted", func() {
			cfg := config.New()
			cfg.BaseScoreMin = 0.9
			cfg.BaseScoreMax = 0.6

			So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("When the leaderboard limit is below 1", func() {
			cfg := config.New()
			cfg.MaxLeaderboardLimit = 0

			So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}
