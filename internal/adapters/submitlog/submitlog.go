// Package submitlog records submission history to PostgreSQL. The log is
// best-effort: a failed write never fails the submission that produced it.
package submitlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver
	"github.com/jmoiron/sqlx"

	"github.com/matheusft/hackathon-evaluator/internal/domain/model"
	"github.com/matheusft/hackathon-evaluator/pkg/logger"
	"github.com/matheusft/hackathon-evaluator/pkg/metrics"
)

const connectTimeout = 10 * time.Second

const schema = `
CREATE TABLE IF NOT EXISTS submissions (
    id               BIGSERIAL PRIMARY KEY,
    submitted_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
    participant_name VARCHAR(255) NOT NULL,
    submission_tag   VARCHAR(255) NOT NULL,
    final_score      DECIMAL(6,3) NOT NULL,
    leaderboard_rank INTEGER,
    criteria         JSONB,
    UNIQUE (participant_name, submission_tag)
)`

const upsert = `
INSERT INTO submissions (participant_name, submission_tag, submitted_at, final_score, leaderboard_rank, criteria)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (participant_name, submission_tag)
DO UPDATE SET submitted_at = EXCLUDED.submitted_at,
              final_score = EXCLUDED.final_score,
              leaderboard_rank = EXCLUDED.leaderboard_rank,
              criteria = EXCLUDED.criteria`

// Recorder defines the submission-history contract.
type Recorder interface {
	// Record stores one evaluated submission. Returns false when the write
	// failed; the caller logs and moves on.
	Record(ctx context.Context, participant, tag string, result *model.EvaluationResult, rank int) bool
}

// Nop is the recorder used when no database is configured.
type Nop struct{}

// Record implements Recorder.
func (Nop) Record(context.Context, string, string, *model.EvaluationResult, int) bool { return true }

// PostgresRecorder implements Recorder against PostgreSQL via sqlx.
type PostgresRecorder struct {
	db     *sqlx.DB
	logger logger.Logger
}

// NewPostgresRecorder connects with the given DSN and ensures the schema
// exists.
func NewPostgresRecorder(ctx context.Context, dsn string) (*PostgresRecorder, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect submission log: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure submissions table: %w", err)
	}
	return &PostgresRecorder{
		db:     db,
		logger: logger.Named("submitlog"),
	}, nil
}

// Close releases the connection pool.
func (r *PostgresRecorder) Close() error {
	return r.db.Close()
}

// Record implements Recorder.
func (r *PostgresRecorder) Record(ctx context.Context, participant, tag string, result *model.EvaluationResult, rank int) bool {
	criteria, err := json.Marshal(result.Criteria)
	if err != nil {
		r.logger.Warn(ctx, "failed to encode criteria", logger.Error(err))
		metrics.RecordSubmitLogError()
		return false
	}

	_, err = r.db.ExecContext(ctx, upsert,
		participant, tag, result.Timestamp, result.DisplayScore, rank, criteria)
	if err != nil {
		r.logger.Warn(ctx, "failed to record submission",
			logger.String("participant", participant),
			logger.String("tag", tag),
			logger.Error(err),
		)
		metrics.RecordSubmitLogError()
		return false
	}
	return true
}
