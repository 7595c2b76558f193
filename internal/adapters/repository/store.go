// Package repository owns the leaderboard state: best score per participant,
// ranked reads, and synchronous durability.
package repository

import (
	"context"
	"time"

	"github.com/matheusft/hackathon-evaluator/internal/domain/model"
)

// Entry is a leaderboard row as exposed to callers.
type Entry = model.LeaderboardEntry

// Store provides read/write access to the ranking state.
type Store interface {
	// SubmitScore inserts the participant's entry, or replaces it only when
	// score strictly exceeds the stored one. Returns whether the stored entry
	// changed. Accepted writes are flushed to the durable medium before the
	// call returns.
	SubmitScore(ctx context.Context, participant, tag string, score float64, ts time.Time) (bool, error)

	// Snapshot returns all entries ordered by score descending, ties broken
	// by earliest timestamp, with 1-based ranks assigned by position.
	Snapshot(ctx context.Context) ([]Entry, error)

	// RankOf returns the participant's 1-based rank.
	// Returns ErrNotFound if the participant is unknown.
	RankOf(ctx context.Context, participant string) (int, error)

	// Count returns the number of participants on the board.
	Count(ctx context.Context) int
}

// Flusher is the durable medium behind a Store. Flush receives the full
// entry set, already ranked; the whole set is the unit of durability.
type Flusher interface {
	Flush(ctx context.Context, entries []Entry) error
	Load(ctx context.Context) ([]Entry, error)
}
