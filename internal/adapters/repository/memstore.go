package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/matheusft/hackathon-evaluator/pkg/metrics"
)

// record is the stored best result for one participant.
type record struct {
	tag       string
	score     float64
	timestamp time.Time
}

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithFlusher attaches a durable medium. Without one the store is
// memory-only, which tests rely on.
func WithFlusher(f Flusher) Option {
	return func(s *MemStore) {
		s.flusher = f
	}
}

// MemStore implements Store with a mutex-guarded map. Every mutation runs
// the full read-compare-write-flush sequence under the lock, so a worse
// score can never overwrite a better one even under concurrent submits.
type MemStore struct {
	mu      sync.RWMutex
	byName  map[string]record
	flusher Flusher
}

// NewMemStore constructs an empty store with configuration options.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		byName: make(map[string]record),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore loads previously flushed entries into memory. Call once at
// startup, before serving.
func (s *MemStore) Restore(ctx context.Context) error {
	if s.flusher == nil {
		return nil
	}
	entries, err := s.flusher.Load(ctx)
	if err != nil {
		return fmt.Errorf("restore leaderboard: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.byName[e.ParticipantName] = record{
			tag:       e.SubmissionTag,
			score:     e.Score,
			timestamp: e.Timestamp,
		}
	}
	metrics.UpdateLeaderboardEntries(len(s.byName))
	return nil
}

// SubmitScore implements Store. The in-memory entry rolls back when the
// durable flush fails, so the two views never diverge for an acknowledged
// write.
func (s *MemStore) SubmitScore(ctx context.Context, participant, tag string, score float64, ts time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, existed := s.byName[participant]
	if existed && score <= old.score {
		metrics.RecordLeaderboardReject()
		return false, nil
	}

	s.byName[participant] = record{tag: tag, score: score, timestamp: ts}

	if s.flusher != nil {
		start := time.Now()
		err := s.flusher.Flush(ctx, s.snapshotLocked())
		metrics.RecordFlushDuration(time.Since(start).Seconds())
		if err != nil {
			// Roll back so memory matches the durable state.
			if existed {
				s.byName[participant] = old
			} else {
				delete(s.byName, participant)
			}
			metrics.RecordFlushError()
			return false, fmt.Errorf("%w: %v", ErrFlush, err)
		}
	}

	metrics.RecordLeaderboardUpdate()
	metrics.UpdateLeaderboardEntries(len(s.byName))
	return true, nil
}

// Snapshot implements Store.
func (s *MemStore) Snapshot(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(), nil
}

// RankOf implements Store.
func (s *MemStore) RankOf(ctx context.Context, participant string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, found := s.byName[participant]; !found {
		return 0, ErrNotFound
	}
	for _, e := range s.snapshotLocked() {
		if e.ParticipantName == participant {
			return e.Rank, nil
		}
	}
	return 0, ErrNotFound
}

// Count implements Store.
func (s *MemStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byName)
}

// snapshotLocked builds the ranked entry list. Callers must hold at least a
// read lock. Ordering: score descending, earliest timestamp first on ties,
// then participant name so the order is total.
func (s *MemStore) snapshotLocked() []Entry {
	entries := make([]Entry, 0, len(s.byName))
	for name, rec := range s.byName {
		entries = append(entries, Entry{
			ParticipantName: name,
			SubmissionTag:   rec.tag,
			Score:           rec.score,
			Timestamp:       rec.timestamp,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		if !entries[i].Timestamp.Equal(entries[j].Timestamp) {
			return entries[i].Timestamp.Before(entries[j].Timestamp)
		}
		return entries[i].ParticipantName < entries[j].ParticipantName
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
