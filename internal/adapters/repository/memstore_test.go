package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/matheusft/hackathon-evaluator/internal/adapters/repository"
	. "github.com/smartystreets/goconvey/convey"
)

// failingFlusher fails every flush after a configurable number of successes.
type failingFlusher struct {
	mu        sync.Mutex
	successes int
	flushed   [][]repository.Entry
}

func (f *failingFlusher) Flush(_ context.Context, entries []repository.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.successes <= 0 {
		return errors.New("disk full")
	}
	f.successes--
	snapshot := make([]repository.Entry, len(entries))
	copy(snapshot, entries)
	f.flushed = append(f.flushed, snapshot)
	return nil
}

func (f *failingFlusher) Load(context.Context) ([]repository.Entry, error) {
	return nil, nil
}

func TestMemStore_SubmitScore(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	Convey("Given an empty in-memory store", t, func() {
		store := repository.NewMemStore()

		Convey("When the first score arrives for a participant", func() {
			updated, err := store.SubmitScore(ctx, "alice", "run-1", 0.6, base)

			Convey("Then the entry is created", func() {
				So(err, ShouldBeNil)
				So(updated, ShouldBeTrue)
				So(store.Count(ctx), ShouldEqual, 1)
			})
		})

		Convey("When a worse score follows a better one", func() {
			_, err := store.SubmitScore(ctx, "alice", "run-1", 0.6, base)
			So(err, ShouldBeNil)

			updated, err := store.SubmitScore(ctx, "alice", "run-2", 0.4, base.Add(time.Minute))

			Convey("Then the better score is retained", func() {
				So(err, ShouldBeNil)
				So(updated, ShouldBeFalse)

				entries, err := store.Snapshot(ctx)
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 1)
				So(entries[0].Score, ShouldEqual, 0.6)
				So(entries[0].SubmissionTag, ShouldEqual, "run-1")
			})
		})

		Convey("When an equal score follows", func() {
			_, _ = store.SubmitScore(ctx, "alice", "run-1", 0.6, base)
			updated, err := store.SubmitScore(ctx, "alice", "run-2", 0.6, base.Add(time.Minute))

			Convey("Then the earlier submission wins the tie", func() {
				So(err, ShouldBeNil)
				So(updated, ShouldBeFalse)
			})
		})

		Convey("When a better score follows", func() {
			_, _ = store.SubmitScore(ctx, "alice", "run-1", 0.6, base)
			updated, err := store.SubmitScore(ctx, "alice", "run-3", 0.75, base.Add(time.Minute))

			Convey("Then the entry advances", func() {
				So(err, ShouldBeNil)
				So(updated, ShouldBeTrue)

				entries, _ := store.Snapshot(ctx)
				So(entries[0].Score, ShouldEqual, 0.75)
				So(entries[0].SubmissionTag, ShouldEqual, "run-3")
			})
		})

		Convey("When many goroutines submit for the same participant", func() {
			var wg sync.WaitGroup
			for i := 0; i < 50; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					score := float64(i%10) / 10.0
					_, _ = store.SubmitScore(ctx, "alice", fmt.Sprintf("run-%d", i), score, base)
				}(i)
			}
			wg.Wait()

			Convey("Then the retained score is the maximum submitted", func() {
				entries, err := store.Snapshot(ctx)
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 1)
				So(entries[0].Score, ShouldEqual, 0.9)
			})
		})
	})
}

func TestMemStore_SnapshotOrdering(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	Convey("Given a store with several participants", t, func() {
		store := repository.NewMemStore()
		_, _ = store.SubmitScore(ctx, "carol", "run-1", 0.7, base.Add(2*time.Minute))
		_, _ = store.SubmitScore(ctx, "alice", "run-1", 0.9, base)
		_, _ = store.SubmitScore(ctx, "bob", "run-1", 0.7, base.Add(time.Minute))
		_, _ = store.SubmitScore(ctx, "dave", "run-1", 0.5, base)

		Convey("When taking a snapshot", func() {
			entries, err := store.Snapshot(ctx)
			So(err, ShouldBeNil)

			Convey("Then ordering is score desc, then earliest timestamp, with dense ranks", func() {
				So(entries, ShouldHaveLength, 4)
				So(entries[0].ParticipantName, ShouldEqual, "alice")
				So(entries[1].ParticipantName, ShouldEqual, "bob")
				So(entries[2].ParticipantName, ShouldEqual, "carol")
				So(entries[3].ParticipantName, ShouldEqual, "dave")
				for i, e := range entries {
					So(e.Rank, ShouldEqual, i+1)
				}
			})
		})

		Convey("When two entries tie on score and timestamp", func() {
			_, _ = store.SubmitScore(ctx, "erin", "run-1", 0.5, base)

			entries, _ := store.Snapshot(ctx)

			Convey("Then participant name breaks the tie so the order is total", func() {
				So(entries[3].ParticipantName, ShouldEqual, "dave")
				So(entries[4].ParticipantName, ShouldEqual, "erin")
			})
		})

		Convey("When looking up ranks", func() {
			rank, err := store.RankOf(ctx, "bob")
			So(err, ShouldBeNil)
			So(rank, ShouldEqual, 2)

			Convey("And unknown participants report not found", func() {
				_, err := store.RankOf(ctx, "mallory")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestMemStore_FlushSemantics(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	Convey("Given a store whose flusher fails", t, func() {
		flusher := &failingFlusher{successes: 1}
		store := repository.NewMemStore(repository.WithFlusher(flusher))

		_, err := store.SubmitScore(ctx, "alice", "run-1", 0.6, base)
		So(err, ShouldBeNil)

		Convey("When a new participant's flush fails", func() {
			updated, err := store.SubmitScore(ctx, "bob", "run-1", 0.8, base)

			Convey("Then the error wraps ErrFlush and memory rolls back", func() {
				So(errors.Is(err, repository.ErrFlush), ShouldBeTrue)
				So(updated, ShouldBeFalse)
				So(store.Count(ctx), ShouldEqual, 1)

				_, rankErr := store.RankOf(ctx, "bob")
				So(errors.Is(rankErr, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When an existing participant's improvement fails to flush", func() {
			_, err := store.SubmitScore(ctx, "alice", "run-2", 0.9, base.Add(time.Minute))

			Convey("Then the previous best is restored", func() {
				So(errors.Is(err, repository.ErrFlush), ShouldBeTrue)

				entries, _ := store.Snapshot(ctx)
				So(entries, ShouldHaveLength, 1)
				So(entries[0].Score, ShouldEqual, 0.6)
				So(entries[0].SubmissionTag, ShouldEqual, "run-1")
			})
		})

		Convey("When a rejected submission arrives", func() {
			updated, err := store.SubmitScore(ctx, "alice", "run-2", 0.4, base.Add(time.Minute))

			Convey("Then no flush is attempted at all", func() {
				So(err, ShouldBeNil)
				So(updated, ShouldBeFalse)
				So(flusher.flushed, ShouldHaveLength, 1)
			})
		})
	})

	Convey("Given a flusher that succeeds", t, func() {
		flusher := &failingFlusher{successes: 10}
		store := repository.NewMemStore(repository.WithFlusher(flusher))

		Convey("When submissions are accepted", func() {
			_, _ = store.SubmitScore(ctx, "alice", "run-1", 0.6, base)
			_, _ = store.SubmitScore(ctx, "bob", "run-1", 0.8, base)

			Convey("Then every accepted write flushed the full ranked snapshot", func() {
				So(flusher.flushed, ShouldHaveLength, 2)
				last := flusher.flushed[1]
				So(last, ShouldHaveLength, 2)
				So(last[0].ParticipantName, ShouldEqual, "bob")
				So(last[0].Rank, ShouldEqual, 1)
			})
		})
	})
}
