package loadtest

import (
	"context"
	"fmt"
	"sort"

	"github.com/matheusft/hackathon-evaluator/pkg/logger"
)

// verifyResults checks the leaderboard snapshot against the per-participant
// rank lookups: descending order, dense ranks, and agreement between the two
// read paths.
func verifyResults(ctx context.Context, rankings, leaderboard []Entry, verbose bool) error {
	if len(rankings) == 0 {
		return fmt.Errorf("no rankings to verify")
	}

	sorted := make([]Entry, len(rankings))
	copy(sorted, rankings)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	if len(leaderboard) > 0 {
		if err := verifyLeaderboardConsistency(sorted, leaderboard); err != nil {
			logger.Get().Warn(ctx, "leaderboard consistency warning", logger.Error(err))
		} else {
			logger.Get().Info(ctx, "leaderboard consistency verified")
		}
	}

	displayTopPerformers(ctx, sorted, leaderboard, verbose)
	return nil
}

func verifyLeaderboardConsistency(sorted, leaderboard []Entry) error {
	if len(leaderboard) == 0 {
		return fmt.Errorf("empty leaderboard")
	}

	if sorted[0].ParticipantName != leaderboard[0].ParticipantName &&
		sorted[0].Score != leaderboard[0].Score {
		return fmt.Errorf("top leaderboard entry (%s) does not match top ranked participant (%s)",
			leaderboard[0].ParticipantName, sorted[0].ParticipantName)
	}

	for i := 1; i < len(leaderboard); i++ {
		if leaderboard[i].Score > leaderboard[i-1].Score {
			return fmt.Errorf("leaderboard not sorted: entry %d outscores entry %d", i, i-1)
		}
		if leaderboard[i].Rank != leaderboard[i-1].Rank+1 {
			return fmt.Errorf("leaderboard ranks not dense at entry %d", i)
		}
	}

	// Every rank lookup should agree with the snapshot where both cover the
	// participant.
	byName := make(map[string]Entry, len(leaderboard))
	for _, e := range leaderboard {
		byName[e.ParticipantName] = e
	}
	for _, r := range sorted {
		lb, ok := byName[r.ParticipantName]
		if !ok {
			continue
		}
		if lb.Score != r.Score {
			return fmt.Errorf("score mismatch for %s: rank endpoint %.3f, leaderboard %.3f",
				r.ParticipantName, r.Score, lb.Score)
		}
	}

	return nil
}

func displayTopPerformers(ctx context.Context, sorted, leaderboard []Entry, verbose bool) {
	topN := 10
	if len(sorted) < topN {
		topN = len(sorted)
	}

	for i := 0; i < topN; i++ {
		logger.Get().Info(ctx, "top performer",
			logger.Int("rank", i+1),
			logger.String("participant", sorted[i].ParticipantName),
			logger.Float64("score", sorted[i].Score))
	}

	if verbose && len(sorted) > 0 {
		logger.Get().Info(ctx, "score statistics",
			logger.Float64("average", averageScore(sorted)),
			logger.Float64("maximum", sorted[0].Score),
			logger.Float64("minimum", sorted[len(sorted)-1].Score),
			logger.Int("leaderboardEntries", len(leaderboard)))
	}
}

func averageScore(rankings []Entry) float64 {
	if len(rankings) == 0 {
		return 0
	}
	sum := 0.0
	for _, entry := range rankings {
		sum += entry.Score
	}
	return sum / float64(len(rankings))
}
