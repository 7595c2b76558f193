package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// File permission constants.
const (
	directoryPermission = 0o750
	filePermission      = 0o600
)

var csvHeader = []string{"participant_name", "submission_tag", "timestamp", "score"}

// CSVFlusher persists the leaderboard as a single CSV file, one row per
// participant, best score only. Writes go through a temp file and rename so
// a crash mid-flush never leaves a torn file behind.
type CSVFlusher struct {
	path string
}

// NewCSVFlusher creates a flusher writing to path. The parent directory is
// created on the first flush.
func NewCSVFlusher(path string) *CSVFlusher {
	return &CSVFlusher{path: path}
}

// Flush implements Flusher.
func (f *CSVFlusher) Flush(ctx context.Context, entries []Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), directoryPermission); err != nil {
		return fmt.Errorf("create leaderboard dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".leaderboard-*.csv")
	if err != nil {
		return fmt.Errorf("create temp leaderboard file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(csvHeader); err != nil {
		tmp.Close()
		return fmt.Errorf("write leaderboard header: %w", err)
	}
	for _, e := range entries {
		row := []string{
			e.ParticipantName,
			e.SubmissionTag,
			e.Timestamp.UTC().Format(time.RFC3339Nano),
			strconv.FormatFloat(e.Score, 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("write leaderboard row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush leaderboard csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp leaderboard file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), filePermission); err != nil {
		return fmt.Errorf("chmod leaderboard file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace leaderboard file: %w", err)
	}
	return nil
}

// Load implements Flusher. A missing file is an empty board, not an error.
func (f *CSVFlusher) Load(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open leaderboard file: %w", err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read leaderboard csv: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	entries := make([]Entry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) != len(csvHeader) {
			return nil, fmt.Errorf("malformed leaderboard row: %v", row)
		}
		ts, err := time.Parse(time.RFC3339Nano, row[2])
		if err != nil {
			return nil, fmt.Errorf("parse leaderboard timestamp %q: %w", row[2], err)
		}
		score, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, fmt.Errorf("parse leaderboard score %q: %w", row[3], err)
		}
		entries = append(entries, Entry{
			ParticipantName: row[0],
			SubmissionTag:   row[1],
			Timestamp:       ts,
			Score:           score,
		})
	}
	return entries, nil
}
