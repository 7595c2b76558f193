package repository

import "errors"

// Sentinel kinds for leaderboard errors.
var (
	ErrNotFound = errors.New("participant not found")
	ErrFlush    = errors.New("leaderboard flush failed")
)
