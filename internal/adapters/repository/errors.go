package repository

import "errors"

// Sentinel kinds for store construction errors. Failures of individual
// calls are reported through model.Failure instead.
var (
	ErrOpen   = errors.New("open database")
	ErrPing   = errors.New("ping database")
	ErrClosed = errors.New("store closed")
)
