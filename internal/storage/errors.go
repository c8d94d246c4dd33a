package storage

import "github.com/pkg/errors"

var (
	// ErrNotFound is returned when no record exists for a short code.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey is returned by Create when the short code is taken.
	ErrDuplicateKey = errors.New("duplicate short code")
)
