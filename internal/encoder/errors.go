package encoder

import (
	"errors"
	"fmt"
)

// BuildError reports exports that cannot be assembled into a bundle.
// Build failures are fatal: no partial bundle is returned.
type BuildError struct {
	// Code identifies the error category.
	Code BuildErrorCode

	// Message is a human-readable description.
	Message string

	// HashID is the offending fragment hash.
	HashID int64

	// Clock is the log tick that referenced it.
	Clock int64
}

// BuildErrorCode categorizes build failures.
type BuildErrorCode string

const (
	// ErrCodeUnknownHash indicates a log event referencing a fragment
	// that has no SSF rows.
	ErrCodeUnknownHash BuildErrorCode = "UNKNOWN_HASH"
)

// Error implements the error interface.
func (e *BuildError) Error() string {
	return fmt.Sprintf("%s: %s (clock=%d)", e.Code, e.Message, e.Clock)
}

// IsUnknownHash reports whether err is (or wraps) a missing-fragment
// build error.
func IsUnknownHash(err error) bool {
	var be *BuildError
	if errors.As(err, &be) {
		return be.Code == ErrCodeUnknownHash
	}
	return false
}
