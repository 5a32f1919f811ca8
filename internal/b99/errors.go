package b99

import (
	"errors"
	"fmt"
)

// PackError reports a bundle that cannot be written as beta99. These
// are fatal: callers abort instead of emitting a partial file.
type PackError struct {
	// Code identifies the error category.
	Code PackErrorCode

	// Message is a human-readable description.
	Message string

	// SSF is the offending table index, or -1 when not applicable.
	SSF int

	// Op is the offending op index within the record, or -1.
	Op int
}

// PackErrorCode categorizes pack-side validation errors.
type PackErrorCode string

const (
	// ErrCodeTooManySSFs indicates the table exceeds 16-bit index space.
	ErrCodeTooManySSFs PackErrorCode = "TOO_MANY_SSFS"

	// ErrCodePayloadTooLarge indicates an op payload above MaxOpPayload.
	ErrCodePayloadTooLarge PackErrorCode = "PAYLOAD_TOO_LARGE"

	// ErrCodePayloadSize indicates a known opcode with the wrong
	// payload width.
	ErrCodePayloadSize PackErrorCode = "PAYLOAD_SIZE_MISMATCH"
)

// Error implements the error interface.
func (e *PackError) Error() string {
	if e.SSF >= 0 && e.Op >= 0 {
		return fmt.Sprintf("%s: %s (ssf=%d, op=%d)", e.Code, e.Message, e.SSF, e.Op)
	}
	if e.SSF >= 0 {
		return fmt.Sprintf("%s: %s (ssf=%d)", e.Code, e.Message, e.SSF)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsPackError reports whether err is (or wraps) a PackError with the
// given code.
func IsPackError(err error, code PackErrorCode) bool {
	var pe *PackError
	if errors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}

// Decode failure sentinels. DecodeBinary wraps these with positional
// context; match with errors.Is.
var (
	ErrBadMagic   = errors.New("not a beta99 bundle")
	ErrBadVersion = errors.New("unsupported beta99 format version")
	ErrTruncated  = errors.New("truncated beta99 bundle")
)
