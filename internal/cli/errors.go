package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/Misfitd4/b99pack/internal/encoder"
)

// Error codes reported in CLI output.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeNotFound     = "E002" // Input path missing or unreadable
	ErrCodeBadInput     = "E003" // Register dump or playback log failed to parse
	ErrCodeUnknownHash  = "E004" // Playback log references a hash id with no rows
	ErrCodeEncodeFailed = "E005" // Bundle rejected by the beta99 writer
	ErrCodeWriteFailed  = "E006" // File write error
	ErrCodeBadBundle    = "E007" // File is not a decodable beta99 bundle
	ErrCodeCatalog      = "E008" // Catalog open or query error
)

// reportError emits the error through the formatter and converts it
// into an ExitError carrying the exit code for main to surface.
func reportError(formatter *OutputFormatter, exitCode int, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(exitCode, fmt.Sprintf("%s: %s", code, message))
}

// inputErrorCode picks the code for a failed input read: missing files
// are path problems, everything else is a parse problem.
func inputErrorCode(err error) string {
	if errors.Is(err, fs.ErrNotExist) {
		return ErrCodeNotFound
	}
	return ErrCodeBadInput
}

// buildErrorCode maps op-stream assembly failures onto CLI error codes.
func buildErrorCode(err error) string {
	if encoder.IsUnknownHash(err) {
		return ErrCodeUnknownHash
	}
	return ErrCodeGeneric
}
