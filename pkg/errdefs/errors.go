// pkg/errdefs/errors.go
package errdefs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates an unknown prefix, runtime version, or template
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a duplicate create
	ErrAlreadyExists = errors.New("already exists")

	// ErrRuntimeUnavailable indicates no wine executable could be located
	ErrRuntimeUnavailable = errors.New("wine runtime not available")

	// ErrExternalProcess indicates a nonzero exit from an invoked external process
	ErrExternalProcess = errors.New("external process failed")

	// ErrTimeout indicates an invoked external process exceeded its deadline.
	// Kept distinct from ErrExternalProcess so callers can tell a hung
	// runtime from one that refused.
	ErrTimeout = errors.New("external process timed out")

	// ErrNetwork indicates a download failure
	ErrNetwork = errors.New("download failed")

	// ErrExtract indicates an archive extraction failure.
	// Distinct from ErrNetwork so partial-cache corruption can be diagnosed.
	ErrExtract = errors.New("extraction failed")

	// ErrInvalidState indicates an operation that is not valid in the current
	// state, such as deleting the active runtime version or a builtin template
	ErrInvalidState = errors.New("invalid state")

	// ErrPermission indicates the operation was denied by the host
	ErrPermission = errors.New("permission denied")
)

// Error wraps an error with operation context
type Error struct {
	Op       string // Operation that failed
	Resource string // Prefix, version, component or template name if applicable
	Stderr   string // Captured stderr for external process failures
	Err      error  // Underlying error
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Resource != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Resource)
	}
	if e.Stderr != "" {
		return fmt.Sprintf("%s: %v: %s", msg, e.Err, e.Stderr)
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
