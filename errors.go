// errors.go
package winvora

import "github.com/winvora/winvora/pkg/errdefs"

// Re-export the error taxonomy so callers can match without importing errdefs
var (
	ErrNotFound           = errdefs.ErrNotFound
	ErrAlreadyExists      = errdefs.ErrAlreadyExists
	ErrRuntimeUnavailable = errdefs.ErrRuntimeUnavailable
	ErrExternalProcess    = errdefs.ErrExternalProcess
	ErrTimeout            = errdefs.ErrTimeout
	ErrNetwork            = errdefs.ErrNetwork
	ErrExtract            = errdefs.ErrExtract
	ErrInvalidState       = errdefs.ErrInvalidState
	ErrPermission         = errdefs.ErrPermission
)

// Error carries operation context alongside the underlying error
type Error = errdefs.Error
