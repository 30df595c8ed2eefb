// pkg/prefix/types.go
package prefix

import (
	"github.com/winvora/winvora/pkg/wine"
)

// State describes what a prefix directory actually looks like on disk
type State string

const (
	// StateReady means the directory exists and contains the expected
	// internal marker subtree
	StateReady State = "ready"
	// StateCorrupt means the directory exists but the marker subtree is
	// absent (e.g. interrupted initialization)
	StateCorrupt State = "corrupt"
	// StateMissing means the registered directory no longer exists
	StateMissing State = "missing"
)

// Metadata is persisted inside each prefix as winvora.json
type Metadata struct {
	Name           string            `json:"name"`
	Path           string            `json:"path"`
	WindowsVersion string            `json:"windows_version"`
	Architecture   wine.Arch         `json:"architecture"`
	EnvVars        map[string]string `json:"env_vars,omitempty"`
	CreatedAt      string            `json:"created_at"`
}

// Info is the computed view of a prefix. Derived fields (existence, state)
// are recomputed on every call, never cached.
type Info struct {
	Name           string
	Path           string
	Exists         bool
	State          State
	WindowsVersion string
	Architecture   wine.Arch
	EnvVars        map[string]string
	CreatedAt      string
}

// CreateOptions configures prefix creation
type CreateOptions struct {
	WindowsVersion string    // Defaults to the manager's configured default
	Architecture   wine.Arch // Defaults to the manager's configured default
}

// CreateResult reports a successful creation. Warnings carry the outcome of
// best-effort sub-steps (such as the Windows version patch) that did not
// fail the operation but that callers should be able to see.
type CreateResult struct {
	Info     Info
	Warnings []string
}
