// pkg/winetricks/manager.go
package winetricks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/winvora/winvora/pkg/errdefs"
	"github.com/winvora/winvora/pkg/wine"
)

const (
	// DefaultInstallTimeout bounds one component installation
	DefaultInstallTimeout = 5 * time.Minute
)

var wellKnownDirs = []string{
	"/usr/bin",
	"/usr/local/bin",
	"/opt/homebrew/bin",
}

// Config configures the winetricks-backed component installer
type Config struct {
	Path    string        // Path to the winetricks helper (located if empty)
	Timeout time.Duration // Bound per component install
	Debug   bool          // Enable debug logging
	Logger  *log.Logger   // Custom logger (optional)
}

// Manager installs named components (redistributable packages, fonts) into
// prefixes by delegating to the external winetricks helper scoped via
// environment. The helper itself guarantees overwrite semantics, so repeat
// installs of the same component are safe.
type Manager struct {
	path    string
	timeout time.Duration
	logger  *log.Logger
}

// Locate finds the winetricks helper on the host
func Locate(configured string) (string, error) {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured, nil
		}
	}

	if path, err := exec.LookPath("winetricks"); err == nil {
		return path, nil
	}

	candidates := make([]string, 0, len(wellKnownDirs)+1)
	for _, dir := range wellKnownDirs {
		candidates = append(candidates, filepath.Join(dir, "winetricks"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".local", "bin", "winetricks"))
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", &errdefs.Error{Op: "locate winetricks", Err: errdefs.ErrRuntimeUnavailable}
}

// NewManager creates a component installer. The helper is located lazily on
// first use when not found at construction time, so a manager can be built
// on hosts without winetricks and still report availability honestly.
func NewManager(cfg *Config) *Manager {
	if cfg == nil {
		cfg = &Config{}
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultInstallTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		if cfg.Debug {
			logger = log.New(os.Stdout, "[WINETRICKS] ", log.LstdFlags)
		} else {
			logger = log.New(io.Discard, "", 0)
		}
	}

	path, _ := Locate(cfg.Path)

	return &Manager{
		path:    path,
		timeout: timeout,
		logger:  logger,
	}
}

// Available reports whether the helper is present on the host
func (m *Manager) Available() bool {
	if m.path == "" {
		m.path, _ = Locate("")
	}
	return m.path != ""
}

// Install installs one component into the prefix at prefixPath. Safe to call
// twice for the same pair; the helper overwrites cleanly.
func (m *Manager) Install(ctx context.Context, prefixPath, component string) error {
	if component == "" {
		return fmt.Errorf("component name is required")
	}
	if !m.Available() {
		return &errdefs.Error{Op: "install component", Resource: component, Err: errdefs.ErrRuntimeUnavailable}
	}

	m.logger.Printf("Installing %s into %s", component, prefixPath)

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, m.path, "--unattended", component)
	cmd.Env = append(os.Environ(), wine.PrefixEnv+"="+prefixPath)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return &errdefs.Error{Op: "install component", Resource: component, Err: errdefs.ErrTimeout}
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &errdefs.Error{
				Op:       "install component",
				Resource: component,
				Stderr:   strings.TrimSpace(stderr.String()),
				Err:      fmt.Errorf("%w: exit status %d", errdefs.ErrExternalProcess, exitErr.ExitCode()),
			}
		}
		return &errdefs.Error{Op: "install component", Resource: component, Err: err}
	}

	m.logger.Printf("Installed %s", component)
	return nil
}
