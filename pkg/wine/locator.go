// pkg/wine/locator.go
package wine

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/winvora/winvora/pkg/errdefs"
)

// wellKnownDirs are checked after the system search path, followed by the
// user's ~/.local/bin resolved at lookup time.
var wellKnownDirs = []string{
	"/usr/bin",
	"/usr/local/bin",
	"/opt/homebrew/bin",
}

// Locate finds the wine executable. The configured path wins when it exists,
// then the system search path, then well-known install locations. Pure
// lookup, no state.
func Locate(configured string) (string, error) {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured, nil
		}
	}

	if path, err := exec.LookPath("wine"); err == nil {
		return path, nil
	}

	candidates := make([]string, 0, len(wellKnownDirs)+1)
	for _, dir := range wellKnownDirs {
		candidates = append(candidates, filepath.Join(dir, "wine"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".local", "bin", "wine"))
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", &errdefs.Error{Op: "locate wine", Err: errdefs.ErrRuntimeUnavailable}
}
