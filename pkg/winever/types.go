// pkg/winever/types.go
package winever

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/winvora/winvora/pkg/config"
)

// Variant is a closed enumeration of runtime build flavors. Unknown variants
// are rejected at the boundary instead of falling through.
type Variant string

const (
	// VariantSystem is the host-installed runtime found on the search path.
	// Always enumerable, never downloadable, never deletable.
	VariantSystem Variant = "system"
	// VariantStaging is the staging build line
	VariantStaging Variant = "staging"
	// VariantProton is the Proton build line
	VariantProton Variant = "proton"
	// VariantCustom is a build dropped into the versions directory by hand
	VariantCustom Variant = "custom"
)

// ParseVariant validates a variant string
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case VariantSystem, VariantStaging, VariantProton, VariantCustom:
		return Variant(s), nil
	default:
		return "", fmt.Errorf("unknown variant: %q", s)
	}
}

// Downloadable reports whether archives exist for this variant
func (v Variant) Downloadable() bool {
	return v == VariantStaging || v == VariantProton
}

// String returns the string representation of the variant
func (v Variant) String() string {
	return string(v)
}

// Version is one installed build of the external runtime
type Version struct {
	Version string  // Version string, e.g. "9.0"
	Variant Variant // Build flavor
	Path    string  // Install directory (or binary directory for system)
	Active  bool    // Used when a prefix specifies no override
}

// ID is the cache and install-directory key for a version
func (v Version) ID() string {
	return fmt.Sprintf("%s-%s", v.Variant, v.Version)
}

// WineBinary returns the wine executable for this build
func (v Version) WineBinary() string {
	if v.Variant == VariantSystem {
		return filepath.Join(v.Path, "wine")
	}
	return filepath.Join(v.Path, "bin", "wine")
}

// String returns a display form like "Staging 9.0"
func (v Version) String() string {
	variant := string(v.Variant)
	if variant != "" {
		variant = strings.ToUpper(variant[:1]) + variant[1:]
	}
	return fmt.Sprintf("%s %s", variant, v.Version)
}

// Config configures the runtime version manager
type Config struct {
	// Settings carries the persisted default runtime path; SetActive
	// rewrites it. Required.
	Settings *config.Config

	DataDir  string // Root for the versions directory (default: settings data dir)
	CacheDir string // Archive cache (default: settings cache dir + "wine")

	// Download URL templates, one handler per downloadable variant.
	// Each takes the version string once.
	StagingURL string
	ProtonURL  string

	Timeout time.Duration // Network timeout
	Debug   bool          // Enable debug logging
	Logger  *log.Logger   // Custom logger (optional)
}
