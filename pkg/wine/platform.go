// pkg/wine/platform.go
package wine

import "fmt"

// Arch represents a prefix architecture
type Arch string

const (
	// ArchWin64 creates a 64-bit prefix
	ArchWin64 Arch = "win64"
	// ArchWin32 creates a 32-bit prefix
	ArchWin32 Arch = "win32"
)

// AllArchitectures contains every supported prefix architecture
var AllArchitectures = []Arch{ArchWin64, ArchWin32}

// ParseArch validates an architecture string at the boundary
func ParseArch(s string) (Arch, error) {
	switch Arch(s) {
	case ArchWin64:
		return ArchWin64, nil
	case ArchWin32:
		return ArchWin32, nil
	default:
		return "", fmt.Errorf("unsupported architecture: %q (expected win32 or win64)", s)
	}
}

// String returns the string representation of the architecture
func (a Arch) String() string {
	return string(a)
}

// IsValid checks if the architecture is valid
func (a Arch) IsValid() bool {
	return a == ArchWin64 || a == ArchWin32
}
