// pkg/dxvk/constants.go
package dxvk

const (
	// DefaultVersion is installed when callers do not pin one
	DefaultVersion = "2.3.1"

	// DefaultURLTemplate is the release archive URL; takes the version twice
	DefaultURLTemplate = "https://github.com/doitsujin/dxvk/releases/download/v%s/dxvk-%s.tar.gz"

	// MarkerFile records the installed version inside a prefix. Its presence
	// alone answers IsInstalled; no deep verification is performed.
	MarkerFile = ".dxvk_installed"
)

// DLLs is the fixed set of translation-layer binaries copied into a prefix
var DLLs = []string{
	"d3d9.dll",
	"d3d10core.dll",
	"d3d11.dll",
	"dxgi.dll",
}
