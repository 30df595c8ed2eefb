// pkg/winever/constants.go
package winever

const (
	// DefaultStagingURL is the archive URL template for staging builds
	DefaultStagingURL = "https://github.com/wine-staging/wine-staging/archive/v%s.tar.gz"

	// DefaultProtonURL is the archive URL template for Proton builds
	DefaultProtonURL = "https://github.com/ValveSoftware/Proton/archive/refs/tags/proton-%s.tar.gz"

	// VersionsDir holds one subdirectory per installed build, keyed variant-version
	VersionsDir = "wine-versions"

	// AssignmentsFile maps prefix names to overriding runtime binaries
	AssignmentsFile = "prefix-wine.yaml"
)
