// pkg/wine/constants.go
package wine

import "time"

const (
	// PrefixEnv scopes a wine invocation to a prefix root directory
	PrefixEnv = "WINEPREFIX"

	// ArchEnv selects the prefix architecture at creation time
	ArchEnv = "WINEARCH"
)

const (
	// DefaultInitTimeout bounds prefix initialization (wineboot)
	DefaultInitTimeout = 60 * time.Second

	// DefaultRunTimeout bounds foreground application runs
	DefaultRunTimeout = 5 * time.Minute

	// versionTimeout bounds `wine --version` queries
	versionTimeout = 5 * time.Second

	// regTimeout bounds registry patch invocations
	regTimeout = 10 * time.Second
)

// windowsVersionKey is the registry key holding the reported Windows version
const windowsVersionKey = `HKLM\Software\Microsoft\Windows NT\CurrentVersion`

// WindowsVersions lists the OS version identifiers a prefix can report.
// Order is newest first.
var WindowsVersions = []string{
	"win11",
	"win10",
	"win81",
	"win8",
	"win7",
	"vista",
	"winxp",
}

// IsValidWindowsVersion reports whether v is a known OS version identifier
func IsValidWindowsVersion(v string) bool {
	for _, known := range WindowsVersions {
		if v == known {
			return true
		}
	}
	return false
}
