// pkg/prefix/constants.go
package prefix

const (
	// MetadataFile is the per-prefix metadata file name
	MetadataFile = "winvora.json"

	// MarkerDir is the subtree whose presence marks a valid prefix
	MarkerDir = "drive_c"

	// RegistryFile is the persisted name->path mapping, stored in the data dir
	RegistryFile = "prefixes.yaml"
)
