// pkg/template/types.go
package template

// Template is a reusable recipe for provisioning a prefix: the Windows
// version to report, components to install and environment overrides to
// persist. Builtin templates are compiled in; custom ones live in a yaml
// store.
type Template struct {
	Name           string            `yaml:"name"`
	Description    string            `yaml:"description"`
	WindowsVersion string            `yaml:"windows_version"`
	Components     []string          `yaml:"components,omitempty"`
	EnvVars        map[string]string `yaml:"env_vars,omitempty"`
	InstallDXVK    bool              `yaml:"install_dxvk,omitempty"`
}

// ListEntry is the presentation view of one known template
type ListEntry struct {
	Name        string
	Description string
	Builtin     bool
}
