// pkg/template/builtin.go
package template

// Builtins returns the compiled-in templates, keyed by name. Callers get a
// fresh map each time; builtins are never mutated in place.
func Builtins() map[string]Template {
	return map[string]Template{
		"gaming": {
			Name:           "gaming",
			Description:    "Optimized for gaming with DXVK and common runtimes",
			WindowsVersion: "win10",
			Components:     []string{"vcrun2019", "d3dx9", "dotnet48"},
			EnvVars:        map[string]string{"DXVK_HUD": "fps", "STAGING_SHARED_MEMORY": "1"},
			InstallDXVK:    true,
		},
		"steam": {
			Name:           "steam",
			Description:    "Pre-configured for Steam client",
			WindowsVersion: "win10",
			Components:     []string{"vcrun2019", "dotnet48", "corefonts"},
			InstallDXVK:    true,
		},
		"office": {
			Name:           "office",
			Description:    "Optimized for Microsoft Office applications",
			WindowsVersion: "win10",
			Components:     []string{"dotnet48", "vcrun2019", "corefonts", "msxml6"},
		},
		"development": {
			Name:           "development",
			Description:    "For development tools and IDEs",
			WindowsVersion: "win10",
			Components:     []string{"vcrun2019", "dotnet48"},
		},
		"compatibility": {
			Name:           "compatibility",
			Description:    "Maximum compatibility for older applications",
			WindowsVersion: "win7",
			Components:     []string{"vcrun2008", "vcrun2010", "dotnet35"},
		},
		"minimal": {
			Name:           "minimal",
			Description:    "Minimal prefix with no extra packages",
			WindowsVersion: "win10",
		},
	}
}
