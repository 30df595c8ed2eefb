// pkg/winetricks/catalog.go
package winetricks

// Component catalogs are static, compiled-in metadata: names plus short
// descriptions for presentation layers. Nothing is fetched.

// Component describes one installable unit
type Component struct {
	Name        string
	Description string
}

// DLLPackages lists the commonly needed redistributable runtime packages
func DLLPackages() []Component {
	return []Component{
		{"vcrun2019", "Visual C++ 2015-2019 runtime"},
		{"vcrun2017", "Visual C++ 2017 runtime"},
		{"vcrun2015", "Visual C++ 2015 runtime"},
		{"vcrun2013", "Visual C++ 2013 runtime"},
		{"vcrun2012", "Visual C++ 2012 runtime"},
		{"vcrun2010", "Visual C++ 2010 runtime"},
		{"vcrun2008", "Visual C++ 2008 runtime"},
		{"vcrun2005", "Visual C++ 2005 runtime"},
		{"dotnet48", ".NET Framework 4.8"},
		{"dotnet472", ".NET Framework 4.7.2"},
		{"dotnet462", ".NET Framework 4.6.2"},
		{"dotnet452", ".NET Framework 4.5.2"},
		{"dotnet35", ".NET Framework 3.5"},
		{"d3dx9", "DirectX 9 D3DX libraries"},
		{"d3dcompiler_47", "Direct3D shader compiler"},
		{"msxml6", "Microsoft XML parser 6"},
	}
}

// FontPackages lists the commonly needed font sets
func FontPackages() []Component {
	return []Component{
		{"corefonts", "Microsoft core web fonts"},
		{"tahoma", "Tahoma font"},
		{"consolas", "Consolas font"},
		{"liberation", "Liberation font family"},
	}
}

// Catalog returns every known component
func Catalog() []Component {
	dlls := DLLPackages()
	fonts := FontPackages()
	all := make([]Component, 0, len(dlls)+len(fonts))
	all = append(all, dlls...)
	all = append(all, fonts...)
	return all
}
