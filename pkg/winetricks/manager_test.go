// pkg/winetricks/manager_test.go
package winetricks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/winvora/winvora/pkg/errdefs"
)

func fakeHelper(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "winetricks")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
	return path
}

func TestLocateConfiguredPath(t *testing.T) {
	path := fakeHelper(t, "exit 0")

	located, err := Locate(path)
	require.NoError(t, err)
	require.Equal(t, path, located)
}

func TestInstallPassesPrefixAndComponent(t *testing.T) {
	dir := t.TempDir()
	capture := filepath.Join(dir, "args.txt")
	path := fakeHelper(t, `printf '%s %s %s' "$WINEPREFIX" "$1" "$2" > `+capture)

	mgr := NewManager(&Config{Path: path})
	require.True(t, mgr.Available())

	prefixPath := filepath.Join(dir, "prefix")
	require.NoError(t, mgr.Install(context.Background(), prefixPath, "vcrun2019"))

	data, err := os.ReadFile(capture)
	require.NoError(t, err)
	require.Equal(t, prefixPath+" --unattended vcrun2019", string(data))
}

func TestInstallFailureCarriesStderr(t *testing.T) {
	path := fakeHelper(t, `echo "verb not found" >&2; exit 1`)
	mgr := NewManager(&Config{Path: path})

	err := mgr.Install(context.Background(), t.TempDir(), "nonsense")
	require.ErrorIs(t, err, errdefs.ErrExternalProcess)

	var werr *errdefs.Error
	require.True(t, errors.As(err, &werr))
	require.Equal(t, "verb not found", werr.Stderr)
	require.Equal(t, "nonsense", werr.Resource)
}

func TestInstallTimesOut(t *testing.T) {
	path := fakeHelper(t, "sleep 5")
	mgr := NewManager(&Config{Path: path, Timeout: 100 * time.Millisecond})

	err := mgr.Install(context.Background(), t.TempDir(), "dotnet48")
	require.ErrorIs(t, err, errdefs.ErrTimeout)
}

func TestInstallRequiresComponentName(t *testing.T) {
	mgr := NewManager(&Config{Path: fakeHelper(t, "exit 0")})
	require.Error(t, mgr.Install(context.Background(), t.TempDir(), ""))
}

func TestCatalogCoversAllGroups(t *testing.T) {
	all := Catalog()
	require.Equal(t, len(DLLPackages())+len(FontPackages()), len(all))

	names := make(map[string]bool, len(all))
	for _, c := range all {
		require.NotEmpty(t, c.Description)
		names[c.Name] = true
	}
	require.True(t, names["vcrun2019"])
	require.True(t, names["corefonts"])
}
