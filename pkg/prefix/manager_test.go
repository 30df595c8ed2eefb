// pkg/prefix/manager_test.go
package prefix

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/winvora/winvora/pkg/errdefs"
	"github.com/winvora/winvora/pkg/wine"
)

// fakeWine builds a wine client backed by a shell script
func fakeWine(t *testing.T, body string) *wine.Client {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wine")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))

	client, err := wine.NewClient(&wine.Config{WinePath: path})
	require.NoError(t, err)
	return client
}

// workingWine behaves like a runtime that initializes prefixes and accepts
// registry patches
func workingWine(t *testing.T) *wine.Client {
	return fakeWine(t, `case "$1" in
  wineboot) mkdir -p "$WINEPREFIX/drive_c" ;;
esac
exit 0`)
}

func newTestManager(t *testing.T, client *wine.Client) *Manager {
	t.Helper()
	dir := t.TempDir()
	mgr, err := NewManager(client, &Config{
		PrefixesDir:  filepath.Join(dir, "prefixes"),
		RegistryPath: filepath.Join(dir, "prefixes.yaml"),
	})
	require.NoError(t, err)
	return mgr
}

func TestCreateInitializesPrefix(t *testing.T) {
	mgr := newTestManager(t, workingWine(t))

	result, err := mgr.Create(context.Background(), "games", CreateOptions{})
	require.NoError(t, err)
	require.Empty(t, result.Warnings)
	require.Equal(t, StateReady, result.Info.State)
	require.Equal(t, "win10", result.Info.WindowsVersion)
	require.Equal(t, wine.ArchWin64, result.Info.Architecture)

	// Metadata is persisted inside the prefix
	_, err = os.Stat(filepath.Join(result.Info.Path, MetadataFile))
	require.NoError(t, err)

	infos := mgr.List()
	require.Len(t, infos, 1)
	require.Equal(t, "games", infos[0].Name)
}

func TestCreateDuplicateRefused(t *testing.T) {
	mgr := newTestManager(t, workingWine(t))

	_, err := mgr.Create(context.Background(), "games", CreateOptions{})
	require.NoError(t, err)

	_, err = mgr.Create(context.Background(), "games", CreateOptions{})
	require.ErrorIs(t, err, errdefs.ErrAlreadyExists)

	// The existing prefix is untouched
	info, ok := mgr.Info("games")
	require.True(t, ok)
	require.Equal(t, StateReady, info.State)
}

func TestCreateRollsBackOnInitFailure(t *testing.T) {
	failing := fakeWine(t, `echo "wineboot failed" >&2; exit 1`)
	mgr := newTestManager(t, failing)

	_, err := mgr.Create(context.Background(), "broken", CreateOptions{})
	require.ErrorIs(t, err, errdefs.ErrExternalProcess)

	// Neither the directory nor the registry entry survives
	_, err = os.Stat(filepath.Join(mgr.cfg.PrefixesDir, "broken"))
	require.True(t, os.IsNotExist(err))
	_, ok := mgr.Info("broken")
	require.False(t, ok)
}

func TestCreateSurfacesVersionPatchWarning(t *testing.T) {
	// wineboot succeeds, the registry patch does not
	partial := fakeWine(t, `case "$1" in
  wineboot) mkdir -p "$WINEPREFIX/drive_c"; exit 0 ;;
  reg) exit 1 ;;
esac`)
	mgr := newTestManager(t, partial)

	result, err := mgr.Create(context.Background(), "games", CreateOptions{})
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	require.Contains(t, result.Warnings[0], "windows version")
	require.Equal(t, StateReady, result.Info.State)
}

func TestCreateWithoutRuntime(t *testing.T) {
	mgr := newTestManager(t, nil)

	_, err := mgr.Create(context.Background(), "games", CreateOptions{})
	require.ErrorIs(t, err, errdefs.ErrRuntimeUnavailable)
}

func TestCreateRejectsInvalidArch(t *testing.T) {
	mgr := newTestManager(t, workingWine(t))

	_, err := mgr.Create(context.Background(), "games", CreateOptions{Architecture: "mips"})
	require.Error(t, err)
}

func TestDelete(t *testing.T) {
	mgr := newTestManager(t, workingWine(t))

	result, err := mgr.Create(context.Background(), "games", CreateOptions{})
	require.NoError(t, err)

	require.NoError(t, mgr.Delete(context.Background(), "games"))
	_, err = os.Stat(result.Info.Path)
	require.True(t, os.IsNotExist(err))
	_, ok := mgr.Info("games")
	require.False(t, ok)

	require.ErrorIs(t, mgr.Delete(context.Background(), "games"), errdefs.ErrNotFound)
}

func TestCorruptPrefixDetected(t *testing.T) {
	mgr := newTestManager(t, workingWine(t))

	result, err := mgr.Create(context.Background(), "games", CreateOptions{})
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(filepath.Join(result.Info.Path, MarkerDir)))

	info, ok := mgr.Info("games")
	require.True(t, ok)
	require.True(t, info.Exists)
	require.Equal(t, StateCorrupt, info.State)
}

func TestSetEnvVars(t *testing.T) {
	mgr := newTestManager(t, workingWine(t))

	_, err := mgr.Create(context.Background(), "games", CreateOptions{})
	require.NoError(t, err)

	env := map[string]string{"DXVK_HUD": "fps"}
	require.NoError(t, mgr.SetEnvVars("games", env))

	info, ok := mgr.Info("games")
	require.True(t, ok)
	require.Equal(t, env, info.EnvVars)

	require.ErrorIs(t, mgr.SetEnvVars("nope", env), errdefs.ErrNotFound)
}

func TestReconcilePicksUpForeignDirectories(t *testing.T) {
	mgr := newTestManager(t, workingWine(t))

	_, err := mgr.Create(context.Background(), "games", CreateOptions{})
	require.NoError(t, err)

	// A prefix created by another tool, dropped straight into the directory
	require.NoError(t, os.MkdirAll(filepath.Join(mgr.cfg.PrefixesDir, "imported", MarkerDir), 0755))

	names, err := mgr.Reconcile()
	require.NoError(t, err)
	require.Equal(t, []string{"games", "imported"}, names)
}
