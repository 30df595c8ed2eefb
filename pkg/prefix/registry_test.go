// pkg/prefix/registry_test.go
package prefix

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryPersistence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prefixes.yaml")

	reg, err := NewRegistry(path)
	require.NoError(t, err)
	require.NoError(t, reg.Register("games", "/data/prefixes/games"))
	require.NoError(t, reg.Register("office", "/data/prefixes/office"))

	// A fresh instance sees what the first one persisted
	reloaded, err := NewRegistry(path)
	require.NoError(t, err)
	got, ok := reloaded.Path("games")
	require.True(t, ok)
	require.Equal(t, "/data/prefixes/games", got)
	require.Equal(t, []string{"games", "office"}, reloaded.Names())
}

func TestRegistryRemove(t *testing.T) {
	reg, err := NewRegistry(filepath.Join(t.TempDir(), "prefixes.yaml"))
	require.NoError(t, err)
	require.NoError(t, reg.Register("games", "/data/prefixes/games"))

	require.NoError(t, reg.Remove("games"))
	_, ok := reg.Path("games")
	require.False(t, ok)

	// Removing an unknown name is a no-op
	require.NoError(t, reg.Remove("games"))
}

func TestRegistryReconcile(t *testing.T) {
	dir := t.TempDir()
	prefixesDir := filepath.Join(dir, "prefixes")
	require.NoError(t, os.MkdirAll(filepath.Join(prefixesDir, "discovered"), 0755))

	external := filepath.Join(dir, "elsewhere", "external")
	require.NoError(t, os.MkdirAll(external, 0755))

	reg, err := NewRegistry(filepath.Join(dir, "prefixes.yaml"))
	require.NoError(t, err)
	require.NoError(t, reg.Register("external", external))
	require.NoError(t, reg.Register("vanished", filepath.Join(dir, "gone")))

	names, err := reg.Reconcile(prefixesDir)
	require.NoError(t, err)
	require.Equal(t, []string{"discovered", "external"}, names)

	// Vanished entries are dropped, discovered and external survive
	_, ok := reg.Path("vanished")
	require.False(t, ok)
	_, ok = reg.Path("discovered")
	require.True(t, ok)
}

func TestRegistryReconcileDoesNotWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prefixes.yaml")
	prefixesDir := filepath.Join(dir, "prefixes")
	require.NoError(t, os.MkdirAll(filepath.Join(prefixesDir, "discovered"), 0755))

	reg, err := NewRegistry(path)
	require.NoError(t, err)
	require.NoError(t, reg.Register("vanished", filepath.Join(dir, "gone")))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	names, err := reg.Reconcile(prefixesDir)
	require.NoError(t, err)
	require.Equal(t, []string{"discovered"}, names)

	// The rebuilt view lives in memory only; the file changes on the next
	// mutation, not during reconcile
	after, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, string(before), string(after))

	require.NoError(t, reg.Register("new", filepath.Join(prefixesDir, "new")))
	reloaded, err := NewRegistry(path)
	require.NoError(t, err)
	_, ok := reloaded.Path("vanished")
	require.False(t, ok)
	_, ok = reloaded.Path("discovered")
	require.True(t, ok)
}

func TestRegistryReconcileMissingDir(t *testing.T) {
	reg, err := NewRegistry(filepath.Join(t.TempDir(), "prefixes.yaml"))
	require.NoError(t, err)

	names, err := reg.Reconcile(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	require.Empty(t, names)
}
