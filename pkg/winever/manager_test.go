// pkg/winever/manager_test.go
package winever

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"

	"github.com/winvora/winvora/pkg/config"
	"github.com/winvora/winvora/pkg/errdefs"
	"github.com/winvora/winvora/pkg/progress"
)

// buildArchive produces a tar.gz holding the given file paths
func buildArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, content := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Typeflag: tar.TypeReg,
			Mode:     0755,
			Size:     int64(len(content)),
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

// buildArchiveXZ produces a tar.xz holding the given file paths
func buildArchiveXZ(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	xzw, err := xz.NewWriter(&buf)
	require.NoError(t, err)
	tw := tar.NewWriter(xzw)
	for name, content := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Typeflag: tar.TypeReg,
			Mode:     0755,
			Size:     int64(len(content)),
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, xzw.Close())
	return buf.Bytes()
}

func newTestManager(t *testing.T, stagingURL string) (*Manager, *config.Config) {
	t.Helper()
	// Keep the host's wine off the scan results
	t.Setenv("PATH", t.TempDir())

	dir := t.TempDir()
	cfg, err := config.Load(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)

	if stagingURL == "" {
		stagingURL = "http://127.0.0.1:0/wine-%s.tar.gz"
	}
	mgr, err := NewManager(&Config{
		Settings:   cfg,
		DataDir:    filepath.Join(dir, "data"),
		CacheDir:   filepath.Join(dir, "cache"),
		StagingURL: stagingURL,
	})
	require.NoError(t, err)
	return mgr, cfg
}

// installBuild fakes an already-extracted build on disk
func installBuild(t *testing.T, m *Manager, name string) string {
	t.Helper()
	dir := filepath.Join(m.versionsDir, name)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "bin"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bin", "wine"), []byte("#!/bin/sh\n"), 0755))
	return dir
}

func TestScanEmptyHost(t *testing.T) {
	mgr, _ := newTestManager(t, "")

	versions, err := mgr.Scan()
	require.NoError(t, err)
	require.Empty(t, versions)
}

func TestScanFindsInstalledBuilds(t *testing.T) {
	mgr, _ := newTestManager(t, "")
	installBuild(t, mgr, "staging-9.0")
	installBuild(t, mgr, "handbuilt")

	// A directory without a binary is not a build
	require.NoError(t, os.MkdirAll(filepath.Join(mgr.versionsDir, "staging-8.0"), 0755))

	versions, err := mgr.Scan()
	require.NoError(t, err)
	require.Len(t, versions, 2)

	staging, err := mgr.Find(VariantStaging, "9.0")
	require.NoError(t, err)
	require.Equal(t, "9.0", staging.Version)

	custom, err := mgr.Find(VariantCustom, "handbuilt")
	require.NoError(t, err)
	require.Equal(t, VariantCustom, custom.Variant)
}

func TestFindUnknownBuild(t *testing.T) {
	mgr, _ := newTestManager(t, "")

	_, err := mgr.Find(VariantStaging, "0.1")
	require.ErrorIs(t, err, errdefs.ErrNotFound)
}

func TestDownloadInstallsBuild(t *testing.T) {
	archive := buildArchive(t, map[string]string{
		"bin/wine":   "#!/bin/sh\necho wine-9.0\n",
		"share/info": "build metadata",
	})
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write(archive)
	}))
	defer server.Close()

	mgr, _ := newTestManager(t, server.URL+"/wine-%s.tar.gz")

	var rec progress.Recorder
	v, err := mgr.Download(context.Background(), VariantStaging, "9.0", rec.Func())
	require.NoError(t, err)
	require.Equal(t, "9.0", v.Version)
	require.Equal(t, 1, hits)
	require.FileExists(t, v.WineBinary())
	require.Equal(t, 100, rec.Last().Percent)

	// A second download is served from disk, not the network
	_, err = mgr.Download(context.Background(), VariantStaging, "9.0", nil)
	require.NoError(t, err)
	require.Equal(t, 1, hits)
}

func TestDownloadInstallsXZBuild(t *testing.T) {
	archive := buildArchiveXZ(t, map[string]string{
		"bin/wine": "#!/bin/sh\necho wine-9.0\n",
	})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(archive)
	}))
	defer server.Close()

	mgr, _ := newTestManager(t, server.URL+"/wine-%s.tar.xz")

	v, err := mgr.Download(context.Background(), VariantStaging, "9.0", nil)
	require.NoError(t, err)
	require.Equal(t, "9.0", v.Version)
	require.FileExists(t, v.WineBinary())

	// The cache keeps the source extension so verification decodes xz
	require.FileExists(t, filepath.Join(mgr.cacheDir, "staging-9.0.tar.xz"))

	// A second download is served from the verified cache
	_, err = mgr.Download(context.Background(), VariantStaging, "9.0", nil)
	require.NoError(t, err)
}

func TestDownloadRefetchesCorruptCache(t *testing.T) {
	archive := buildArchive(t, map[string]string{"bin/wine": "#!/bin/sh\n"})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(archive)
	}))
	defer server.Close()

	mgr, _ := newTestManager(t, server.URL+"/wine-%s.tar.gz")

	// A truncated download left behind in the cache
	cached := filepath.Join(mgr.cacheDir, "staging-9.0.tar.gz")
	require.NoError(t, os.MkdirAll(mgr.cacheDir, 0755))
	require.NoError(t, os.WriteFile(cached, archive[:len(archive)/2], 0644))

	_, err := mgr.Download(context.Background(), VariantStaging, "9.0", nil)
	require.NoError(t, err)
}

func TestDownloadRejectsNonDownloadableVariants(t *testing.T) {
	mgr, _ := newTestManager(t, "")

	_, err := mgr.Download(context.Background(), VariantSystem, "9.0", nil)
	require.ErrorIs(t, err, errdefs.ErrInvalidState)

	_, err = mgr.Download(context.Background(), Variant("vanilla"), "9.0", nil)
	require.Error(t, err)
}

func TestDownloadNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	mgr, _ := newTestManager(t, server.URL+"/wine-%s.tar.gz")

	_, err := mgr.Download(context.Background(), VariantStaging, "9.0", nil)
	require.ErrorIs(t, err, errdefs.ErrNetwork)
}

func TestSetActivePersists(t *testing.T) {
	mgr, cfg := newTestManager(t, "")
	installBuild(t, mgr, "staging-9.0")

	v, err := mgr.Find(VariantStaging, "9.0")
	require.NoError(t, err)
	require.NoError(t, mgr.SetActive(*v))

	reloaded, err := config.Load(cfg.Path())
	require.NoError(t, err)
	require.Equal(t, v.WineBinary(), reloaded.WinePath)

	// The build now scans as active
	active, err := mgr.Active()
	require.NoError(t, err)
	require.NotNil(t, active)
	require.Equal(t, "9.0", active.Version)
}

func TestDeleteRefusesActiveBuild(t *testing.T) {
	mgr, _ := newTestManager(t, "")
	installBuild(t, mgr, "staging-9.0")

	v, err := mgr.Find(VariantStaging, "9.0")
	require.NoError(t, err)
	require.NoError(t, mgr.SetActive(*v))

	require.ErrorIs(t, mgr.Delete(VariantStaging, "9.0"), errdefs.ErrInvalidState)
}

func TestDeleteRefusesAssignedBuild(t *testing.T) {
	mgr, _ := newTestManager(t, "")
	installBuild(t, mgr, "staging-9.0")

	v, err := mgr.Find(VariantStaging, "9.0")
	require.NoError(t, err)
	require.NoError(t, mgr.AssignToPrefix("games", *v))

	require.ErrorIs(t, mgr.Delete(VariantStaging, "9.0"), errdefs.ErrInvalidState)

	require.NoError(t, mgr.Unassign("games"))
	require.NoError(t, mgr.Delete(VariantStaging, "9.0"))
	_, err = mgr.Find(VariantStaging, "9.0")
	require.ErrorIs(t, err, errdefs.ErrNotFound)
}

func TestAssignments(t *testing.T) {
	mgr, _ := newTestManager(t, "")
	installBuild(t, mgr, "staging-9.0")

	v, err := mgr.Find(VariantStaging, "9.0")
	require.NoError(t, err)

	_, ok := mgr.AssignedBinary("games")
	require.False(t, ok)

	require.NoError(t, mgr.AssignToPrefix("games", *v))
	binary, ok := mgr.AssignedBinary("games")
	require.True(t, ok)
	require.Equal(t, v.WineBinary(), binary)

	// Unassigning an unknown prefix is a no-op
	require.NoError(t, mgr.Unassign("nope"))
}

func TestSplitVersionDir(t *testing.T) {
	variant, version := splitVersionDir("staging-9.0")
	require.Equal(t, VariantStaging, variant)
	require.Equal(t, "9.0", version)

	variant, version = splitVersionDir("proton-8.0-5")
	require.Equal(t, VariantProton, variant)
	require.Equal(t, "8.0-5", version)

	variant, version = splitVersionDir("lutris-ge-8")
	require.Equal(t, VariantCustom, variant)
	require.Equal(t, "lutris-ge-8", version)
}

func TestSortVersions(t *testing.T) {
	versions := []Version{
		{Variant: VariantStaging, Version: "8.0"},
		{Variant: VariantCustom, Version: "handbuilt"},
		{Variant: VariantStaging, Version: "9.0"},
		{Variant: VariantSystem, Version: "9.0"},
	}
	sortVersions(versions)

	// System first, then variants alphabetically, newest version first
	require.Equal(t, VariantSystem, versions[0].Variant)
	require.Equal(t, VariantCustom, versions[1].Variant)
	require.Equal(t, "9.0", versions[2].Version)
	require.Equal(t, VariantStaging, versions[2].Variant)
	require.Equal(t, "8.0", versions[3].Version)
}
