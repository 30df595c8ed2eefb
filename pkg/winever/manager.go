// pkg/winever/manager.go
package winever

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/winvora/winvora/pkg/errdefs"
	"github.com/winvora/winvora/pkg/progress"
	"github.com/winvora/winvora/pkg/wine"
)

// Manager downloads, catalogs and switches between installed builds of the
// external runtime. State machine per build:
// discovered -> downloading -> extracting -> installed -> active, with
// installed -> deleted. At most one build is active at a time.
type Manager struct {
	cfg         *Config
	versionsDir string
	cacheDir    string
	assignPath  string
	client      *Client
	logger      *log.Logger
}

// NewManager creates a runtime version manager
func NewManager(cfg *Config) (*Manager, error) {
	if cfg == nil || cfg.Settings == nil {
		return nil, fmt.Errorf("Settings is required")
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = cfg.Settings.ResolveDataDir()
	}
	cacheDir := cfg.CacheDir
	if cacheDir == "" {
		cacheDir = filepath.Join(cfg.Settings.ResolveCacheDir(), "wine")
	}
	if cfg.StagingURL == "" {
		cfg.StagingURL = DefaultStagingURL
	}
	if cfg.ProtonURL == "" {
		cfg.ProtonURL = DefaultProtonURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Minute
	}

	logger := cfg.Logger
	if logger == nil {
		if cfg.Debug {
			logger = log.New(os.Stdout, "[WINEVER] ", log.LstdFlags)
		} else {
			logger = log.New(io.Discard, "", 0)
		}
	}

	return &Manager{
		cfg:         cfg,
		versionsDir: filepath.Join(dataDir, VersionsDir),
		cacheDir:    cacheDir,
		assignPath:  filepath.Join(dataDir, AssignmentsFile),
		client:      NewClientWithTimeout(timeout),
		logger:      logger,
	}, nil
}

// Scan enumerates installed runtime builds: the system runtime from the host
// search path (if any) plus every version-named directory containing a wine
// binary. Read-only and idempotent; a host with nothing installed yields an
// empty list, not an error.
func (m *Manager) Scan() ([]Version, error) {
	var versions []Version

	if systemPath, err := exec.LookPath("wine"); err == nil {
		version := "unknown"
		if v, err := wine.BinaryVersion(context.Background(), systemPath); err == nil {
			version = v
		}
		versions = append(versions, Version{
			Version: version,
			Variant: VariantSystem,
			Path:    filepath.Dir(systemPath),
		})
	}

	entries, err := os.ReadDir(m.versionsDir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("scanning versions directory: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		dir := filepath.Join(m.versionsDir, entry.Name())
		if _, err := os.Stat(filepath.Join(dir, "bin", "wine")); err != nil {
			continue
		}

		variant, version := splitVersionDir(entry.Name())
		versions = append(versions, Version{
			Version: version,
			Variant: variant,
			Path:    dir,
		})
	}

	m.markActive(versions)
	sortVersions(versions)
	return versions, nil
}

// Active returns the build used when a prefix specifies no override
func (m *Manager) Active() (*Version, error) {
	versions, err := m.Scan()
	if err != nil {
		return nil, err
	}
	for i := range versions {
		if versions[i].Active {
			return &versions[i], nil
		}
	}
	return nil, nil
}

// Find looks up an installed build by variant and version
func (m *Manager) Find(variant Variant, version string) (*Version, error) {
	versions, err := m.Scan()
	if err != nil {
		return nil, err
	}
	for i := range versions {
		if versions[i].Variant == variant && versions[i].Version == version {
			return &versions[i], nil
		}
	}
	return nil, &errdefs.Error{
		Op:       "find runtime version",
		Resource: fmt.Sprintf("%s-%s", variant, version),
		Err:      errdefs.ErrNotFound,
	}
}

// Download fetches a build archive, extracts it into a version-named
// directory and rescans. Archives are cached by variant+version key; a
// partially written cache file is never treated as complete. The stream is
// verified before reuse and truncated files are re-fetched.
func (m *Manager) Download(ctx context.Context, variant Variant, version string, fn progress.Func) (*Version, error) {
	if _, err := ParseVariant(string(variant)); err != nil {
		return nil, err
	}
	if !variant.Downloadable() {
		return nil, &errdefs.Error{
			Op:       "download runtime",
			Resource: string(variant),
			Err:      fmt.Errorf("%w: variant %s has no download source", errdefs.ErrInvalidState, variant),
		}
	}
	if version == "" {
		return nil, fmt.Errorf("version is required")
	}

	key := fmt.Sprintf("%s-%s", variant, version)
	installDir := filepath.Join(m.versionsDir, key)

	progress.Notify(fn, 5, fmt.Sprintf("Preparing wine %s %s", variant, version))

	// Fast path: build already extracted and usable
	if _, err := os.Stat(filepath.Join(installDir, "bin", "wine")); err == nil {
		m.logger.Printf("Build %s already installed", key)
		progress.Notify(fn, 100, "Already installed")
		return m.Find(variant, version)
	}

	url, err := m.downloadURL(variant, version)
	if err != nil {
		return nil, err
	}

	// The cache file keeps the source extension so the extractor picks the
	// matching decompressor
	archive := filepath.Join(m.cacheDir, key+archiveExt(url))
	if err := m.fetchArchive(ctx, url, archive, fn); err != nil {
		return nil, err
	}

	progress.Notify(fn, 60, "Extracting archive")
	m.logger.Printf("Extracting %s -> %s", archive, installDir)
	if err := extractArchive(archive, installDir); err != nil {
		// Leave no half-extracted build behind
		_ = os.RemoveAll(installDir)
		return nil, &errdefs.Error{
			Op:       "extract runtime archive",
			Resource: key,
			Err:      fmt.Errorf("%w: %v", errdefs.ErrExtract, err),
		}
	}

	progress.Notify(fn, 90, "Rescanning installed builds")
	versions, err := m.Scan()
	if err != nil {
		return nil, err
	}

	progress.Notify(fn, 100, fmt.Sprintf("Wine %s %s installed", variant, version))

	for i := range versions {
		if versions[i].Variant == variant && versions[i].Version == version {
			return &versions[i], nil
		}
	}
	// Archive did not contain the expected binary layout; the directory is
	// still on disk for inspection but is not a usable build
	return &Version{Version: version, Variant: variant, Path: installDir}, nil
}

// fetchArchive ensures a verified archive exists at archivePath
func (m *Manager) fetchArchive(ctx context.Context, url, archivePath string, fn progress.Func) error {
	if _, err := os.Stat(archivePath); err == nil {
		if verifyArchive(archivePath) {
			m.logger.Printf("Using cached archive %s", archivePath)
			progress.Notify(fn, 50, "Using cached archive")
			return nil
		}
		m.logger.Printf("Cached archive %s is corrupt, re-fetching", archivePath)
		if err := os.Remove(archivePath); err != nil {
			return fmt.Errorf("removing corrupt cache file: %w", err)
		}
	}

	progress.Notify(fn, 20, fmt.Sprintf("Downloading %s", url))
	m.logger.Printf("Downloading %s -> %s", url, archivePath)

	if err := os.MkdirAll(filepath.Dir(archivePath), 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	// Download to a partial file first so an interrupted transfer never
	// masquerades as a complete archive
	partial := archivePath + ".partial"
	f, err := os.Create(partial)
	if err != nil {
		return fmt.Errorf("creating cache file: %w", err)
	}

	written, err := m.client.Download(ctx, url, f)
	closeErr := f.Close()
	if err != nil {
		_ = os.Remove(partial)
		return &errdefs.Error{
			Op:       "download runtime archive",
			Resource: url,
			Err:      fmt.Errorf("%w: %v", errdefs.ErrNetwork, err),
		}
	}
	if closeErr != nil {
		_ = os.Remove(partial)
		return fmt.Errorf("closing cache file: %w", closeErr)
	}

	if err := os.Rename(partial, archivePath); err != nil {
		return fmt.Errorf("committing cache file: %w", err)
	}

	m.logger.Printf("Downloaded %d bytes", written)
	progress.Notify(fn, 50, "Download complete")
	return nil
}

// downloadURL resolves the archive URL, one handler per variant
func (m *Manager) downloadURL(variant Variant, version string) (string, error) {
	switch variant {
	case VariantStaging:
		return fmt.Sprintf(m.cfg.StagingURL, version), nil
	case VariantProton:
		return fmt.Sprintf(m.cfg.ProtonURL, version), nil
	default:
		return "", fmt.Errorf("unknown variant: %q", variant)
	}
}

// archiveExt derives the cache file extension from the source URL
func archiveExt(url string) string {
	if strings.HasSuffix(url, ".tar.xz") {
		return ".tar.xz"
	}
	return ".tar.gz"
}

// SetActive flips the persisted default runtime path to the given build.
// A pure configuration change: no prefix is touched and nothing reinstalls.
func (m *Manager) SetActive(v Version) error {
	m.cfg.Settings.WinePath = v.WineBinary()
	if err := m.cfg.Settings.Save(); err != nil {
		return fmt.Errorf("saving active runtime: %w", err)
	}
	m.logger.Printf("Active runtime set to %s", v)
	return nil
}

// Delete removes an installed build. Refused for the system runtime, the
// active build, and builds still assigned to a prefix (reassign first).
func (m *Manager) Delete(variant Variant, version string) error {
	v, err := m.Find(variant, version)
	if err != nil {
		return err
	}

	if v.Variant == VariantSystem {
		return &errdefs.Error{
			Op:       "delete runtime version",
			Resource: v.ID(),
			Err:      fmt.Errorf("%w: the system runtime cannot be deleted", errdefs.ErrInvalidState),
		}
	}
	if v.Active {
		return &errdefs.Error{
			Op:       "delete runtime version",
			Resource: v.ID(),
			Err:      fmt.Errorf("%w: version is active", errdefs.ErrInvalidState),
		}
	}
	if holders := m.referencedBy(*v); len(holders) > 0 {
		return &errdefs.Error{
			Op:       "delete runtime version",
			Resource: v.ID(),
			Err:      fmt.Errorf("%w: still assigned to prefixes %v", errdefs.ErrInvalidState, holders),
		}
	}

	m.logger.Printf("Deleting runtime build %s at %s", v.ID(), v.Path)
	if err := os.RemoveAll(v.Path); err != nil {
		return fmt.Errorf("removing version directory: %w", err)
	}
	return nil
}

// markActive flags the build whose binary matches the persisted default
// runtime path. With no configured path the system runtime is the default.
func (m *Manager) markActive(versions []Version) {
	configured := m.cfg.Settings.WinePath

	if configured == "" {
		for i := range versions {
			if versions[i].Variant == VariantSystem {
				versions[i].Active = true
				return
			}
		}
		return
	}

	configured = filepath.Clean(configured)
	for i := range versions {
		if filepath.Clean(versions[i].WineBinary()) == configured {
			versions[i].Active = true
			return
		}
	}
}

// splitVersionDir derives (variant, version) from a directory name like
// "staging-9.0". Names without a recognized variant tag are custom builds.
func splitVersionDir(name string) (Variant, string) {
	parts := strings.SplitN(name, "-", 2)
	if len(parts) == 2 {
		if variant, err := ParseVariant(parts[0]); err == nil && variant != VariantSystem {
			return variant, parts[1]
		}
	}
	return VariantCustom, name
}

// sortVersions orders the system runtime first, then newest versions first
// within each variant. Non-semver versions sort after semver ones.
func sortVersions(versions []Version) {
	sort.SliceStable(versions, func(i, j int) bool {
		a, b := versions[i], versions[j]
		if (a.Variant == VariantSystem) != (b.Variant == VariantSystem) {
			return a.Variant == VariantSystem
		}
		if a.Variant != b.Variant {
			return a.Variant < b.Variant
		}

		av, aerr := semver.NewVersion(a.Version)
		bv, berr := semver.NewVersion(b.Version)
		if aerr == nil && berr == nil {
			return av.GreaterThan(bv)
		}
		if (aerr == nil) != (berr == nil) {
			return aerr == nil
		}
		return a.Version > b.Version
	})
}
