// pkg/dxvk/manager.go
package dxvk

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/winvora/winvora/pkg/errdefs"
	"github.com/winvora/winvora/pkg/progress"
)

// Config configures the graphics translation layer installer
type Config struct {
	CacheDir    string        // Archive and extraction cache (required)
	URLTemplate string        // Release URL template (optional)
	Timeout     time.Duration // Bound on one archive download
	Debug       bool          // Enable debug logging
	Logger      *log.Logger   // Custom logger (optional)
}

// Manager installs the Vulkan-based Direct3D translation layer into prefixes
// by copying its DLLs over the built-in ones and flipping registry overrides.
// Install is idempotent: re-running for any version overwrites in place and
// leaves exactly one version recorded in the marker.
type Manager struct {
	cacheDir    string
	urlTemplate string
	client      *Client
	logger      *log.Logger
}

// InstallResult reports an installation outcome. Warnings carry degraded
// sub-steps (a failed registry patch) that did not abort the install.
type InstallResult struct {
	Version  string
	Warnings []string
}

// NewManager creates a translation layer installer
func NewManager(cfg *Config) (*Manager, error) {
	if cfg == nil || cfg.CacheDir == "" {
		return nil, fmt.Errorf("CacheDir is required")
	}

	urlTemplate := cfg.URLTemplate
	if urlTemplate == "" {
		urlTemplate = DefaultURLTemplate
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Minute
	}

	logger := cfg.Logger
	if logger == nil {
		if cfg.Debug {
			logger = log.New(os.Stdout, "[DXVK] ", log.LstdFlags)
		} else {
			logger = log.New(io.Discard, "", 0)
		}
	}

	return &Manager{
		cacheDir:    cfg.CacheDir,
		urlTemplate: urlTemplate,
		client:      NewClientWithTimeout(timeout),
		logger:      logger,
	}, nil
}

// IsInstalled reports whether the layer is recorded as installed. Marker
// presence only; DLLs are not inspected.
func (m *Manager) IsInstalled(prefixPath string) bool {
	_, err := os.Stat(filepath.Join(prefixPath, MarkerFile))
	return err == nil
}

// InstalledVersion returns the recorded version, if any
func (m *Manager) InstalledVersion(prefixPath string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(prefixPath, MarkerFile))
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}

// Install places the layer's DLLs into the prefix and sets their registry
// overrides to native-first. Version defaults when empty.
func (m *Manager) Install(ctx context.Context, prefixPath, version string, fn progress.Func) (*InstallResult, error) {
	if version == "" {
		version = DefaultVersion
	}

	system32 := filepath.Join(prefixPath, "drive_c", "windows", "system32")
	if _, err := os.Stat(system32); err != nil {
		return nil, &errdefs.Error{
			Op:       "install dxvk",
			Resource: prefixPath,
			Err:      fmt.Errorf("%w: prefix has no system32 directory", errdefs.ErrInvalidState),
		}
	}

	progress.Notify(fn, 5, fmt.Sprintf("Preparing DXVK %s", version))

	dllRoot, err := m.fetchPayload(ctx, version, fn)
	if err != nil {
		return nil, err
	}

	result := &InstallResult{Version: version}

	progress.Notify(fn, 60, "Copying DLLs")
	if err := m.copyDLLs(dllRoot, prefixPath); err != nil {
		return nil, &errdefs.Error{Op: "install dxvk", Resource: version, Err: err}
	}

	progress.Notify(fn, 80, "Setting DLL overrides")
	if err := setDLLOverrides(prefixPath, DLLs); err != nil {
		// The DLLs are in place; the layer works for most applications even
		// without the override entries, so degrade rather than fail
		m.logger.Printf("Override patch failed: %v", err)
		result.Warnings = append(result.Warnings, fmt.Sprintf("registry overrides not set: %v", err))
	}

	marker := filepath.Join(prefixPath, MarkerFile)
	if err := os.WriteFile(marker, []byte(version+"\n"), 0644); err != nil {
		return nil, &errdefs.Error{Op: "install dxvk", Resource: version, Err: fmt.Errorf("writing marker: %w", err)}
	}

	progress.Notify(fn, 100, fmt.Sprintf("DXVK %s installed", version))
	m.logger.Printf("Installed DXVK %s into %s", version, prefixPath)
	return result, nil
}

// Uninstall removes the layer's DLLs, overrides and marker. Missing DLL files
// are skipped; a prefix without the marker has nothing to uninstall.
func (m *Manager) Uninstall(prefixPath string) error {
	marker := filepath.Join(prefixPath, MarkerFile)
	if _, err := os.Stat(marker); err != nil {
		return &errdefs.Error{
			Op:       "uninstall dxvk",
			Resource: prefixPath,
			Err:      fmt.Errorf("%w: not installed", errdefs.ErrNotFound),
		}
	}

	for _, dir := range []string{"system32", "syswow64"} {
		for _, dll := range DLLs {
			path := filepath.Join(prefixPath, "drive_c", "windows", dir, dll)
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("removing %s: %w", path, err)
			}
		}
	}

	if err := removeDLLOverrides(prefixPath, DLLs); err != nil {
		m.logger.Printf("Override cleanup failed: %v", err)
	}

	if err := os.Remove(marker); err != nil {
		return fmt.Errorf("removing marker: %w", err)
	}

	m.logger.Printf("Uninstalled DXVK from %s", prefixPath)
	return nil
}

// fetchPayload ensures an extracted release is cached and returns the
// directory holding its x64/x32 payload
func (m *Manager) fetchPayload(ctx context.Context, version string, fn progress.Func) (string, error) {
	extractDir := filepath.Join(m.cacheDir, "dxvk-"+version)
	if root, err := findDLLRoot(extractDir); err == nil {
		progress.Notify(fn, 50, "Using cached release")
		return root, nil
	}

	archive := filepath.Join(m.cacheDir, "dxvk-"+version+".tar.gz")
	if err := m.fetchArchive(ctx, version, archive, fn); err != nil {
		return "", err
	}

	m.logger.Printf("Extracting %s -> %s", archive, extractDir)
	if err := extractArchive(archive, extractDir); err != nil {
		_ = os.RemoveAll(extractDir)
		return "", &errdefs.Error{
			Op:       "extract dxvk archive",
			Resource: version,
			Err:      fmt.Errorf("%w: %v", errdefs.ErrExtract, err),
		}
	}

	root, err := findDLLRoot(extractDir)
	if err != nil {
		_ = os.RemoveAll(extractDir)
		return "", &errdefs.Error{
			Op:       "extract dxvk archive",
			Resource: version,
			Err:      fmt.Errorf("%w: %v", errdefs.ErrExtract, err),
		}
	}
	return root, nil
}

// fetchArchive ensures a verified archive exists at archivePath
func (m *Manager) fetchArchive(ctx context.Context, version, archivePath string, fn progress.Func) error {
	if _, err := os.Stat(archivePath); err == nil {
		if verifyArchive(archivePath) {
			m.logger.Printf("Using cached archive %s", archivePath)
			progress.Notify(fn, 40, "Using cached archive")
			return nil
		}
		m.logger.Printf("Cached archive %s is corrupt, re-fetching", archivePath)
		if err := os.Remove(archivePath); err != nil {
			return fmt.Errorf("removing corrupt cache file: %w", err)
		}
	}

	url := fmt.Sprintf(m.urlTemplate, version, version)
	progress.Notify(fn, 20, fmt.Sprintf("Downloading %s", url))
	m.logger.Printf("Downloading %s -> %s", url, archivePath)

	if err := os.MkdirAll(filepath.Dir(archivePath), 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

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
			Op:       "download dxvk archive",
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
	progress.Notify(fn, 40, "Download complete")
	return nil
}

// copyDLLs places the 64-bit payload into system32 and, when the prefix has
// one, the 32-bit payload into syswow64
func (m *Manager) copyDLLs(dllRoot, prefixPath string) error {
	targets := []struct {
		src  string
		dest string
	}{
		{"x64", filepath.Join(prefixPath, "drive_c", "windows", "system32")},
		{"x32", filepath.Join(prefixPath, "drive_c", "windows", "syswow64")},
	}

	for _, t := range targets {
		if _, err := os.Stat(t.dest); err != nil {
			// 32-bit prefixes have no syswow64
			continue
		}
		for _, dll := range DLLs {
			src := filepath.Join(dllRoot, t.src, dll)
			if _, err := os.Stat(src); err != nil {
				return fmt.Errorf("release is missing %s/%s", t.src, dll)
			}
			if err := copyFile(src, filepath.Join(t.dest, dll)); err != nil {
				return err
			}
		}
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying to %s: %w", dest, err)
	}
	return out.Close()
}
