// pkg/prefix/manager.go
package prefix

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/winvora/winvora/pkg/errdefs"
	"github.com/winvora/winvora/pkg/wine"
)

// Config configures the prefix lifecycle manager
type Config struct {
	PrefixesDir    string      // Where prefixes are allocated
	RegistryPath   string      // Persisted name->path mapping location
	DefaultVersion string      // Windows version used when CreateOptions omits one
	DefaultArch    wine.Arch   // Architecture used when CreateOptions omits one
	Debug          bool        // Enable debug logging
	Logger         *log.Logger // Custom logger (optional)
}

// Manager creates, inspects and destroys prefixes. A single logical caller
// per prefix is assumed; a per-name in-process mutex guards against two
// concurrent creates racing on the directory-existence check.
type Manager struct {
	client   *wine.Client
	registry *Registry
	cfg      *Config
	logger   *log.Logger

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewManager creates a prefix manager. The wine client may be nil when no
// runtime is installed; in that case Create fails with ErrRuntimeUnavailable
// while read-only operations keep working.
func NewManager(client *wine.Client, cfg *Config) (*Manager, error) {
	if cfg == nil || cfg.PrefixesDir == "" {
		return nil, fmt.Errorf("PrefixesDir is required")
	}

	if cfg.RegistryPath == "" {
		cfg.RegistryPath = filepath.Join(filepath.Dir(cfg.PrefixesDir), RegistryFile)
	}
	if cfg.DefaultVersion == "" {
		cfg.DefaultVersion = "win10"
	}
	if cfg.DefaultArch == "" {
		cfg.DefaultArch = wine.ArchWin64
	}

	logger := cfg.Logger
	if logger == nil {
		if cfg.Debug {
			logger = log.New(os.Stdout, "[PREFIX] ", log.LstdFlags)
		} else {
			logger = log.New(io.Discard, "", 0)
		}
	}

	registry, err := NewRegistry(cfg.RegistryPath)
	if err != nil {
		return nil, err
	}

	return &Manager{
		client:   client,
		registry: registry,
		cfg:      cfg,
		logger:   logger,
		locks:    make(map[string]*sync.Mutex),
	}, nil
}

// Registry exposes the name->path mapping for read-only consumers
func (m *Manager) Registry() *Registry {
	return m.registry
}

// Create allocates and initializes a new prefix. The operation is atomic
// from the caller's perspective: on any failure after the directory is
// allocated it is removed again, so either a fully initialized prefix exists
// afterwards or none does. The Windows version patch is best-effort and
// reported through CreateResult.Warnings.
func (m *Manager) Create(ctx context.Context, name string, opts CreateOptions) (*CreateResult, error) {
	if name == "" {
		return nil, fmt.Errorf("prefix name is required")
	}

	unlock := m.lock(name)
	defer unlock()

	if m.client == nil {
		return nil, &errdefs.Error{Op: "create prefix", Resource: name, Err: errdefs.ErrRuntimeUnavailable}
	}

	if _, ok := m.registry.Path(name); ok {
		return nil, &errdefs.Error{Op: "create prefix", Resource: name, Err: errdefs.ErrAlreadyExists}
	}

	path := filepath.Join(m.cfg.PrefixesDir, name)
	if _, err := os.Stat(path); err == nil {
		return nil, &errdefs.Error{Op: "create prefix", Resource: name, Err: errdefs.ErrAlreadyExists}
	}

	version := opts.WindowsVersion
	if version == "" {
		version = m.cfg.DefaultVersion
	}
	arch := opts.Architecture
	if arch == "" {
		arch = m.cfg.DefaultArch
	}
	if !arch.IsValid() {
		return nil, fmt.Errorf("invalid architecture: %s", arch)
	}

	m.logger.Printf("Creating prefix %s at %s (%s, %s)", name, path, version, arch)

	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("creating prefix directory: %w", err)
	}

	result, err := m.initialize(ctx, name, path, version, arch)
	if err != nil {
		// Unconditional rollback: no partially initialized prefix survives
		if rmErr := os.RemoveAll(path); rmErr != nil {
			m.logger.Printf("Rollback of %s failed: %v", path, rmErr)
		}
		_ = m.registry.Remove(name)
		return nil, err
	}

	m.logger.Printf("Prefix %s created", name)
	return result, nil
}

func (m *Manager) initialize(ctx context.Context, name, path, version string, arch wine.Arch) (*CreateResult, error) {
	if err := m.client.InitPrefix(ctx, path, arch); err != nil {
		return nil, err
	}

	var warnings []string
	if err := m.client.SetWindowsVersion(ctx, path, version); err != nil {
		// Non-fatal: the prefix is usable without the version patch, but
		// the outcome is surfaced rather than discarded
		warning := fmt.Sprintf("setting windows version %s: %v", version, err)
		warnings = append(warnings, warning)
		m.logger.Printf("Warning: %s", warning)
	}

	meta := Metadata{
		Name:           name,
		Path:           path,
		WindowsVersion: version,
		Architecture:   arch,
		CreatedAt:      time.Now().Format(time.RFC3339),
	}
	if err := writeMetadata(path, &meta); err != nil {
		return nil, err
	}

	if err := m.registry.Register(name, path); err != nil {
		return nil, err
	}

	info := m.buildInfo(name, path)
	return &CreateResult{Info: info, Warnings: warnings}, nil
}

// Delete removes a prefix directory and its registry entry. If the recursive
// delete is interrupted midway the leftover directory is an acceptable leak,
// picked up by the next Reconcile.
func (m *Manager) Delete(ctx context.Context, name string) error {
	unlock := m.lock(name)
	defer unlock()

	path, ok := m.registry.Path(name)
	if !ok {
		return &errdefs.Error{Op: "delete prefix", Resource: name, Err: errdefs.ErrNotFound}
	}

	m.logger.Printf("Deleting prefix %s at %s", name, path)

	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("removing prefix directory: %w", err)
	}

	return m.registry.Remove(name)
}

// Info returns the computed view of a prefix. It never fails: the second
// return value reports whether the name is known.
func (m *Manager) Info(name string) (*Info, bool) {
	path, ok := m.registry.Path(name)
	if !ok {
		return nil, false
	}

	info := m.buildInfo(name, path)
	return &info, true
}

// List returns the computed view of every registered prefix, sorted by name
func (m *Manager) List() []Info {
	names := m.registry.Names()
	infos := make([]Info, 0, len(names))
	for _, name := range names {
		if info, ok := m.Info(name); ok {
			infos = append(infos, *info)
		}
	}
	return infos
}

// Reconcile rebuilds the registry from disk and returns the known names
func (m *Manager) Reconcile() ([]string, error) {
	return m.registry.Reconcile(m.cfg.PrefixesDir)
}

// SetEnvVars replaces the environment-variable overrides stored in a
// prefix's metadata. These are applied when launching applications.
func (m *Manager) SetEnvVars(name string, env map[string]string) error {
	unlock := m.lock(name)
	defer unlock()

	path, ok := m.registry.Path(name)
	if !ok {
		return &errdefs.Error{Op: "set env vars", Resource: name, Err: errdefs.ErrNotFound}
	}

	meta, err := readMetadata(path)
	if err != nil {
		meta = &Metadata{Name: name, Path: path}
	}
	meta.EnvVars = env
	return writeMetadata(path, meta)
}

// buildInfo computes derived prefix state on demand
func (m *Manager) buildInfo(name, path string) Info {
	info := Info{
		Name:  name,
		Path:  path,
		State: StateMissing,
	}

	if stat, err := os.Stat(path); err == nil && stat.IsDir() {
		info.Exists = true
		if _, err := os.Stat(filepath.Join(path, MarkerDir)); err == nil {
			info.State = StateReady
		} else {
			info.State = StateCorrupt
		}
	}

	if meta, err := readMetadata(path); err == nil {
		info.WindowsVersion = meta.WindowsVersion
		info.Architecture = meta.Architecture
		info.EnvVars = meta.EnvVars
		info.CreatedAt = meta.CreatedAt
	}

	return info
}

// lock returns an unlock func for the per-name mutex
func (m *Manager) lock(name string) func() {
	m.locksMu.Lock()
	mu, ok := m.locks[name]
	if !ok {
		mu = &sync.Mutex{}
		m.locks[name] = mu
	}
	m.locksMu.Unlock()

	mu.Lock()
	return mu.Unlock
}

func writeMetadata(path string, meta *Metadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(path, MetadataFile), data, 0644)
}

func readMetadata(path string) (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(path, MetadataFile))
	if err != nil {
		return nil, err
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}
