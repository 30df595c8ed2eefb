// winvora.go
package winvora

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/winvora/winvora/pkg/config"
	"github.com/winvora/winvora/pkg/dxvk"
	"github.com/winvora/winvora/pkg/errdefs"
	"github.com/winvora/winvora/pkg/prefix"
	"github.com/winvora/winvora/pkg/proc"
	"github.com/winvora/winvora/pkg/progress"
	"github.com/winvora/winvora/pkg/template"
	"github.com/winvora/winvora/pkg/wine"
	"github.com/winvora/winvora/pkg/winetricks"
	"github.com/winvora/winvora/pkg/winever"
)

// Re-export the types most callers need
type (
	Config        = config.Config
	PrefixInfo    = prefix.Info
	CreateOptions = prefix.CreateOptions
	CreateResult  = prefix.CreateResult
	RuntimeBuild  = winever.Version
	Variant       = winever.Variant
	Template      = template.Template
	ApplyResult   = template.ApplyResult
	Process       = proc.Process
	ProgressFunc  = progress.Func
)

// Re-export the runtime variants
const (
	VariantSystem  = winever.VariantSystem
	VariantStaging = winever.VariantStaging
	VariantProton  = winever.VariantProton
	VariantCustom  = winever.VariantCustom
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return config.DefaultConfig()
}

// LoadConfig loads configuration from the given path, or the default location
// when empty
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// Manager is the environment orchestrator: one handle wiring configuration,
// the runtime client and every subsystem together. Subsystems are exported so
// callers can reach past the facade for less common operations.
type Manager struct {
	cfg    *config.Config
	wine   *wine.Client // nil when no runtime is installed
	logger *log.Logger

	Prefixes   *prefix.Manager
	Versions   *winever.Manager
	Components *winetricks.Manager
	Graphics   *dxvk.Manager
	Templates  *template.Engine
	Store      *template.Store
	Processes  *proc.Supervisor
}

// New creates a fully wired manager. A host without the runtime installed
// still yields a working manager: read-only operations, downloads and
// process management keep working, while operations that need the runtime
// fail with ErrRuntimeUnavailable.
func New(cfg *config.Config, logger *log.Logger) (*Manager, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		if cfg.Debug {
			logger = log.New(os.Stdout, "[WINVORA] ", log.LstdFlags)
		} else {
			logger = log.New(io.Discard, "", 0)
		}
	}

	client, err := wine.NewClient(&wine.Config{
		WinePath: cfg.WinePath,
		Debug:    cfg.Debug,
		Logger:   logger,
	})
	if err != nil {
		logger.Printf("No wine runtime found: %v", err)
		client = nil
	}

	prefixes, err := prefix.NewManager(client, &prefix.Config{
		PrefixesDir:    cfg.ResolvePrefixesDir(),
		RegistryPath:   filepath.Join(cfg.ResolveDataDir(), prefix.RegistryFile),
		DefaultVersion: cfg.DefaultWindowsVersion,
		DefaultArch:    wine.Arch(cfg.DefaultArchitecture),
		Debug:          cfg.Debug,
		Logger:         logger,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing prefix manager: %w", err)
	}

	versions, err := winever.NewManager(&winever.Config{
		Settings: cfg,
		Debug:    cfg.Debug,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing version manager: %w", err)
	}

	components := winetricks.NewManager(&winetricks.Config{
		Debug:  cfg.Debug,
		Logger: logger,
	})

	graphics, err := dxvk.NewManager(&dxvk.Config{
		CacheDir: filepath.Join(cfg.ResolveCacheDir(), "dxvk"),
		Debug:    cfg.Debug,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing dxvk manager: %w", err)
	}

	store, err := template.NewStore(filepath.Join(cfg.ResolveDataDir(), template.DefaultStoreFile))
	if err != nil {
		return nil, fmt.Errorf("initializing template store: %w", err)
	}

	engine, err := template.NewEngine(store, prefixes, components, graphics, &template.Config{
		Debug:  cfg.Debug,
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing template engine: %w", err)
	}

	return &Manager{
		cfg:        cfg,
		wine:       client,
		logger:     logger,
		Prefixes:   prefixes,
		Versions:   versions,
		Components: components,
		Graphics:   graphics,
		Templates:  engine,
		Store:      store,
		Processes:  proc.NewSupervisor(&proc.Config{Debug: cfg.Debug, Logger: logger}),
	}, nil
}

// Config returns the live configuration
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// RuntimeAvailable reports whether a runtime is installed on the host
func (m *Manager) RuntimeAvailable() bool {
	return m.wine != nil
}

// RuntimeVersion returns the default runtime's version string
func (m *Manager) RuntimeVersion(ctx context.Context) (string, error) {
	if m.wine == nil {
		return "", &errdefs.Error{Op: "query runtime version", Err: errdefs.ErrRuntimeUnavailable}
	}
	return m.wine.Version(ctx)
}

// RunApplication launches a Windows executable inside a prefix. The prefix's
// persisted environment overrides and its assigned runtime build, when one is
// set, are applied. Foreground runs return captured stdout; background runs
// detach and return immediately.
func (m *Manager) RunApplication(ctx context.Context, prefixName, executable string, args []string, background bool) (string, error) {
	info, ok := m.Prefixes.Info(prefixName)
	if !ok {
		return "", &errdefs.Error{Op: "run application", Resource: prefixName, Err: errdefs.ErrNotFound}
	}
	if !info.Exists {
		return "", &errdefs.Error{
			Op:       "run application",
			Resource: prefixName,
			Err:      fmt.Errorf("%w: prefix directory is missing", errdefs.ErrInvalidState),
		}
	}

	client, err := m.clientFor(prefixName)
	if err != nil {
		return "", err
	}

	m.logger.Printf("Running %s in prefix %s", executable, prefixName)
	return client.Run(ctx, info.Path, executable, args, info.EnvVars, background)
}

// Winecfg opens the runtime's configuration tool for a prefix
func (m *Manager) Winecfg(prefixName string) error {
	info, ok := m.Prefixes.Info(prefixName)
	if !ok {
		return &errdefs.Error{Op: "open winecfg", Resource: prefixName, Err: errdefs.ErrNotFound}
	}

	client, err := m.clientFor(prefixName)
	if err != nil {
		return err
	}
	return client.Winecfg(info.Path)
}

// clientFor resolves the runtime client for a prefix: its assigned build when
// one is set, the default client otherwise
func (m *Manager) clientFor(prefixName string) (*wine.Client, error) {
	if binary, ok := m.Versions.AssignedBinary(prefixName); ok {
		client, err := wine.NewClient(&wine.Config{
			WinePath: binary,
			Debug:    m.cfg.Debug,
			Logger:   m.logger,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	if m.wine == nil {
		return nil, &errdefs.Error{Op: "resolve runtime", Resource: prefixName, Err: errdefs.ErrRuntimeUnavailable}
	}
	return m.wine, nil
}
