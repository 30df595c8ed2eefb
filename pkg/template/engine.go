// pkg/template/engine.go
package template

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/winvora/winvora/pkg/dxvk"
	"github.com/winvora/winvora/pkg/errdefs"
	"github.com/winvora/winvora/pkg/prefix"
	"github.com/winvora/winvora/pkg/progress"
)

// PrefixCreator provisions and annotates prefixes
type PrefixCreator interface {
	Create(ctx context.Context, name string, opts prefix.CreateOptions) (*prefix.CreateResult, error)
	SetEnvVars(name string, env map[string]string) error
	Info(name string) (*prefix.Info, bool)
}

// ComponentInstaller installs named components into a prefix
type ComponentInstaller interface {
	Available() bool
	Install(ctx context.Context, prefixPath, component string) error
}

// GraphicsInstaller installs the Direct3D translation layer into a prefix
type GraphicsInstaller interface {
	Install(ctx context.Context, prefixPath, version string, fn progress.Func) (*dxvk.InstallResult, error)
}

// ComponentResult is the per-component outcome of an Apply
type ComponentResult struct {
	Name string
	Err  error
}

// ApplyResult reports what an Apply produced. Component failures and degraded
// sub-steps do not abort the run; they land here.
type ApplyResult struct {
	Prefix     prefix.Info
	Components []ComponentResult
	Warnings   []string
}

// Failed returns the names of components that did not install
func (r *ApplyResult) Failed() []string {
	var failed []string
	for _, c := range r.Components {
		if c.Err != nil {
			failed = append(failed, c.Name)
		}
	}
	return failed
}

// Config configures the template engine
type Config struct {
	Debug  bool
	Logger *log.Logger
}

// Engine applies templates: it creates a prefix, then layers components, the
// graphics layer and environment overrides on top. Prefix creation is the
// only aborting step; everything after it is best-effort and reported.
type Engine struct {
	store      *Store
	prefixes   PrefixCreator
	components ComponentInstaller
	graphics   GraphicsInstaller
	logger     *log.Logger
}

// NewEngine creates a template engine. Components and graphics may be nil
// when the corresponding installer is unavailable on the host.
func NewEngine(store *Store, prefixes PrefixCreator, components ComponentInstaller, graphics GraphicsInstaller, cfg *Config) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if prefixes == nil {
		return nil, fmt.Errorf("prefix creator is required")
	}
	if cfg == nil {
		cfg = &Config{}
	}

	logger := cfg.Logger
	if logger == nil {
		if cfg.Debug {
			logger = log.New(os.Stdout, "[TEMPLATE] ", log.LstdFlags)
		} else {
			logger = log.New(io.Discard, "", 0)
		}
	}

	return &Engine{
		store:      store,
		prefixes:   prefixes,
		components: components,
		graphics:   graphics,
		logger:     logger,
	}, nil
}

// Apply provisions a new prefix from the named template
func (e *Engine) Apply(ctx context.Context, templateName, prefixName string, fn progress.Func) (*ApplyResult, error) {
	t, err := e.store.Get(templateName)
	if err != nil {
		return nil, err
	}

	progress.Notify(fn, 10, fmt.Sprintf("Creating prefix with %s template", templateName))
	e.logger.Printf("Applying template %s to new prefix %s", templateName, prefixName)

	created, err := e.prefixes.Create(ctx, prefixName, prefix.CreateOptions{WindowsVersion: t.WindowsVersion})
	if err != nil {
		return nil, err
	}

	result := &ApplyResult{
		Prefix:   created.Info,
		Warnings: created.Warnings,
	}
	path := created.Info.Path

	if len(t.Components) > 0 {
		result.Components = e.installComponents(ctx, t, path, fn, result)
	}

	if t.InstallDXVK {
		progress.Notify(fn, 70, "Installing DXVK")
		if e.graphics == nil {
			result.Warnings = append(result.Warnings, "dxvk installer unavailable, skipped")
		} else if installed, err := e.graphics.Install(ctx, path, "", progress.Scale(fn, 70, 95)); err != nil {
			e.logger.Printf("DXVK install failed: %v", err)
			result.Warnings = append(result.Warnings, fmt.Sprintf("dxvk install failed: %v", err))
		} else {
			result.Warnings = append(result.Warnings, installed.Warnings...)
		}
	}

	if len(t.EnvVars) > 0 {
		if err := e.prefixes.SetEnvVars(prefixName, t.EnvVars); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("persisting env vars: %v", err))
		}
	}

	progress.Notify(fn, 100, "Template applied")
	return result, nil
}

// installComponents runs each component install independently; one failure
// never blocks the rest
func (e *Engine) installComponents(ctx context.Context, t *Template, path string, fn progress.Func, result *ApplyResult) []ComponentResult {
	if e.components == nil || !e.components.Available() {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("winetricks unavailable, skipped %d components", len(t.Components)))
		return nil
	}

	progress.Notify(fn, 30, "Installing components")

	results := make([]ComponentResult, 0, len(t.Components))
	for i, component := range t.Components {
		pct := 30 + 40*(i+1)/len(t.Components)
		progress.Notify(fn, pct, fmt.Sprintf("Installing %s", component))

		err := e.components.Install(ctx, path, component)
		if err != nil {
			e.logger.Printf("Component %s failed: %v", component, err)
		}
		results = append(results, ComponentResult{Name: component, Err: err})
	}
	return results
}

// Capture snapshots an existing prefix into a new custom template, recording
// its Windows version and environment overrides. Installed components are not
// reverse-engineered from the prefix.
func (e *Engine) Capture(name, description, prefixName string) (*Template, error) {
	info, ok := e.prefixes.Info(prefixName)
	if !ok {
		return nil, &errdefs.Error{Op: "capture template", Resource: prefixName, Err: errdefs.ErrNotFound}
	}

	t := Template{
		Name:           name,
		Description:    description,
		WindowsVersion: info.WindowsVersion,
		EnvVars:        info.EnvVars,
	}
	if err := e.store.Create(t); err != nil {
		return nil, err
	}

	e.logger.Printf("Captured prefix %s as template %s", prefixName, name)
	return &t, nil
}
