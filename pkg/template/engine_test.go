// pkg/template/engine_test.go
package template

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/winvora/winvora/pkg/dxvk"
	"github.com/winvora/winvora/pkg/errdefs"
	"github.com/winvora/winvora/pkg/prefix"
	"github.com/winvora/winvora/pkg/progress"
)

type fakePrefixes struct {
	createErr error
	infos     map[string]prefix.Info
	envVars   map[string]string
	created   []string
}

func (f *fakePrefixes) Create(ctx context.Context, name string, opts prefix.CreateOptions) (*prefix.CreateResult, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, name)
	return &prefix.CreateResult{Info: prefix.Info{
		Name:           name,
		Path:           filepath.Join("/data/prefixes", name),
		WindowsVersion: opts.WindowsVersion,
	}}, nil
}

func (f *fakePrefixes) SetEnvVars(name string, env map[string]string) error {
	f.envVars = env
	return nil
}

func (f *fakePrefixes) Info(name string) (*prefix.Info, bool) {
	info, ok := f.infos[name]
	if !ok {
		return nil, false
	}
	return &info, true
}

type fakeComponents struct {
	available bool
	failOn    map[string]error
	installed []string
}

func (f *fakeComponents) Available() bool { return f.available }

func (f *fakeComponents) Install(ctx context.Context, prefixPath, component string) error {
	if err := f.failOn[component]; err != nil {
		return err
	}
	f.installed = append(f.installed, component)
	return nil
}

type fakeGraphics struct {
	err   error
	calls int
}

func (f *fakeGraphics) Install(ctx context.Context, prefixPath, version string, fn progress.Func) (*dxvk.InstallResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	progress.Notify(fn, 0, "fetching release")
	progress.Notify(fn, 100, "dxvk installed")
	return &dxvk.InstallResult{Version: dxvk.DefaultVersion}, nil
}

func newTestEngine(t *testing.T, prefixes *fakePrefixes, components *fakeComponents, graphics *fakeGraphics) *Engine {
	t.Helper()
	store := newTestStore(t)
	engine, err := NewEngine(store, prefixes, components, graphics, nil)
	require.NoError(t, err)
	return engine
}

func TestApplyMinimalTemplate(t *testing.T) {
	prefixes := &fakePrefixes{}
	components := &fakeComponents{available: true}
	engine := newTestEngine(t, prefixes, components, &fakeGraphics{})

	var rec progress.Recorder
	result, err := engine.Apply(context.Background(), "minimal", "clean", rec.Func())
	require.NoError(t, err)
	require.Equal(t, []string{"clean"}, prefixes.created)
	require.Equal(t, "win10", result.Prefix.WindowsVersion)
	require.Empty(t, result.Components)
	require.Empty(t, components.installed)
	require.Equal(t, 100, rec.Last().Percent)
}

func TestApplyUnknownTemplate(t *testing.T) {
	engine := newTestEngine(t, &fakePrefixes{}, nil, nil)

	_, err := engine.Apply(context.Background(), "nope", "games", nil)
	require.ErrorIs(t, err, errdefs.ErrNotFound)
}

func TestApplyAbortsWhenCreateFails(t *testing.T) {
	createErr := &errdefs.Error{Op: "create prefix", Resource: "games", Err: errdefs.ErrAlreadyExists}
	graphics := &fakeGraphics{}
	engine := newTestEngine(t, &fakePrefixes{createErr: createErr}, &fakeComponents{available: true}, graphics)

	_, err := engine.Apply(context.Background(), "gaming", "games", nil)
	require.ErrorIs(t, err, errdefs.ErrAlreadyExists)
	require.Zero(t, graphics.calls)
}

func TestApplyComponentFailuresAreIndependent(t *testing.T) {
	prefixes := &fakePrefixes{}
	components := &fakeComponents{
		available: true,
		failOn:    map[string]error{"d3dx9": errors.New("verb failed")},
	}
	engine := newTestEngine(t, prefixes, components, &fakeGraphics{})

	// gaming installs vcrun2019, d3dx9 and dotnet48
	result, err := engine.Apply(context.Background(), "gaming", "games", nil)
	require.NoError(t, err)

	require.Len(t, result.Components, 3)
	require.Equal(t, []string{"d3dx9"}, result.Failed())
	require.Equal(t, []string{"vcrun2019", "dotnet48"}, components.installed)

	// Env overrides are applied even after component failures
	require.Equal(t, "fps", prefixes.envVars["DXVK_HUD"])
}

func TestApplyWithoutComponentInstaller(t *testing.T) {
	prefixes := &fakePrefixes{}
	engine := newTestEngine(t, prefixes, &fakeComponents{available: false}, &fakeGraphics{})

	result, err := engine.Apply(context.Background(), "office", "work", nil)
	require.NoError(t, err)
	require.Empty(t, result.Components)
	require.NotEmpty(t, result.Warnings)
	require.Contains(t, result.Warnings[0], "winetricks unavailable")
}

func TestApplyForwardsGraphicsProgress(t *testing.T) {
	engine := newTestEngine(t, &fakePrefixes{}, &fakeComponents{available: true}, &fakeGraphics{})

	var rec progress.Recorder
	_, err := engine.Apply(context.Background(), "steam", "steam", rec.Func())
	require.NoError(t, err)

	// The installer's own updates land inside the apply run's DXVK band
	var banded []int
	for _, u := range rec.Updates {
		if u.Message == "fetching release" || u.Message == "dxvk installed" {
			banded = append(banded, u.Percent)
		}
	}
	require.Equal(t, []int{70, 95}, banded)
	require.Equal(t, 100, rec.Last().Percent)
}

func TestApplyDXVKFailureIsWarning(t *testing.T) {
	graphics := &fakeGraphics{err: errors.New("download failed")}
	engine := newTestEngine(t, &fakePrefixes{}, &fakeComponents{available: true}, graphics)

	result, err := engine.Apply(context.Background(), "steam", "steam", nil)
	require.NoError(t, err)
	require.Equal(t, 1, graphics.calls)

	found := false
	for _, w := range result.Warnings {
		if w == "dxvk install failed: download failed" {
			found = true
		}
	}
	require.True(t, found)
}

func TestCapture(t *testing.T) {
	prefixes := &fakePrefixes{infos: map[string]prefix.Info{
		"games": {
			Name:           "games",
			WindowsVersion: "win7",
			EnvVars:        map[string]string{"WINEESYNC": "1"},
		},
	}}
	engine := newTestEngine(t, prefixes, nil, nil)

	captured, err := engine.Capture("my-setup", "snapshot of games", "games")
	require.NoError(t, err)
	require.Equal(t, "win7", captured.WindowsVersion)
	require.Equal(t, "1", captured.EnvVars["WINEESYNC"])

	stored, err := engine.store.Get("my-setup")
	require.NoError(t, err)
	require.Equal(t, *captured, *stored)

	_, err = engine.Capture("other", "", "missing")
	require.ErrorIs(t, err, errdefs.ErrNotFound)
}
