// pkg/wine/client.go
package wine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/winvora/winvora/pkg/errdefs"
)

// Config configures the wine invocation client
type Config struct {
	WinePath    string        // Path to the wine executable (located if empty)
	InitTimeout time.Duration // Bound for prefix initialization
	RunTimeout  time.Duration // Bound for foreground application runs
	Debug       bool          // Enable debug logging
	Logger      *log.Logger   // Custom logger (optional)
}

// Client invokes the external wine runtime. The runtime is a black box: the
// exit code is the sole success signal and stderr carries the failure detail.
type Client struct {
	winePath    string
	initTimeout time.Duration
	runTimeout  time.Duration
	logger      *log.Logger
}

// NewClient creates a wine client, locating the executable if no path is
// configured. Returns ErrRuntimeUnavailable when no executable can be found.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	winePath, err := Locate(cfg.WinePath)
	if err != nil {
		return nil, err
	}

	initTimeout := cfg.InitTimeout
	if initTimeout == 0 {
		initTimeout = DefaultInitTimeout
	}
	runTimeout := cfg.RunTimeout
	if runTimeout == 0 {
		runTimeout = DefaultRunTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		if cfg.Debug {
			logger = log.New(os.Stdout, "[WINE] ", log.LstdFlags)
		} else {
			logger = log.New(io.Discard, "", 0)
		}
	}

	return &Client{
		winePath:    winePath,
		initTimeout: initTimeout,
		runTimeout:  runTimeout,
		logger:      logger,
	}, nil
}

// Path returns the located wine executable
func (c *Client) Path() string {
	return c.winePath
}

// Version returns the wine version string, e.g. "9.0"
func (c *Client) Version(ctx context.Context) (string, error) {
	return BinaryVersion(ctx, c.winePath)
}

// BinaryVersion queries an arbitrary wine binary for its version
func BinaryVersion(ctx context.Context, winePath string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, winePath, "--version").Output()
	if err != nil {
		return "", classify("query wine version", winePath, ctx, err, "")
	}

	version := strings.TrimSpace(string(out))
	return strings.TrimPrefix(version, "wine-"), nil
}

// InitPrefix initializes a prefix directory by running wineboot scoped to it.
// The directory must already exist; the caller owns rollback on failure.
func (c *Client) InitPrefix(ctx context.Context, prefixPath string, arch Arch) error {
	if !arch.IsValid() {
		return fmt.Errorf("invalid architecture: %s", arch)
	}

	c.logger.Printf("Initializing prefix %s (%s)", prefixPath, arch)

	env := []string{
		PrefixEnv + "=" + prefixPath,
		ArchEnv + "=" + arch.String(),
	}
	_, err := c.run(ctx, c.initTimeout, env, "wineboot", "-i")
	if err != nil {
		return err
	}

	c.logger.Printf("Prefix initialized: %s", prefixPath)
	return nil
}

// SetWindowsVersion patches the reported Windows version of a prefix via the
// runtime's registry tool. Callers may treat a failure as non-fatal, but it
// is always reported, never swallowed.
func (c *Client) SetWindowsVersion(ctx context.Context, prefixPath, version string) error {
	if !IsValidWindowsVersion(version) {
		return fmt.Errorf("unknown windows version: %q", version)
	}

	env := []string{PrefixEnv + "=" + prefixPath}
	_, err := c.run(ctx, regTimeout, env,
		"reg", "add", windowsVersionKey,
		"/v", "CurrentVersion", "/d", version, "/f")
	return err
}

// Run executes a Windows application inside a prefix. In foreground mode it
// waits up to the run timeout and returns captured stdout; in background mode
// it detaches and returns immediately.
func (c *Client) Run(ctx context.Context, prefixPath, executable string, args []string, extraEnv map[string]string, background bool) (string, error) {
	env := []string{PrefixEnv + "=" + prefixPath}
	for k, v := range extraEnv {
		env = append(env, k+"="+v)
	}

	cmdArgs := append([]string{executable}, args...)

	if background {
		cmd := exec.Command(c.winePath, cmdArgs...)
		cmd.Env = append(os.Environ(), env...)
		cmd.Stdout = nil
		cmd.Stderr = nil
		if err := cmd.Start(); err != nil {
			return "", &errdefs.Error{Op: "start application", Resource: executable, Err: err}
		}
		c.logger.Printf("Started %s in background (pid %d)", executable, cmd.Process.Pid)
		// Detach: the process outlives us, reaped by the host
		go func() { _ = cmd.Wait() }()
		return "", nil
	}

	return c.run(ctx, c.runTimeout, env, cmdArgs...)
}

// Winecfg opens the runtime's configuration tool for a prefix, detached
func (c *Client) Winecfg(prefixPath string) error {
	cmd := exec.Command(c.winePath, "winecfg")
	cmd.Env = append(os.Environ(), PrefixEnv+"="+prefixPath)
	if err := cmd.Start(); err != nil {
		return &errdefs.Error{Op: "open winecfg", Resource: prefixPath, Err: err}
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// run invokes wine with the given arguments and a bounded deadline, returning
// captured stdout. Failures are classified into timeout vs process failure.
func (c *Client) run(ctx context.Context, timeout time.Duration, extraEnv []string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.winePath, args...)
	cmd.Env = append(os.Environ(), extraEnv...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.logger.Printf("Running: %s %s", c.winePath, strings.Join(args, " "))

	err := cmd.Run()
	if err != nil {
		op := "wine " + args[0]
		return stdout.String(), classify(op, c.winePath, ctx, err, strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}

// classify maps an exec failure to the error taxonomy: deadline expiry is a
// distinct kind from a nonzero exit.
func classify(op, resource string, ctx context.Context, err error, stderr string) error {
	if ctx.Err() == context.DeadlineExceeded {
		return &errdefs.Error{Op: op, Resource: resource, Err: errdefs.ErrTimeout}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if stderr == "" {
			stderr = strings.TrimSpace(string(exitErr.Stderr))
		}
		return &errdefs.Error{
			Op:       op,
			Resource: resource,
			Stderr:   stderr,
			Err:      fmt.Errorf("%w: exit status %d", errdefs.ErrExternalProcess, exitErr.ExitCode()),
		}
	}

	return &errdefs.Error{Op: op, Resource: resource, Err: err}
}
