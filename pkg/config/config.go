// pkg/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config holds winvora settings. The file is small and rewritten wholesale on
// every save; it is not a transactional store.
type Config struct {
	WinePath              string `yaml:"wine_path,omitempty"`
	DefaultWindowsVersion string `yaml:"default_windows_version"`
	DefaultArchitecture   string `yaml:"default_architecture"`
	PrefixesDir           string `yaml:"prefixes_dir,omitempty"`
	DataDir               string `yaml:"data_dir,omitempty"`
	CacheDir              string `yaml:"cache_dir,omitempty"`
	Debug                 bool   `yaml:"debug"`

	path string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		DefaultWindowsVersion: "win10",
		DefaultArchitecture:   "win64",
		path:                  DefaultPath(),
	}
}

// DefaultPath returns the default config file location
func DefaultPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// Load loads configuration from file. A missing file yields defaults; the
// defaults are not written back until Save is called.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			cfg.path = path
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.path = path

	return cfg, nil
}

// Save writes the configuration back to the file it was loaded from
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		path = DefaultPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Path returns the file this configuration is bound to
func (c *Config) Path() string {
	if c.path == "" {
		return DefaultPath()
	}
	return c.path
}

// ResolvePrefixesDir returns the directory holding wine prefixes
func (c *Config) ResolvePrefixesDir() string {
	if c.PrefixesDir != "" {
		return c.PrefixesDir
	}
	return filepath.Join(c.ResolveDataDir(), "prefixes")
}

// ResolveDataDir returns the directory holding persistent winvora state
// (prefix registry, runtime builds, templates)
func (c *Config) ResolveDataDir() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	return dataDir()
}

// ResolveCacheDir returns the directory for downloaded archives
func (c *Config) ResolveCacheDir() string {
	if c.CacheDir != "" {
		return c.CacheDir
	}
	return cacheDir()
}

func configDir() string {
	if runtime.GOOS == "darwin" {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, "Library", "Application Support", "winvora")
		}
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "winvora")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "winvora")
	}
	return filepath.Join(home, ".config", "winvora")
}

func dataDir() string {
	if runtime.GOOS == "darwin" {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, "Library", "Application Support", "winvora")
		}
	}

	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "winvora")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "winvora")
	}
	return filepath.Join(home, ".local", "share", "winvora")
}

func cacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "winvora")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "winvora-cache")
	}
	return filepath.Join(home, ".cache", "winvora")
}
