// pkg/prefix/registry.go
package prefix

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// Registry exclusively owns the prefix name->path mapping. It is persisted as
// a small yaml file rewritten wholesale on every change and reconciled
// against what actually exists on disk.
type Registry struct {
	path string

	mu      sync.Mutex
	entries map[string]string
}

// NewRegistry loads (or initializes) a registry backed by the given file
func NewRegistry(path string) (*Registry, error) {
	r := &Registry{
		path:    path,
		entries: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, fmt.Errorf("reading prefix registry: %w", err)
	}

	if err := yaml.Unmarshal(data, &r.entries); err != nil {
		return nil, fmt.Errorf("parsing prefix registry: %w", err)
	}
	if r.entries == nil {
		r.entries = make(map[string]string)
	}

	return r, nil
}

// Register records a name->path mapping and persists it
func (r *Registry) Register(name, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[name] = path
	return r.save()
}

// Remove deletes a mapping and persists the change. Removing an unknown name
// is a no-op.
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[name]; !ok {
		return nil
	}
	delete(r.entries, name)
	return r.save()
}

// Path returns the registered path for a name
func (r *Registry) Path(name string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	path, ok := r.entries[name]
	return path, ok
}

// Names returns all registered names, sorted
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reconcile rescans the default prefixes directory plus any explicitly
// registered paths and rebuilds the in-memory mapping. Directories are kept
// whether ready or corrupt; only vanished ones are dropped. Idempotent and
// side-effect-free: the file on disk is untouched until the next mutation.
func (r *Registry) Reconcile(defaultDir string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rebuilt := make(map[string]string)

	// Explicitly registered paths survive as long as the directory exists,
	// even outside the default directory
	for name, path := range r.entries {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			rebuilt[name] = path
		}
	}

	entries, err := os.ReadDir(defaultDir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("scanning prefixes directory: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, ok := rebuilt[entry.Name()]; ok {
			continue
		}
		rebuilt[entry.Name()] = filepath.Join(defaultDir, entry.Name())
	}

	r.entries = rebuilt

	names := make([]string, 0, len(rebuilt))
	for name := range rebuilt {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// save persists the mapping; callers hold the mutex
func (r *Registry) save() error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return fmt.Errorf("creating registry directory: %w", err)
	}

	data, err := yaml.Marshal(r.entries)
	if err != nil {
		return fmt.Errorf("marshaling prefix registry: %w", err)
	}

	if err := os.WriteFile(r.path, data, 0644); err != nil {
		return fmt.Errorf("writing prefix registry: %w", err)
	}
	return nil
}
