// pkg/template/store.go
package template

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/winvora/winvora/pkg/errdefs"
)

// DefaultStoreFile is the custom template store filename
const DefaultStoreFile = "templates.yaml"

// Store resolves templates by name, builtins first, and persists custom ones
// as a yaml map rewritten wholesale
type Store struct {
	path string
}

// NewStore creates a template store backed by the yaml file at path
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("store path is required")
	}
	return &Store{path: path}, nil
}

// Get resolves a template by name. Builtins shadow custom templates.
func (s *Store) Get(name string) (*Template, error) {
	if t, ok := Builtins()[name]; ok {
		return &t, nil
	}

	customs, err := s.load()
	if err != nil {
		return nil, err
	}
	if t, ok := customs[name]; ok {
		return &t, nil
	}

	return nil, &errdefs.Error{Op: "get template", Resource: name, Err: errdefs.ErrNotFound}
}

// List returns every known template, builtins first, each group sorted by name
func (s *Store) List() ([]ListEntry, error) {
	customs, err := s.load()
	if err != nil {
		return nil, err
	}

	var entries []ListEntry
	for name, t := range Builtins() {
		entries = append(entries, ListEntry{Name: name, Description: t.Description, Builtin: true})
	}
	for name, t := range customs {
		entries = append(entries, ListEntry{Name: name, Description: t.Description})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Builtin != entries[j].Builtin {
			return entries[i].Builtin
		}
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

// Create persists a custom template. Builtin names cannot be shadowed;
// saving an existing custom name overwrites it.
func (s *Store) Create(t Template) error {
	if t.Name == "" {
		return fmt.Errorf("template name is required")
	}
	if _, ok := Builtins()[t.Name]; ok {
		return &errdefs.Error{
			Op:       "create template",
			Resource: t.Name,
			Err:      fmt.Errorf("%w: builtin templates cannot be overridden", errdefs.ErrInvalidState),
		}
	}

	customs, err := s.load()
	if err != nil {
		return err
	}
	customs[t.Name] = t
	return s.save(customs)
}

// Delete removes a custom template
func (s *Store) Delete(name string) error {
	if _, ok := Builtins()[name]; ok {
		return &errdefs.Error{
			Op:       "delete template",
			Resource: name,
			Err:      fmt.Errorf("%w: builtin templates cannot be deleted", errdefs.ErrInvalidState),
		}
	}

	customs, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := customs[name]; !ok {
		return &errdefs.Error{Op: "delete template", Resource: name, Err: errdefs.ErrNotFound}
	}
	delete(customs, name)
	return s.save(customs)
}

func (s *Store) load() (map[string]Template, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]Template), nil
		}
		return nil, fmt.Errorf("reading template store: %w", err)
	}

	customs := make(map[string]Template)
	if err := yaml.Unmarshal(data, &customs); err != nil {
		return nil, fmt.Errorf("parsing template store: %w", err)
	}
	return customs, nil
}

func (s *Store) save(customs map[string]Template) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	data, err := yaml.Marshal(customs)
	if err != nil {
		return fmt.Errorf("marshaling template store: %w", err)
	}
	return os.WriteFile(s.path, data, 0644)
}
