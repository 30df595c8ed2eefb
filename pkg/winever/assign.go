// pkg/winever/assign.go
package winever

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Per-prefix runtime overrides, independent of the global active build.
// Stored as a small yaml map rewritten wholesale, like the other state files.

// AssignToPrefix persists a runtime override for one prefix
func (m *Manager) AssignToPrefix(prefixName string, v Version) error {
	if prefixName == "" {
		return fmt.Errorf("prefix name is required")
	}

	assignments, err := m.loadAssignments()
	if err != nil {
		return err
	}
	assignments[prefixName] = v.WineBinary()

	if err := m.saveAssignments(assignments); err != nil {
		return err
	}
	m.logger.Printf("Prefix %s now uses %s", prefixName, v)
	return nil
}

// Unassign removes a prefix's runtime override. Unknown names are a no-op.
func (m *Manager) Unassign(prefixName string) error {
	assignments, err := m.loadAssignments()
	if err != nil {
		return err
	}
	if _, ok := assignments[prefixName]; !ok {
		return nil
	}
	delete(assignments, prefixName)
	return m.saveAssignments(assignments)
}

// AssignedBinary returns the overriding wine binary for a prefix, if any
func (m *Manager) AssignedBinary(prefixName string) (string, bool) {
	assignments, err := m.loadAssignments()
	if err != nil {
		return "", false
	}
	path, ok := assignments[prefixName]
	return path, ok
}

// referencedBy returns the prefixes whose override points at this build
func (m *Manager) referencedBy(v Version) []string {
	assignments, err := m.loadAssignments()
	if err != nil {
		return nil
	}

	binary := filepath.Clean(v.WineBinary())
	var holders []string
	for name, path := range assignments {
		if filepath.Clean(path) == binary {
			holders = append(holders, name)
		}
	}
	sort.Strings(holders)
	return holders
}

func (m *Manager) loadAssignments() (map[string]string, error) {
	data, err := os.ReadFile(m.assignPath)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("reading runtime assignments: %w", err)
	}

	assignments := make(map[string]string)
	if err := yaml.Unmarshal(data, &assignments); err != nil {
		return nil, fmt.Errorf("parsing runtime assignments: %w", err)
	}
	return assignments, nil
}

func (m *Manager) saveAssignments(assignments map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(m.assignPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	data, err := yaml.Marshal(assignments)
	if err != nil {
		return fmt.Errorf("marshaling runtime assignments: %w", err)
	}
	return os.WriteFile(m.assignPath, data, 0644)
}
