// pkg/dxvk/reg.go
package dxvk

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// The prefix's user.reg is patched through a small structured model: the
// DllOverrides section is parsed into a key set, membership checks run on
// the parsed structure, and the whole file is rewritten. This keeps repeat
// installs idempotent where raw text appending would not be.

const (
	userRegFile      = "user.reg"
	overridesSection = `[Software\\Wine\\DllOverrides]`
	overrideValue    = "native,builtin"
	regHeader        = "WINE REGISTRY Version 2"
)

var entryPattern = regexp.MustCompile(`^"([^"]+)"="([^"]*)"`)

// regOverrides models user.reg as the override section plus the surrounding
// content kept verbatim
type regOverrides struct {
	before []string
	// trailing tokens on the section header line (wine appends a timestamp),
	// carried through on save
	sectionSuffix string
	entries       map[string]string
	after         []string
}

func loadOverrides(prefixPath string) (*regOverrides, error) {
	o := &regOverrides{entries: make(map[string]string)}

	data, err := os.ReadFile(filepath.Join(prefixPath, userRegFile))
	if err != nil {
		if os.IsNotExist(err) {
			o.before = []string{regHeader, ""}
			return o, nil
		}
		return nil, fmt.Errorf("reading user.reg: %w", err)
	}

	lines := strings.Split(string(data), "\n")
	inSection := false
	seenSection := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if inSection {
			if strings.HasPrefix(trimmed, "[") {
				inSection = false
				o.after = append(o.after, line)
				continue
			}
			if match := entryPattern.FindStringSubmatch(trimmed); match != nil {
				o.entries[match[1]] = match[2]
				continue
			}
			// Blank lines and timestamps inside the section are dropped
			// and regenerated on save
			continue
		}

		if strings.HasPrefix(trimmed, overridesSection) {
			inSection = true
			seenSection = true
			o.sectionSuffix = strings.TrimSpace(strings.TrimPrefix(trimmed, overridesSection))
			continue
		}

		if seenSection {
			o.after = append(o.after, line)
		} else {
			o.before = append(o.before, line)
		}
	}

	return o, nil
}

func (o *regOverrides) save(prefixPath string) error {
	keys := make([]string, 0, len(o.entries))
	for key := range o.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, line := range o.before {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if len(o.entries) > 0 {
		b.WriteString(overridesSection)
		if o.sectionSuffix != "" {
			b.WriteByte(' ')
			b.WriteString(o.sectionSuffix)
		}
		b.WriteByte('\n')
		for _, key := range keys {
			fmt.Fprintf(&b, "%q=%q\n", key, o.entries[key])
		}
		b.WriteByte('\n')
	}
	for _, line := range o.after {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	return os.WriteFile(filepath.Join(prefixPath, userRegFile), []byte(b.String()), 0644)
}

// setDLLOverrides ensures every dll has a native-first override entry
func setDLLOverrides(prefixPath string, dlls []string) error {
	o, err := loadOverrides(prefixPath)
	if err != nil {
		return err
	}

	for _, dll := range dlls {
		name := strings.TrimSuffix(dll, ".dll")
		o.entries[name] = overrideValue
	}

	return o.save(prefixPath)
}

// removeDLLOverrides drops the override entries for the given dlls
func removeDLLOverrides(prefixPath string, dlls []string) error {
	o, err := loadOverrides(prefixPath)
	if err != nil {
		return err
	}

	for _, dll := range dlls {
		delete(o.entries, strings.TrimSuffix(dll, ".dll"))
	}

	return o.save(prefixPath)
}
