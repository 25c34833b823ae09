// Package location canonicalizes free-text place names through an alias map.
// A Map is built once at startup and handed to the components that need it;
// there is no package-level cache.
package location

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/resume-docx/internal/dataio"
)

// Map resolves aliases ("SF", "san francisco") to a canonical place name.
// The zero value and a nil *Map both behave as the identity mapping.
type Map struct {
	aliases map[string]string
}

// New builds a Map from canonical names to their aliases. Every canonical
// name is also an alias of itself. When an alias is claimed by two canonical
// names, the alphabetically first canonical name wins.
func New(canonical map[string][]string) *Map {
	names := make([]string, 0, len(canonical))
	for name := range canonical {
		names = append(names, name)
	}
	sort.Strings(names)

	m := &Map{aliases: make(map[string]string)}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		m.add(name, name)
		for _, alias := range canonical[name] {
			m.add(alias, name)
		}
	}
	return m
}

func (m *Map) add(alias, name string) {
	k := foldKey(alias)
	if k == "" {
		return
	}
	if _, taken := m.aliases[k]; !taken {
		m.aliases[k] = name
	}
}

// Load reads a YAML or JSON document of the form {canonical: [alias, ...]}.
func Load(path string) (*Map, error) {
	var raw map[string][]string
	if err := dataio.Load(path, &raw); err != nil {
		return nil, fmt.Errorf("failed to load location map: %w", err)
	}
	return New(raw), nil
}

// Canonical returns the canonical name for loc, or loc trimmed when it has no alias.
func (m *Map) Canonical(loc string) string {
	loc = strings.TrimSpace(loc)
	if m == nil || loc == "" {
		return loc
	}
	if name, ok := m.aliases[foldKey(loc)]; ok {
		return name
	}
	return loc
}

// Len returns the number of known aliases, canonical names included.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.aliases)
}

func foldKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
