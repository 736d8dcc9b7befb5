package convert

import (
	"maps"
	"slices"
)

// IDMapping resolves original task ids to converted ids.
//
// Original ids are not unique across an export, so the mapping keeps the
// first pairing it sees and ignores later ones. Tasks registered after the
// first occurrence keep their own converted id but can never be reached as
// a parent through this mapping. Shadowed reports those ids.
type IDMapping struct {
	ids  map[string]string
	seen map[string]int
}

// NewIDMapping returns an empty mapping.
func NewIDMapping() *IDMapping {
	return &IDMapping{
		ids:  make(map[string]string),
		seen: make(map[string]int),
	}
}

// Register records original → newID if original has not been seen before.
// It reports whether the pairing was stored. Empty originals are ignored.
func (m *IDMapping) Register(original, newID string) bool {
	if original == "" {
		return false
	}
	m.seen[original]++
	if _, ok := m.ids[original]; ok {
		return false
	}
	m.ids[original] = newID
	return true
}

// Lookup returns the converted id of the first task registered under original.
func (m *IDMapping) Lookup(original string) (string, bool) {
	id, ok := m.ids[original]
	return id, ok
}

// Len returns the number of distinct original ids.
func (m *IDMapping) Len() int {
	return len(m.ids)
}

// Shadowed returns the original ids registered more than once, sorted.
func (m *IDMapping) Shadowed() []string {
	var out []string
	for _, id := range slices.Sorted(maps.Keys(m.seen)) {
		if m.seen[id] > 1 {
			out = append(out, id)
		}
	}
	return out
}

// ShadowedCount returns how many registrations were ignored because their
// original id had already been claimed.
func (m *IDMapping) ShadowedCount() int {
	n := 0
	for _, count := range m.seen {
		if count > 1 {
			n += count - 1
		}
	}
	return n
}
