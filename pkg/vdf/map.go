// Package vdf reads and writes Valve's text KeyValues format (VDF), the format
// Steam uses for sharedconfig.vdf and localconfig.vdf.
//
// Documents decode into an ordered Map so a file can be edited and written
// back without reordering unrelated keys.
package vdf

// Entry is one key of a Map. Value is either a string or a *Map.
type Entry struct {
	Key   string
	Value any
}

// Map is an ordered KeyValues section. Duplicate keys are preserved as read;
// lookups return the first occurrence.
type Map struct {
	entries []Entry
}

// NewMap returns an empty section.
func NewMap() *Map {
	return &Map{}
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.entries)
}

// Entries returns the entries in document order.
func (m *Map) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Keys returns the keys in document order.
func (m *Map) Keys() []string {
	keys := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		keys = append(keys, e.Key)
	}
	return keys
}

func (m *Map) index(key string) int {
	for i := range m.entries {
		if m.entries[i].Key == key {
			return i
		}
	}
	return -1
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	return m.index(key) >= 0
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	i := m.index(key)
	if i < 0 {
		return nil, false
	}
	return m.entries[i].Value, true
}

// GetString returns the value under key if it is a string.
func (m *Map) GetString(key string) (string, bool) {
	v, ok := m.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetMap returns the value under key if it is a section.
func (m *Map) GetMap(key string) (*Map, bool) {
	v, ok := m.Get(key)
	if !ok {
		return nil, false
	}
	child, ok := v.(*Map)
	return child, ok
}

// Lookup walks nested sections by key.
func (m *Map) Lookup(path ...string) (*Map, bool) {
	cur := m
	for _, key := range path {
		next, ok := cur.GetMap(key)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Set replaces the first value under key, or appends a new entry.
func (m *Map) Set(key string, value string) {
	m.set(key, value)
}

// SetMap replaces the first value under key with child, or appends a new entry.
func (m *Map) SetMap(key string, child *Map) {
	m.set(key, child)
}

func (m *Map) set(key string, value any) {
	i := m.index(key)
	if i < 0 {
		m.entries = append(m.entries, Entry{Key: key, Value: value})
		return
	}
	m.entries[i].Value = value
}

// add appends without replacing, keeping duplicates.
func (m *Map) add(key string, value any) {
	m.entries = append(m.entries, Entry{Key: key, Value: value})
}

// Delete removes every entry under key and reports whether any existed.
func (m *Map) Delete(key string) bool {
	kept := m.entries[:0]
	removed := false
	for _, e := range m.entries {
		if e.Key == key {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	clear(m.entries[len(kept):])
	m.entries = kept
	return removed
}
