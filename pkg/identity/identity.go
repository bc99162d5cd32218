package identity

import "slices"

// Strength bounds for a well-formed [Record].
const (
	MinStrength = 0
	MaxStrength = 10
)

// Record is the value stored for one category.
// Title, Beliefs and Style are display-only and empty when absent.
type Record struct {
	Strength int    `json:"strength" toml:"strength"`
	Title    string `json:"title,omitempty" toml:"title,omitempty"`
	Beliefs  string `json:"beliefs,omitempty" toml:"beliefs,omitempty"`
	Style    string `json:"style,omitempty" toml:"style,omitempty"`
}

// InRange reports whether the strength lies in [MinStrength, MaxStrength].
func (r Record) InRange() bool {
	return r.Strength >= MinStrength && r.Strength <= MaxStrength
}

// Entry is a name/record pair as stored in a [Map].
type Entry struct {
	Name   string
	Record Record
}

// Map is an insertion-ordered mapping from category name to [Record].
// The zero value is an empty map ready for use. Map is not safe for
// concurrent mutation.
type Map struct {
	entries []Entry
	index   map[string]int
}

// New returns an empty map.
func New() *Map {
	return &Map{index: make(map[string]int)}
}

// FromEntries builds a map from entries. A repeated name replaces the earlier
// record but keeps its original position.
func FromEntries(entries ...Entry) *Map {
	m := New()
	for _, e := range entries {
		m.Set(e.Name, e.Record)
	}
	return m
}

// Set stores rec under name. Replacing an existing name keeps its position.
func (m *Map) Set(name string, rec Record) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[name]; ok {
		m.entries[i].Record = rec
		return
	}
	m.index[name] = len(m.entries)
	m.entries = append(m.entries, Entry{Name: name, Record: rec})
}

// Get returns the record stored under name.
func (m *Map) Get(name string) (Record, bool) {
	if m == nil {
		return Record{}, false
	}
	i, ok := m.index[name]
	if !ok {
		return Record{}, false
	}
	return m.entries[i].Record, true
}

// Has reports whether name is present.
func (m *Map) Has(name string) bool {
	_, ok := m.Get(name)
	return ok
}

// Len returns the number of entries. A nil map has length zero.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Names returns the category names in insertion order.
func (m *Map) Names() []string {
	if m == nil {
		return nil
	}
	names := make([]string, len(m.entries))
	for i, e := range m.entries {
		names[i] = e.Name
	}
	return names
}

// Entries returns a copy of the entries in insertion order.
func (m *Map) Entries() []Entry {
	if m == nil {
		return nil
	}
	return slices.Clone(m.entries)
}

// Each calls fn for every entry in insertion order. The record pointer refers
// to the map's own storage and stays valid until the next Set.
func (m *Map) Each(fn func(i int, name string, rec *Record)) {
	if m == nil {
		return
	}
	for i := range m.entries {
		fn(i, m.entries[i].Name, &m.entries[i].Record)
	}
}

// Clone returns an independent copy of m.
func (m *Map) Clone() *Map {
	c := New()
	if m == nil {
		return c
	}
	for _, e := range m.entries {
		c.Set(e.Name, e.Record)
	}
	return c
}

// OutOfRange returns the names whose strength lies outside [0, 10].
func (m *Map) OutOfRange() []string {
	var out []string
	m.Each(func(_ int, name string, rec *Record) {
		if !rec.InRange() {
			out = append(out, name)
		}
	})
	return out
}
