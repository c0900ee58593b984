package sightline

import (
	"sort"
)

// Entry is one raw key/value pair held by a MapSource.
type Entry struct {
	Key    string // Raw key as spelled in the backing store
	Value  any
	Origin Origin // Optional
}

// MapOption configures a MapSource.
type MapOption func(*mapConfig)

type mapConfig struct {
	keyMapper func(string) (string, bool)
	origin    func(string) Origin
}

// WithKeyMapper rewrites raw keys before they are parsed into names
// (e.g., stripping an "APP_" prefix). Returning false drops the entry.
// The original raw key is still what OriginOf and Property.RawKey see.
func WithKeyMapper(mapper func(rawKey string) (string, bool)) MapOption {
	return func(cfg *mapConfig) {
		cfg.keyMapper = mapper
	}
}

// WithDefaultOrigin supplies an origin for entries that have none.
func WithDefaultOrigin(origin func(rawKey string) Origin) MapOption {
	return func(cfg *mapConfig) {
		cfg.origin = origin
	}
}

// MapSource is an immutable in-memory Source. Raw keys are parsed into names
// once, at construction; keys with no canonical form are skipped.
// When two raw keys fold to the same name the first entry wins.
// Safe for concurrent reads.
type MapSource struct {
	name    string
	entries []Entry
	byName  map[string]int // Name.key() → entries index
	byRaw   map[string]int // raw key → entries index
	names   []Name
	skipped []string
}

// NewMapSource creates a source from entries in the given order.
func NewMapSource(name string, entries []Entry, opts ...MapOption) *MapSource {
	cfg := mapConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &MapSource{
		name:    name,
		entries: make([]Entry, 0, len(entries)),
		byName:  make(map[string]int, len(entries)),
		byRaw:   make(map[string]int, len(entries)),
	}

	for _, entry := range entries {
		key := entry.Key
		if cfg.keyMapper != nil {
			mapped, ok := cfg.keyMapper(key)
			if !ok {
				continue
			}
			key = mapped
		}

		parsed, _ := ParseName(key, Lenient)
		if parsed.IsEmpty() {
			m.skipped = append(m.skipped, entry.Key)
			continue
		}
		if _, dup := m.byName[parsed.key()]; dup {
			continue
		}
		if _, dup := m.byRaw[entry.Key]; dup {
			continue
		}

		if entry.Origin == nil && cfg.origin != nil {
			entry.Origin = cfg.origin(entry.Key)
		}

		m.byName[parsed.key()] = len(m.entries)
		m.byRaw[entry.Key] = len(m.entries)
		m.entries = append(m.entries, entry)
		m.names = append(m.names, parsed)
	}

	return m
}

// FromMap creates a source from a map. Keys are taken in sorted order so
// collisions resolve deterministically.
func FromMap(name string, values map[string]any, opts ...MapOption) *MapSource {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]Entry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, Entry{Key: k, Value: values[k]})
	}
	return NewMapSource(name, entries, opts...)
}

// Name returns the source identifier.
func (m *MapSource) Name() string {
	return m.name
}

// Lookup returns the entry stored under name.
func (m *MapSource) Lookup(name Name) LookupResult {
	i, ok := m.byName[name.key()]
	if !ok {
		return Absent()
	}
	entry := m.entries[i]
	return Found(Property{
		Name:   m.names[i],
		Value:  entry.Value,
		Origin: entry.Origin,
		Source: m.name,
		RawKey: entry.Key,
	})
}

// OriginOf returns the origin recorded for a raw key.
func (m *MapSource) OriginOf(rawKey string) (Origin, bool) {
	i, ok := m.byRaw[rawKey]
	if !ok || m.entries[i].Origin == nil {
		return nil, false
	}
	return m.entries[i].Origin, true
}

// Names returns the canonical names held by the source, in entry order.
func (m *MapSource) Names() []Name {
	out := make([]Name, len(m.names))
	copy(out, m.names)
	return out
}

// Len returns the number of usable entries.
func (m *MapSource) Len() int {
	return len(m.entries)
}

// Skipped returns raw keys that had no canonical form.
func (m *MapSource) Skipped() []string {
	out := make([]string, len(m.skipped))
	copy(out, m.skipped)
	return out
}
