package confmap

import (
	"maps"
	"slices"
)

// Map is a string-keyed mapping that remembers insertion order.
// Nested mappings are stored as *Map, sequences as []any.
type Map struct {
	keys   []string
	values map[string]any
}

// New returns an empty Map.
func New() *Map {
	return &Map{values: make(map[string]any)}
}

// FromMap converts a plain Go map into a Map. Go maps carry no order, so keys
// are sorted lexically to keep the result deterministic.
func FromMap(src map[string]any) *Map {
	m := New()
	keys := slices.Sorted(maps.Keys(src))
	for _, k := range keys {
		m.Set(k, normalize(src[k]))
	}
	return m
}

// Set stores v under key. Existing keys keep their original position.
func (m *Map) Set(key string, v any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Keys returns keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.keys)
}

// Len returns the number of keys; a nil Map is empty.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Clone returns a deep copy. Nested maps and slices are copied as well.
func (m *Map) Clone() *Map {
	if m == nil {
		return nil
	}
	out := &Map{
		keys:   slices.Clone(m.keys),
		values: make(map[string]any, len(m.values)),
	}
	for k, v := range m.values {
		out.values[k] = CloneValue(v)
	}
	return out
}

// ToMap converts the Map back into plain Go values, dropping order.
func (m *Map) ToMap() map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m.values))
	for k, v := range m.values {
		out[k] = plain(v)
	}
	return out
}

// CloneValue deep-copies a decoded value: *Map and []any are copied
// recursively, scalars are returned as is.
func CloneValue(v any) any {
	switch val := v.(type) {
	case *Map:
		return val.Clone()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = CloneValue(item)
		}
		return out
	default:
		return v
	}
}

func plain(v any) any {
	switch val := v.(type) {
	case *Map:
		return val.ToMap()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = plain(item)
		}
		return out
	default:
		return v
	}
}

// normalize turns plain nested Go maps into *Map so callers see one shape.
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return FromMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	default:
		return v
	}
}
