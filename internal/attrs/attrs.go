// Package attrs provides an ordered string-keyed mapping used for page and
// front matter attributes.
//
// Values are plain Go values as produced by YAML decoding: string, int,
// float64, bool, []any, or a nested *Map. Key order is insertion order;
// overwriting an existing key keeps its position.
package attrs

import (
	"fmt"
	"strings"
)

// Map is an ordered mapping from string keys to attribute values.
// The zero value is ready to use.
type Map struct {
	keys   []string
	values map[string]any
}

// New returns an empty Map.
func New() *Map {
	return &Map{values: make(map[string]any)}
}

// Set adds key or overwrites its value in place.
func (m *Map) Set(key string, value any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// GetString returns the value under key when it is a string.
func (m *Map) GetString(key string) (string, bool) {
	v, ok := m.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Len returns the number of keys.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in order. The slice is a copy.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Merge applies every pair of other onto m, left to right. Later values win.
func (m *Map) Merge(other *Map) {
	if other == nil {
		return
	}
	for _, k := range other.keys {
		m.Set(k, other.values[k])
	}
}

// Clone returns a shallow copy of m. Nested maps are shared.
func (m *Map) Clone() *Map {
	out := New()
	if m == nil {
		return out
	}
	out.keys = append(out.keys, m.keys...)
	for k, v := range m.values {
		out.values[k] = v
	}
	return out
}

// ToMap returns a plain map snapshot suitable for template data.
// Nested *Map values (including inside slices) are converted recursively.
func (m *Map) ToMap() map[string]any {
	out := make(map[string]any, m.Len())
	if m == nil {
		return out
	}
	for _, k := range m.keys {
		out[k] = plain(m.values[k])
	}
	return out
}

func plain(v any) any {
	switch vv := v.(type) {
	case *Map:
		return vv.ToMap()
	case []any:
		out := make([]any, len(vv))
		for i, item := range vv {
			out[i] = plain(item)
		}
		return out
	default:
		return v
	}
}

// String renders the map for debugging.
func (m *Map) String() string {
	if m == nil {
		return "{}"
	}
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %v", k, m.values[k])
	}
	b.WriteByte('}')
	return b.String()
}
