// Package idmap provides the ordered-map container spec §3.1 requires:
// "Ordered maps keyed by identifier provide deterministic iteration."
// IDs across this core are small integers allocated by a monotonically
// increasing per-kind counter, so iterating in ascending key order is
// both deterministic and equivalent to insertion order.
package idmap

import "sort"

// Map is an insertion-order-equivalent table keyed by a small integer id.
type Map[K ~uint32 | ~int32, V any] struct {
	items map[K]V
}

// New returns an empty Map.
func New[K ~uint32 | ~int32, V any]() *Map[K, V] {
	return &Map[K, V]{items: make(map[K]V)}
}

// Set inserts or overwrites the value for k.
func (m *Map[K, V]) Set(k K, v V) {
	if m.items == nil {
		m.items = make(map[K]V)
	}
	m.items[k] = v
}

// Get returns the value for k and whether it was present.
func (m *Map[K, V]) Get(k K) (V, bool) {
	v, ok := m.items[k]
	return v, ok
}

// Has reports whether k is present.
func (m *Map[K, V]) Has(k K) bool {
	_, ok := m.items[k]
	return ok
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	return len(m.items)
}

// Keys returns every key in ascending order.
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Each calls f for every entry in ascending key order.
func (m *Map[K, V]) Each(f func(K, V)) {
	for _, k := range m.Keys() {
		f(k, m.items[k])
	}
}
