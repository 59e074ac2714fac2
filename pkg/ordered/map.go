// Package ordered provides an immutable, insertion-ordered map.
//
// Every mutating operation returns a new Map and leaves the receiver untouched,
// so a Map captured in an earlier snapshot never observes later changes.
package ordered

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Pair is a single key/value entry.
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// Map is an immutable insertion-ordered map. The zero value is an empty map.
type Map[K comparable, V any] struct {
	m *orderedmap.OrderedMap[K, V]
}

// Of builds a Map from pairs in the given order. A repeated key keeps its
// first position and its last value.
func Of[K comparable, V any](pairs ...Pair[K, V]) Map[K, V] {
	m := orderedmap.New[K, V]()
	for _, p := range pairs {
		m.Set(p.Key, p.Value)
	}
	return Map[K, V]{m: m}
}

// Len returns the number of entries.
func (o Map[K, V]) Len() int {
	if o.m == nil {
		return 0
	}
	return o.m.Len()
}

// Get returns the value stored under key.
func (o Map[K, V]) Get(key K) (V, bool) {
	if o.m == nil {
		var zero V
		return zero, false
	}
	return o.m.Get(key)
}

// Has reports whether key is present.
func (o Map[K, V]) Has(key K) bool {
	_, ok := o.Get(key)
	return ok
}

// Each calls fn for every entry from oldest to newest until fn returns false.
func (o Map[K, V]) Each(fn func(K, V) bool) {
	if o.m == nil {
		return
	}
	for p := o.m.Oldest(); p != nil; p = p.Next() {
		if !fn(p.Key, p.Value) {
			return
		}
	}
}

// Keys returns the keys in insertion order.
func (o Map[K, V]) Keys() []K {
	keys := make([]K, 0, o.Len())
	o.Each(func(k K, _ V) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// Values returns the values in insertion order.
func (o Map[K, V]) Values() []V {
	values := make([]V, 0, o.Len())
	o.Each(func(_ K, v V) bool {
		values = append(values, v)
		return true
	})
	return values
}

// Pairs returns the entries in insertion order.
func (o Map[K, V]) Pairs() []Pair[K, V] {
	pairs := make([]Pair[K, V], 0, o.Len())
	o.Each(func(k K, v V) bool {
		pairs = append(pairs, Pair[K, V]{Key: k, Value: v})
		return true
	})
	return pairs
}

// Set returns a copy with key set to value. An existing key keeps its position.
func (o Map[K, V]) Set(key K, value V) Map[K, V] {
	next := o.clone()
	next.m.Set(key, value)
	return next
}

// Delete returns a copy without key. Deleting an absent key returns the receiver.
func (o Map[K, V]) Delete(key K) Map[K, V] {
	if !o.Has(key) {
		return o
	}
	next := o.clone()
	next.m.Delete(key)
	return next
}

// Merge returns a copy where every entry of other is set onto the receiver:
// keys already present keep their position and take other's value, new keys are
// appended in other's order.
func (o Map[K, V]) Merge(other Map[K, V]) Map[K, V] {
	next := o.clone()
	other.Each(func(k K, v V) bool {
		next.m.Set(k, v)
		return true
	})
	return next
}

// MarshalJSON encodes the map as a JSON object in insertion order.
func (o Map[K, V]) MarshalJSON() ([]byte, error) {
	if o.m == nil {
		return []byte("{}"), nil
	}
	return o.m.MarshalJSON()
}

// UnmarshalJSON decodes a JSON object, keeping the key order of the document.
func (o *Map[K, V]) UnmarshalJSON(data []byte) error {
	m := orderedmap.New[K, V]()
	if err := m.UnmarshalJSON(data); err != nil {
		return err
	}
	o.m = m
	return nil
}

func (o Map[K, V]) clone() Map[K, V] {
	m := orderedmap.New[K, V]()
	o.Each(func(k K, v V) bool {
		m.Set(k, v)
		return true
	})
	return Map[K, V]{m: m}
}
