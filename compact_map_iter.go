package cmap

import "iter"

// Iterator is a position in the slot array of a CompactMap. Every
// position in [Begin(), End()) holds an entry, so stepping needs no
// validity checks. Any mutation of the map invalidates its iterators.
type Iterator[K comparable, V any] struct {
	m *CompactMap[K, V]
	i int
}

// Begin returns an iterator at the first slot.
//
//go:nosplit
func (m *CompactMap[K, V]) Begin() Iterator[K, V] { return Iterator[K, V]{m: m} }

// End returns the iterator one past the last slot.
//
//go:nosplit
func (m *CompactMap[K, V]) End() Iterator[K, V] {
	return Iterator[K, V]{m: m, i: len(m.slots)}
}

// Key returns the key at the iterator position.
//
//go:nosplit
func (it Iterator[K, V]) Key() K { return it.m.slots[it.i].Key }

// Value returns the value at the iterator position.
//
//go:nosplit
func (it Iterator[K, V]) Value() V { return it.m.slots[it.i].Value }

// ValuePtr returns a pointer to the value at the iterator position, for
// in-place updates.
//
//go:nosplit
func (it Iterator[K, V]) ValuePtr() *V { return &it.m.slots[it.i].Value }

// Next returns the iterator one slot further.
//
//go:nosplit
func (it Iterator[K, V]) Next() Iterator[K, V] { return it.Add(1) }

// Prev returns the iterator one slot back.
//
//go:nosplit
func (it Iterator[K, V]) Prev() Iterator[K, V] { return it.Add(-1) }

// Add returns the iterator n slots away; n may be negative.
//
//go:nosplit
func (it Iterator[K, V]) Add(n int) Iterator[K, V] {
	it.i += n
	return it
}

// Index returns the slot index of the iterator.
//
//go:nosplit
func (it Iterator[K, V]) Index() int { return it.i }

// Equal reports whether both iterators are at the same slot of the same map.
//
//go:nosplit
func (it Iterator[K, V]) Equal(o Iterator[K, V]) bool { return it.m == o.m && it.i == o.i }

// IsEnd reports whether the iterator is at or past End.
//
//go:nosplit
func (it Iterator[K, V]) IsEnd() bool { return it.m == nil || it.i >= len(it.m.slots) }

// Range calls yield for each entry in slot order until yield returns false.
//
// Range must not mutate the map: a mutation rebuilds the slot array and
// the remaining entries would be visited in an unspecified order, some of
// them not at all.
func (m *CompactMap[K, V]) Range(yield func(key K, value V) bool) {
	for i := 0; i < len(m.slots); i++ {
		s := &m.slots[i]
		if !yield(s.Key, s.Value) {
			return
		}
	}
}

// All returns an iterator function for use with range-over-func.
// It provides the same functionality as Range but in iterator form.
//
//go:nosplit
func (m *CompactMap[K, V]) All() iter.Seq2[K, V] { return m.Range }

// Keys returns an iterator over the keys.
func (m *CompactMap[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for i := 0; i < len(m.slots); i++ {
			if !yield(m.slots[i].Key) {
				return
			}
		}
	}
}

// Values returns an iterator over the values.
func (m *CompactMap[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for i := 0; i < len(m.slots); i++ {
			if !yield(m.slots[i].Value) {
				return
			}
		}
	}
}

// Slots returns the slot array itself, for the tightest possible scans.
// Values may be modified through it; keys must not be. The view is
// invalidated by the next mutation.
//
//go:nosplit
func (m *CompactMap[K, V]) Slots() []Slot[K, V] { return m.slots }
