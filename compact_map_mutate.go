package cmap

import (
	"fmt"
	"iter"
)

// Emplace stores value for key.
//
// A new key grows the slot array by one, which rehashes the whole map.
// An existing key is overwritten in place without resizing, so a
// redundant Emplace never leaves an unfilled slot behind. The returned
// iterator points at the entry and is valid until the next mutation;
// inserted reports whether key was new.
//
// Emplace panics if key is the empty-key sentinel.
func (m *CompactMap[K, V]) Emplace(key K, value V) (it Iterator[K, V], inserted bool) {
	m.init()
	m.checkKey(key)
	if idx := m.findOccupiedSlot(key); idx >= 0 {
		m.slots[idx].Value = value
		return Iterator[K, V]{m: m, i: idx}, false
	}
	idx := m.emplaceNew(key, value)
	return Iterator[K, V]{m: m, i: idx}, true
}

// emplaceNew inserts a key known to be absent.
func (m *CompactMap[K, V]) emplaceNew(key K, value V) int {
	m.resizeTo(len(m.slots) + 1)
	idx := m.findInsertSlot(m.slots, key)
	m.slots[idx] = Slot[K, V]{Key: key, Value: value}
	m.count++
	return idx
}

// LoadOrEmplace returns the existing value for key if present.
// Otherwise, it stores and returns the given value.
// The loaded result is true if the value was loaded, false if stored.
func (m *CompactMap[K, V]) LoadOrEmplace(key K, value V) (actual V, loaded bool) {
	m.init()
	m.checkKey(key)
	if idx := m.findOccupiedSlot(key); idx >= 0 {
		return m.slots[idx].Value, true
	}
	m.emplaceNew(key, value)
	return value, false
}

// LoadOrEmplaceFn returns the existing value for key if present.
// Otherwise, it stores and returns the value returned by valueFn.
// valueFn is not called when key is present.
func (m *CompactMap[K, V]) LoadOrEmplaceFn(key K, valueFn func() V) (actual V, loaded bool) {
	m.init()
	m.checkKey(key)
	if idx := m.findOccupiedSlot(key); idx >= 0 {
		return m.slots[idx].Value, true
	}
	value := valueFn()
	m.emplaceNew(key, value)
	return value, false
}

// Erase removes key and returns the number of entries removed, 0 or 1.
func (m *CompactMap[K, V]) Erase(key K) int {
	idx := m.findOccupiedSlot(key)
	if idx < 0 {
		return 0
	}
	m.eraseIndex(idx)
	return 1
}

// EraseAt removes the entry it points at. it must come from m and must
// not be End(); otherwise EraseAt panics.
func (m *CompactMap[K, V]) EraseAt(it Iterator[K, V]) {
	if it.m != m || it.i < 0 || it.i >= len(m.slots) {
		panic(fmt.Sprintf("cmap: EraseAt with an iterator not pointing into this map (index %d)", it.i))
	}
	m.eraseIndex(it.i)
}

// eraseIndex moves the last entry into slot idx, turns the last slot into
// a sentinel and shrinks the array by one. The moved entry's old probe
// position does not matter, resizeTo re-probes everything.
func (m *CompactMap[K, V]) eraseIndex(idx int) {
	last := len(m.slots) - 1
	if idx != last {
		m.slots[idx] = m.slots[last]
	}
	m.slots[last] = Slot[K, V]{Key: m.empty.Empty()}
	m.resizeTo(last)
}

// Insert stores every entry with a single resize and returns the number
// of keys that were not present before. Existing keys are overwritten,
// and for keys repeated inside entries the last one wins.
//
// The array is first grown by len(entries); if some entries only
// overwrote, one more resize trims the slots they did not use.
//
// Insert panics, before changing anything, if any key is the empty-key
// sentinel.
func (m *CompactMap[K, V]) Insert(entries ...EntryOf[K, V]) int {
	if len(entries) == 0 {
		return 0
	}
	m.init()
	for i := range entries {
		m.checkKey(entries[i].Key)
	}

	base := len(m.slots)
	m.resizeTo(base + len(entries))
	inserted := 0
	for i := range entries {
		e := &entries[i]
		idx := m.findInsertSlot(m.slots, e.Key)
		s := &m.slots[idx]
		if m.empty.IsEmpty(s.Key) {
			s.Key = e.Key
			inserted++
		}
		s.Value = e.Value
	}
	m.count += inserted
	if inserted < len(entries) {
		m.resizeTo(base + inserted)
	}
	return inserted
}

// InsertSeq drains seq and inserts the pairs as one batch; see Insert.
func (m *CompactMap[K, V]) InsertSeq(seq iter.Seq2[K, V]) int {
	var entries []EntryOf[K, V]
	for k, v := range seq {
		entries = append(entries, EntryOf[K, V]{Key: k, Value: v})
	}
	return m.Insert(entries...)
}

// FromMap inserts the contents of source as one batch; see Insert.
func (m *CompactMap[K, V]) FromMap(source map[K]V) int {
	entries := make([]EntryOf[K, V], 0, len(source))
	for k, v := range source {
		entries = append(entries, EntryOf[K, V]{Key: k, Value: v})
	}
	return m.Insert(entries...)
}

// EraseKeys removes every listed key that is present and returns the
// number removed. Absent and repeated keys are ignored.
//
// Each hit is swapped with the current logical last entry and the logical
// length shrinks; the array itself is resized once at the end, so the
// whole batch costs a single rehash.
func (m *CompactMap[K, V]) EraseKeys(keys ...K) int {
	return m.eraseKeys(len(keys), func(i int) K { return keys[i] })
}

// EraseBy removes the keys carried by records, as EraseKeys does, and
// returns the number removed. key extracts the key of one record.
func EraseBy[T any, K comparable, V any](m *CompactMap[K, V], records []T, key func(T) K) int {
	return m.eraseKeys(len(records), func(i int) K { return key(records[i]) })
}

func (m *CompactMap[K, V]) eraseKeys(n int, keyAt func(i int) K) int {
	if n == 0 || len(m.slots) == 0 {
		return 0
	}
	end := len(m.slots)
	emptyKey := m.empty.Empty()
	removed := 0
	for i := 0; i < n && end > 0; i++ {
		idx := m.findOccupiedSlot(keyAt(i))
		if idx < 0 {
			continue
		}
		// Slots at or past end are sentinels, so idx < end here.
		end--
		m.slots[idx] = m.slots[end]
		m.slots[end] = Slot[K, V]{Key: emptyKey}
		removed++
	}
	if removed == 0 {
		return 0
	}
	m.resizeTo(end)
	return removed
}
