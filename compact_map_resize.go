package cmap

import "fmt"

// resizeTo is the only place the map allocates. It builds a slot array of
// exactly n slots, all set to the sentinel, re-probes every occupied slot
// of the current array into it and then frees the current array.
//
// Sentinel slots of the current array are dropped, which is how erasures
// shed their vacated tail. The cost is O(n + len(m.slots)) no matter how
// many entries changed, because probe positions depend on the array
// length and can not be carried over.
//
// After resizeTo, m.count is the number of entries carried over and the
// remaining n-m.count slots are free for the caller to fill.
func (m *CompactMap[K, V]) resizeTo(n int) {
	old := m.slots
	var slots []Slot[K, V]
	if n > 0 {
		slots = m.alloc.Allocate(n)
		if len(slots) != n {
			panic(fmt.Sprintf("cmap: allocator returned %d slots, want %d", len(slots), n))
		}
		emptyKey := m.empty.Empty()
		var zero V
		for i := range slots {
			slots[i] = Slot[K, V]{Key: emptyKey, Value: zero}
		}
	}

	moved := 0
	for i := range old {
		s := &old[i]
		if m.empty.IsEmpty(s.Key) {
			continue
		}
		idx := m.findInsertSlot(slots, s.Key)
		if idx < 0 {
			panic(fmt.Sprintf("cmap: %d slots can not hold the surviving entries", n))
		}
		slots[idx] = *s
		moved++
	}
	if old != nil {
		m.alloc.Free(old)
	}

	m.slots = slots
	m.count = moved
	m.totalResizes++
	switch {
	case n > len(old):
		m.totalGrowths++
	case n < len(old):
		m.totalShrinks++
	}
}
