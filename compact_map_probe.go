package cmap

// Both probes walk the same sequence: start at hash(key) mod len, step by
// one, wrap to zero at the end and give up after a full cycle.

//go:nosplit
func (m *CompactMap[K, V]) probeStart(key K, size int) int {
	if size == 0 {
		return 0
	}
	return int(m.keyHash(key, m.seed) % uintptr(size))
}

// findInsertSlot returns the first slot of slots holding either the
// sentinel or key itself, or -1 if a full cycle finds neither.
func (m *CompactMap[K, V]) findInsertSlot(slots []Slot[K, V], key K) int {
	size := len(slots)
	if size == 0 {
		return -1
	}
	start := m.probeStart(key, size)
	i := start
	for {
		k := slots[i].Key
		if m.empty.IsEmpty(k) || m.equal(k, key) {
			return i
		}
		if i++; i == size {
			i = 0
		}
		if i == start {
			return -1
		}
	}
}

// findOccupiedSlot returns the slot holding key, or -1.
//
// A free slot does not end the search: free slots only exist inside a
// rehash or as the shrinking tail of a batch erase, so a miss always costs
// a full cycle of len(m.slots) comparisons. Every comparison is counted.
func (m *CompactMap[K, V]) findOccupiedSlot(key K) int {
	slots := m.slots
	size := len(slots)
	if size == 0 {
		m.lastProbeLen = 0
		return -1
	}
	if m.empty.IsEmpty(key) {
		m.lastProbeLen = 0
		return -1
	}
	start := m.probeStart(key, size)
	i, n := start, 0
	for {
		n++
		if m.equal(slots[i].Key, key) {
			break
		}
		if i++; i == size {
			i = 0
		}
		if i == start {
			i = -1
			break
		}
	}
	m.probes += uint64(n)
	m.lastProbeLen = n
	return i
}
