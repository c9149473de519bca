package cmap

import (
	"fmt"
	"strings"
	"unsafe"
)

// Stats returns statistics for the CompactMap. It is an O(N) operation,
// so it should be used only for diagnostics or debugging purposes.
func (m *CompactMap[K, V]) Stats() *MapStats {
	slotBytes := int(unsafe.Sizeof(Slot[K, V]{}))
	stats := &MapStats{
		Size:         m.count,
		Capacity:     len(m.slots),
		TotalResizes: m.totalResizes,
		TotalGrowths: m.totalGrowths,
		TotalShrinks: m.totalShrinks,
		Probes:       m.probes,
		LastProbeLen: m.lastProbeLen,
		SlotBytes:    slotBytes,
	}
	if slotBytes > 0 {
		stats.SlotsPerCacheLine = float64(CacheLineSize) / float64(slotBytes)
	}
	size := len(m.slots)
	for i := range m.slots {
		key := m.slots[i].Key
		if m.empty.IsEmpty(key) {
			stats.Sentinels++
			continue
		}
		start := m.probeStart(key, size)
		d := i - start
		if d < 0 {
			d += size
		}
		stats.TotalDisplacement += d
		stats.MaxDisplacement = max(stats.MaxDisplacement, d)
	}
	return stats
}

// ResetProbes zeroes the probe counters reported by Stats.
func (m *CompactMap[K, V]) ResetProbes() {
	m.probes = 0
	m.lastProbeLen = 0
}

// MapStats is CompactMap statistics.
//
// Warning: map statistics are intended to be used for diagnostic
// purposes, not for production code. This means that breaking changes
// may be introduced into this struct even between minor releases.
type MapStats struct {
	// Size is the number of entries.
	Size int
	// Capacity is the length of the slot array. It equals Size after
	// every completed operation.
	Capacity int
	// Sentinels is the number of free slots found in the array; zero
	// after every completed operation.
	Sentinels int
	// TotalResizes is the number of slot arrays allocated.
	TotalResizes uint32
	// TotalGrowths is the number of resizes to a longer array.
	TotalGrowths uint32
	// TotalShrinks is the number of resizes to a shorter array.
	TotalShrinks uint32
	// Probes is the number of key comparisons made by lookups since the
	// map was created or ResetProbes was called.
	Probes uint64
	// LastProbeLen is the number of comparisons made by the last lookup.
	// A miss always costs Capacity comparisons.
	LastProbeLen int
	// TotalDisplacement sums, over all entries, the distance between the
	// probe start and the slot actually holding the entry.
	TotalDisplacement int
	// MaxDisplacement is the largest such distance.
	MaxDisplacement int
	// SlotBytes is the size of one slot.
	SlotBytes int
	// SlotsPerCacheLine is CacheLineSize / SlotBytes.
	SlotsPerCacheLine float64
}

// ToString returns string representation of map stats.
func (s *MapStats) ToString() string {
	var sb strings.Builder
	sb.WriteString("MapStats{\n")
	sb.WriteString(fmt.Sprintf("Size:              %d\n", s.Size))
	sb.WriteString(fmt.Sprintf("Capacity:          %d\n", s.Capacity))
	sb.WriteString(fmt.Sprintf("Sentinels:         %d\n", s.Sentinels))
	sb.WriteString(fmt.Sprintf("TotalResizes:      %d\n", s.TotalResizes))
	sb.WriteString(fmt.Sprintf("TotalGrowths:      %d\n", s.TotalGrowths))
	sb.WriteString(fmt.Sprintf("TotalShrinks:      %d\n", s.TotalShrinks))
	sb.WriteString(fmt.Sprintf("Probes:            %d\n", s.Probes))
	sb.WriteString(fmt.Sprintf("LastProbeLen:      %d\n", s.LastProbeLen))
	sb.WriteString(fmt.Sprintf("TotalDisplacement: %d\n", s.TotalDisplacement))
	sb.WriteString(fmt.Sprintf("MaxDisplacement:   %d\n", s.MaxDisplacement))
	sb.WriteString(fmt.Sprintf("SlotBytes:         %d\n", s.SlotBytes))
	sb.WriteString(fmt.Sprintf("SlotsPerCacheLine: %.2f\n", s.SlotsPerCacheLine))
	sb.WriteString("}\n")
	return sb.String()
}
