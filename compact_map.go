package cmap

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"unsafe"
)

// CompactMap is an open-addressing hash map that keeps its entries in a
// single slot array whose length always equals the number of entries.
//
// There is never slack capacity and never a tombstone: every mutation
// allocates a new array of the exact target length and re-probes the
// surviving entries into it. Mutations therefore cost O(Size()), while
// iteration is a plain scan of a dense array that never has to skip a
// free slot. It is meant for lookup tables that are scanned far more
// often than they change, such as per-subsystem component tables.
//
// Batch operations (Insert, EraseKeys, EraseBy) pay the rehash once for
// the whole batch and should be preferred over loops of single calls.
//
// Lookups that miss walk the full probe cycle, since there is no free
// slot to stop at: a miss costs Size() key comparisons.
//
// A CompactMap is not safe for concurrent use. The zero value is an empty
// map using the default Policy. A CompactMap must not be copied after
// first use; use Clone, CopyFrom or Swap instead.
type CompactMap[K comparable, V any] struct {
	//lint:ignore U1000 prevents false sharing
	pad [(CacheLineSize - unsafe.Sizeof(compactState[K, V]{})%CacheLineSize) % CacheLineSize]byte

	_ noCopy
	compactState[K, V]
}

// compactState is everything Swap exchanges.
type compactState[K comparable, V any] struct {
	slots    []Slot[K, V]
	count    int
	seed     uintptr
	keyHash  HashFunc[K]
	keyEqual EqualFunc[K] // nil means ==
	empty    EmptyKey[K]
	alloc    Allocator[K, V]

	totalResizes uint32
	totalGrowths uint32
	totalShrinks uint32
	probes       uint64
	lastProbeLen int
}

// Slot is one key/value pair stored inline in the slot array.
type Slot[K comparable, V any] struct {
	Key   K
	Value V
}

// EntryOf is a key/value pair passed to batch operations.
type EntryOf[K comparable, V any] struct {
	Key   K
	Value V
}

// Policy selects the pluggable behaviour of a CompactMap.
// Nil fields fall back to the defaults.
type Policy[K comparable, V any] struct {
	// Hash defaults to the identity for integer keys and hash/maphash
	// otherwise.
	Hash HashFunc[K]
	// Equal defaults to ==.
	Equal EqualFunc[K]
	// Empty is required for key types without a built-in sentinel; see
	// EmptyKey.
	Empty EmptyKey[K]
	// Alloc defaults to HeapAllocator.
	Alloc Allocator[K, V]
}

// NewCompactMap creates an empty map with the default Policy.
func NewCompactMap[K comparable, V any]() *CompactMap[K, V] {
	return NewCompactMapWithPolicy[K, V](Policy[K, V]{})
}

// NewCompactMapWithPolicy creates an empty map using the given hash,
// equality, sentinel and memory provider. It panics if K has no built-in
// sentinel and p.Empty is nil.
func NewCompactMapWithPolicy[K comparable, V any](p Policy[K, V]) *CompactMap[K, V] {
	m := &CompactMap[K, V]{}
	m.Init(p)
	return m
}

// NewCompactMapFrom creates a map holding entries, paying a single
// resize. Later duplicates overwrite earlier ones.
func NewCompactMapFrom[K comparable, V any](entries ...EntryOf[K, V]) *CompactMap[K, V] {
	m := NewCompactMap[K, V]()
	m.Insert(entries...)
	return m
}

// Init discards the current contents and installs policy p.
// It panics if K has no built-in sentinel and p.Empty is nil.
func (m *CompactMap[K, V]) Init(p Policy[K, V]) {
	m.Clear()
	m.seed = uintptr(rand.Uint64())
	m.keyHash = p.Hash
	if m.keyHash == nil {
		m.keyHash = defaultHasher[K]()
	}
	m.keyEqual = p.Equal
	m.empty = p.Empty
	if m.empty == nil {
		m.empty = defaultEmptyKey[K]()
		if m.empty == nil {
			panic(fmt.Sprintf("cmap: key type %T has no built-in empty key; set Policy.Empty", *new(K)))
		}
	}
	m.alloc = p.Alloc
	if m.alloc == nil {
		m.alloc = HeapAllocator[K, V]{}
	}
}

//go:nosplit
func (m *CompactMap[K, V]) init() {
	if m.keyHash == nil {
		m.initSlow()
	}
}

//go:noinline
func (m *CompactMap[K, V]) initSlow() {
	m.Init(Policy[K, V]{})
}

// checkKey rejects the sentinel: stored, it would read as a free slot.
func (m *CompactMap[K, V]) checkKey(key K) {
	if m.empty.IsEmpty(key) {
		panic(fmt.Sprintf("cmap: key %v is the empty-key sentinel and can not be stored", key))
	}
}

//go:nosplit
func (m *CompactMap[K, V]) equal(a, b K) bool {
	if m.keyEqual == nil {
		return a == b
	}
	return m.keyEqual(a, b)
}

// Size returns the number of entries.
//
//go:nosplit
func (m *CompactMap[K, V]) Size() int { return m.count }

// Cap returns the length of the slot array. It is equal to Size after
// every completed operation.
//
//go:nosplit
func (m *CompactMap[K, V]) Cap() int { return len(m.slots) }

// IsZero checks if the map is empty.
//
//go:nosplit
func (m *CompactMap[K, V]) IsZero() bool { return m.count == 0 }

// Clear removes every entry and releases the slot array.
func (m *CompactMap[K, V]) Clear() {
	if m.slots != nil {
		m.alloc.Free(m.slots)
	}
	m.slots = nil
	m.count = 0
}

// Swap exchanges the contents and policies of m and other in O(1).
func (m *CompactMap[K, V]) Swap(other *CompactMap[K, V]) {
	m.compactState, other.compactState = other.compactState, m.compactState
}

// Clone returns a copy of m sharing its policies. The slot array is
// copied as is: the hasher and seed are the same, so every entry keeps
// its probe position.
func (m *CompactMap[K, V]) Clone() *CompactMap[K, V] {
	c := &CompactMap[K, V]{}
	c.copyFrom(m)
	return c
}

// CopyFrom replaces the contents and policies of m with a copy of src.
func (m *CompactMap[K, V]) CopyFrom(src *CompactMap[K, V]) {
	if m == src {
		return
	}
	m.Clear()
	m.copyFrom(src)
}

func (m *CompactMap[K, V]) copyFrom(src *CompactMap[K, V]) {
	m.seed = src.seed
	m.keyHash = src.keyHash
	m.keyEqual = src.keyEqual
	m.empty = src.empty
	m.alloc = src.alloc
	m.slots = nil
	m.count = 0
	if len(src.slots) == 0 {
		return
	}
	m.slots = m.alloc.Allocate(len(src.slots))
	copy(m.slots, src.slots)
	m.count = src.count
}

// Load returns the value stored for key.
func (m *CompactMap[K, V]) Load(key K) (value V, ok bool) {
	if idx := m.findOccupiedSlot(key); idx >= 0 {
		return m.slots[idx].Value, true
	}
	return
}

// Contains reports whether key is present.
func (m *CompactMap[K, V]) Contains(key K) bool {
	return m.findOccupiedSlot(key) >= 0
}

// Find returns an iterator positioned at key, or End() if key is absent.
func (m *CompactMap[K, V]) Find(key K) Iterator[K, V] {
	if idx := m.findOccupiedSlot(key); idx >= 0 {
		return Iterator[K, V]{m: m, i: idx}
	}
	return m.End()
}

// At returns a pointer to the value stored for key, valid until the next
// mutation. It panics if key is absent; use LoadOrEmplace to insert a
// default instead.
func (m *CompactMap[K, V]) At(key K) *V {
	idx := m.findOccupiedSlot(key)
	if idx < 0 {
		panic(fmt.Sprintf("cmap: key %v not found", key))
	}
	return &m.slots[idx].Value
}

// ToMap collects the entries into a Go map.
func (m *CompactMap[K, V]) ToMap() map[K]V {
	return m.ToMapWithLimit(-1)
}

// ToMapWithLimit collects at most limit entries into a Go map; a negative
// limit means no limit.
func (m *CompactMap[K, V]) ToMapWithLimit(limit int) map[K]V {
	n := m.count
	if limit >= 0 {
		n = min(n, limit)
	}
	a := make(map[K]V, n)
	for i := range m.slots[:n] {
		a[m.slots[i].Key] = m.slots[i].Value
	}
	return a
}

// String implement the formatting output interface fmt.Stringer
func (m *CompactMap[K, V]) String() string {
	const limit = 1024
	return strings.Replace(fmt.Sprint(m.ToMapWithLimit(limit)), "map[", "CompactMap[", 1)
}

// noCopy may be embedded into structs which must not be copied
// after the first use. See https://golang.org/issues/8005#issuecomment-190753527
type noCopy struct{}

// Lock is a no-op used by -copylocks checker from `go vet`.
func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
