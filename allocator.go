package cmap

import "fmt"

// Allocator is the memory provider for slot arrays. The map asks it for
// exactly one array per resize and hands the previous array back once the
// new one is populated, so two arrays are live at the peak of a resize.
//
// Running out of memory is fatal; Allocate has no error return.
type Allocator[K comparable, V any] interface {
	// Allocate returns a slice of exactly n slots.
	Allocate(n int) []Slot[K, V]
	// Free releases a slice previously returned by Allocate. The map
	// never touches it afterwards.
	Free(slots []Slot[K, V])
}

// HeapAllocator allocates slot arrays from the Go heap.
type HeapAllocator[K comparable, V any] struct{}

// Allocate implements Allocator.
func (HeapAllocator[K, V]) Allocate(n int) []Slot[K, V] {
	return make([]Slot[K, V], n)
}

// Free clears the array so that keys and values it still references
// become collectable even if a stale Slots view is kept around.
func (HeapAllocator[K, V]) Free(slots []Slot[K, V]) {
	clear(slots)
}

// CountingAllocator wraps another Allocator and keeps allocation
// statistics. It is meant for tests and workload diagnostics.
type CountingAllocator[K comparable, V any] struct {
	// Base does the actual work; nil means HeapAllocator.
	Base Allocator[K, V]

	// Allocs and Frees count calls.
	Allocs int
	Frees  int
	// AllocatedSlots is the total number of slots ever handed out.
	AllocatedSlots int
	// LiveSlots is the number of slots currently handed out.
	LiveSlots int
	// PeakSlots is the maximum LiveSlots seen.
	PeakSlots int
}

// Allocate implements Allocator.
func (a *CountingAllocator[K, V]) Allocate(n int) []Slot[K, V] {
	var slots []Slot[K, V]
	if a.Base != nil {
		slots = a.Base.Allocate(n)
	} else {
		slots = HeapAllocator[K, V]{}.Allocate(n)
	}
	a.Allocs++
	a.AllocatedSlots += n
	a.LiveSlots += n
	a.PeakSlots = max(a.PeakSlots, a.LiveSlots)
	return slots
}

// Free implements Allocator.
func (a *CountingAllocator[K, V]) Free(slots []Slot[K, V]) {
	a.Frees++
	a.LiveSlots -= len(slots)
	if a.Base != nil {
		a.Base.Free(slots)
	} else {
		HeapAllocator[K, V]{}.Free(slots)
	}
}

// ResetPeak sets PeakSlots back to the current LiveSlots.
func (a *CountingAllocator[K, V]) ResetPeak() { a.PeakSlots = a.LiveSlots }

// String returns a one-line summary of the counters.
func (a *CountingAllocator[K, V]) String() string {
	return fmt.Sprintf("allocs=%d frees=%d allocated=%d live=%d peak=%d",
		a.Allocs, a.Frees, a.AllocatedSlots, a.LiveSlots, a.PeakSlots)
}
