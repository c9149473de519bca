package cmap

// EmptyKey describes the reserved key value that marks a slot as free.
//
// Free slots only exist while the map is being rehashed: every completed
// operation leaves the slot array fully occupied. The sentinel therefore
// never shows up in iteration, but it can not be stored as a real key.
type EmptyKey[K any] interface {
	// IsEmpty reports whether key is the sentinel.
	IsEmpty(key K) bool
	// Empty returns the sentinel.
	Empty() K
}

type allOnesKey[K Integer] struct{}

//go:nosplit
func (allOnesKey[K]) IsEmpty(key K) bool { return key == ^K(0) }

//go:nosplit
func (allOnesKey[K]) Empty() K { return ^K(0) }

type emptyStringKey[K ~string] struct{}

//go:nosplit
func (emptyStringKey[K]) IsEmpty(key K) bool { return key == "" }

//go:nosplit
func (emptyStringKey[K]) Empty() K { return "" }

type funcKey[K any] struct {
	empty   K
	isEmpty func(K) bool
}

func (f funcKey[K]) IsEmpty(key K) bool { return f.isEmpty(key) }
func (f funcKey[K]) Empty() K           { return f.empty }

// AllOnesKey returns the sentinel with every bit set: -1 for signed
// integers, the maximum value for unsigned ones. Use it for named integer
// key types such as entity ids.
func AllOnesKey[K Integer]() EmptyKey[K] { return allOnesKey[K]{} }

// EmptyStringKey returns the "" sentinel for string-like key types.
func EmptyStringKey[K ~string]() EmptyKey[K] { return emptyStringKey[K]{} }

// EmptyKeyFunc builds a sentinel from a value and its predicate.
// isEmpty(empty) must be true.
func EmptyKeyFunc[K any](empty K, isEmpty func(K) bool) EmptyKey[K] {
	if !isEmpty(empty) {
		panic("cmap: EmptyKeyFunc predicate rejects its own sentinel")
	}
	return funcKey[K]{empty: empty, isEmpty: isEmpty}
}

// defaultEmptyKey returns the built-in sentinel for K, or nil when K has
// none and the caller must supply Policy.Empty.
func defaultEmptyKey[K comparable]() EmptyKey[K] {
	var e any
	switch any(*new(K)).(type) {
	case int32:
		e = allOnesKey[int32]{}
	case uint32:
		e = allOnesKey[uint32]{}
	case int64:
		e = allOnesKey[int64]{}
	case uint64:
		e = allOnesKey[uint64]{}
	case int:
		e = allOnesKey[int]{}
	case uint:
		e = allOnesKey[uint]{}
	case uintptr:
		e = allOnesKey[uintptr]{}
	case string:
		e = emptyStringKey[string]{}
	default:
		return nil
	}
	return e.(EmptyKey[K])
}
