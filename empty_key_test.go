package cmap

import (
	"math"
	"testing"
)

type entityID int32

type assetName string

func TestDefaultEmptyKey(t *testing.T) {
	if e := defaultEmptyKey[int32](); e == nil || e.Empty() != -1 || !e.IsEmpty(-1) || e.IsEmpty(0) {
		t.Fatalf("int32 sentinel is wrong: %v", e)
	}
	if e := defaultEmptyKey[uint32](); e == nil || e.Empty() != math.MaxUint32 {
		t.Fatalf("uint32 sentinel is wrong: %v", e)
	}
	if e := defaultEmptyKey[int64](); e == nil || e.Empty() != -1 {
		t.Fatalf("int64 sentinel is wrong: %v", e)
	}
	if e := defaultEmptyKey[uint64](); e == nil || e.Empty() != math.MaxUint64 {
		t.Fatalf("uint64 sentinel is wrong: %v", e)
	}
	if e := defaultEmptyKey[int](); e == nil || e.Empty() != -1 {
		t.Fatalf("int sentinel is wrong: %v", e)
	}
	if e := defaultEmptyKey[string](); e == nil || e.Empty() != "" || e.IsEmpty("x") {
		t.Fatalf("string sentinel is wrong: %v", e)
	}
	if e := defaultEmptyKey[float64](); e != nil {
		t.Fatalf("float64 has no built-in sentinel, got %v", e)
	}
	if e := defaultEmptyKey[entityID](); e != nil {
		t.Fatalf("named types have no built-in sentinel, got %v", e)
	}
}

func TestAllOnesKey_NamedType(t *testing.T) {
	m := NewCompactMapWithPolicy(Policy[entityID, string]{Empty: AllOnesKey[entityID]()})
	m.Emplace(0, "root")
	m.Emplace(7, "child")
	if v, ok := m.Load(7); !ok || v != "child" {
		t.Fatalf("got unexpected value: %v %v", v, ok)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("storing -1 did not panic")
		}
	}()
	m.Emplace(-1, "sentinel")
}

func TestEmptyStringKey_NamedType(t *testing.T) {
	m := NewCompactMapWithPolicy(Policy[assetName, int]{Empty: EmptyStringKey[assetName]()})
	m.Emplace("textures/grass.png", 1)
	if !m.Contains("textures/grass.png") || m.Contains("") {
		t.Fatal("got unexpected membership")
	}
}

func TestEmptyKeyFunc_RejectsInconsistentSentinel(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("inconsistent sentinel accepted")
		}
	}()
	EmptyKeyFunc(1.5, func(f float64) bool { return math.IsNaN(f) })
}

func TestEmptyKeyFunc_FloatKeys(t *testing.T) {
	m := NewCompactMapWithPolicy(Policy[float64, int]{
		Empty: EmptyKeyFunc(math.Inf(-1), func(f float64) bool { return math.IsInf(f, -1) }),
	})
	for i := 0; i < 20; i++ {
		m.Emplace(float64(i)/4, i)
	}
	if v, ok := m.Load(1.25); !ok || v != 5 {
		t.Fatalf("got unexpected value: %v %v", v, ok)
	}
	assertDense(t, m)
}
