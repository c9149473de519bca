package main

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/llxisdsh/cmap"
)

// Phase is the measurement of one step of the workload.
type Phase struct {
	Name    string
	Ops     int
	Elapsed time.Duration
	Resizes uint32
}

// Report is everything a workload run measured.
type Report struct {
	Keys     string
	Phases   []Phase
	Full     *cmap.MapStats // at Count entries
	Final    *cmap.MapStats // after draining
	Allocs   string         // CountingAllocator summary, if enabled
	MissCost float64        // key comparisons per missed lookup
	Checksum int64
}

type runner[K comparable] struct {
	cfg    WorkloadConfig
	m      *cmap.CompactMap[K, int64]
	logger *zap.Logger
	report *Report
}

// runWorkload drives a table of keys through every phase: single and
// batch inserts, scans, hit and miss lookups, single and batch erases.
// keys must be distinct and misses disjoint from keys.
func runWorkload[K comparable](
	cfg WorkloadConfig,
	keys, misses []K,
	hash cmap.HashFunc[K],
	logger *zap.Logger,
) (*Report, error) {
	if len(keys) != cfg.Count {
		return nil, fmt.Errorf("got %d keys, want %d", len(keys), cfg.Count)
	}
	policy := cmap.Policy[K, int64]{Hash: hash}
	var alloc *cmap.CountingAllocator[K, int64]
	if cfg.CountAllocs {
		alloc = &cmap.CountingAllocator[K, int64]{}
		policy.Alloc = alloc
	}
	r := &runner[K]{
		cfg:    cfg,
		m:      cmap.NewCompactMapWithPolicy(policy),
		logger: logger,
		report: &Report{Keys: cfg.Keys},
	}
	m := r.m
	single, rest := keys[:cfg.Single], keys[cfg.Single:]

	err := r.phase("emplace", len(single), func() error {
		for i, k := range single {
			m.Emplace(k, int64(i))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	err = r.phase("insert", len(rest), func() error {
		entries := make([]cmap.EntryOf[K, int64], 0, cfg.Batch)
		for i := 0; i < len(rest); i += cfg.Batch {
			entries = entries[:0]
			for j, k := range rest[i:min(i+cfg.Batch, len(rest))] {
				entries = append(entries, cmap.EntryOf[K, int64]{Key: k, Value: int64(cfg.Single + i + j)})
			}
			if n := m.Insert(entries...); n != len(entries) {
				return fmt.Errorf("insert batch at %d: %d new keys, want %d", i, n, len(entries))
			}
		}
		if m.Size() != cfg.Count {
			return fmt.Errorf("size %d after inserts, want %d", m.Size(), cfg.Count)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.report.Full = m.Stats()
	logger.Info("table populated",
		zap.Int("size", m.Size()),
		zap.Int("capacity", m.Cap()),
		zap.Int("maxDisplacement", r.report.Full.MaxDisplacement))

	err = r.phase("scan", cfg.ScanRounds*cfg.Count, func() error {
		var sum int64
		for round := 0; round < cfg.ScanRounds; round++ {
			for _, s := range m.Slots() {
				sum += s.Value
			}
		}
		r.report.Checksum = sum
		return nil
	})
	if err != nil {
		return nil, err
	}
	err = r.phase("lookup-hit", len(keys), func() error {
		for i, k := range keys {
			if v, ok := m.Load(k); !ok || v != int64(i) {
				return fmt.Errorf("lookup of key #%d: got %d %v", i, v, ok)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.ResetProbes()
	err = r.phase("lookup-miss", len(misses), func() error {
		for i, k := range misses {
			if m.Contains(k) {
				return fmt.Errorf("miss key #%d found in the table", i)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(misses) > 0 {
		r.report.MissCost = float64(m.Stats().Probes) / float64(len(misses))
		logger.Info("miss cost", zap.Float64("comparisonsPerMiss", r.report.MissCost))
	}

	err = r.phase("erase", len(single), func() error {
		for i, k := range single {
			if m.Erase(k) != 1 {
				return fmt.Errorf("erase of key #%d removed nothing", i)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	err = r.phase("erase-keys", len(rest), func() error {
		for i := 0; i < len(rest); i += cfg.Batch {
			batch := rest[i:min(i+cfg.Batch, len(rest))]
			if n := m.EraseKeys(batch...); n != len(batch) {
				return fmt.Errorf("erase batch at %d: removed %d, want %d", i, n, len(batch))
			}
		}
		if m.Size() != 0 {
			return fmt.Errorf("size %d after draining, want 0", m.Size())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.report.Final = m.Stats()
	if alloc != nil {
		r.report.Allocs = alloc.String()
	}
	return r.report, nil
}

func (r *runner[K]) phase(name string, ops int, fn func() error) error {
	before := r.m.Stats().TotalResizes
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	if err != nil {
		return fmt.Errorf("phase %s: %w", name, err)
	}
	p := Phase{
		Name:    name,
		Ops:     ops,
		Elapsed: elapsed,
		Resizes: r.m.Stats().TotalResizes - before,
	}
	r.report.Phases = append(r.report.Phases, p)
	r.logger.Debug("phase done",
		zap.String("phase", name),
		zap.Int("ops", ops),
		zap.Duration("elapsed", elapsed),
		zap.Uint32("resizes", p.Resizes))
	return nil
}

// int64Keys returns n distinct non-negative keys followed by misses keys
// not among them. Non-negative keys never collide with the -1 sentinel.
func int64Keys(n, misses int, seed uint64) (keys, absent []int64) {
	rnd := rand.New(rand.NewPCG(seed, seed^hashSeedMix))
	seen := make(map[int64]struct{}, n+misses)
	all := make([]int64, 0, n+misses)
	for len(all) < n+misses {
		k := rnd.Int64N(math.MaxInt64)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		all = append(all, k)
	}
	return all[:n], all[n:]
}

// stringKeys is int64Keys for entity-path style string keys.
func stringKeys(n, misses int, seed uint64) (keys, absent []string) {
	ints, missInts := int64Keys(n, misses, seed)
	keys = make([]string, len(ints))
	for i, k := range ints {
		keys[i] = fmt.Sprintf("entity/%016x", k)
	}
	absent = make([]string, len(missInts))
	for i, k := range missInts {
		absent[i] = fmt.Sprintf("entity/%016x", k)
	}
	return keys, absent
}

const hashSeedMix = 0x9E3779B97F4A7C15
