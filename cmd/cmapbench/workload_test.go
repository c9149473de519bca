package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func smallWorkload(keys, hash string) WorkloadConfig {
	w := DefaultConfig().Workload
	w.Keys = keys
	w.Hash = hash
	w.Count = 300
	w.Single = 50
	w.Batch = 64
	w.ScanRounds = 3
	w.Misses = 20
	return w
}

func TestInt64KeysDistinct(t *testing.T) {
	keys, misses := int64Keys(500, 50, 3)
	require.Len(t, keys, 500)
	require.Len(t, misses, 50)
	seen := make(map[int64]bool)
	for _, k := range append(keys, misses...) {
		require.False(t, seen[k], "duplicate key %d", k)
		require.GreaterOrEqual(t, k, int64(0))
		seen[k] = true
	}

	again, _ := int64Keys(500, 50, 3)
	require.Equal(t, keys, again)
}

func TestRunWorkload(t *testing.T) {
	for _, tc := range []struct{ keys, hash string }{
		{"int64", "default"},
		{"int64", "fibonacci"},
		{"string", "default"},
	} {
		t.Run(tc.keys+"/"+tc.hash, func(t *testing.T) {
			w := smallWorkload(tc.keys, tc.hash)
			report, err := runConfigured(w, zap.NewNop())
			require.NoError(t, err)

			names := make([]string, len(report.Phases))
			for i, p := range report.Phases {
				names[i] = p.Name
			}
			require.Equal(t, []string{
				"emplace", "insert", "scan", "lookup-hit", "lookup-miss", "erase", "erase-keys",
			}, names)

			byName := make(map[string]Phase)
			for _, p := range report.Phases {
				byName[p.Name] = p
			}
			// one resize per single mutation, one per batch
			require.EqualValues(t, w.Single, byName["emplace"].Resizes)
			require.EqualValues(t, 4, byName["insert"].Resizes)
			require.EqualValues(t, w.Single, byName["erase"].Resizes)
			require.EqualValues(t, 4, byName["erase-keys"].Resizes)
			require.Zero(t, byName["scan"].Resizes)
			require.Zero(t, byName["lookup-hit"].Resizes)

			require.Equal(t, w.Count, report.Full.Size)
			require.Equal(t, w.Count, report.Full.Capacity)
			require.Zero(t, report.Full.Sentinels)
			require.Zero(t, report.Final.Size)
			require.Zero(t, report.Final.Capacity)

			// values are the key indices
			sum := int64(w.Count*(w.Count-1)/2) * int64(w.ScanRounds)
			require.Equal(t, sum, report.Checksum)
			require.InDelta(t, float64(w.Count), report.MissCost, 0.001)
			require.Contains(t, report.Allocs, "live=0")
		})
	}
}

func TestRunWorkloadKeyCountMismatch(t *testing.T) {
	w := smallWorkload("int64", "default")
	keys, misses := int64Keys(10, 1, 1)
	_, err := runWorkload(w, keys, misses, nil, zap.NewNop())
	require.Error(t, err)
}

func TestRender(t *testing.T) {
	report, err := runConfigured(smallWorkload("int64", "default"), zap.NewNop())
	require.NoError(t, err)
	var buf bytes.Buffer
	render(&buf, report)
	out := buf.String()
	for _, want := range []string{"NS/OP", "lookup-miss", "erase-keys", "max displacement", "comparisons per miss: 300.0", "allocator: allocs="} {
		require.Contains(t, out, want)
	}
}

func TestRunFlags(t *testing.T) {
	var buf bytes.Buffer
	err := run([]string{"-keys", "string", "-count", "200"}, &buf)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "string keys")

	require.Error(t, run([]string{"-keys", "float"}, &buf))
	require.Error(t, run([]string{"-nope"}, &buf))
}
