package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/llxisdsh/cmap"
)

// render writes the phase table and the stats table of r.
func render(w io.Writer, r *Report) {
	fmt.Fprintf(w, "compact map workload, %s keys\n", r.Keys)

	phases := tablewriter.NewWriter(w)
	phases.SetHeader([]string{"phase", "ops", "elapsed", "ns/op", "resizes"})
	phases.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, p := range r.Phases {
		phases.Append([]string{
			p.Name,
			strconv.Itoa(p.Ops),
			p.Elapsed.Round(time.Microsecond).String(),
			nsPerOp(p),
			strconv.FormatUint(uint64(p.Resizes), 10),
		})
	}
	phases.Render()

	stats := tablewriter.NewWriter(w)
	stats.SetHeader([]string{"stat", "populated", "drained"})
	stats.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, row := range statRows(r.Full, r.Final) {
		stats.Append(row)
	}
	stats.Render()

	fmt.Fprintf(w, "comparisons per miss: %.1f\n", r.MissCost)
	if r.Allocs != "" {
		fmt.Fprintf(w, "allocator: %s\n", r.Allocs)
	}
}

func nsPerOp(p Phase) string {
	if p.Ops == 0 {
		return "-"
	}
	return strconv.FormatFloat(float64(p.Elapsed.Nanoseconds())/float64(p.Ops), 'f', 1, 64)
}

func statRows(full, final *cmap.MapStats) [][]string {
	row := func(name string, get func(*cmap.MapStats) string) []string {
		return []string{name, get(full), get(final)}
	}
	itoa := strconv.Itoa
	return [][]string{
		row("size", func(s *cmap.MapStats) string { return itoa(s.Size) }),
		row("capacity", func(s *cmap.MapStats) string { return itoa(s.Capacity) }),
		row("sentinels", func(s *cmap.MapStats) string { return itoa(s.Sentinels) }),
		row("resizes", func(s *cmap.MapStats) string { return strconv.FormatUint(uint64(s.TotalResizes), 10) }),
		row("growths", func(s *cmap.MapStats) string { return strconv.FormatUint(uint64(s.TotalGrowths), 10) }),
		row("shrinks", func(s *cmap.MapStats) string { return strconv.FormatUint(uint64(s.TotalShrinks), 10) }),
		row("max displacement", func(s *cmap.MapStats) string { return itoa(s.MaxDisplacement) }),
		row("slots per cache line", func(s *cmap.MapStats) string {
			return strconv.FormatFloat(s.SlotsPerCacheLine, 'f', 2, 64)
		}),
	}
}
