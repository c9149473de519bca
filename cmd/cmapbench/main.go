// Command cmapbench runs a component-table workload against the compact
// map and reports the cost of every phase.
//
// Profiling:
//
//	go build ./cmd/cmapbench
//	./cmapbench -profile mem
//	go tool pprof -http=":8000" ./cmapbench mem.pprof
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pkg/profile"
	"go.uber.org/zap"

	"github.com/llxisdsh/cmap"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "cmapbench:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("cmapbench", flag.ContinueOnError)
	configPath := fs.String("config", "", "TOML workload file")
	keys := fs.String("keys", "", "override workload.keys (int64 or string)")
	count := fs.Int("count", 0, "override workload.count")
	profileMode := fs.String("profile", "", "override profile.mode (cpu or mem)")
	debug := fs.Bool("debug", false, "log at debug level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = LoadConfig(*configPath); err != nil {
			return err
		}
	}
	if *keys != "" {
		cfg.Workload.Keys = *keys
	}
	if *count > 0 {
		cfg.Workload.Count = *count
		cfg.Workload.Single = min(cfg.Workload.Single, *count)
	}
	if *profileMode != "" {
		cfg.Profile.Mode = *profileMode
	}
	if *debug {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := cfg.Log.NewLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if stop := startProfile(cfg.Profile); stop != nil {
		defer stop()
	}

	logger.Info("starting workload",
		zap.String("keys", cfg.Workload.Keys),
		zap.Int("count", cfg.Workload.Count),
		zap.Int("single", cfg.Workload.Single),
		zap.Int("batch", cfg.Workload.Batch),
		zap.String("hash", cfg.Workload.Hash))

	report, err := runConfigured(cfg.Workload, logger)
	if err != nil {
		logger.Error("workload failed", zap.Error(err))
		return err
	}
	render(out, report)
	logger.Info("workload done", zap.Int64("checksum", report.Checksum))
	return nil
}

// runConfigured instantiates the table for the configured key kind.
func runConfigured(w WorkloadConfig, logger *zap.Logger) (*Report, error) {
	switch w.Keys {
	case "int64":
		keys, misses := int64Keys(w.Count, w.Misses, w.Seed)
		var hash cmap.HashFunc[int64]
		if w.Hash == "fibonacci" {
			hash = cmap.FibonacciHash[int64]()
		}
		return runWorkload(w, keys, misses, hash, logger)
	case "string":
		keys, misses := stringKeys(w.Count, w.Misses, w.Seed)
		return runWorkload[string](w, keys, misses, nil, logger)
	default:
		return nil, fmt.Errorf("unsupported key kind %q", w.Keys)
	}
}

func startProfile(c ProfileConfig) func() {
	var mode func(*profile.Profile)
	switch c.Mode {
	case "cpu":
		mode = profile.CPUProfile
	case "mem":
		mode = profile.MemProfileAllocs
	default:
		return nil
	}
	p := profile.Start(mode, profile.ProfilePath(c.Path), profile.NoShutdownHook, profile.Quiet)
	return p.Stop
}
