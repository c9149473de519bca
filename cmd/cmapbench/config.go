package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config is the TOML workload description.
type Config struct {
	Workload WorkloadConfig `toml:"workload"`
	Log      LogConfig      `toml:"log"`
	Profile  ProfileConfig  `toml:"profile"`
}

// WorkloadConfig selects the table shape and the phases' sizes.
type WorkloadConfig struct {
	// Keys is "int64" or "string".
	Keys string `toml:"keys"`
	// Count is the number of entries the table reaches.
	Count int `toml:"count"`
	// Single is how many of them go through Emplace and Erase one by
	// one; the rest use the batch operations.
	Single int `toml:"single"`
	// Batch is the batch size of Insert and EraseKeys.
	Batch int `toml:"batch"`
	// ScanRounds is the number of full scans.
	ScanRounds int `toml:"scan_rounds"`
	// Misses is the number of lookups of absent keys.
	Misses int `toml:"misses"`
	// Hash is "default" or "fibonacci" (int64 keys only).
	Hash string `toml:"hash"`
	// CountAllocs wraps the memory provider in a CountingAllocator.
	CountAllocs bool `toml:"count_allocs"`
	// Seed makes key generation reproducible.
	Seed uint64 `toml:"seed"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ProfileConfig configures github.com/pkg/profile.
type ProfileConfig struct {
	// Mode is "", "cpu" or "mem".
	Mode string `toml:"mode"`
	Path string `toml:"path"`
}

// DefaultConfig returns the workload used when no file is given.
func DefaultConfig() Config {
	return Config{
		Workload: WorkloadConfig{
			Keys:        "int64",
			Count:       20000,
			Single:      1000,
			Batch:       512,
			ScanRounds:  200,
			Misses:      200,
			Hash:        "default",
			CountAllocs: true,
			Seed:        1,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Profile: ProfileConfig{
			Path: ".",
		},
	}
}

// LoadConfig reads path over the defaults. Keys missing from the file
// keep their default value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("decode %s: unknown keys %v", path, undecoded)
	}
	return cfg, cfg.Validate()
}

// Validate checks the ranges and enumerations of the config.
func (c *Config) Validate() error {
	w := &c.Workload
	switch w.Keys {
	case "int64", "string":
	default:
		return fmt.Errorf("workload.keys: unsupported key kind %q", w.Keys)
	}
	switch w.Hash {
	case "default":
	case "fibonacci":
		if w.Keys != "int64" {
			return fmt.Errorf("workload.hash: fibonacci needs int64 keys, got %q", w.Keys)
		}
	default:
		return fmt.Errorf("workload.hash: unsupported hash %q", w.Hash)
	}
	if w.Count <= 0 {
		return fmt.Errorf("workload.count: must be positive, got %d", w.Count)
	}
	if w.Single < 0 || w.Single > w.Count {
		return fmt.Errorf("workload.single: must be in [0, %d], got %d", w.Count, w.Single)
	}
	if w.Batch <= 0 {
		return fmt.Errorf("workload.batch: must be positive, got %d", w.Batch)
	}
	if w.ScanRounds < 0 || w.Misses < 0 {
		return fmt.Errorf("workload: scan_rounds and misses must not be negative")
	}
	switch c.Profile.Mode {
	case "", "cpu", "mem":
	default:
		return fmt.Errorf("profile.mode: unsupported mode %q", c.Profile.Mode)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format: unsupported format %q", c.Log.Format)
	}
	return nil
}

// NewLogger builds the zap logger described by c.
func (c LogConfig) NewLogger() (*zap.Logger, error) {
	level, err := parseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Encoding = c.Format
	zc.Sampling = nil
	if c.Format == "console" {
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	logger, err := zc.Build(zap.AddStacktrace(zapcore.FatalLevel))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

func parseLevel(s string) (zapcore.Level, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, err
	}
	return level, nil
}
