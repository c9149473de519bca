package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "int64", cfg.Workload.Keys)
	require.True(t, cfg.Workload.CountAllocs)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workload.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[workload]
keys = "string"
count = 300
single = 40
batch = 64

[log]
level = "debug"
format = "json"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "string", cfg.Workload.Keys)
	require.Equal(t, 300, cfg.Workload.Count)
	require.Equal(t, 40, cfg.Workload.Single)
	require.Equal(t, 64, cfg.Workload.Batch)
	// untouched keys keep their defaults
	require.Equal(t, DefaultConfig().Workload.ScanRounds, cfg.Workload.ScanRounds)
	require.Equal(t, "default", cfg.Workload.Hash)
	require.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := writeConfig(t, `
[workload]
cuont = 10
`)
	_, err := LoadConfig(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown keys")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"keys", func(c *Config) { c.Workload.Keys = "float" }, "workload.keys"},
		{"hash", func(c *Config) { c.Workload.Hash = "md5" }, "workload.hash"},
		{"fibonacci strings", func(c *Config) {
			c.Workload.Keys = "string"
			c.Workload.Hash = "fibonacci"
		}, "fibonacci needs int64"},
		{"count", func(c *Config) { c.Workload.Count = 0 }, "workload.count"},
		{"single", func(c *Config) { c.Workload.Single = c.Workload.Count + 1 }, "workload.single"},
		{"batch", func(c *Config) { c.Workload.Batch = 0 }, "workload.batch"},
		{"misses", func(c *Config) { c.Workload.Misses = -1 }, "must not be negative"},
		{"profile", func(c *Config) { c.Profile.Mode = "trace" }, "profile.mode"},
		{"level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		logger, err := LogConfig{Level: "warn", Format: format}.NewLogger()
		require.NoError(t, err)
		require.False(t, logger.Core().Enabled(zapcore.InfoLevel))
		require.True(t, logger.Core().Enabled(zapcore.WarnLevel))
	}
}
