// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tweetgov/tweetgov/internal/audit"
	"github.com/tweetgov/tweetgov/pkg/errutil"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func noEnv(string) string { return "" }

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("", newFlags(t), noEnv)
	require.NoError(t, err)
	assert.Equal(t, DefaultLogFormat, cfg.LogFormat)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, audit.DefaultWriteTimeout, cfg.Audit.WriteTimeout)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.Audit.WALPath)
	assert.Equal(t, "DEBUG", cfg.Audit.MinLevel)
}

func TestLoad_FileThenFlags(t *testing.T) {
	path := writeFile(t, `
database_url: postgres://file/db
log_format: json
timeout: 5s
audit:
  wal_path: /var/lib/tweetgov/wal.jsonl
  write_timeout: 750ms
  min_level: WARNING
metrics_file: /tmp/tweetgov.prom
`)

	t.Run("file values beat flag defaults", func(t *testing.T) {
		cfg, err := Load(path, newFlags(t), noEnv)
		require.NoError(t, err)
		assert.Equal(t, "postgres://file/db", cfg.DatabaseURL)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
		assert.Equal(t, "/var/lib/tweetgov/wal.jsonl", cfg.Audit.WALPath)
		assert.Equal(t, 750*time.Millisecond, cfg.Audit.WriteTimeout)
		assert.Equal(t, "/tmp/tweetgov.prom", cfg.MetricsFile)
		assert.Equal(t, "WARNING", cfg.Audit.MinLevel)
	})

	t.Run("explicit flags beat the file", func(t *testing.T) {
		cfg, err := Load(path, newFlags(t, "--log-format=text", "--audit-write-timeout=3s", "--database-url=postgres://flag/db", "--audit-min-level=error"), noEnv)
		require.NoError(t, err)
		assert.Equal(t, "error", cfg.Audit.MinLevel)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, 3*time.Second, cfg.Audit.WriteTimeout)
		assert.Equal(t, "postgres://flag/db", cfg.DatabaseURL)
		assert.Equal(t, "/var/lib/tweetgov/wal.jsonl", cfg.Audit.WALPath)
	})
}

func TestLoad_DatabaseURLFromEnv(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	env := func(key string) string {
		if key == DatabaseURLEnv {
			return "postgres://env/db"
		}
		return ""
	}

	cfg, err := Load("", newFlags(t), env)
	require.NoError(t, err)
	assert.Equal(t, "postgres://env/db", cfg.DatabaseURL)

	cfg, err = Load("", newFlags(t, "--database-url=postgres://flag/db"), env)
	require.NoError(t, err)
	assert.Equal(t, "postgres://flag/db", cfg.DatabaseURL)
}

func TestLoad_DefaultFileFromXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "tweetgov"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tweetgov", "config.yaml"), []byte("log_level: debug\n"), 0o600))

	cfg, err := Load("", newFlags(t), noEnv)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), newFlags(t), noEnv)
		errutil.AssertErrorCode(t, err, "CONFIG_LOAD_FAILED")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeFile(t, "log_format: [unterminated"), newFlags(t), noEnv)
		errutil.AssertErrorCode(t, err, "CONFIG_LOAD_FAILED")
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			DatabaseURL: "postgres://localhost/tweetgov",
			LogFormat:   "json",
			LogLevel:    "info",
			Timeout:     time.Second,
			Audit:       Audit{WriteTimeout: time.Second},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing database url", mutate: func(c *Config) { c.DatabaseURL = " " }, field: "database_url"},
		{name: "unknown log format", mutate: func(c *Config) { c.LogFormat = "xml" }, field: "log_format"},
		{name: "unknown log level", mutate: func(c *Config) { c.LogLevel = "loud" }, field: "log_level"},
		{name: "zero timeout", mutate: func(c *Config) { c.Timeout = 0 }, field: "timeout"},
		{name: "audit level names are case-insensitive", mutate: func(c *Config) { c.Audit.MinLevel = "warn" }},
		{name: "unknown audit level", mutate: func(c *Config) { c.Audit.MinLevel = "TRACE" }, field: "audit.min_level"},
		{name: "negative write timeout", mutate: func(c *Config) { c.Audit.WriteTimeout = -time.Second }, field: "audit.write_timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, errutil.ErrInvalidArgument)
			errutil.AssertErrorContext(t, err, "field", tt.field)
		})
	}
}

func TestConfig_Logging(t *testing.T) {
	cfg := Config{LogFormat: "json", LogLevel: "warn"}
	opts := cfg.Logging("1.2.3")
	assert.Equal(t, "tweetgov", opts.Service)
	assert.Equal(t, "1.2.3", opts.Version)
	assert.Equal(t, "json", opts.Format)
	assert.Equal(t, "warn", opts.Level)
}
