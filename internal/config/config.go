// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

// Package config loads tweetgov settings from an optional YAML file and
// command-line flags. Flags win over the file; unset flags fall back to the
// file and then to the flag defaults.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/tweetgov/tweetgov/internal/audit"
	"github.com/tweetgov/tweetgov/internal/logging"
	"github.com/tweetgov/tweetgov/internal/xdg"
	"github.com/tweetgov/tweetgov/pkg/errutil"
)

// DatabaseURLEnv is read when neither the file nor the flags set a database URL.
const DatabaseURLEnv = "DATABASE_URL"

// Defaults.
const (
	DefaultLogFormat = "text"
	DefaultLogLevel  = "info"
	DefaultTimeout   = 30 * time.Second
)

// Config is the resolved configuration.
type Config struct {
	DatabaseURL string        `koanf:"database_url"`
	LogFormat   string        `koanf:"log_format"`
	LogLevel    string        `koanf:"log_level"`
	Timeout     time.Duration `koanf:"timeout"`
	Audit       Audit         `koanf:"audit"`
	// MetricsFile receives a Prometheus text dump when the command exits.
	MetricsFile string `koanf:"metrics_file"`
}

// Audit configures the audit sink.
type Audit struct {
	// WALPath defaults to the XDG state directory.
	WALPath      string        `koanf:"wal_path"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	// MinLevel drops less severe audit entries (DEBUG, INFO, WARNING, ERROR).
	// Empty keeps everything.
	MinLevel string `koanf:"min_level"`
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"database-url":        "database_url",
	"log-format":          "log_format",
	"log-level":           "log_level",
	"timeout":             "timeout",
	"audit-wal-path":      "audit.wal_path",
	"audit-write-timeout": "audit.write_timeout",
	"audit-min-level":     "audit.min_level",
	"metrics-file":        "metrics_file",
}

// RegisterFlags adds the configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("database-url", "", "PostgreSQL connection URL (default: $"+DatabaseURLEnv+")")
	fs.String("log-format", DefaultLogFormat, "diagnostic log format (json or text)")
	fs.String("log-level", DefaultLogLevel, "diagnostic log level (debug, info, warn, error)")
	fs.Duration("timeout", DefaultTimeout, "timeout for one command")
	fs.String("audit-wal-path", "", "audit write-ahead log (default: XDG_STATE_HOME/tweetgov/audit-wal.jsonl)")
	fs.Duration("audit-write-timeout", audit.DefaultWriteTimeout, "timeout for one audit write")
	fs.String("audit-min-level", string(audit.LevelDebug), "least severe audit level to store")
	fs.String("metrics-file", "", "write Prometheus metrics to this file on exit")
}

// Load reads path (or the default config file when path is empty and that
// file exists), then applies flags. getenv supplies the database URL fallback.
func Load(path string, flags *pflag.FlagSet, getenv func(string) string) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		path = defaultFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("path", path).Wrap(err)
		}
	}

	if flags != nil {
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("operation", "apply flags").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("operation", "decode").Wrap(err)
	}
	if cfg.DatabaseURL == "" && getenv != nil {
		cfg.DatabaseURL = getenv(DatabaseURLEnv)
	}
	return &cfg, nil
}

// defaultFile returns the XDG config file if it exists.
func defaultFile() string {
	path, err := xdg.DefaultConfigFile()
	if err != nil {
		return ""
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return ""
	}
	return path
}

// Validate reports the first invalid setting as InvalidArgument.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return errutil.InvalidArgument("database_url", "required (flag, config file or $"+DatabaseURLEnv+")")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return errutil.InvalidArgument("log_format", "must be 'json' or 'text', got '"+c.LogFormat+"'")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return errutil.InvalidArgument("log_level", "unknown level '"+c.LogLevel+"'")
	}
	if c.Timeout <= 0 {
		return errutil.InvalidArgument("timeout", "must be positive")
	}
	if c.Audit.WriteTimeout <= 0 {
		return errutil.InvalidArgument("audit.write_timeout", "must be positive")
	}
	if _, err := audit.ParseLevel(c.Audit.MinLevel); c.Audit.MinLevel != "" && err != nil {
		return errutil.InvalidArgument("audit.min_level", "unknown level '"+c.Audit.MinLevel+"'")
	}
	return nil
}

// Logging returns the logging options for c.
func (c *Config) Logging(version string) logging.Options {
	return logging.Options{
		Service: "tweetgov",
		Version: version,
		Format:  c.LogFormat,
		Level:   c.LogLevel,
	}
}
