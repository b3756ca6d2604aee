// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

package audit

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/samber/oops"

	"github.com/tweetgov/tweetgov/internal/xdg"
)

// DefaultWriteTimeout bounds a single write to the backing store.
const DefaultWriteTimeout = 2 * time.Second

// Writer persists entries to a backend.
type Writer interface {
	Write(ctx context.Context, entry Entry) error
	Close() error
}

// Sink accepts audit entries from the domain services. It never returns an
// error to its caller: an entry the writer rejects goes to a JSONL write-ahead
// log, and an entry the WAL rejects is reported through slog.
type Sink struct {
	writer       Writer
	walPath      string
	walMu        sync.Mutex
	writeTimeout time.Duration
	minLevel     Level
	now          func() time.Time
	diag         *slog.Logger
}

// Option configures a Sink.
type Option func(*Sink)

// WithWALPath sets the write-ahead log location.
func WithWALPath(path string) Option {
	return func(s *Sink) { s.walPath = path }
}

// WithWriteTimeout bounds each writer call. Non-positive values are ignored.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Sink) {
		if d > 0 {
			s.writeTimeout = d
		}
	}
}

// WithMinLevel drops entries less severe than level. The default keeps all.
func WithMinLevel(level Level) Option {
	return func(s *Sink) {
		if level.Valid() {
			s.minLevel = level
		}
	}
}

// WithClock sets the time source for entries emitted without a timestamp.
func WithClock(now func() time.Time) Option {
	return func(s *Sink) { s.now = now }
}

// WithDiagnosticLogger sets the slog logger used when both writer and WAL fail.
func WithDiagnosticLogger(l *slog.Logger) Option {
	return func(s *Sink) { s.diag = l }
}

// NewSink creates a Sink over writer. Without WithWALPath the WAL lives in
// the XDG state directory.
func NewSink(writer Writer, opts ...Option) *Sink {
	s := &Sink{
		writer:       writer,
		writeTimeout: DefaultWriteTimeout,
		minLevel:     LevelDebug,
		now:          time.Now,
		diag:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.walPath == "" {
		s.walPath = defaultWALPath(s.diag)
	}
	return s
}

func defaultWALPath(diag *slog.Logger) string {
	stateDir, err := xdg.StateDir()
	if err != nil {
		diag.Error("failed to get state directory for audit WAL", "error", err)
		return filepath.Join(os.TempDir(), "tweetgov-audit-wal.jsonl")
	}
	if err := xdg.EnsureDir(stateDir); err != nil {
		diag.Error("failed to ensure state directory", "error", err)
	}
	return filepath.Join(stateDir, "audit-wal.jsonl")
}

// WALPath returns the write-ahead log location.
func (s *Sink) WALPath() string { return s.walPath }

// EmitOption adjusts an entry before it is written.
type EmitOption func(*Entry)

// At sets the entry timestamp instead of the sink clock.
func At(t time.Time) EmitOption {
	return func(e *Entry) { e.Timestamp = t }
}

// With attaches structured fields as alternating key/value pairs.
func With(args ...any) EmitOption {
	return func(e *Entry) {
		for k, v := range fieldsOf(args) {
			if e.Fields == nil {
				e.Fields = make(map[string]any)
			}
			e.Fields[k] = v
		}
	}
}

// Emit records one entry. It returns after the entry is stored, spooled to
// the WAL, or reported as lost. Caller cancellation does not abort the write.
func (s *Sink) Emit(ctx context.Context, level Level, category Category, source, message string, opts ...EmitOption) {
	entry := Entry{
		Level:    level,
		Category: category,
		Source:   source,
		Message:  message,
	}
	for _, opt := range opts {
		opt(&entry)
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}
	entry.Timestamp = entry.Timestamp.UTC()

	if err := entry.validate(); err != nil {
		s.diag.ErrorContext(ctx, "audit entry dropped",
			"error", err,
			"source", source,
			"message", message,
		)
		failuresCounter.WithLabelValues("invalid_entry").Inc()
		return
	}
	if !entry.Level.AtLeast(s.minLevel) {
		return
	}

	if err := s.write(ctx, entry); err != nil {
		if walErr := s.writeToWAL(entry); walErr != nil {
			s.diag.ErrorContext(ctx, "audit write failed: both store and WAL failed",
				"store_error", err,
				"wal_error", walErr,
				"level", entry.Level,
				"type", entry.Category,
				"module", entry.Source,
				"asctime", entry.AscTime(),
				"message", entry.Message,
			)
			failuresCounter.WithLabelValues("wal_failed").Inc()
			return
		}
		s.diag.WarnContext(ctx, "audit write failed, entry spooled to WAL",
			"error", err,
			"wal_path", s.walPath,
		)
		failuresCounter.WithLabelValues("write_failed").Inc()
		return
	}
	emittedCounter.WithLabelValues(string(entry.Category)).Inc()
}

func (s *Sink) write(ctx context.Context, entry Entry) error {
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.writeTimeout)
	defer cancel()
	return s.writer.Write(wctx, entry)
}

func (s *Sink) writeToWAL(entry Entry) error {
	data, err := json.Marshal(entry.Record())
	if err != nil {
		return oops.With("operation", "marshal WAL entry").Wrap(err)
	}

	s.walMu.Lock()
	defer s.walMu.Unlock()
	if err := s.appendWAL(append(data, '\n')); err != nil {
		return err
	}
	walEntriesGauge.Inc()
	return nil
}

// walAppendAttempts bounds how often appendWAL chases a WAL that a replay
// claimed between open and write.
const walAppendAttempts = 3

// appendWAL appends lines to the live WAL. The file is opened per call, so a
// replay in another process that renamed the WAL away never receives writes
// after it has read the file. Lines that landed in a claimed file are
// appended again to the new live WAL: a replay may then store them twice,
// but never loses them.
func (s *Sink) appendWAL(lines []byte) error {
	for attempt := 1; ; attempt++ {
		file, err := os.OpenFile(s.walPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY|os.O_SYNC, 0o600)
		if err != nil {
			return oops.With("path", s.walPath).Wrap(err)
		}
		_, writeErr := file.Write(lines)
		written, statErr := file.Stat()
		if err := errors.Join(writeErr, file.Close()); err != nil {
			return oops.With("path", s.walPath).Wrap(err)
		}

		current, err := os.Stat(s.walPath)
		if statErr == nil && err == nil && os.SameFile(written, current) {
			return nil
		}
		if attempt == walAppendAttempts {
			return oops.Code("AUDIT_WAL_CLAIMED").
				With("path", s.walPath).
				Errorf("WAL replaced %d times while appending", attempt)
		}
	}
}

// ReplayWAL re-sends spooled entries to the writer and returns how many were
// stored. The live WAL is first renamed to a replay file, so entries other
// processes spool meanwhile go to a fresh WAL. Entries that still fail are
// appended back to the live WAL; unreadable lines are reported and discarded.
// A replay file left by an interrupted replay is finished before the live WAL
// is claimed again.
func (s *Sink) ReplayWAL(ctx context.Context) (int, error) {
	s.walMu.Lock()
	defer s.walMu.Unlock()

	replayPath := s.walPath + ReplaySuffix
	if err := s.claimWAL(ctx, replayPath); err != nil {
		return 0, err
	}

	data, err := os.ReadFile(replayPath)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, oops.With("path", replayPath).Wrap(err)
	}

	var (
		replayed int
		keep     bytes.Buffer
	)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			s.diag.ErrorContext(ctx, "failed to unmarshal WAL entry", "error", err, "line", string(line))
			failuresCounter.WithLabelValues("wal_unmarshal_failed").Inc()
			continue
		}
		entry, err := rec.Entry()
		if err != nil {
			s.diag.ErrorContext(ctx, "invalid WAL entry", "error", err, "line", string(line))
			failuresCounter.WithLabelValues("wal_unmarshal_failed").Inc()
			continue
		}

		if err := s.write(ctx, entry); err != nil {
			s.diag.ErrorContext(ctx, "failed to replay WAL entry", "error", err, "asctime", rec.AscTime)
			failuresCounter.WithLabelValues("wal_replay_failed").Inc()
			keep.Write(line)
			keep.WriteByte('\n')
			continue
		}
		replayed++
	}
	if err := scanner.Err(); err != nil {
		return replayed, oops.With("path", replayPath).Wrap(err)
	}

	remaining := bytes.Count(keep.Bytes(), []byte{'\n'})
	if remaining > 0 {
		// The replay file stays in place for the next run if this fails.
		if err := s.appendWAL(keep.Bytes()); err != nil {
			return replayed, oops.With("replay_path", replayPath).Wrap(err)
		}
	}
	if err := os.Remove(replayPath); err != nil && !os.IsNotExist(err) {
		return replayed, oops.With("path", replayPath).Wrap(err)
	}

	walEntriesGauge.Set(float64(s.liveWALEntries()))
	s.diag.InfoContext(ctx, "replayed audit WAL", "replayed", replayed, "remaining", remaining)
	return replayed, nil
}

// ReplaySuffix names the file a replay claims the WAL into.
const ReplaySuffix = ".replaying"

// claimWAL renames the live WAL to replayPath unless an earlier replay left
// one behind. A missing WAL is not an error.
func (s *Sink) claimWAL(ctx context.Context, replayPath string) error {
	if _, err := os.Stat(replayPath); err == nil {
		s.diag.WarnContext(ctx, "resuming interrupted WAL replay", "path", replayPath)
		return nil
	}
	if err := os.Rename(s.walPath, replayPath); err != nil && !os.IsNotExist(err) {
		return oops.With("path", s.walPath).With("replay_path", replayPath).Wrap(err)
	}
	return nil
}

func (s *Sink) liveWALEntries() int {
	data, err := os.ReadFile(s.walPath)
	if err != nil {
		return 0
	}
	return bytes.Count(data, []byte{'\n'})
}

// Close closes the writer.
func (s *Sink) Close() error {
	if err := s.writer.Close(); err != nil {
		return oops.Wrap(err)
	}
	return nil
}

// For returns a logger bound to one category and source.
func (s *Sink) For(category Category, source string) *Logger {
	return &Logger{sink: s, category: category, source: source}
}

// Logger emits entries for a fixed category and source.
type Logger struct {
	sink     *Sink
	category Category
	source   string
}

// Info emits an INFO entry. args are alternating key/value fields.
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.sink.Emit(ctx, LevelInfo, l.category, l.source, msg, With(args...))
}

// Warn emits a WARNING entry.
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.sink.Emit(ctx, LevelWarning, l.category, l.source, msg, With(args...))
}

// Error emits an ERROR entry.
func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	l.sink.Emit(ctx, LevelError, l.category, l.source, msg, With(args...))
}

// fieldsOf turns slog-style alternating pairs into a map. A trailing value
// without a key is kept under "!BADKEY", the way slog does.
func fieldsOf(args []any) map[string]any {
	if len(args) == 0 {
		return nil
	}
	out := make(map[string]any, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			out["!BADKEY"] = args[i]
			break
		}
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		out[key] = args[i+1]
	}
	return out
}
