// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

package audit

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/oops"

	"github.com/tweetgov/tweetgov/pkg/errutil"
)

// Level is the severity of an entry. Values match the names written to storage.
type Level string

// Severity levels.
const (
	LevelDebug   Level = "DEBUG"
	LevelInfo    Level = "INFO"
	LevelWarning Level = "WARNING"
	LevelError   Level = "ERROR"
)

// Valid reports whether l is a known level.
func (l Level) Valid() bool {
	switch l {
	case LevelDebug, LevelInfo, LevelWarning, LevelError:
		return true
	}
	return false
}

// ParseLevel validates s. Matching is case-insensitive and accepts "warn".
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToUpper(s))
	if l == "WARN" {
		l = LevelWarning
	}
	if !l.Valid() {
		return "", errutil.InvalidArgument("level", fmt.Sprintf("unknown audit level %q", s))
	}
	return l, nil
}

// AtLeast reports whether l is as severe as floor.
func (l Level) AtLeast(floor Level) bool {
	return levelRank[l] >= levelRank[floor]
}

var levelRank = map[Level]int{
	LevelDebug:   0,
	LevelInfo:    1,
	LevelWarning: 2,
	LevelError:   3,
}

// Category partitions the audit stream. It is stored as the record's "type".
type Category string

// Categories.
const (
	// CategoryAccess records reads of posts and user sign-ups.
	CategoryAccess Category = "access"
	// CategoryAction records mutations and moderation requests.
	CategoryAction Category = "action"
	// CategoryAudit records moderation decisions.
	CategoryAudit Category = "audit"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryAccess, CategoryAction, CategoryAudit}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryAccess, CategoryAction, CategoryAudit:
		return true
	}
	return false
}

// ParseCategory validates s. Matching is exact.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", errutil.InvalidArgument("type", fmt.Sprintf("unknown log type %q", s))
	}
	return c, nil
}

// TimeFormat is the layout of the asctime field, always rendered in UTC.
const TimeFormat = "2006-01-02 15:04:05"

// Entry is one audit event.
type Entry struct {
	Level     Level
	Category  Category
	Source    string
	Timestamp time.Time
	Message   string
	Fields    map[string]any
}

// AscTime renders the entry timestamp for the wire record.
func (e Entry) AscTime() string {
	return e.Timestamp.UTC().Format(TimeFormat)
}

// Record is the persisted shape of an entry: {level, type, module, asctime,
// message}. Timestamp keeps sub-second precision for replay.
type Record struct {
	Level     string         `json:"level"`
	Type      string         `json:"type"`
	Module    string         `json:"module"`
	AscTime   string         `json:"asctime"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Record converts e to its persisted shape.
func (e Entry) Record() Record {
	return Record{
		Level:     string(e.Level),
		Type:      string(e.Category),
		Module:    e.Source,
		AscTime:   e.AscTime(),
		Message:   e.Message,
		Fields:    e.Fields,
		Timestamp: e.Timestamp.UTC(),
	}
}

// Entry converts r back into an entry. Records written without a precise
// timestamp fall back to asctime.
func (r Record) Entry() (Entry, error) {
	ts := r.Timestamp
	if ts.IsZero() {
		parsed, err := time.ParseInLocation(TimeFormat, r.AscTime, time.UTC)
		if err != nil {
			return Entry{}, oops.With("asctime", r.AscTime).Wrap(err)
		}
		ts = parsed
	}
	e := Entry{
		Level:     Level(r.Level),
		Category:  Category(r.Type),
		Source:    r.Module,
		Timestamp: ts,
		Message:   r.Message,
		Fields:    r.Fields,
	}
	if err := e.validate(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (e Entry) validate() error {
	if !e.Category.Valid() {
		return oops.Code("AUDIT_INVALID_ENTRY").With("category", e.Category).Errorf("unknown category %q", e.Category)
	}
	if !e.Level.Valid() {
		return oops.Code("AUDIT_INVALID_ENTRY").With("level", e.Level).Errorf("unknown level %q", e.Level)
	}
	return nil
}

// View is the projection returned by log queries.
type View struct {
	Category  Category  `json:"type"`
	Message   string    `json:"message"`
	AscTime   string    `json:"asctime"`
	Timestamp time.Time `json:"-"`
}

func viewOf(e Entry) View {
	return View{
		Category:  e.Category,
		Message:   e.Message,
		AscTime:   e.AscTime(),
		Timestamp: e.Timestamp,
	}
}
