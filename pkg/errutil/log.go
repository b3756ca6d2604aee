// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

package errutil

import (
	"context"
	"log/slog"

	"github.com/samber/oops"
)

// LogError logs err with its kind. Caller-recoverable kinds are logged at
// warn level, everything else at error level. For oops errors the code and
// context are attached as well.
func LogError(logger *slog.Logger, msg string, err error) {
	level := slog.LevelError
	if IsExpected(err) {
		level = slog.LevelWarn
	}

	attrs := []slog.Attr{
		slog.String("error", err.Error()),
		slog.String("kind", Kind(err)),
	}
	if oopsErr, ok := oops.AsOops(err); ok {
		if code := oopsErr.Code(); code != nil && code != Kind(err) {
			attrs = append(attrs, slog.Any("code", code))
		}
		if ctx := oopsErr.Context(); len(ctx) > 0 {
			attrs = append(attrs, slog.Any("context", ctx))
		}
	}
	logger.LogAttrs(context.Background(), level, msg, attrs...)
}
