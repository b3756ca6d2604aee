// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

package audit

import (
	"context"
	"log/slog"

	"github.com/tweetgov/tweetgov/pkg/errutil"
)

// Reader lists stored entries in write order. A nil category lists everything.
type Reader interface {
	List(ctx context.Context, category *Category) ([]Entry, error)
}

// QueryService answers log queries.
type QueryService struct {
	reader Reader
	logger *slog.Logger
}

// NewQueryService creates a QueryService over reader.
func NewQueryService(reader Reader, logger *slog.Logger) *QueryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryService{reader: reader, logger: logger}
}

// GetLogs returns the stored entries of category, oldest first. An empty
// category returns every entry. An unknown category fails with InvalidArgument.
func (q *QueryService) GetLogs(ctx context.Context, category string) ([]View, error) {
	var filter *Category
	if category != "" {
		c, err := ParseCategory(category)
		if err != nil {
			return nil, err
		}
		filter = &c
	}

	entries, err := q.reader.List(ctx, filter)
	if err != nil {
		return nil, errutil.Internal(q.logger, "list audit logs", err)
	}

	views := make([]View, 0, len(entries))
	for _, e := range entries {
		views = append(views, viewOf(e))
	}
	return views, nil
}
