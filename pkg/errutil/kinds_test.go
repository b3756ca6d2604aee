// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

package errutil_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tweetgov/tweetgov/pkg/errutil"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"not found", errutil.NotFound("post", "01ABC"), errutil.CodeNotFound},
		{"wrapped not found", oops.Wrapf(errutil.NotFound("post", "01ABC"), "get post"), errutil.CodeNotFound},
		{"invalid argument", errutil.InvalidArgument("data", "too long"), errutil.CodeInvalidArgument},
		{"invalid state", errutil.InvalidState("request %s already decided", "01ABC"), errutil.CodeInvalidState},
		{"permission denied", errutil.PermissionDenied("decide"), errutil.CodePermissionDenied},
		{"unknown", errors.New("connection refused"), errutil.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errutil.Kind(tt.err))
		})
	}
}

func TestInternal_HidesDetailAndLogsIt(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	cause := oops.With("table", "posts").Errorf("connection reset by peer")
	err := errutil.Internal(logger, "update post", cause)

	require.ErrorIs(t, err, errutil.ErrInternal)
	assert.NotContains(t, err.Error(), "connection reset")
	assert.Contains(t, buf.String(), "connection reset by peer")
	assert.Contains(t, buf.String(), "update post failed")
	errutil.AssertErrorCode(t, err, errutil.CodeInternal)
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "internal error", errutil.PublicMessage(errors.New("pq: relation does not exist")))
	assert.Contains(t, errutil.PublicMessage(errutil.InvalidArgument("type", "unknown log type")), "unknown log type")
	assert.Empty(t, errutil.PublicMessage(nil))
}
