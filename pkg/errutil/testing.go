// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

package errutil

import (
	"errors"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertErrorCode asserts that err is an oops error with the given code.
func AssertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected oops error, got %T", err)
	assert.Equal(t, code, oopsErr.Code())
}

// AssertErrorContext asserts that err is an oops error with the given context key/value.
func AssertErrorContext(t *testing.T, err error, key string, value any) {
	t.Helper()
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected oops error, got %T", err)
	ctx := oopsErr.Context()
	assert.Contains(t, ctx, key)
	assert.Equal(t, value, ctx[key])
}

// AssertKind asserts that err wraps kind and reports the matching code, so
// the CLI exit status and message agree with the sentinel.
func AssertKind(t *testing.T, err error, kind error) {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, kind)
	assert.Equal(t, Kind(kind), Kind(err))
	if kind == ErrInternal {
		assert.Equal(t, "internal error", PublicMessage(err))
	}
	assert.False(t, errors.Is(err, ErrInternal) && IsExpected(err), "error mixes internal and expected kinds")
}
