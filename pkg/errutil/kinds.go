// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

package errutil

import (
	"errors"
	"log/slog"

	"github.com/samber/oops"
)

// Error codes shared by every tweetgov package.
const (
	CodeNotFound         = "NOT_FOUND"
	CodeInvalidState     = "INVALID_STATE"
	CodeInvalidArgument  = "INVALID_ARGUMENT"
	CodeInternal         = "INTERNAL"
	CodePermissionDenied = "PERMISSION_DENIED"
)

// Error kinds. Callers classify failures with errors.Is against these.
var (
	// ErrNotFound covers both missing entities and entities the caller may not see.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState is returned when a transition is attempted from a terminal state.
	ErrInvalidState = errors.New("invalid state")
	// ErrInvalidArgument is returned for malformed input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInternal hides a storage failure from the caller.
	ErrInternal = errors.New("internal error")
	// ErrPermissionDenied is returned when the caller's role does not allow the operation.
	ErrPermissionDenied = errors.New("permission denied")
)

// NotFound builds a NotFound error for the given resource.
func NotFound(resource, id string) error {
	return oops.Code(CodeNotFound).
		With("resource", resource).
		With("id", id).
		Wrapf(ErrNotFound, "%s %s", resource, id)
}

// InvalidArgument builds an InvalidArgument error naming the offending field.
func InvalidArgument(field, message string) error {
	return oops.Code(CodeInvalidArgument).
		With("field", field).
		Wrapf(ErrInvalidArgument, "%s: %s", field, message)
}

// InvalidState builds an InvalidState error.
func InvalidState(format string, args ...any) error {
	return oops.Code(CodeInvalidState).Wrapf(ErrInvalidState, format, args...)
}

// PermissionDenied builds a PermissionDenied error for an operation.
func PermissionDenied(operation string) error {
	return oops.Code(CodePermissionDenied).
		With("operation", operation).
		Wrapf(ErrPermissionDenied, "%s", operation)
}

// Internal records err through logger and returns a generic InternalError.
// The returned error carries no storage detail.
func Internal(logger *slog.Logger, operation string, err error) error {
	if logger == nil {
		logger = slog.Default()
	}
	LogError(logger, operation+" failed", err)
	return oops.Code(CodeInternal).
		With("operation", operation).
		Wrap(ErrInternal)
}

// IsExpected reports whether err is one of the caller-recoverable kinds.
func IsExpected(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrInvalidArgument) ||
		errors.Is(err, ErrPermissionDenied)
}

// Kind maps err to one of the Code* constants.
// Anything that is not a known kind is reported as CodeInternal.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrInvalidState):
		return CodeInvalidState
	case errors.Is(err, ErrInvalidArgument):
		return CodeInvalidArgument
	case errors.Is(err, ErrPermissionDenied):
		return CodePermissionDenied
	default:
		return CodeInternal
	}
}

// PublicMessage returns the caller-facing text for err.
// Expected kinds keep their detail; everything else is generic.
func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	if IsExpected(err) {
		return err.Error()
	}
	return "internal error"
}
