// Package errors provides error handling for apptrack.
//
// It re-exports github.com/cockroachdb/errors (stack traces, wrapping, hints,
// details, marks) and defines the client's error taxonomy. Every failure that
// crosses a package boundary is marked with one of the sentinels below so
// callers can branch with errors.Is regardless of how much context was added:
//
//	if errors.Is(err, errors.ErrNotFound) {
//	    // entity was deleted by another session
//	}
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	Mark           = crdb.Mark
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Taxonomy. Mark errors with these rather than wrapping them so the original
// message stays first in Error().
var (
	// ErrValidation indicates bad local input or a 400/422 from the server.
	ErrValidation = New("validation failed")

	// ErrUnauthorized indicates a missing, expired, or rejected token.
	ErrUnauthorized = New("unauthorized")

	// ErrNotFound indicates the entity no longer exists.
	ErrNotFound = New("not found")

	// ErrNetwork indicates the request never produced a response (transport
	// failure, timeout, cancelled context).
	ErrNetwork = New("network error")

	// ErrServer indicates any other non-2xx response.
	ErrServer = New("server error")
)

// Validationf returns a new error marked as ErrValidation.
func Validationf(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrValidation)
}

// NotFoundf returns a new error marked as ErrNotFound.
func NotFoundf(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrNotFound)
}

// Kind names the taxonomy bucket of err, or "" when err carries no mark.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case Is(err, ErrValidation):
		return "validation"
	case Is(err, ErrUnauthorized):
		return "unauthorized"
	case Is(err, ErrNotFound):
		return "not_found"
	case Is(err, ErrNetwork):
		return "network"
	case Is(err, ErrServer):
		return "server"
	default:
		return ""
	}
}
