// Package apierr carries the error taxonomy of the core as tagged Kind
// values. reliability.Pipeline reports an open circuit breaker as
// KindBreakerOpen; provider adapters and workers return their own wrapped
// errors rather than these kinds.
package apierr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation        Kind = "validation_error"
	KindRateLimited        Kind = "rate_limited"
	KindTransientRemote    Kind = "transient_remote"
	KindPermanentRemote    Kind = "permanent_remote"
	KindBreakerOpen        Kind = "breaker_open"
	KindConflict           Kind = "conflict"
	KindDataLossHazard     Kind = "data_loss_hazard"
	KindShutdownInProgress Kind = "shutdown_in_progress"
)

type Error struct {
	Status int
	Code   string
	Kind   Kind
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func Wrap(kind Kind, status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Kind: kind, Err: err}
}

func Validation(err error) *Error {
	return Wrap(KindValidation, 400, "validation_error", err)
}

func RateLimited(err error) *Error {
	return Wrap(KindRateLimited, 429, "rate_limited", err)
}

func TransientRemote(err error) *Error {
	return Wrap(KindTransientRemote, 503, "transient_remote", err)
}

func PermanentRemote(err error) *Error {
	return Wrap(KindPermanentRemote, 502, "permanent_remote", err)
}

func BreakerOpen(err error) *Error {
	return Wrap(KindBreakerOpen, 503, "breaker_open", err)
}

func Conflict(err error) *Error {
	return Wrap(KindConflict, 409, "conflict", err)
}

func DataLossHazard(err error) *Error {
	return Wrap(KindDataLossHazard, 500, "data_loss_hazard", err)
}

func ShutdownInProgress() *Error {
	return Wrap(KindShutdownInProgress, 503, "shutdown_in_progress", errors.New("shutdown in progress"))
}

// Is reports whether err carries the given taxonomy kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func StatusFor(err error) int {
	var e *Error
	if errors.As(err, &e) {
		if e.Status != 0 {
			return e.Status
		}
	}
	return 500
}
