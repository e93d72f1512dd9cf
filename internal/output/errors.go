package output

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidKind reports a parameter of the wrong kind, e.g. a string
	// where a boolean is required.
	ErrInvalidKind = errors.New("invalid parameter kind")

	// ErrOutOfRange reports a parameter with an acceptable kind but an
	// unusable value: negative pacing, non-positive queue bound, or an
	// unresolvable color.
	ErrOutOfRange = errors.New("parameter out of range")

	// ErrWorkerFailed wraps the destination error that terminated a worker.
	ErrWorkerFailed = errors.New("printer worker failed")
)

// ParamError describes a rejected print or configuration parameter.
type ParamError struct {
	Param  string
	Kind   error // ErrInvalidKind or ErrOutOfRange
	Reason string
	Err    error // optional cause
}

func (e *ParamError) Error() string {
	msg := fmt.Sprintf("parameter %s: %s", e.Param, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *ParamError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func kindError(param, reason string) error {
	return &ParamError{Param: param, Kind: ErrInvalidKind, Reason: reason}
}

func rangeError(param, reason string, cause error) error {
	return &ParamError{Param: param, Kind: ErrOutOfRange, Reason: reason, Err: cause}
}
