// Package apperr defines the error kinds shared by the stores, the location
// enricher and the analytics services.
package apperr

import (
	"errors"
	"strings"
)

// Error kinds. Match with errors.Is.
var (
	ErrValidation      = errors.New("validation error")
	ErrNotFound        = errors.New("not found")
	ErrExternalService = errors.New("external service error")
	ErrStore           = errors.New("store error")
)

// Error is a classified failure. Kind is one of the sentinels above.
type Error struct {
	Kind error
	Op   string
	Key  string // offending field, validation errors only
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Msg != "" {
		b.WriteString(e.Msg)
	} else if e.Kind != nil {
		b.WriteString(e.Kind.Error())
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Validation reports a malformed or missing field.
func Validation(op, key, msg string) error {
	return &Error{Kind: ErrValidation, Op: op, Key: key, Msg: msg}
}

// NotFound reports a missing record of the given kind.
func NotFound(op, what, id string) error {
	return &Error{Kind: ErrNotFound, Op: op, Msg: what + " " + id + " not found"}
}

// External wraps a failure of a third-party service.
func External(op string, err error) error {
	return &Error{Kind: ErrExternalService, Op: op, Err: err}
}

// Store wraps a persistence failure.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: ErrStore, Op: op, Err: err}
}

// KindName returns the taxonomy name used in API responses.
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "ValidationError"
	case errors.Is(err, ErrNotFound):
		return "NotFoundError"
	case errors.Is(err, ErrExternalService):
		return "ExternalServiceError"
	case errors.Is(err, ErrStore):
		return "StoreError"
	default:
		return "InternalError"
	}
}

// FieldOf returns the offending field of a validation error, if any.
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Key
	}
	return ""
}
