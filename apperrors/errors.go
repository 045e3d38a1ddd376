package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an operation failure.
type Kind string

const (
	KindNotFound    Kind = "NOT_FOUND"
	KindConflict    Kind = "CONFLICT"
	KindValidation  Kind = "VALIDATION"
	KindConcurrency Kind = "CONCURRENCY"
)

// Error is the error type returned by every service operation. It carries the
// entity type, the id involved (0 when not applicable) and the offending field
// so callers can act without parsing messages.
type Error struct {
	Kind   Kind
	Entity string
	ID     uint
	Field  string
	Msg    string
	Err    error // underlying store error, if any
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Entity)
	if e.ID != 0 {
		msg += fmt.Sprintf("(%d)", e.ID)
	}
	if e.Field != "" {
		msg += fmt.Sprintf(" field %q", e.Field)
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound reports that a referenced id does not resolve.
func NotFound(entity string, id uint) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, ID: id, Msg: "not found"}
}

// Conflict reports a uniqueness or state-transition violation.
func Conflict(entity string, id uint, msg string) *Error {
	return &Error{Kind: KindConflict, Entity: entity, ID: id, Msg: msg}
}

// Validation reports a value outside its allowed domain.
func Validation(entity, field, msg string) *Error {
	return &Error{Kind: KindValidation, Entity: entity, Field: field, Msg: msg}
}

// Concurrency reports a transaction conflict detected by the store. It is the
// only kind a caller should retry automatically.
func Concurrency(entity string, err error) *Error {
	return &Error{Kind: KindConcurrency, Entity: entity, Msg: "transaction conflict, retry", Err: err}
}

func is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

func IsNotFound(err error) bool    { return is(err, KindNotFound) }
func IsConflict(err error) bool    { return is(err, KindConflict) }
func IsValidation(err error) bool  { return is(err, KindValidation) }
func IsConcurrency(err error) bool { return is(err, KindConcurrency) }
