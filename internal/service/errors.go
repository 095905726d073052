package service

import (
	"errors"
	"fmt"

	"github.com/hay-kot/criterio"
)

type Kind string

const (
	KindValidation Kind = "VALIDATION_ERROR"
	KindNotFound   Kind = "NOT_FOUND"
	KindInternal   Kind = "INTERNAL_ERROR"
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the typed failure every service method returns. Err carries the
// underlying cause and is never shown to API callers for internal errors.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Kind == KindInternal {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation wraps a model validation failure. Field errors produced by
// criterio are flattened into Fields.
func Validation(err error) *Error {
	out := &Error{Kind: KindValidation, Message: "Validation error", Err: err}
	var fe criterio.FieldErrors
	if errors.As(err, &fe) {
		for _, f := range fe {
			out.Fields = append(out.Fields, FieldError{Field: f.Field, Message: f.Err.Error()})
		}
		return out
	}
	if err != nil {
		out.Message = err.Error()
	}
	return out
}

// Invalid reports a single invalid field.
func Invalid(field, message string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: "Validation error",
		Fields:  []FieldError{{Field: field, Message: message}},
	}
}

func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Message: entity + " not found"}
}

// Internal hides cause behind a generic message for the operation.
func Internal(op string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: "Failed to " + op, Err: cause}
}

// KindOf returns the kind of a service error, or KindInternal for any other
// error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}

func IsValidation(err error) bool {
	return err != nil && KindOf(err) == KindValidation
}
