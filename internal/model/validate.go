package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hay-kot/criterio"
)

var (
	ErrRequired    = errors.New("model: value is required")
	ErrTooLong     = errors.New("model: value is too long")
	ErrNegative    = errors.New("model: value must not be negative")
	ErrNotPositive = errors.New("model: value must be positive")
)

// textLength returns a criterio validator bounding the rune count of a
// string. A min of zero makes the value optional.
func textLength(min, max int) func(string) error {
	return func(v string) error {
		n := utf8.RuneCountInString(v)
		if min > 0 && strings.TrimSpace(v) == "" {
			return ErrRequired
		}
		if n < min {
			return fmt.Errorf("%w: at least %d characters", ErrRequired, min)
		}
		if n > max {
			return fmt.Errorf("%w: at most %d characters", ErrTooLong, max)
		}
		return nil
	}
}

func appendNonNegativeInt(errs criterio.FieldErrorsBuilder, field string, v int) criterio.FieldErrorsBuilder {
	if v < 0 {
		return errs.Append(field, fmt.Errorf("%w: %d", ErrNegative, v))
	}
	return errs
}

func appendNonNegativeFloat(errs criterio.FieldErrorsBuilder, field string, v float64) criterio.FieldErrorsBuilder {
	if v < 0 {
		return errs.Append(field, fmt.Errorf("%w: %g", ErrNegative, v))
	}
	return errs
}

func appendPositiveInt(errs criterio.FieldErrorsBuilder, field string, v int) criterio.FieldErrorsBuilder {
	if v <= 0 {
		return errs.Append(field, fmt.Errorf("%w: %d", ErrNotPositive, v))
	}
	return errs
}

func appendText(errs criterio.FieldErrorsBuilder, field, v string, min, max int) criterio.FieldErrorsBuilder {
	if err := textLength(min, max)(v); err != nil {
		return errs.Append(field, err)
	}
	return errs
}

// DateRange bounds a stats query. Both ends are inclusive.
type DateRange struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

func (r DateRange) Validate() error {
	var errs criterio.FieldErrorsBuilder
	if r.StartDate.IsZero() {
		errs = errs.Append("startDate", ErrRequired)
	}
	if r.EndDate.IsZero() {
		errs = errs.Append("endDate", ErrRequired)
	}
	if !r.StartDate.IsZero() && !r.EndDate.IsZero() && r.EndDate.Before(r.StartDate) {
		errs = errs.Append("endDate", errors.New("model: endDate is before startDate"))
	}
	return errs.ToError()
}

// Contains reports whether t lies within the range, ends included.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.StartDate) && !t.After(r.EndDate)
}
