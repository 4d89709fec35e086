package compute

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel kinds. Every error returned by this package matches exactly one of
// them with errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrParse      = errors.New("parse error")
	ErrDomain     = errors.New("domain error")
)

// ValidationError reports an input outside its allowed domain.
// Value holds the rejected number when there is one.
type ValidationError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Reason
	}
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Reason)
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ParseError reports a token that could not be read as a number.
// Position is the 1-based list index or CSV row; zero means unknown.
type ParseError struct {
	Token    string
	Position int
	Reason   string
}

func (e *ParseError) Error() string {
	if e.Position > 0 {
		return fmt.Sprintf("parse error: %q at position %d: %s", e.Token, e.Position, e.Reason)
	}
	return fmt.Sprintf("parse error: %q: %s", e.Token, e.Reason)
}

// Is reports whether target is ErrParse.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// DomainError reports a mathematically undefined operation.
type DomainError struct {
	Op     string
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("domain error: %s: %s", e.Op, e.Reason)
}

// Is reports whether target is ErrDomain.
func (e *DomainError) Is(target error) bool { return target == ErrDomain }

// Kind returns "validation", "parse", "domain" or "internal" for err.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrDomain):
		return "domain"
	default:
		return "internal"
	}
}

// finite returns a DomainError if any of vs is NaN or ±Inf.
func finite(op string, vs ...float64) error {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &DomainError{Op: op, Reason: "result is not a finite number"}
		}
	}
	return nil
}
