package gaussmap

import (
	"errors"
	"fmt"
)

// Sentinel errors. Typed errors below wrap them so callers can use errors.Is.
var (
	// ErrSyntax is matched by every *ParseError.
	ErrSyntax = errors.New("gaussmap: syntax error")
	// ErrRange is matched by every *RangeError.
	ErrRange = errors.New("gaussmap: invalid range")
	// ErrUnboundSymbol is returned when compiling an expression that
	// references a variable not bound to an argument.
	ErrUnboundSymbol = errors.New("gaussmap: unbound symbol")
	// ErrUnknownSurface is returned by Lookup for names not in the catalog.
	ErrUnknownSurface = errors.New("gaussmap: unknown surface")
	// ErrConfig is returned for invalid configuration values.
	ErrConfig = errors.New("gaussmap: invalid config")
	// ErrNilSurface is returned by NewNormalField when given a nil surface.
	ErrNilSurface = errors.New("gaussmap: nil surface")
)

// ParseError reports malformed text in one input field.
type ParseError struct {
	Field string // "x", "y", "z", "u_min", ...
	Pos   int    // byte offset into the field, -1 if not applicable
	Msg   string

	nonFinite bool
	value     float64
}

func (e *ParseError) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("gaussmap: %s: %s at offset %d", e.Field, e.Msg, e.Pos)
	}
	return fmt.Sprintf("gaussmap: %s: %s", e.Field, e.Msg)
}

func (e *ParseError) Unwrap() error { return ErrSyntax }

// RangeError reports a bound that is not finite or a range with min >= max.
type RangeError struct {
	Field string
	Value float64
	Msg   string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("gaussmap: %s = %g: %s", e.Field, e.Value, e.Msg)
}

func (e *RangeError) Unwrap() error { return ErrRange }
