// Package errors provides typed errors for the loom runtime.
package errors

import (
	"errors"
	"fmt"
)

// Kind identifies the category of an error
type Kind int

const (
	// KindUnknown indicates an error of unknown type
	KindUnknown Kind = iota
	// KindConfig indicates invalid or unreadable configuration
	KindConfig
	// KindTerminal indicates a failed terminal write, flush or mode toggle
	KindTerminal
	// KindRender indicates a draw-time failure
	KindRender
	// KindInvariant indicates a programming error such as an ambiguous registration
	KindInvariant
	// KindPanic indicates a recovered panic
	KindPanic
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindTerminal:
		return "terminal"
	case KindRender:
		return "render"
	case KindInvariant:
		return "invariant"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Error is a structured error carrying the failed operation and its category
type Error struct {
	// Op is the operation that failed (e.g. "terminal.Draw")
	Op   string
	Kind Kind
	Err  error
}

// New creates an error of the given kind with a formatted message
func New(op string, kind Kind, format string, args ...any) *Error {
	return &Error{Op: op, Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Wrap wraps err with an operation and kind, returns nil when err is nil
func Wrap(err error, op string, kind Kind) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s [%s]", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether any error in err's chain is an *Error of the given kind
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Invariant panics with a KindInvariant error
// Used for programmer errors that make layout or routing ambiguous
func Invariant(op string, format string, args ...any) {
	panic(New(op, KindInvariant, format, args...))
}

// PanicError represents a recovered panic
type PanicError struct {
	// Op is the operation that panicked
	Op    string
	Value any
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
}
