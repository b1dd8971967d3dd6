package sapling

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a load failure.
type ErrorKind uint8

const (
	ErrIO        ErrorKind = iota + 1 // file missing or unreadable
	ErrSyntax                         // unbalanced delimiters, bad colons, empty spans
	ErrSchema                         // missing field, wrong shape, unknown type tag
	ErrReference                      // node ID reference with no matching node
	ErrCapacity                       // arena exhausted
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrIO:
		return "io"
	case ErrSyntax:
		return "syntax"
	case ErrSchema:
		return "schema"
	case ErrReference:
		return "reference"
	case ErrCapacity:
		return "capacity"
	default:
		return "unknown"
	}
}

// Error is the tagged error returned by every parse and load operation.
// Err is set only when an underlying error (usually from the OS) caused it.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func syntaxErrorf(offset int, format string, args ...any) error {
	return &Error{Kind: ErrSyntax, Msg: fmt.Sprintf(format, args...) + fmt.Sprintf(" (offset %d)", offset)}
}

func schemaErrorf(format string, args ...any) error {
	return &Error{Kind: ErrSchema, Msg: fmt.Sprintf(format, args...)}
}

func referenceErrorf(format string, args ...any) error {
	return &Error{Kind: ErrReference, Msg: fmt.Sprintf(format, args...)}
}

func capacityError(what string, a *Arena) error {
	return &Error{
		Kind: ErrCapacity,
		Msg:  fmt.Sprintf("arena exhausted allocating %s (%d of %d bytes in use)", what, a.SizeInUse(), a.Capacity()),
	}
}
