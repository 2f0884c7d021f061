// Package ferr defines the error kinds FuziotDB reports across the codec,
// schema, record, scan, and façade layers (spec §7). Every error the
// engine returns is reported — none are swallowed — and every error that
// wraps an underlying cause is inspectable with errors.Is/errors.As.
package ferr

import (
	"errors"
	"fmt"
)

// Kind distinguishes the error categories spec §7 enumerates.
type Kind int

const (
	// InvalidSchema covers an empty name, a non-ASCII name, more than
	// 65536 fields, a per-field length outside 1..65536, or a fixed/flex
	// mismatch between a declared field and its codec.
	InvalidSchema Kind = iota
	// HeaderMismatch is returned when the on-disk header's (name, length)
	// set differs from the declared schema and upgrade was not requested.
	HeaderMismatch
	// NotFound is returned when Set or Free references a slot id at or
	// beyond the end of the file.
	NotFound
	// UnknownField is returned when a scan requests a field name absent
	// from the schema.
	UnknownField
	// UsageMismatch is returned when a fixed codec is invoked through the
	// flexible path, or vice versa.
	UsageMismatch
	// Io wraps any underlying filesystem error.
	Io
	// Corruption is returned when a header or slot layout is inconsistent
	// with the file's actual length.
	Corruption
)

func (k Kind) String() string {
	switch k {
	case InvalidSchema:
		return "InvalidSchema"
	case HeaderMismatch:
		return "HeaderMismatch"
	case NotFound:
		return "NotFound"
	case UnknownField:
		return "UnknownField"
	case UsageMismatch:
		return "UsageMismatch"
	case Io:
		return "Io"
	case Corruption:
		return "Corruption"
	default:
		return "Unknown"
	}
}

// Error is the single carrier type for every FuziotDB error. Op names the
// operation that failed (e.g. "record.Push", "schema.Register") so log
// lines and error messages can point at the failing call without a type
// switch on Kind.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is implements errors.Is's comparison contract: two *Error values match
// if they carry the same Kind, regardless of Op or the wrapped cause. This
// lets callers compare against one of the bare sentinel values below
// (errors.Is(err, ferr.ErrNotFound)) without caring which operation raised
// it.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

// Sentinel values usable with errors.Is, one per Kind.
var (
	ErrInvalidSchema   = &Error{Kind: InvalidSchema}
	ErrHeaderMismatch  = &Error{Kind: HeaderMismatch}
	ErrNotFound        = &Error{Kind: NotFound}
	ErrUnknownField    = &Error{Kind: UnknownField}
	ErrUsageMismatch   = &Error{Kind: UsageMismatch}
	ErrIo              = &Error{Kind: Io}
	ErrCorruption      = &Error{Kind: Corruption}
)

// New builds a *Error with no wrapped cause.
func New(kind Kind, op, msg string) *Error {
	var err error
	if msg != "" {
		err = errors.New(msg)
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Wrap builds a *Error around an existing error, typically one returned by
// the filesystem.
func Wrap(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf reports the Kind of err if it is (or wraps) a *Error, and ok=false
// otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
