package extract

import (
	"errors"
	"fmt"
)

// Kind classifies the failures of Extract.
type Kind int

const (
	// KindMalformed means the input is not valid JSON.
	KindMalformed Kind = iota

	// KindValidation means the document or the configuration does not have
	// the expected shape.
	KindValidation

	// KindIO covers every other failure, mostly reading the input and
	// writing the output.
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindMalformed:
		return "malformed input"
	case KindValidation:
		return "validation error"
	case KindIO:
		return "i/o error"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

var (
	ErrUnknownMode   = errors.New("unknown convert_type")
	ErrNoField       = errors.New("field_to_extract must be set when convert_type is field")
	ErrNotArray      = errors.New("JSON document must be an array of objects")
	ErrNotObject     = errors.New("each array element must be an object")
	ErrEntryCount    = errors.New("object must contain exactly one key-value pair")
	ErrMissingField  = errors.New("field is missing")
	ErrMissingConfig = errors.New("input_file and output_file must be set")
)

// An Error is returned by Extract for all failures.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func malformed(err error) *Error {
	return &Error{Kind: KindMalformed, Err: err}
}

func invalid(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Err: fmt.Errorf(format, args...)}
}

func ioError(err error) *Error {
	return &Error{Kind: KindIO, Err: err}
}

// KindOf returns the Kind of err if it is an *Error, and KindIO otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindIO
}
