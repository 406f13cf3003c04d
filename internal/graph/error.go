package graph

import (
	"fmt"
)

// ErrorKind enumerates document errors.
type ErrorKind uint8

const (
	ErrUnknownKind ErrorKind = iota + 1
	ErrBadRef
	ErrMissingRef
	ErrVersion
	ErrFormat
	ErrDecode
)

func (k ErrorKind) String() string {
	switch k {
	case ErrUnknownKind:
		return "unknown kind"
	case ErrBadRef:
		return "reference out of range"
	case ErrMissingRef:
		return "missing reference"
	case ErrVersion:
		return "unsupported version"
	case ErrFormat:
		return "unknown format"
	case ErrDecode:
		return "decode failed"
	default:
		return fmt.Sprintf("ErrorKind(%d)", k)
	}
}

// Error describes a malformed document. Index is the offending type's
// bytecode index, or -1 when the error concerns the whole document.
type Error struct {
	Kind   ErrorKind
	Index  int
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Kind.String()
	if e.Index >= 0 {
		msg = fmt.Sprintf("type#%d: %s", e.Index, msg)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind, so callers can write
// errors.Is(err, &graph.Error{Kind: graph.ErrBadRef}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func docError(kind ErrorKind, detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{Kind: kind, Index: -1, Detail: detail}
}

func typeError(kind ErrorKind, index int, detail string, args ...any) *Error {
	err := docError(kind, detail, args...)
	err.Index = index
	return err
}
