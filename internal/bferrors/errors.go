// Package bferrors defines the typed error kinds shared by every stage
// of the pipeline: parser, optimizer, interpreter and code generator.
package bferrors

import (
	"fmt"

	"bfc/internal/span"

	"github.com/pkg/errors"
)

// Kind identifies which error kind a BFError carries.
type Kind string

const (
	KindMessage       Kind = "Message"
	KindIoError       Kind = "IoError"
	KindParseError    Kind = "ParseError"
	KindUnknownPass   Kind = "UnknownOptimizationPass"
	KindTapeUnderflow Kind = "TapeUnderflow"
	KindTapeOverflow  Kind = "TapeOverflow"
)

// BFError is the single error type surfaced across package boundaries.
type BFError struct {
	Kind     Kind
	Message  string
	Position span.Position
	PassName string
	cause    error
}

func (e *BFError) Error() string {
	switch e.Kind {
	case KindParseError:
		return fmt.Sprintf("parse error at offset %d: %s", e.Position.Start, e.Message)
	case KindUnknownPass:
		return fmt.Sprintf("unknown optimization pass %q", e.PassName)
	case KindTapeUnderflow:
		return "tape underflow"
	case KindTapeOverflow:
		return "tape overflow"
	case KindIoError:
		if e.cause != nil {
			return fmt.Sprintf("io error: %s", e.cause.Error())
		}
		return fmt.Sprintf("io error: %s", e.Message)
	default:
		return e.Message
	}
}

// Unwrap lets errors.Is/As see through to the wrapped cause, when present.
func (e *BFError) Unwrap() error {
	return e.cause
}

// Message builds a Kind=Message error with no further structure.
func Message(format string, args ...interface{}) *BFError {
	return &BFError{Kind: KindMessage, Message: fmt.Sprintf(format, args...)}
}

// IoErrorf wraps cause as a Kind=IoError error, capturing a stack trace
// at the point of first failure via github.com/pkg/errors so a bug
// report contains more than the final "file not found".
func IoErrorf(cause error, format string, args ...interface{}) *BFError {
	msg := fmt.Sprintf(format, args...)
	return &BFError{
		Kind:    KindIoError,
		Message: msg,
		cause:   errors.Wrap(cause, msg),
	}
}

// ParseErrorAt builds a Kind=ParseError error anchored to pos.
func ParseErrorAt(pos span.Position, format string, args ...interface{}) *BFError {
	return &BFError{
		Kind:     KindParseError,
		Message:  fmt.Sprintf(format, args...),
		Position: pos,
	}
}

// UnknownOptimizationPass builds the error for an unregistered pass name.
func UnknownOptimizationPass(name string) *BFError {
	return &BFError{Kind: KindUnknownPass, PassName: name}
}

// TapeUnderflow builds the sentinel underflow error.
func TapeUnderflow() *BFError {
	return &BFError{Kind: KindTapeUnderflow}
}

// TapeOverflow builds the sentinel overflow error.
func TapeOverflow() *BFError {
	return &BFError{Kind: KindTapeOverflow}
}

// Is reports whether err is a BFError of the given kind.
func Is(err error, kind Kind) bool {
	var bf *BFError
	if errors.As(err, &bf) {
		return bf.Kind == kind
	}
	return false
}
