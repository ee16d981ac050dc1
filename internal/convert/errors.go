package convert

import (
	"errors"
	"fmt"
)

// Kind classifies a conversion error for callers that branch on failure mode.
type Kind string

const (
	KindUnsupportedFormat Kind = "unsupported_format"
	KindConversionFailure Kind = "conversion_failure"
	KindIOFailure         Kind = "io_failure"
	KindConfiguration     Kind = "configuration"
	KindTimeout           Kind = "timeout"
)

// Error is a typed conversion error with a stable kind.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind reports whether err is a conversion Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var convErr *Error
	if !errors.As(err, &convErr) {
		return false
	}
	return convErr.Kind == kind
}

// KindOf returns the kind of err, or conversion_failure when err carries no kind.
func KindOf(err error) Kind {
	var convErr *Error
	if errors.As(err, &convErr) {
		return convErr.Kind
	}
	return KindConversionFailure
}

// UnsupportedFormatError reports an input the engine does not recognize.
func UnsupportedFormatError(message string, err error) *Error {
	return &Error{Kind: KindUnsupportedFormat, Message: message, Err: err}
}

// ConversionError reports a failure inside the conversion engine.
func ConversionError(message string, err error) *Error {
	return &Error{Kind: KindConversionFailure, Message: message, Err: err}
}

// IOError reports a local file-system read or write failure.
func IOError(message string, err error) *Error {
	return &Error{Kind: KindIOFailure, Message: message, Err: err}
}

// ConfigurationError reports an invalid configuration that aborts work before it starts.
func ConfigurationError(message string) *Error {
	return &Error{Kind: KindConfiguration, Message: message}
}

// TimeoutError reports a per-item conversion that exceeded its deadline.
func TimeoutError(message string) *Error {
	return &Error{Kind: KindTimeout, Message: message}
}
