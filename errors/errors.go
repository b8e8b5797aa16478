package errors

import (
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"
)

const (
	// UnknownCode is the code assigned to errors that carry no code of their own.
	UnknownCode = 500

	fieldSeparator = ", "
)

// Status is the client-facing part of an error.
type Status struct {
	Code     int               `json:"code,omitempty"`
	Message  string            `json:"message,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Error is a coded error with optional metadata and an optional cause.
// Values are treated as immutable: WithMetadata and WithCause return copies,
// so package-level sentinels can be shared safely.
type Error struct {
	Status
	cause error
}

// Error renders code, message, metadata and cause in a single line.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("code=")
	b.WriteString(strconv.Itoa(e.Code))
	b.WriteString(fieldSeparator)
	b.WriteString("message=")
	b.WriteString(e.Message)

	if len(e.Metadata) > 0 {
		b.WriteString(fieldSeparator)
		b.WriteString("metadata={")
		first := true
		for k, v := range e.Metadata {
			if !first {
				b.WriteString(fieldSeparator)
			}
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(v)
			first = false
		}
		b.WriteByte('}')
	}

	if e.cause != nil {
		b.WriteString(fieldSeparator)
		b.WriteString("cause=")
		b.WriteString(e.cause.Error())
	}

	return b.String()
}

// Unwrap returns the cause of the error
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether err is an *Error with the same code and message.
// Metadata and cause are ignored, so a sentinel still matches after
// WithCause or WithMetadata.
func (e *Error) Is(err error) bool {
	var target *Error
	if errors.As(err, &target) {
		return e.Code == target.Code && e.Message == target.Message
	}
	return false
}

// WithMetadata returns a copy of e with m merged into its metadata.
func (e *Error) WithMetadata(m map[string]string) *Error {
	if len(m) == 0 {
		return e
	}
	err := e.clone()
	if err.Metadata == nil {
		err.Metadata = make(map[string]string, len(m))
	}
	maps.Copy(err.Metadata, m)
	return err
}

// WithCause returns a copy of e carrying cause.
func (e *Error) WithCause(cause error) *Error {
	if cause == nil {
		return e
	}
	err := e.clone()
	err.cause = cause
	return err
}

func (e *Error) clone() *Error {
	var metadata map[string]string
	if len(e.Metadata) > 0 {
		metadata = maps.Clone(e.Metadata)
	}
	return &Error{
		Status: Status{
			Code:     e.Code,
			Message:  e.Message,
			Metadata: metadata,
		},
		cause: e.cause,
	}
}

// GetCode returns the error code
func (e *Error) GetCode() int {
	return e.Code
}

// GetMessage returns the error message
func (e *Error) GetMessage() string {
	return e.Message
}

// GetMetadata returns a copy of the metadata
func (e *Error) GetMetadata() map[string]string {
	if len(e.Metadata) == 0 {
		return nil
	}
	return maps.Clone(e.Metadata)
}

// GetCause returns the underlying cause of the error
func (e *Error) GetCause() error {
	return e.cause
}

// New creates an error with the given code and message. The message is only
// formatted when args are supplied.
func New(code int, format string, args ...any) *Error {
	message := format
	if len(args) > 0 {
		message = fmt.Sprintf(format, args...)
	}
	return &Error{Status: Status{Code: code, Message: message}}
}

// FromError converts err to *Error. Errors without a code anywhere in their
// chain become UnknownCode errors wrapping err.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return New(UnknownCode, "%v", err).WithCause(err)
}

// Code returns the code of the first *Error in err's chain, UnknownCode if
// there is none, and 0 for a nil error.
func Code(err error) int {
	if err == nil {
		return 0
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return UnknownCode
}

// Wrap wraps err with a new coded error. It returns nil for a nil err.
func Wrap(err error, code int, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return New(code, format, args...).WithCause(err)
}
