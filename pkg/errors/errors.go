// Package errors provides coded errors shared by the archgraph library, the
// CLI and the HTTP editor API.
//
// Every failure that crosses a package boundary carries a [Code]. The API
// maps codes to HTTP statuses through [Code.Invalid] and [Code.NotFound];
// the CLI prints the message.
//
//	if err := g.Validate(); err != nil {
//	    return errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "load %s", id)
//	}
//
//	if errors.Is(err, errors.ErrCodeGraphNotFound) {
//	    // create it
//	}
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a machine-readable error category.
type Code string

const (
	// Rejected input. Every code in this group starts with "INVALID_".
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidSnapshot Code = "INVALID_SNAPSHOT"
	ErrCodeInvalidNodeType Code = "INVALID_NODE_TYPE"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidID       Code = "INVALID_ID"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"

	// Missing resources. Every code in this group ends with "NOT_FOUND".
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeGraphNotFound Code = "GRAPH_NOT_FOUND"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"

	// Collaborator failures.
	ErrCodeStorage Code = "STORAGE"
	ErrCodeRender  Code = "RENDER"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Invalid reports whether c rejects caller input.
func (c Code) Invalid() bool { return strings.HasPrefix(string(c), "INVALID_") }

// NotFound reports whether c names a missing node, edge, graph or file.
func (c Code) NotFound() bool { return strings.HasSuffix(string(c), "NOT_FOUND") }

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates an error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error that keeps cause reachable through errors.Is/As.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether any coded error in err's chain has code.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode returns the code of the outermost coded error in err's chain, or
// "" if there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the outermost coded error without its
// code, or err.Error() for uncoded errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsNotFound reports whether err's outermost code is a not-found code.
func IsNotFound(err error) bool { return GetCode(err).NotFound() }

// IsInvalid reports whether err's outermost code rejects caller input.
func IsInvalid(err error) bool { return GetCode(err).Invalid() }
