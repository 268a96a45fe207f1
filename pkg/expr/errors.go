// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package expr

import (
	"github.com/pkg/errors"
)

// Errors returned (wrapped) by the compiler and the session. Test for them with errors.Is.
var (
	// ErrTypeMismatch is returned when an element is not of the kind requested: e.g. asking for the
	// operation of a variable. Expression constructors also panic with it for operands of incompatible
	// dtype or rank.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrUnknownExpression is returned when an id is not known where it was required: it was never
	// compiled, or it belongs to a different builder.
	ErrUnknownExpression = errors.New("unknown expression")

	// ErrNotAPlaceholder is returned when feeding a value to a variable or an optimizer.
	ErrNotAPlaceholder = errors.New("not a placeholder")

	// ErrNoReadableOutput is returned when reading the output of an optimizer.
	ErrNoReadableOutput = errors.New("no readable output")
)

// BackendError wraps any error raised by the backend engine.
type BackendError struct {
	// Err is the original error from the backend.
	Err error

	// Context describes what was being done, e.g. "compiling #3 Unary[Tanh]".
	Context string
}

// NewBackendError wraps err, returning nil if err is nil.
func NewBackendError(err error, context string) error {
	if err == nil {
		return nil
	}
	return &BackendError{Err: err, Context: context}
}

// Error implements error.
func (e *BackendError) Error() string {
	if e.Context == "" {
		return "backend error: " + e.Err.Error()
	}
	return "backend error while " + e.Context + ": " + e.Err.Error()
}

// Unwrap returns the original backend error.
func (e *BackendError) Unwrap() error { return e.Err }

// IsBackendError returns whether err is or wraps a *BackendError.
func IsBackendError(err error) bool {
	var backendErr *BackendError
	return errors.As(err, &backendErr)
}

// typeMismatchf panics with an error wrapping ErrTypeMismatch. It is used by the constructors.
func typeMismatchf(format string, args ...any) {
	panic(errors.Wrapf(ErrTypeMismatch, format, args...))
}
