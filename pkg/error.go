package pkg

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Errors reported by the calc command when handling input and output.
var (
	// ErrReadInput wraps a failure reading program source.
	ErrReadInput = MakeErrorf("failed to read input")
	// ErrJSONMarshal wraps a failure encoding results as JSON.
	ErrJSONMarshal = MakeErrorf("JSON marshal error")
	// ErrYAMLMarshal wraps a failure encoding results as YAML.
	ErrYAMLMarshal = MakeErrorf("YAML marshal error")
	// ErrInvalidFormat is wrapped with the rejected format name.
	ErrInvalidFormat = MakeErrorf("invalid format")
)

// Error is a chain of errors ordered from the innermost cause outward. Its
// first element identifies it: a sentinel made with [MakeErrorf] still
// matches [errors.Is] after [Error.Wrap] or [Error.Wrapf] extend it.
type Error []error

// MakeError returns the chain formed by flattening errs in order. Nil
// errors are skipped.
func MakeError(errs ...error) Error {
	var e Error

	for _, err := range errs {
		e = append(e, UnwrapErrors(err)...)
	}

	return e
}

// MakeErrorf returns a single-element chain holding a formatted error.
func MakeErrorf(format string, args ...any) Error {
	return Error{fmt.Errorf(format, args...)}
}

// Error joins the messages of the chain with ": ".
func (e Error) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}

	return strings.Join(msgs, ": ")
}

// Wrap returns a copy of e extended by errs.
func (e Error) Wrap(errs ...error) Error {
	return append(slices.Clip(e), errs...)
}

// Wrapf returns a copy of e extended by a formatted error.
func (e Error) Wrapf(format string, args ...any) Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// Unwrap returns the chain.
func (e Error) Unwrap() []error { return e }

// Is reports whether the innermost error of target occurs in e.
func (e Error) Is(target error) bool {
	var t Error
	if !errors.As(target, &t) || len(t) == 0 {
		return false
	}

	return slices.ContainsFunc(e, func(err error) bool {
		_, nested := err.(Error)

		return !nested && err == t[0]
	})
}

// UnwrapErrors flattens the tree of errors wrapped by err, depth first,
// placing each error after the errors it wraps.
func UnwrapErrors(err error) Error {
	if err == nil {
		return nil
	}

	var chain Error

	switch w := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range w.Unwrap() {
			chain = append(chain, UnwrapErrors(inner)...)
		}

	case interface{ Unwrap() error }:
		chain = UnwrapErrors(w.Unwrap())
	}

	return append(chain, err)
}
