package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

// Parse errors.
var (
	ErrUnfinishedExpression = NewError("unfinished expression")
	ErrInvalidToken         = NewError("invalid token")
	ErrUnmatchedBrackets    = NewError("unmatched brackets")
	ErrNonExpression        = NewError("not a single expression")
	ErrUnknownOperator      = NewError("unknown operator")
	ErrInvalidBinding       = NewError("invalid binding")
	ErrInvalidLiteral       = NewError("invalid literal")
	ErrReadInput            = NewError("failed to read input")
)

// Execution errors.
var (
	ErrArgumentCount     = NewError("wrong argument count")
	ErrReturnCount       = NewError("wrong return count")
	ErrUnknownSymbol     = NewError("unknown symbol")
	ErrPlaceholder       = NewError("symbol referenced during its own definition")
	ErrNotCallable       = NewError("value is not callable")
	ErrNotStructure      = NewError("value has no attributes")
	ErrUnknownAttribute  = NewError("unknown attribute")
	ErrTypeMismatch      = NewError("type mismatch")
	ErrStackUnderflow    = NewError("stack underflow")
	ErrReadOnlyScope     = NewError("scope is read-only")
	ErrMaxDepthExceeded  = NewError("maximum call depth exceeded")
	ErrOperator          = NewError("operator evaluation failed")
	ErrInvalidPattern    = NewError("invalid pattern")
	ErrNotDecomposable   = NewError("value does not describe a constructor")
	ErrDecomposeContract = NewError("decomposition returned wrong value count")
)

// Error is a failure carrying structured attributes. Every Error descends
// from a sentinel made by [NewError], and [errors.Is] matches that sentinel
// however the error was later decorated with [Error.With] or [Error.Wrap].
type Error struct {
	origin *Error
	msg    string
	err    error
	attrs  []slog.Attr
}

// NewError returns a sentinel with the given message.
func NewError(msg string) *Error {
	e := &Error{msg: msg}
	e.origin = e

	return e
}

// WrapError returns the first *Error in the chain of err, or a new Error
// with no sentinel wrapping err.
func WrapError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	return &Error{err: err}
}

// Error joins the message, each attribute as key=value and the cause with
// ": ", omitting empty parts.
func (e *Error) Error() string {
	var parts []string

	if e.msg != "" {
		parts = append(parts, e.msg)
	}

	for _, a := range e.attrs {
		parts = append(parts, a.String())
	}

	if e.err != nil {
		parts = append(parts, e.err.Error())
	}

	return strings.Join(parts, ": ")
}

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && e.origin != nil && e.origin == t.origin
}

// LogValue groups the message, the cause and the attributes.
func (e *Error) LogValue() slog.Value {
	var attrs []slog.Attr

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap returns a copy of e caused by err.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.err = err

	return &c
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := *e
	c.attrs = append(slices.Clip(e.attrs), attrs...)

	return &c
}

// Attr returns the value of the first attribute named key in e or the
// errors it wraps.
func (e *Error) Attr(key string) (slog.Value, bool) {
	if i := slices.IndexFunc(e.attrs, func(a slog.Attr) bool { return a.Key == key }); i >= 0 {
		return e.attrs[i].Value, true
	}

	var inner *Error
	if errors.As(e.err, &inner) {
		return inner.Attr(key)
	}

	return slog.Value{}, false
}

// posKey is the attribute key carrying a token's byte offset.
const posKey = "pos"

// ParseError decorates a parse error with the source line it occurred on.
type ParseError struct {
	Err    error
	Source string
	Pos    int // byte offset
}

// NewParseError returns a ParseError for err if err carries a source
// position, or err unchanged otherwise.
func NewParseError(err error, source string) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}

	v, ok := e.Attr(posKey)
	if !ok || v.Kind() != slog.KindInt64 || v.Int64() < 0 {
		return err
	}

	return &ParseError{Err: err, Source: source, Pos: int(v.Int64())}
}

func (e *ParseError) Error() string {
	line, col := e.position()

	return fmt.Sprintf("parse error at line %d, column %d: %v\n%s", line, col, e.Err, e.Snippet())
}

func (e *ParseError) Unwrap() error { return e.Err }

// Snippet returns the source line of the error, prefixed by its number,
// and a caret under the offending column.
func (e *ParseError) Snippet() string {
	line, col := e.position()

	lines := strings.Split(e.Source, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}

	gutter := "  " + strconv.Itoa(line) + " | "

	return gutter + lines[line-1] + "\n" + strings.Repeat(" ", len(gutter)+col-1) + "^\n"
}

// position converts the byte offset to a 1-based line and column.
func (e *ParseError) position() (line, col int) {
	pos := min(max(e.Pos, 0), len(e.Source))
	before := e.Source[:pos]
	line = strings.Count(before, "\n") + 1
	col = pos - (strings.LastIndexByte(before, '\n') + 1) + 1

	return line, col
}
