package lexer

import "github.com/ardnew/calc/pkg"

// ErrScan is returned when the underlying scanner reports malformed input,
// such as an unterminated string literal.
var ErrScan = pkg.MakeErrorf("scan error")

// ErrUnexpectedRune is returned for a character that cannot start any token.
var ErrUnexpectedRune = pkg.MakeErrorf("unexpected character")

// ErrUnknownPunctuation is returned when a run of punctuation cannot be split
// into registered operator or modifier names.
var ErrUnknownPunctuation = pkg.MakeErrorf("unknown operator")
