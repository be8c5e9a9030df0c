// Package token defines the typed tokens consumed by the infix parser and a
// peeking stream over them.
//
// Tokens are produced by a lexer outside the parser. The parser only
// inspects a token's [Type] and raw [Token.Text].
package token

import "strconv"

// Type classifies a token.
type Type int

const (
	// Value is a literal handed to the value parser (number, string, ...).
	Value Type = iota

	// Symbol is a bare identifier.
	Symbol

	// SymbolWithArgs is an identifier in prefix call form. It is not valid in
	// infix mode.
	SymbolWithArgs

	// Operator is a unary or binary operator name.
	Operator

	// Modifier introduces a custom syntactic construct (e.g. quote).
	Modifier

	// LeftBracket is one of "(", "[" or "{".
	LeftBracket

	// RightBracket is one of ")", "]" or "}".
	RightBracket

	// Separator separates arguments inside brackets.
	Separator

	// Terminator ends an expression.
	Terminator
)

// String returns the name of the token type.
func (t Type) String() string {
	switch t {
	case Value:
		return "Value"

	case Symbol:
		return "Symbol"

	case SymbolWithArgs:
		return "SymbolWithArgs"

	case Operator:
		return "Operator"

	case Modifier:
		return "Modifier"

	case LeftBracket:
		return "LeftBracket"

	case RightBracket:
		return "RightBracket"

	case Separator:
		return "Separator"

	case Terminator:
		return "Terminator"

	default:
		return "Type(" + strconv.Itoa(int(t)) + ")"
	}
}

// NoPos marks a token without a known source position.
const NoPos = -1

// Token is an immutable lexeme.
type Token struct {
	Text string
	Type Type
	Pos  int // byte offset in source, or NoPos
}

// Make returns a token without position information.
func Make(t Type, text string) Token {
	return Token{Type: t, Text: text, Pos: NoPos}
}

// String returns a compact representation of the token for diagnostics.
func (t Token) String() string {
	return t.Type.String() + "(" + strconv.Quote(t.Text) + ")"
}

// IsExpressionTerminator reports whether the token ends the expression being
// parsed without being consumed by it. Closing brackets and separators end
// the argument being parsed inside a bracket.
func (t Token) IsExpressionTerminator() bool {
	switch t.Type {
	case Terminator, RightBracket, Separator:
		return true

	default:
		return false
	}
}

// closing maps each opening bracket to its closing counterpart.
var closing = map[string]string{
	"(": ")",
	"[": "]",
	"{": "}",
}

// ClosingBracket returns the closing bracket for an opening bracket. The
// second result is false if open is not a known opening bracket.
func ClosingBracket(open string) (string, bool) {
	c, ok := closing[open]

	return c, ok
}

// IsOpeningBracket reports whether s is an opening bracket.
func IsOpeningBracket(s string) bool {
	_, ok := closing[s]

	return ok
}

// IsClosingBracket reports whether s is a closing bracket.
func IsClosingBracket(s string) bool {
	for _, c := range closing {
		if c == s {
			return true
		}
	}

	return false
}
