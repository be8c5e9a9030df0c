package lang

import (
	"log/slog"

	"github.com/expr-lang/expr"

	"github.com/ardnew/calc/lang/token"
)

// ParseLiteral converts a value token (number, string or character literal)
// into a value by evaluating its text as an expr-lang constant.
func ParseLiteral(tok token.Token) (Value, error) {
	out, err := expr.Eval(tok.Text, nil)
	if err != nil {
		return nil, ErrInvalidLiteral.Wrap(err).With(
			slog.String("text", tok.Text),
			slog.Int(posKey, tok.Pos),
		)
	}

	v, err := FromNative(out)
	if err != nil {
		return nil, ErrInvalidLiteral.Wrap(err).With(
			slog.String("text", tok.Text),
			slog.Int(posKey, tok.Pos),
		)
	}

	return v, nil
}
