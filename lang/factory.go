package lang

import (
	"log/slog"

	"github.com/ardnew/calc/lang/token"
)

// SymbolFactory builds the node for a symbol token. When call is true the
// symbol was followed by a parenthesized argument list, parsed into args.
type SymbolFactory func(name string, args []Node, call bool) (Node, error)

// ModifierFactory parses the construct introduced by a modifier token from
// the remaining input and returns its root node.
type ModifierFactory func(p *Parser, s token.Stream) (Node, error)

// BinaryFactory builds the node for a reduced binary operator.
type BinaryFactory func(op *BinaryOperator, left, right Node) (Node, error)

// defaultSymbolNode builds plain symbol reads and calls.
func defaultSymbolNode(name string, args []Node, call bool) (Node, error) {
	if !call {
		return &SymbolGetNode{Name: name}, nil
	}

	return &SymbolCallNode{Name: name, Args: args}, nil
}

// defaultBinaryNode builds an operator application.
func defaultBinaryNode(op *BinaryOperator, left, right Node) (Node, error) {
	return &BinaryOpNode{Op: op, Left: left, Right: right}, nil
}

// bracketNode builds the node for a bracketed group by bracket kind.
func bracketNode(open string, items []Node) (Node, error) {
	switch open {
	case "(":
		return &BracketNode{Items: items}, nil

	case "[":
		return &ListNode{Items: items}, nil

	case "{":
		return &CodeNode{Items: items}, nil

	default:
		return nil, ErrInvalidToken.With(slog.String("bracket", open))
	}
}

// dotNode builds attribute access. The right operand must be a name or a
// call of a name.
func dotNode(op *BinaryOperator, left, right Node) (Node, error) {
	switch r := right.(type) {
	case *SymbolGetNode:
		return &DotNode{Op: op, Obj: left, Name: r.Name}, nil

	case *SymbolCallNode:
		return &DotNode{Op: op, Obj: left, Name: r.Name, Args: r.Args, Call: true}, nil

	default:
		return nil, ErrInvalidToken.With(
			slog.String("operator", op.name),
			slog.String("operand", right.String()),
		)
	}
}

// quoteModifier parses one term after the quote modifier as data: a name
// becomes a [Sym], a literal stays a literal, and a bracket becomes a list of
// quoted terms.
func quoteModifier(p *Parser, s token.Stream) (Node, error) {
	v, err := p.quoteTerm(s)
	if err != nil {
		return nil, err
	}

	return &ModifierNode{Name: ModifierQuote, Child: &ValueNode{Value: v}}, nil
}

func (p *Parser) quoteTerm(s token.Stream) (Value, error) {
	tok, ok := s.Next()
	if !ok {
		return nil, ErrUnfinishedExpression.With(slog.String("construct", "quote"))
	}

	switch tok.Type {
	case token.Symbol, token.Operator, token.Modifier:
		return Sym(tok.Text), nil

	case token.Value:
		return p.literal(tok)

	case token.LeftBracket:
		closer, _ := token.ClosingBracket(tok.Text)

		var items []Value

		for {
			next, ok := s.Peek()
			if !ok {
				return nil, ErrUnfinishedExpression.With(
					slog.String("construct", "quote"),
					slog.Int(posKey, tok.Pos),
				)
			}

			switch next.Type {
			case token.RightBracket:
				s.Next()

				if next.Text != closer {
					return nil, ErrUnmatchedBrackets.With(
						slog.String("open", tok.Text),
						slog.String("close", next.Text),
						slog.Int(posKey, next.Pos),
					)
				}

				return List(items...), nil

			case token.Separator:
				s.Next()

			default:
				v, err := p.quoteTerm(s)
				if err != nil {
					return nil, err
				}

				items = append(items, v)
			}
		}

	default:
		return nil, ErrInvalidToken.With(
			slog.String("token", tok.String()),
			slog.Int(posKey, tok.Pos),
		)
	}
}
