package lang

import (
	"log/slog"

	"github.com/ardnew/calc/lang/token"
)

// LiteralParser converts a value token into a value.
type LiteralParser func(tok token.Token) (Value, error)

// Parser is an operator-precedence parser for infix expressions. Custom
// syntax hooks in through the symbol, modifier and binary factory maps.
type Parser struct {
	ops       *Dictionary
	literal   LiteralParser
	symbols   map[string]SymbolFactory
	modifiers map[string]ModifierFactory
	binaries  map[string]BinaryFactory
}

// NewParser returns a parser over the given operators and literal parser,
// with no custom syntax registered.
func NewParser(ops *Dictionary, literal LiteralParser) *Parser {
	return &Parser{
		ops:       ops,
		literal:   literal,
		symbols:   make(map[string]SymbolFactory),
		modifiers: make(map[string]ModifierFactory),
		binaries:  make(map[string]BinaryFactory),
	}
}

// Parse consumes one expression from s and returns its root node. The token
// ending the expression (terminator, separator or closing bracket) is left in
// the stream.
func (p *Parser) Parse(s token.Stream) (Node, error) {
	var (
		nodes      []Node
		operators  []Operator
		pushedLast bool // previous iteration pushed a non-operator
	)

	for {
		tok, ok := s.Peek()
		if !ok || tok.IsExpressionTerminator() {
			break
		}

		s.Next()

		pushedThis := true

		switch tok.Type {
		case token.Value:
			v, err := p.literal(tok)
			if err != nil {
				return nil, withPos(err, tok.Pos)
			}

			nodes = append(nodes, &ValueNode{Value: v})

		case token.Symbol:
			node, err := p.parseSymbol(tok, s)
			if err != nil {
				return nil, err
			}

			nodes = append(nodes, node)

		case token.Modifier:
			factory, ok := p.modifiers[tok.Text]
			if !ok {
				return nil, ErrInvalidToken.With(
					slog.String("modifier", tok.Text),
					slog.Int(posKey, tok.Pos),
				)
			}

			node, err := factory(p, s)
			if err != nil {
				return nil, err
			}

			nodes = append(nodes, node)

		case token.LeftBracket:
			items, err := p.collect(tok, s)
			if err != nil {
				return nil, err
			}

			node, err := bracketNode(tok.Text, items)
			if err != nil {
				return nil, err
			}

			nodes = append(nodes, node)

		case token.Operator:
			var op Operator

			if !pushedLast {
				u, ok := p.ops.Unary(tok.Text)
				if !ok {
					return nil, ErrUnknownOperator.With(
						slog.String("operator", tok.Text),
						slog.String("form", "unary"),
						slog.Int(posKey, tok.Pos),
					)
				}

				op = u
			} else {
				b, ok := p.ops.Binary(tok.Text)
				if !ok {
					return nil, ErrUnknownOperator.With(
						slog.String("operator", tok.Text),
						slog.String("form", "binary"),
						slog.Int(posKey, tok.Pos),
					)
				}

				op = b
			}

			var err error
			if nodes, operators, err = p.pushOperator(nodes, operators, op); err != nil {
				return nil, err
			}

			pushedThis = false

		default:
			return nil, ErrInvalidToken.With(
				slog.String("token", tok.String()),
				slog.Int(posKey, tok.Pos),
			)
		}

		if pushedLast && pushedThis {
			// Two adjacent terms: reduce as if the default operator had been
			// pushed between them.
			def, ok := p.ops.Default()
			if !ok {
				return nil, ErrInvalidToken.With(
					slog.String("token", tok.String()),
					slog.Int(posKey, tok.Pos),
				)
			}

			last := nodes[len(nodes)-1]
			nodes = nodes[:len(nodes)-1]

			var err error
			if nodes, operators, err = p.pushOperator(nodes, operators, def); err != nil {
				return nil, err
			}

			nodes = append(nodes, last)
		}

		pushedLast = pushedThis
	}

	for len(operators) > 0 {
		op := operators[len(operators)-1]
		operators = operators[:len(operators)-1]

		var err error
		if nodes, err = p.reduce(nodes, op); err != nil {
			return nil, err
		}
	}

	if len(nodes) != 1 {
		return nil, ErrNonExpression.With(slog.Int("nodes", len(nodes)))
	}

	return nodes[0], nil
}

// parseSymbol builds a symbol node, collecting arguments when the symbol is
// immediately followed by a parenthesis.
func (p *Parser) parseSymbol(tok token.Token, s token.Stream) (Node, error) {
	factory, ok := p.symbols[tok.Text]
	if !ok {
		factory = defaultSymbolNode
	}

	next, ok := s.Peek()
	if !ok || next.Type != token.LeftBracket || next.Text != "(" {
		return factory(tok.Text, nil, false)
	}

	s.Next()

	args, err := p.collect(next, s)
	if err != nil {
		return nil, err
	}

	node, err := factory(tok.Text, args, true)
	if err != nil {
		return nil, withPos(err, tok.Pos)
	}

	return node, nil
}

// collect parses the separator-delimited children of a bracket whose opening
// token has already been consumed, through the matching closing bracket.
func (p *Parser) collect(open token.Token, s token.Stream) ([]Node, error) {
	closer, _ := token.ClosingBracket(open.Text)

	next, ok := s.Peek()
	if !ok {
		return nil, ErrUnmatchedBrackets.With(
			slog.String("open", open.Text),
			slog.Int(posKey, open.Pos),
		)
	}

	if next.Type == token.RightBracket {
		s.Next()

		if next.Text != closer {
			return nil, ErrUnmatchedBrackets.With(
				slog.String("open", open.Text),
				slog.String("close", next.Text),
				slog.Int(posKey, next.Pos),
			)
		}

		return nil, nil
	}

	var items []Node

	for {
		node, err := p.Parse(s)
		if err != nil {
			return nil, err
		}

		items = append(items, node)

		tok, ok := s.Next()
		if !ok {
			return nil, ErrUnfinishedExpression.With(
				slog.String("open", open.Text),
				slog.Int(posKey, open.Pos),
			)
		}

		switch tok.Type {
		case token.RightBracket:
			if tok.Text != closer {
				return nil, ErrUnmatchedBrackets.With(
					slog.String("open", open.Text),
					slog.String("close", tok.Text),
					slog.Int(posKey, tok.Pos),
				)
			}

			return items, nil

		case token.Separator:

		default:
			return nil, ErrInvalidToken.With(
				slog.String("token", tok.String()),
				slog.String("expected", "separator"),
				slog.Int(posKey, tok.Pos),
			)
		}
	}
}

// pushOperator reduces every stacked operator that binds tighter than op,
// then pushes op.
func (p *Parser) pushOperator(
	nodes []Node,
	operators []Operator,
	op Operator,
) ([]Node, []Operator, error) {
	for len(operators) > 0 {
		top := operators[len(operators)-1]
		if !op.IsLessThan(top) {
			break
		}

		operators = operators[:len(operators)-1]

		var err error
		if nodes, err = p.reduce(nodes, top); err != nil {
			return nil, nil, err
		}
	}

	return nodes, append(operators, op), nil
}

// reduce replaces the operands of op on top of the node stack with the node
// applying op to them.
func (p *Parser) reduce(nodes []Node, op Operator) ([]Node, error) {
	switch op := op.(type) {
	case *BinaryOperator:
		if len(nodes) < 2 {
			return nil, ErrUnfinishedExpression.With(slog.String("operator", op.name))
		}

		left, right := nodes[len(nodes)-2], nodes[len(nodes)-1]
		nodes = nodes[:len(nodes)-2]

		factory, ok := p.binaries[op.name]
		if !ok {
			factory = defaultBinaryNode
		}

		node, err := factory(op, left, right)
		if err != nil {
			return nil, err
		}

		return append(nodes, node), nil

	case *UnaryOperator:
		if len(nodes) < 1 {
			return nil, ErrUnfinishedExpression.With(slog.String("operator", op.name))
		}

		arg := nodes[len(nodes)-1]

		return append(nodes[:len(nodes)-1], &UnaryOpNode{Op: op, Arg: arg}), nil

	default:
		return nil, ErrUnknownOperator.With(slog.String("operator", op.Name()))
	}
}

// withPos attaches a source position to err unless it already has one.
func withPos(err error, pos int) error {
	e := WrapError(err)
	if _, ok := e.Attr(posKey); ok || e.origin == nil {
		return err
	}

	return e.With(slog.Int(posKey, pos))
}
