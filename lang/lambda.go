package lang

import (
	"log/slog"
	"strings"
)

// LambdaNode builds a closure from a parameter list and a body:
// x -> body, (x, y) -> body.
type LambdaNode struct {
	Body   Node
	Params []string
}

// Flatten implements [Node].
func (n *LambdaNode) Flatten(out []Op) []Op {
	out = append(out, pushValue{symList(n.Params)})

	if body, ok := n.Body.(*CodeNode); ok {
		out = body.Flatten(out)
	} else {
		out = append(out, pushValue{Compile(n.Body)})
	}

	return append(out, callSymbol{name: SymbolClosure, args: 2, returns: 1})
}

// Children implements [Node].
func (n *LambdaNode) Children() []Node { return []Node{n.Body} }

// String implements [Node].
func (n *LambdaNode) String() string {
	return "((" + strings.Join(n.Params, ", ") + ") -> " + n.Body.String() + ")"
}

// lambdaNode is the binary factory for the lambda arrow.
func lambdaNode(_ *BinaryOperator, left, right Node) (Node, error) {
	var items []Node

	switch l := left.(type) {
	case *BracketNode:
		items = l.Items

	case *ListNode:
		items = l.Items

	default:
		items = []Node{left}
	}

	params := make([]string, 0, len(items))

	for _, item := range items {
		name, err := nameOf(item)
		if err != nil {
			return nil, err
		}

		params = append(params, name)
	}

	return &LambdaNode{Params: params, Body: right}, nil
}

// nameOf extracts a bound name from a node: a bare name, a quoted name or a
// string literal.
func nameOf(node Node) (string, error) {
	switch n := node.(type) {
	case *SymbolGetNode:
		return n.Name, nil

	case *ModifierNode:
		return nameOf(n.Child)

	case *ValueNode:
		switch v := n.Value.(type) {
		case Sym:
			return string(v), nil

		case Str:
			return string(v), nil
		}
	}

	return "", ErrInvalidBinding.With(
		slog.String("expected", "name"),
		slog.String("got", node.String()),
	)
}

// closureFunc is the closure builtin. It captures the scope of the frame it
// is called from.
func closureFunc() *Function {
	return NewFunction(SymbolClosure, 2, func(f *Frame, args []Value) (Value, error) {
		body, ok := args[1].(*Code)
		if !ok {
			return nil, typeError("closure body", "code", args[1])
		}

		params, err := symNames(args[0], "closure parameters")
		if err != nil {
			return nil, err
		}

		return NewClosure(f.scope, params, body), nil
	})
}

// symList returns a list of symbols for names.
func symList(names []string) Value {
	items := make([]Value, len(names))
	for i, name := range names {
		items[i] = Sym(name)
	}

	return List(items...)
}

// symNames converts a list of symbols back into names.
func symNames(v Value, context string) ([]string, error) {
	items, ok := ListValues(v)
	if !ok {
		return nil, typeError(context, "list", v)
	}

	names := make([]string, len(items))

	for i, item := range items {
		s, ok := item.(Sym)
		if !ok {
			return nil, typeError(context, "symbol", item)
		}

		names[i] = string(s)
	}

	return names, nil
}
