package lang

import (
	"log/slog"
	"strconv"
	"strings"
)

// LetKind selects how a let form makes its bindings visible.
type LetKind int

const (
	// Let evaluates each binding in the calling scope. Bindings cannot see
	// each other.
	Let LetKind = iota
	// LetSeq evaluates bindings in order, each seeing the ones before it.
	LetSeq
	// LetRec makes every binding name visible to every value expression, so
	// closures may refer to each other.
	LetRec
)

// String returns the symbol name of the let form.
func (k LetKind) String() string {
	switch k {
	case Let:
		return SymbolLet

	case LetSeq:
		return SymbolLetSeq

	case LetRec:
		return SymbolLetRec

	default:
		return "LetKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// LetBinding is one name:value entry of a let form. Function bindings
// f(x, y):body carry their parameter names.
type LetBinding struct {
	Value  Node
	Name   string
	Params []string
	Func   bool
}

// code returns the code computing the binding's value. A function binding
// builds a closure.
func (b LetBinding) code() *Code {
	if !b.Func {
		return Compile(b.Value)
	}

	return NewCode(
		pushValue{symList(b.Params)},
		pushValue{Compile(b.Value)},
		callSymbol{name: SymbolClosure, args: 2, returns: 1},
	)
}

// LetNode is a let form: let([bindings], body).
type LetNode struct {
	Body     Node
	Bindings []LetBinding
	Kind     LetKind
}

// Flatten implements [Node].
func (n *LetNode) Flatten(out []Op) []Op {
	vars := make([]Value, len(n.Bindings))
	for i, b := range n.Bindings {
		vars[i] = Cons(Sym(b.Name), b.code())
	}

	return append(out,
		pushValue{List(vars...)},
		pushValue{Compile(n.Body)},
		callSymbol{name: n.Kind.String(), args: 2, returns: 1},
	)
}

// Children implements [Node].
func (n *LetNode) Children() []Node {
	out := make([]Node, 0, len(n.Bindings)+1)
	for _, b := range n.Bindings {
		out = append(out, b.Value)
	}

	return append(out, n.Body)
}

// String implements [Node].
func (n *LetNode) String() string {
	parts := make([]string, len(n.Bindings))
	for i, b := range n.Bindings {
		name := b.Name
		if b.Func {
			name += "(" + strings.Join(b.Params, ", ") + ")"
		}

		parts[i] = name + ": " + b.Value.String()
	}

	return n.Kind.String() + "([" + strings.Join(parts, ", ") + "], " +
		n.Body.String() + ")"
}

// letSymbol returns the symbol factory for a let form. A bare reference to
// the name is an ordinary symbol read.
func letSymbol(kind LetKind) SymbolFactory {
	return func(name string, args []Node, call bool) (Node, error) {
		if !call {
			return &SymbolGetNode{Name: name}, nil
		}

		if len(args) != 2 {
			return nil, ErrArgumentCount.With(
				slog.String("form", name),
				slog.Int("expected", 2),
				slog.Int("got", len(args)),
			)
		}

		var items []Node

		switch vars := args[0].(type) {
		case *ListNode:
			items = vars.Items

		case *BracketNode:
			items = vars.Items

		default:
			return nil, ErrInvalidBinding.With(
				slog.String("form", name),
				slog.String("expected", "bracketed binding list"),
				slog.String("got", args[0].String()),
			)
		}

		bindings := make([]LetBinding, 0, len(items))

		for _, item := range items {
			b, err := letBinding(item)
			if err != nil {
				return nil, err
			}

			bindings = append(bindings, b)
		}

		return &LetNode{Kind: kind, Bindings: bindings, Body: args[1]}, nil
	}
}

// letBinding extracts one name:value pair.
func letBinding(node Node) (LetBinding, error) {
	pair, ok := node.(*BinaryOpNode)
	if !ok || pair.Op.name != OpCons {
		return LetBinding{}, ErrInvalidBinding.With(
			slog.String("expected", "name: value"),
			slog.String("got", node.String()),
		)
	}

	if call, ok := pair.Left.(*SymbolCallNode); ok {
		params := make([]string, 0, len(call.Args))

		for _, arg := range call.Args {
			p, err := nameOf(arg)
			if err != nil {
				return LetBinding{}, err
			}

			params = append(params, p)
		}

		return LetBinding{
			Name:   call.Name,
			Params: params,
			Func:   true,
			Value:  pair.Right,
		}, nil
	}

	name, err := nameOf(pair.Left)
	if err != nil {
		return LetBinding{}, err
	}

	return LetBinding{Name: name, Value: pair.Right}, nil
}

// letCallable is the runtime half of a let form. It is called with the
// binding list and the body code.
type letCallable struct {
	kind LetKind
}

type letVar struct {
	code *Code
	name string
}

// Call implements [Caller].
func (l letCallable) Call(f *Frame, args, returns int) error {
	if args != 2 {
		return ErrArgumentCount.With(
			slog.String("callee", l.kind.String()),
			slog.Int("expected", 2),
			slog.Int("got", args),
		)
	}

	in, err := f.stack.PopN(2)
	if err != nil {
		return err
	}

	body, ok := in[1].(*Code)
	if !ok {
		return typeError(l.kind.String()+" body", "code", in[1])
	}

	vars, err := letVars(in[0], l.kind.String())
	if err != nil {
		return err
	}

	out := NewNestedScope(f.scope)

	switch l.kind {
	case Let:
		err = bindLet(f, out, vars)

	case LetSeq:
		err = bindLetSeq(f, out, vars)

	case LetRec:
		err = bindLetRec(f, out, vars)
	}

	if err != nil {
		return err
	}

	results, err := f.run(body, out)
	if err != nil {
		return err
	}

	if len(results) != returns {
		return ErrReturnCount.With(
			slog.String("callee", l.kind.String()),
			slog.Int("expected", returns),
			slog.Int("got", len(results)),
		)
	}

	f.stack.Push(results...)

	return nil
}

func (l letCallable) String() string { return "<" + l.kind.String() + ">" }

// letVars decodes a list of name:code pairs.
func letVars(v Value, context string) ([]letVar, error) {
	items, ok := ListValues(v)
	if !ok {
		return nil, typeError(context+" bindings", "list", v)
	}

	vars := make([]letVar, len(items))

	for i, item := range items {
		pair, ok := item.(*Pair)
		if !ok {
			return nil, ErrInvalidBinding.With(slog.String("got", item.String()))
		}

		name, ok := pair.Car.(Sym)
		if !ok {
			return nil, ErrInvalidBinding.With(slog.String("name", pair.Car.String()))
		}

		code, ok := pair.Cdr.(*Code)
		if !ok {
			return nil, ErrInvalidBinding.With(
				slog.String("name", string(name)),
				slog.String("value", pair.Cdr.String()),
			)
		}

		vars[i] = letVar{name: string(name), code: code}
	}

	return vars, nil
}

// bindLet evaluates each binding in its own scope over the caller's, where
// only its own name exists, as a placeholder.
func bindLet(f *Frame, out Scope, vars []letVar) error {
	for _, v := range vars {
		exec := NewNestedScope(f.scope)
		if err := exec.Put(v.name, placeholder{v.name}); err != nil {
			return err
		}

		result, err := f.runSingle(v.code, exec, "let binding "+v.name)
		if err != nil {
			return err
		}

		if err := exec.Put(v.name, Bind(result)); err != nil {
			return err
		}

		if err := out.Put(v.name, Bind(result)); err != nil {
			return err
		}
	}

	return nil
}

// bindLetSeq evaluates bindings in order directly in the body scope.
func bindLetSeq(f *Frame, out Scope, vars []letVar) error {
	for _, v := range vars {
		if err := out.Put(v.name, placeholder{v.name}); err != nil {
			return err
		}

		result, err := f.runSingle(v.code, out, "letseq binding "+v.name)
		if err != nil {
			return err
		}

		if err := out.Put(v.name, Bind(result)); err != nil {
			return err
		}
	}

	return nil
}

// bindLetRec installs placeholders for every name, evaluates every binding,
// and only then replaces the placeholders.
func bindLetRec(f *Frame, out Scope, vars []letVar) error {
	exec := NewNestedScope(f.scope)

	for _, v := range vars {
		if err := exec.Put(v.name, placeholder{v.name}); err != nil {
			return err
		}
	}

	results := make([]Value, len(vars))

	for i, v := range vars {
		result, err := f.runSingle(v.code, exec, "letrec binding "+v.name)
		if err != nil {
			return err
		}

		results[i] = result
	}

	for i, v := range vars {
		if err := exec.Put(v.name, Bind(results[i])); err != nil {
			return err
		}

		if err := out.Put(v.name, Bind(results[i])); err != nil {
			return err
		}
	}

	return nil
}
