package lang

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Op is a single executable operation of a [Code] listing.
type Op interface {
	Execute(f *Frame) error
	String() string
}

// Code is an immutable list of operations produced by flattening an AST.
// It holds no execution state and can be executed any number of times.
// Code is itself a value, so code blocks can be passed around and called.
type Code struct {
	ops []Op
}

// NewCode returns code executing ops in order.
func NewCode(ops ...Op) *Code { return &Code{ops: slices.Clip(ops)} }

// Compile flattens node into code.
func Compile(node Node) *Code { return NewCode(node.Flatten(nil)...) }

// Ops returns a copy of the operations.
func (c *Code) Ops() []Op { return slices.Clone(c.ops) }

// Len returns the number of operations.
func (c *Code) Len() int { return len(c.ops) }

// Execute runs every operation against f.
func (c *Code) Execute(f *Frame) error {
	for _, op := range c.ops {
		if err := op.Execute(f); err != nil {
			return err
		}
	}

	return nil
}

// String returns the operations on one line.
func (c *Code) String() string {
	parts := make([]string, len(c.ops))
	for i, op := range c.ops {
		parts[i] = op.String()
	}

	return "{" + strings.Join(parts, "; ") + "}"
}

// Listing returns the operations one per line, with nested code indented.
func (c *Code) Listing() string {
	var sb strings.Builder

	c.list(&sb, "")

	return sb.String()
}

func (c *Code) list(sb *strings.Builder, indent string) {
	width := len(strconv.Itoa(len(c.ops)))

	for i, op := range c.ops {
		num := strconv.Itoa(i)
		sb.WriteString(indent)
		sb.WriteString(strings.Repeat(" ", width-len(num)))
		sb.WriteString(num)
		sb.WriteString("  ")

		if p, ok := op.(pushValue); ok {
			if inner, ok := p.value.(*Code); ok {
				sb.WriteString("push code\n")
				inner.list(sb, indent+"    ")

				continue
			}
		}

		sb.WriteString(op.String())
		sb.WriteRune('\n')
	}
}

// Call implements [Caller]. Calling code runs it in a nested scope of the
// caller; arguments are not accepted.
func (c *Code) Call(f *Frame, args, returns int) error {
	if args != 0 {
		return ErrArgumentCount.With(
			slog.String("callee", "code"),
			slog.Int("expected", 0),
			slog.Int("got", args),
		)
	}

	out, err := f.run(c, NewNestedScope(f.scope))
	if err != nil {
		return err
	}

	if len(out) != returns {
		return ErrReturnCount.With(
			slog.String("callee", "code"),
			slog.Int("expected", returns),
			slog.Int("got", len(out)),
		)
	}

	f.stack.Push(out...)

	return nil
}

type pushValue struct{ value Value }

func (o pushValue) Execute(f *Frame) error {
	f.stack.Push(o.value)

	return nil
}

func (o pushValue) String() string { return "push " + o.value.String() }

type callUnary struct{ op *UnaryOperator }

func (o callUnary) Execute(f *Frame) error {
	v, err := f.stack.Pop()
	if err != nil {
		return err
	}

	r, err := o.op.Apply(f, v)
	if err != nil {
		return err
	}

	f.stack.Push(r)

	return nil
}

func (o callUnary) String() string { return "unary " + o.op.name }

type callBinary struct{ op *BinaryOperator }

func (o callBinary) Execute(f *Frame) error {
	b, err := f.stack.Pop()
	if err != nil {
		return err
	}

	a, err := f.stack.Pop()
	if err != nil {
		return err
	}

	r, err := o.op.Apply(f, a, b)
	if err != nil {
		return err
	}

	f.stack.Push(r)

	return nil
}

func (o callBinary) String() string { return "binary " + o.op.name }

type getSymbol struct{ name string }

func (o getSymbol) Execute(f *Frame) error {
	sym, err := lookup(f, o.name)
	if err != nil {
		return err
	}

	v, err := sym.Get()
	if err != nil {
		return err
	}

	f.stack.Push(v)

	return nil
}

func (o getSymbol) String() string { return "get " + o.name }

type callSymbol struct {
	name    string
	args    int
	returns int
}

func (o callSymbol) Execute(f *Frame) error {
	sym, err := lookup(f, o.name)
	if err != nil {
		return err
	}

	return sym.Call(f, o.args, o.returns)
}

func (o callSymbol) String() string {
	return "call " + o.name + "/" + strconv.Itoa(o.args) + ":" +
		strconv.Itoa(o.returns)
}

// apply calls the value found below its arguments on the stack.
type apply struct {
	args    int
	returns int
}

func (o apply) Execute(f *Frame) error {
	callee, err := f.stack.Remove(o.args)
	if err != nil {
		return err
	}

	c, ok := callee.(Caller)
	if !ok {
		return ErrNotCallable.With(
			slog.String("value", callee.String()),
			slog.String("type", TypeName(callee)),
		)
	}

	return c.Call(f, o.args, o.returns)
}

func (o apply) String() string {
	return "apply " + strconv.Itoa(o.args) + ":" + strconv.Itoa(o.returns)
}

// lookup resolves name in the frame's scope. Unknown names carry the closest
// visible names as suggestions.
func lookup(f *Frame, name string) (Symbol, error) {
	if sym, ok := f.scope.Get(name); ok {
		return sym, nil
	}

	err := ErrUnknownSymbol.With(slog.String("name", name))

	if similar := suggest(name, f.scope.Names()); len(similar) > 0 {
		err = err.With(slog.String("did_you_mean", strings.Join(similar, ", ")))
	}

	return nil, err
}

// maxSuggestions bounds the names listed for an unknown symbol.
const maxSuggestions = 3

func suggest(name string, names []string) []string {
	matches := fuzzy.Find(name, names)

	out := make([]string, 0, min(len(matches), maxSuggestions))
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}

		out = append(out, m.Str)
	}

	return out
}
