package lang

import (
	"log/slog"
	"reflect"
	"strconv"
	"strings"
)

// Value is any runtime value. Optional behavior is exposed through the
// capability interfaces [Caller], [Attributer] and [Decomposer].
type Value interface {
	String() string
}

// Caller is implemented by values that can be invoked. Call pops args values
// from the frame's stack and must push exactly returns values.
type Caller interface {
	Call(f *Frame, args, returns int) error
}

// Attributer is implemented by values with named attributes.
type Attributer interface {
	Attr(f *Frame, name string) (Value, bool, error)
}

// Decomposer is implemented by constructor values that can split a value
// they built into its parts. The second result is false when v was not built
// by the receiver. When it is true, the slice should contain exactly n
// values; anything else is a broken implementation.
type Decomposer interface {
	Decompose(f *Frame, v Value, n int) ([]Value, bool, error)
}

// Nil is the empty value. It also terminates lists.
type Nil struct{}

func (Nil) String() string { return "nil" }

// Bool is a boolean value.
type Bool bool

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

// Int is an integer value.
type Int int64

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

// Float is a floating-point value.
type Float float64

func (x Float) String() string {
	return strconv.FormatFloat(float64(x), 'g', -1, 64)
}

// Str is a string value.
type Str string

func (s Str) String() string { return strconv.Quote(string(s)) }

// Sym is a quoted name. Parameter lists and binding names are lists of Sym.
type Sym string

func (s Sym) String() string { return "#" + string(s) }

// Namespace is a value exposing named attributes.
type Namespace struct {
	attrs map[string]Value
	name  string
}

// NewNamespace returns a namespace with the given attributes.
func NewNamespace(name string, attrs map[string]Value) *Namespace {
	if attrs == nil {
		attrs = make(map[string]Value)
	}

	return &Namespace{name: name, attrs: attrs}
}

// Attr implements [Attributer].
func (n *Namespace) Attr(_ *Frame, name string) (Value, bool, error) {
	v, ok := n.attrs[name]

	return v, ok, nil
}

// Keys returns the sorted attribute names.
func (n *Namespace) Keys() []string { return sortedKeys(n.attrs) }

func (n *Namespace) String() string {
	return "<namespace " + n.name + ">"
}

// Function is a callable implemented in Go. It always returns one value.
type Function struct {
	Fn    func(f *Frame, args []Value) (Value, error)
	Name  string
	Arity int // -1 accepts any number of arguments
}

// Variadic is the [Function] arity accepting any argument count.
const Variadic = -1

// NewFunction returns a native function value.
func NewFunction(
	name string,
	arity int,
	fn func(f *Frame, args []Value) (Value, error),
) *Function {
	return &Function{Name: name, Arity: arity, Fn: fn}
}

// Call implements [Caller].
func (fn *Function) Call(f *Frame, args, returns int) error {
	if fn.Arity != Variadic && args != fn.Arity {
		return ErrArgumentCount.With(
			slog.String("function", fn.Name),
			slog.Int("expected", fn.Arity),
			slog.Int("got", args),
		)
	}

	if returns != 1 {
		return ErrReturnCount.With(
			slog.String("function", fn.Name),
			slog.Int("expected", 1),
			slog.Int("requested", returns),
		)
	}

	in, err := f.stack.PopN(args)
	if err != nil {
		return err
	}

	out, err := fn.Fn(f, in)
	if err != nil {
		return err
	}

	f.stack.Push(out)

	return nil
}

func (fn *Function) String() string { return "<function " + fn.Name + ">" }

// Truthy reports whether v counts as true in a condition. Nil, false, zero,
// the empty string and the empty list are false.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case nil, Nil:
		return false

	case Bool:
		return bool(v)

	case Int:
		return v != 0

	case Float:
		return v != 0

	case Str:
		return v != ""

	default:
		return true
	}
}

// TypeName returns a short name for the dynamic type of v.
func TypeName(v Value) string {
	switch v.(type) {
	case nil, Nil:
		return "nil"

	case Bool:
		return "bool"

	case Int:
		return "int"

	case Float:
		return "float"

	case Str:
		return "string"

	case Sym:
		return "symbol"

	case *Pair:
		return "pair"

	case *Code:
		return "code"

	case *Closure:
		return "closure"

	case *Function:
		return "function"

	case *Namespace:
		return "namespace"

	case *Constructor:
		return "constructor"

	case *Record:
		return "record"

	default:
		return "value"
	}
}

// Equal reports whether two values are structurally equal. Callables and
// namespaces compare by identity.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Int:
		switch b := b.(type) {
		case Int:
			return a == b

		case Float:
			return Float(a) == b
		}

		return false

	case Float:
		switch b := b.(type) {
		case Int:
			return a == Float(b)

		case Float:
			return a == b
		}

		return false

	case *Pair:
		p, ok := b.(*Pair)

		return ok && Equal(a.Car, p.Car) && Equal(a.Cdr, p.Cdr)

	case *Record:
		r, ok := b.(*Record)
		if !ok || r.ctor != a.ctor || len(r.fields) != len(a.fields) {
			return false
		}

		for i := range a.fields {
			if !Equal(a.fields[i], r.fields[i]) {
				return false
			}
		}

		return true

	default:
		return sameComparable(a, b) && a == b
	}
}

// sameComparable reports whether a and b share a dynamic type that == can
// compare without panicking. Pattern placeholders hold slices and are not.
func sameComparable(a, b Value) bool {
	t := reflect.TypeOf(a)
	if t == nil {
		return b == nil
	}

	return t == reflect.TypeOf(b) && t.Comparable()
}

// typeError builds an ErrTypeMismatch for v in the given context.
func typeError(context, want string, v Value) *Error {
	return ErrTypeMismatch.With(
		slog.String("context", context),
		slog.String("expected", want),
		slog.String("got", TypeName(v)),
	)
}

// joinValues formats values separated by sep.
func joinValues(values []Value, sep string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}

	return strings.Join(parts, sep)
}
