package lang

import (
	"log/slog"
	"strings"
)

// Pair is a cons cell. A list is a chain of pairs whose last Cdr is [Nil].
type Pair struct {
	Car, Cdr Value
}

// Cons returns a new pair.
func Cons(car, cdr Value) *Pair { return &Pair{Car: car, Cdr: cdr} }

// List returns a proper list of values. The empty list is [Nil].
func List(values ...Value) Value {
	var list Value = Nil{}
	for i := len(values) - 1; i >= 0; i-- {
		list = Cons(values[i], list)
	}

	return list
}

// ListValues returns the elements of a proper list. The second result is
// false if v is not a proper list.
func ListValues(v Value) ([]Value, bool) {
	var out []Value

	for {
		switch p := v.(type) {
		case Nil:
			return out, true

		case *Pair:
			out = append(out, p.Car)
			v = p.Cdr

		default:
			return nil, false
		}
	}
}

func (p *Pair) String() string {
	var sb strings.Builder

	sb.WriteRune('[')
	sb.WriteString(p.Car.String())

	v := p.Cdr

	for {
		switch next := v.(type) {
		case Nil:
			sb.WriteRune(']')

			return sb.String()

		case *Pair:
			sb.WriteString(", ")
			sb.WriteString(next.Car.String())
			v = next.Cdr

		default:
			sb.WriteString(" : ")
			sb.WriteString(next.String())
			sb.WriteRune(']')

			return sb.String()
		}
	}
}

// consConstructor builds pairs when called and splits them when used as a
// pattern constructor.
type consConstructor struct{}

// Call implements [Caller].
func (consConstructor) Call(f *Frame, args, returns int) error {
	if args != 2 {
		return ErrArgumentCount.With(
			slog.String("callee", SymbolCons),
			slog.Int("expected", 2),
			slog.Int("got", args),
		)
	}

	if returns != 1 {
		return ErrReturnCount.With(
			slog.String("callee", SymbolCons),
			slog.Int("expected", 1),
			slog.Int("requested", returns),
		)
	}

	in, err := f.stack.PopN(2)
	if err != nil {
		return err
	}

	f.stack.Push(Cons(in[0], in[1]))

	return nil
}

// Decompose implements [Decomposer]. Any pair splits into car and cdr.
func (consConstructor) Decompose(_ *Frame, v Value, _ int) ([]Value, bool, error) {
	p, ok := v.(*Pair)
	if !ok {
		return nil, false, nil
	}

	return []Value{p.Car, p.Cdr}, true, nil
}

func (consConstructor) String() string { return "<constructor " + SymbolCons + ">" }

// listFunc is the list builtin, also used by list literals.
func listFunc() *Function {
	return NewFunction(SymbolList, Variadic, func(_ *Frame, args []Value) (Value, error) {
		return List(args...), nil
	})
}

func carFunc() *Function {
	return NewFunction("car", 1, func(_ *Frame, args []Value) (Value, error) {
		p, ok := args[0].(*Pair)
		if !ok {
			return nil, typeError("car", "pair", args[0])
		}

		return p.Car, nil
	})
}

func cdrFunc() *Function {
	return NewFunction("cdr", 1, func(_ *Frame, args []Value) (Value, error) {
		p, ok := args[0].(*Pair)
		if !ok {
			return nil, typeError("cdr", "pair", args[0])
		}

		return p.Cdr, nil
	})
}

func lenFunc() *Function {
	return NewFunction("len", 1, func(_ *Frame, args []Value) (Value, error) {
		switch v := args[0].(type) {
		case Str:
			return Int(len([]rune(string(v)))), nil

		case *Namespace:
			return Int(len(v.attrs)), nil

		case *Record:
			return Int(len(v.fields)), nil
		}

		items, ok := ListValues(args[0])
		if !ok {
			return nil, typeError("len", "list", args[0])
		}

		return Int(len(items)), nil
	})
}

// consOperator is the binary operator building a pair.
func consOperator(_ *Frame, a, b Value) (Value, error) { return Cons(a, b), nil }
