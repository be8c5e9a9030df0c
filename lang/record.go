package lang

import (
	"log/slog"
	"strconv"
)

// Constructor is a user-declared record type. Calling it builds a [Record];
// in a pattern it decomposes records it built.
type Constructor struct {
	Name   string
	Fields int
}

// NewConstructor returns a constructor for records with the given number of
// fields.
func NewConstructor(name string, fields int) *Constructor {
	return &Constructor{Name: name, Fields: fields}
}

// Call implements [Caller].
func (c *Constructor) Call(f *Frame, args, returns int) error {
	if args != c.Fields {
		return ErrArgumentCount.With(
			slog.String("callee", c.Name),
			slog.Int("expected", c.Fields),
			slog.Int("got", args),
		)
	}

	if returns != 1 {
		return ErrReturnCount.With(
			slog.String("callee", c.Name),
			slog.Int("expected", 1),
			slog.Int("requested", returns),
		)
	}

	fields, err := f.stack.PopN(args)
	if err != nil {
		return err
	}

	f.stack.Push(&Record{ctor: c, fields: fields})

	return nil
}

// Decompose implements [Decomposer]. It refuses values built by any other
// constructor and otherwise returns all fields.
func (c *Constructor) Decompose(_ *Frame, v Value, _ int) ([]Value, bool, error) {
	r, ok := v.(*Record)
	if !ok || r.ctor != c {
		return nil, false, nil
	}

	return r.Fields(), true, nil
}

func (c *Constructor) String() string {
	return "<constructor " + c.Name + "/" + strconv.Itoa(c.Fields) + ">"
}

// Record is a value built by a [Constructor].
type Record struct {
	ctor   *Constructor
	fields []Value
}

// Constructor returns the constructor that built r.
func (r *Record) Constructor() *Constructor { return r.ctor }

// Fields returns a copy of the record's fields.
func (r *Record) Fields() []Value {
	out := make([]Value, len(r.fields))
	copy(out, r.fields)

	return out
}

func (r *Record) String() string {
	return r.ctor.Name + "(" + joinValues(r.fields, ", ") + ")"
}

// recordFunc is the record builtin: record(#Name, fields) declares a
// constructor.
func recordFunc() *Function {
	return NewFunction("record", 2, func(_ *Frame, args []Value) (Value, error) {
		var name string

		switch v := args[0].(type) {
		case Sym:
			name = string(v)

		case Str:
			name = string(v)

		default:
			return nil, typeError("record name", "symbol", args[0])
		}

		n, ok := args[1].(Int)
		if !ok || n < 0 {
			return nil, typeError("record fields", "non-negative int", args[1])
		}

		return NewConstructor(name, int(n)), nil
	})
}
