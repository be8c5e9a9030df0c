package lang

import (
	"errors"
	"testing"
)

// fixedDecomposer returns n copies of its input regardless of the requested
// count.
type fixedDecomposer struct{ n int }

func (d fixedDecomposer) String() string { return "<fixed>" }

func (d fixedDecomposer) Decompose(_ *Frame, v Value, _ int) ([]Value, bool, error) {
	out := make([]Value, d.n)
	for i := range out {
		out[i] = v
	}

	return out, true, nil
}

func patternEnv() *Environment {
	env := NewEnvironment()
	env.Define("geo", NewNamespace("geo", map[string]Value{
		"Point": NewConstructor("Point", 2),
	}))
	env.Define("Pt", NewConstructor("Pt", 2))
	env.Define("none", fixedDecomposer{n: 0})
	env.Define("many", fixedDecomposer{n: 3})

	return env
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Value
	}{
		{"cons", "match(1 : 2, {Cons(h, t)}, {h + t})", Int(3)},
		{"cons of list", "match([1, 2, 3], {Cons(h, t)}, {len(t)})", Int(2)},
		{"nested cons", "match([1, 2], {Cons(a, Cons(b, rest))}, {a + b})", Int(3)},
		{"else", "match(5, {Cons(h, t)}, {h}, {0})", Int(0)},
		{"no match", "match(5, {Cons(h, t)}, {h})", Nil{}},
		{"wildcard", "match(5, {_}, {1})", Int(1)},
		{"bind", "match(5, {x}, {x * 2})", Int(10)},
		{"wildcard in constructor", "match(1 : 2, {Cons(_, t)}, {t})", Int(2)},
		{"second clause", "match(nil, {Cons(h, t)}, {1}, {x}, {2})", Int(2)},
		{"non-code branch", "match(5, {x}, 7)", Int(7)},
		{"record", "match(Pt(3, 4), {Pt(x, y)}, {x * y})", Int(12)},
		{"record mismatch", "match(1 : 2, {Pt(x, y)}, {x}, {0})", Int(0)},
		{"namespace constructor", "match(geo.Point(1, 2), {geo.Point(a, b)}, {a - b})", Int(-1)},
		{
			"declared record",
			"def(#V, record(#V, 1)); match(V(9), {V(n)}, {n})",
			Int(9),
		},
		{
			"constructor resolved when matching",
			"let([Cons: Pt], match(Pt(1, 2), {Cons(a, b)}, {a + b}))",
			Int(3),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lastValue(t, patternEnv(), tt.input)
			if !Equal(got, tt.want) {
				t.Errorf("eval %q = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestMatch_BindsAreLocal(t *testing.T) {
	env := patternEnv()

	if _, err := env.Eval(t.Context(), "match(5, {bound}, {bound})"); err != nil {
		t.Fatalf("eval: %v", err)
	}

	if _, err := env.Eval(t.Context(), "bound"); !errors.Is(err, ErrUnknownSymbol) {
		t.Errorf("expected pattern bind to stay local, got %v", err)
	}
}

func TestMatch_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"too few arguments", "match(1, {x})", ErrArgumentCount},
		{"pattern not code", "match(1, 2, {3})", ErrTypeMismatch},
		{"record arity", "match(Pt(3, 4), {Pt(x)}, {x})", ErrDecomposeContract},
		{"decomposer returns none", "match(1, {none(x)}, {x})", ErrDecomposeContract},
		{"decomposer returns extra", "match(1, {many(x, y)}, {x})", ErrDecomposeContract},
		{"unfinished path", "match(1, {geo.Point}, {1})", ErrInvalidPattern},
		{"literal pattern", "match(1, {1}, {1})", ErrInvalidPattern},
		{"two values", "match(1, {a, b}, {1})", ErrInvalidPattern},
		{"not a constructor", "match(1, {len(x)}, {x})", ErrNotDecomposable},
		{"unknown constructor", "match(1, {Nope(x)}, {x})", ErrUnknownSymbol},
		{"unknown attribute", "match(1, {geo.Line(a)}, {a})", ErrUnknownAttribute},
		{"compared constructors", "match(1, {Cons(a, b) == Cons(c, d)}, {1})", ErrInvalidPattern},
		{"compared paths", "match(1, {a.b == a.c}, {1})", ErrInvalidPattern},
		{"compared terminals", "match(1, {a.b(x) != a.b(y)}, {1})", ErrInvalidPattern},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := patternEnv().Eval(t.Context(), tt.input)
			if !errors.Is(err, tt.want) {
				t.Errorf("eval %q error = %v, want %v", tt.input, err, tt.want)
			}
		})
	}
}

func TestCompilePattern_String(t *testing.T) {
	env := patternEnv()

	tests := []struct {
		input string
		want  string
	}{
		{"{_}", "_"},
		{"{x}", "x"},
		{"{Cons(h, _)}", "Cons(h, _)"},
		{"{Cons(a, Cons(b, c))}", "Cons(a, Cons(b, c))"},
		{"{geo.Point(x, y)}", "geo.Point(x, y)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			code := compileString(t, env, tt.input).Ops()
			if len(code) != 1 {
				t.Fatalf("expected one op, got %d", len(code))
			}

			body := code[0].(pushValue).value.(*Code)

			p, err := CompilePattern(env.Patterns(), body)
			if err != nil {
				t.Fatalf("CompilePattern(%s): %v", tt.input, err)
			}

			if got := p.String(); got != tt.want {
				t.Errorf("pattern %s = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestPatternScope(t *testing.T) {
	parent := NewRootScope()
	if err := Define(parent, "known", Int(1)); err != nil {
		t.Fatalf("define: %v", err)
	}

	s := NewPatternScope(parent)

	sym, ok := s.Get("known")
	if !ok {
		t.Fatal("expected known name to resolve")
	}

	if v, err := sym.Get(); err != nil || !Equal(v, Int(1)) {
		t.Errorf("known = %v, %v; want 1", v, err)
	}

	sym, ok = s.Get("unknown")
	if !ok {
		t.Fatal("expected unknown name to resolve to a placeholder")
	}

	if v, err := sym.Get(); err != nil || v.String() != "?unknown" {
		t.Errorf("unknown = %v, %v; want placeholder", v, err)
	}

	if err := s.Put("x", Bind(Int(2))); !errors.Is(err, ErrReadOnlyScope) {
		t.Errorf("expected ErrReadOnlyScope, got %v", err)
	}
}

func TestEqual_Placeholders(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"constructors", ctorPlaceholder{name: "P", args: []Value{Int(1)}}, ctorPlaceholder{name: "P", args: []Value{Int(1)}}, false},
		{"paths", pathPlaceholder{root: "a", path: []string{"b"}}, pathPlaceholder{root: "a", path: []string{"b"}}, false},
		{"terminals", terminalPlaceholder{root: "a"}, terminalPlaceholder{root: "a"}, false},
		{"mixed", ctorPlaceholder{name: "P"}, varPlaceholder{name: "P"}, false},
		{"names", varPlaceholder{name: "x"}, varPlaceholder{name: "x"}, true},
		{"symbols", Sym("x"), Sym("x"), true},
		{"nil", nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
