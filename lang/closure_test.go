package lang

import (
	"errors"
	"testing"
)

// lastValue evaluates src in env and returns the result of its last
// statement.
func lastValue(t *testing.T, env *Environment, src string) Value {
	t.Helper()

	out, err := env.Eval(t.Context(), src)
	if err != nil {
		t.Fatalf("eval %q: %v", src, err)
	}

	if len(out) == 0 {
		t.Fatalf("eval %q: no values", src)
	}

	return out[len(out)-1]
}

func TestClosure(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Value
	}{
		{"apply", "(x -> x * 2) 21", Int(42)},
		{"inline body", "apply((x, y) -> {x * y}, 3, 4)", Int(12)},
		{"list params", "apply([a, b] -> a - b, 5, 3)", Int(2)},
		{"quoted param", "(#x -> x) 5", Int(5)},
		{"curried", "(x -> y -> x - y) 10 4", Int(6)},
		{"captures definition scope", "let([k: 3], x -> x + k) 4", Int(7)},
		{"params shadow globals", "(true -> true) 0", Int(0)},
		{"spread list", "apply((a, b) -> a + b, [1, 2])", Int(3)},
		{
			"partial application",
			"def(#add, x -> y -> x + y); def(#add5, add 5); add5 10",
			Int(15),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lastValue(t, NewEnvironment(), tt.input)
			if !Equal(got, tt.want) {
				t.Errorf("eval %q = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestClosure_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"too few arguments", "((x, y) -> x) 1", ErrArgumentCount},
		{"too many arguments", "apply(x -> x, 1, 2)", ErrArgumentCount},
		{"body returns two", "(x -> (x, x)) 1", ErrReturnCount},
		{"literal parameter", "1 -> 2", ErrInvalidBinding},
		{"body not code", "closure([#x], 1)", ErrTypeMismatch},
		{"params not symbols", "closure([1], {1})", ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEnvironment().Eval(t.Context(), tt.input)
			if !errors.Is(err, tt.want) {
				t.Errorf("eval %q error = %v, want %v", tt.input, err, tt.want)
			}
		})
	}
}

func TestClosure_Params(t *testing.T) {
	v := evalValue(t, NewEnvironment(), "(a, b) -> a")

	c, ok := v.(*Closure)
	if !ok {
		t.Fatalf("expected *Closure, got %T", v)
	}

	if p := c.Params(); len(p) != 2 || p[0] != "a" || p[1] != "b" {
		t.Errorf("Params() = %v, want [a b]", p)
	}

	if want := "<closure (a, b)>"; c.String() != want {
		t.Errorf("String() = %s, want %s", c.String(), want)
	}
}
