package lang

import (
	"errors"
	"testing"
)

func compileString(t *testing.T, env *Environment, src string) *Code {
	t.Helper()

	node, err := parseOne(t, env, src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}

	return Compile(node)
}

func TestCompile_String(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2", "{push 1; push 2; binary +}"},
		{"f(1, 2)", "{push 1; push 2; call f/2:1}"},
		{"f x", "{get f; get x; binary @}"},
		{"a.b", `{get a; push "b"; binary .}`},
		{"a.f(1)", `{get a; push "f"; binary .; push 1; apply 1:1}`},
		{"[1, 2]", "{push 1; push 2; call list/2:1}"},
		{"-x", "{get x; unary -}"},
		{"(1, 2)", "{push 1; push 2}"},
		{"#x", "{push #x}"},
		{"{}", "{push {}}"},
	}

	env := NewEnvironment()

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := compileString(t, env, tt.input).String(); got != tt.want {
				t.Errorf("Compile(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestCode_Listing(t *testing.T) {
	code := compileString(t, NewEnvironment(), "{1}")

	want := "0  push code\n" +
		"    0  push 1\n"

	if got := code.Listing(); got != want {
		t.Errorf("Listing =\n%q\nwant\n%q", got, want)
	}
}

func TestCode_Deterministic(t *testing.T) {
	env := NewEnvironment()
	src := "let([a: 1, f(x): x * a], f 2 + len([3]))"

	first := compileString(t, env, src).String()
	for range 3 {
		if got := compileString(t, env, src).String(); got != first {
			t.Fatalf("compilation not deterministic:\n%s\n%s", first, got)
		}
	}
}

func TestCode_Reexecute(t *testing.T) {
	env := NewEnvironment()
	code := compileString(t, env, "2 * 21")

	f := NewFrame(env.Global())

	for range 2 {
		if err := code.Execute(f); err != nil {
			t.Fatalf("execute: %v", err)
		}
	}

	got := f.Stack().Values()
	if len(got) != 2 || !Equal(got[0], Int(42)) || !Equal(got[1], Int(42)) {
		t.Errorf("stack after two runs = %v, want [42 42]", got)
	}

	if code.Len() != 3 {
		t.Errorf("code length changed to %d", code.Len())
	}
}

func TestCode_Call(t *testing.T) {
	env := NewEnvironment()

	tests := []struct {
		name    string
		body    string
		args    int
		returns int
		want    error
	}{
		{"single", "{1}", 0, 1, nil},
		{"multiple", "{1, 2}", 0, 2, nil},
		{"with argument", "{1}", 1, 1, ErrArgumentCount},
		{"return mismatch", "{1, 2}", 0, 1, ErrReturnCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFrame(env.Global())

			if err := compileString(t, env, tt.body).Execute(f); err != nil {
				t.Fatalf("execute: %v", err)
			}

			body, err := f.Stack().Pop()
			if err != nil {
				t.Fatalf("pop: %v", err)
			}

			for range tt.args {
				f.Stack().Push(Int(0))
			}

			err = body.(*Code).Call(f, tt.args, tt.returns)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Call error = %v, want %v", err, tt.want)
			}

			if tt.want == nil && f.Stack().Len() != tt.returns {
				t.Errorf("stack has %d values, want %d", f.Stack().Len(), tt.returns)
			}
		})
	}
}

func TestCode_NotCallable(t *testing.T) {
	env := NewEnvironment()

	_, err := env.Eval(t.Context(), "1 2")
	if !errors.Is(err, ErrNotCallable) {
		t.Errorf("expected ErrNotCallable, got %v", err)
	}

	_, err = env.Eval(t.Context(), "(1).f()")
	if !errors.Is(err, ErrNotStructure) {
		t.Errorf("expected ErrNotStructure, got %v", err)
	}
}
