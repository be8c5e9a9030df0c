package lang

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/calc/log"
)

// evalValue evaluates src in env and returns its single result.
func evalValue(t *testing.T, env *Environment, src string) Value {
	t.Helper()

	out, err := env.Eval(t.Context(), src)
	if err != nil {
		t.Fatalf("eval %q: %v", src, err)
	}

	if len(out) != 1 {
		t.Fatalf("eval %q: expected 1 value, got %d (%v)", src, len(out), out)
	}

	return out[0]
}

func TestEnvironment_Eval(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Value
	}{
		{"int", "42", Int(42)},
		{"float", "1.5", Float(1.5)},
		{"string", `"hi"`, Str("hi")},
		{"char", `'x'`, Str("x")},
		{"precedence", "1 + 2 * 3", Int(7)},
		{"grouping", "(1 + 2) * 3", Int(9)},
		{"left assoc", "10 - 4 - 3", Int(3)},
		{"division", "7 / 2", Float(3.5)},
		{"modulo", "7 % 4", Int(3)},
		{"power", "2 ** 10", Float(1024)},
		{"negate", "-3 + 5", Int(2)},
		{"unary plus", "+4", Int(4)},
		{"concat", `"a" + "b"`, Str("ab")},
		{"compare", "1 < 2", Bool(true)},
		{"equal mixed", "2 == 2.0", Bool(true)},
		{"not equal", `"a" != "b"`, Bool(true)},
		{"and", "true && false", Bool(false)},
		{"or", "false || 1", Bool(true)},
		{"not", "!0", Bool(true)},
		{"nil", "nil", Nil{}},
		{"quote", "#foo", Sym("foo")},
		{"if then", `if(1 < 2, "yes", "no")`, Str("yes")},
		{"if lazy", "if(false, {undefined}, 2)", Int(2)},
		{"len", "len [1, 2, 3]", Int(3)},
		{"len string", `len "héllo"`, Int(5)},
		{"car", "car [1, 2]", Int(1)},
		{"apply spread", "apply((a, b) -> a - b, [5, 3])", Int(2)},
		{"apply args", "apply((a, b) -> a - b, 5, 3)", Int(2)},
		{"str", "str 12", Str("12")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evalValue(t, NewEnvironment(), tt.input)
			if !Equal(got, tt.want) {
				t.Errorf("Eval(%q) = %v (%s), want %v", tt.input, got, TypeName(got), tt.want)
			}
		})
	}
}

func TestEnvironment_Eval_Display(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"[1, 2, 3]", "[1, 2, 3]"},
		{"[]", "nil"},
		{"1 : 2", "[1 : 2]"},
		{"1 : 2 : nil", "[1, 2]"},
		{"cdr [1, 2]", "[2]"},
		{"#(a, b)", "[#a, #b]"},
		{"Cons(1, nil)", "[1]"},
		{"record(#Point, 2)", "<constructor Point/2>"},
		{"x -> x", "<closure (x)>"},
		{"path", "<namespace path>"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := evalValue(t, NewEnvironment(), tt.input)
			if got.String() != tt.want {
				t.Errorf("Eval(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestEnvironment_Eval_Statements(t *testing.T) {
	env := NewEnvironment()

	got := evalValue(t, env, "def(#x, 10); def(#y, x * 2);; y + 1")
	if !Equal(got, Int(21)) {
		t.Errorf("expected 21, got %v", got)
	}

	// Definitions persist between evaluations.
	got = evalValue(t, env, "x + y")
	if !Equal(got, Int(30)) {
		t.Errorf("expected 30, got %v", got)
	}
}

func TestEnvironment_Eval_MultipleValues(t *testing.T) {
	out, err := NewEnvironment().Eval(t.Context(), "(1, 2, 3)")
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}

	if len(out) != 3 {
		t.Fatalf("expected 3 values, got %d", len(out))
	}

	for i, want := range []Value{Int(1), Int(2), Int(3)} {
		if !Equal(out[i], want) {
			t.Errorf("value %d: got %v, want %v", i, out[i], want)
		}
	}
}

func TestEnvironment_Eval_Empty(t *testing.T) {
	out, err := NewEnvironment().Eval(t.Context(), " ; ")
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}

	if len(out) != 0 {
		t.Errorf("expected no values, got %v", out)
	}
}

func TestEnvironment_Eval_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"unknown symbol", "undefined + 1", ErrUnknownSymbol},
		{"not callable", "1 2", ErrNotCallable},
		{"not structure", "nil.x", ErrNotStructure},
		{"unknown attribute", "path.nope", ErrUnknownAttribute},
		{"operator", `"a" - 1`, ErrOperator},
		{"car of int", "car 1", ErrTypeMismatch},
		{"if arity", "if(1, 2)", ErrArgumentCount},
		{"stray close", "1 + 2)", ErrUnmatchedBrackets},
		{"trailing separator", "1, 2", ErrInvalidToken},
		{"unfinished", "1 +", ErrUnfinishedExpression},
		{"unclosed", "f(1, 2", ErrUnfinishedExpression},
		{"mismatch", "(1]", ErrUnmatchedBrackets},
		{"def name", "def(1, 2)", ErrTypeMismatch},
		{"code arguments", "{1} 2", ErrArgumentCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEnvironment().Eval(t.Context(), tt.input)
			if !errors.Is(err, tt.want) {
				t.Errorf("Eval(%q) error = %v, want %v", tt.input, err, tt.want)
			}
		})
	}
}

func TestEnvironment_Eval_ParseErrorPosition(t *testing.T) {
	_, err := NewEnvironment().Eval(t.Context(), "1 + 2\n(3]")

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}

	if !strings.HasPrefix(perr.Error(), "parse error at line 2, column 3") {
		t.Errorf("unexpected message: %s", perr.Error())
	}

	if !strings.Contains(perr.Snippet(), "2 | (3]") {
		t.Errorf("unexpected snippet: %q", perr.Snippet())
	}
}

func TestEnvironment_UnknownSymbolSuggestion(t *testing.T) {
	env := NewEnvironment()
	env.Define("counter", Int(1))

	_, err := env.Eval(t.Context(), "countr + 1")
	if !errors.Is(err, ErrUnknownSymbol) {
		t.Fatalf("expected ErrUnknownSymbol, got %v", err)
	}

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %T", err)
	}

	hint, ok := e.Attr("did_you_mean")
	if !ok || !strings.Contains(hint.String(), "counter") {
		t.Errorf("expected suggestion of counter, got %v", hint)
	}
}

func TestEnvironment_MaxDepth(t *testing.T) {
	env := NewEnvironment(WithMaxDepth(50))

	_, err := env.Eval(t.Context(), "letrec([f(n): f(n + 1)], f 0)")
	if !errors.Is(err, ErrMaxDepthExceeded) {
		t.Errorf("expected ErrMaxDepthExceeded, got %v", err)
	}
}

func TestEnvironment_Define(t *testing.T) {
	env := NewEnvironment()
	env.Define("double", NewFunction("double", 1, func(_ *Frame, args []Value) (Value, error) {
		n, ok := args[0].(Int)
		if !ok {
			return nil, typeError("double", "int", args[0])
		}

		return n * 2, nil
	}))

	got := evalValue(t, env, "double 21")
	if !Equal(got, Int(42)) {
		t.Errorf("expected 42, got %v", got)
	}

	_, err := env.Eval(t.Context(), "double(1, 2)")
	if !errors.Is(err, ErrArgumentCount) {
		t.Errorf("expected ErrArgumentCount, got %v", err)
	}
}

func TestEnvironment_RegisterSymbolFactory(t *testing.T) {
	env := NewEnvironment()

	// Warm the cache with the default meaning of the source.
	if _, err := env.Eval(t.Context(), "twice(3)"); !errors.Is(err, ErrUnknownSymbol) {
		t.Fatalf("expected ErrUnknownSymbol, got %v", err)
	}

	env.RegisterSymbolFactory("twice", func(_ string, args []Node, call bool) (Node, error) {
		if !call || len(args) != 1 {
			return nil, ErrInvalidBinding
		}

		return &BinaryOpNode{Op: mustBinary(t, env, "+"), Left: args[0], Right: args[0]}, nil
	})

	got := evalValue(t, env, "twice(3)")
	if !Equal(got, Int(6)) {
		t.Errorf("expected 6, got %v", got)
	}
}

func TestEnvironment_EvalReader(t *testing.T) {
	got, err := NewEnvironment().EvalReader(t.Context(), strings.NewReader("def(#a, 2);\na ** 3"))
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}

	if len(got) != 1 || !Equal(got[0], Int(8)) {
		t.Errorf("expected [8], got %v", got)
	}
}

func TestEnvironment_CacheReusesCode(t *testing.T) {
	env := NewEnvironment()
	src := "def(#n, if(n == nil, 0, {n}) + 1)"

	env.Define("n", Nil{})

	for want := 1; want <= 3; want++ {
		got := evalValue(t, env, src)
		if !Equal(got, Int(want)) {
			t.Fatalf("evaluation %d: got %v", want, got)
		}
	}

	if len(env.cache) != 1 {
		t.Errorf("expected 1 cached program, got %d", len(env.cache))
	}

	env.ClearCache()

	if len(env.cache) != 0 {
		t.Errorf("expected empty cache, got %d", len(env.cache))
	}
}

func TestEnvironment_CacheFollowsOperators(t *testing.T) {
	env := NewEnvironment()
	src := "6 + 3"

	if got := evalValue(t, env, src); !Equal(got, Int(9)) {
		t.Fatalf("before redefinition: got %v", got)
	}

	env.Operators().AddBinary(NewBinaryOperator("+", PrecAdd, LeftAssoc,
		func(_ *Frame, a, b Value) (Value, error) {
			return a.(Int) - b.(Int), nil
		}))

	if got := evalValue(t, env, src); !Equal(got, Int(3)) {
		t.Errorf("after redefinition: got %v, want 3", got)
	}

	if len(env.cache) != 2 {
		t.Errorf("expected 2 cached programs, got %d", len(env.cache))
	}
}

func TestEnvironment_Logger(t *testing.T) {
	var buf bytes.Buffer

	logger := log.Make(&buf, log.WithLevel(log.LevelTrace), log.WithPretty(false))
	env := NewEnvironment(WithLogger(logger))

	evalValue(t, env, "1 + 1")

	for _, msg := range []string{"cache lookup", "parse complete", "compile", "execute complete"} {
		if !strings.Contains(buf.String(), msg) {
			t.Errorf("expected %q in trace output:\n%s", msg, buf.String())
		}
	}
}

func TestBuiltins_Path(t *testing.T) {
	env := NewEnvironment()

	got := evalValue(t, env, `path.cat("a", "b", "c")`)
	if want := Str(filepath.Join("a", "b", "c")); got != want {
		t.Errorf("path.cat = %v, want %v", got, want)
	}

	got = evalValue(t, env, `path.rel("/a/b", "/a/b/c/d")`)
	if want := Str(filepath.Join("c", "d")); got != want {
		t.Errorf("path.rel = %v, want %v", got, want)
	}

	got = evalValue(t, env, `path.abs "x"`)
	if s, ok := got.(Str); !ok || !filepath.IsAbs(string(s)) {
		t.Errorf("path.abs = %v, want absolute path", got)
	}
}

func TestBuiltins_Mung(t *testing.T) {
	env := NewEnvironment()
	sep := string(os.PathListSeparator)

	env.Define("subject", Str("/a"+sep+"/b"))

	got, ok := evalValue(t, env, `mung.prefix(subject, "/c")`).(Str)
	if !ok {
		t.Fatalf("mung.prefix returned %T", got)
	}

	if !strings.HasPrefix(string(got), "/c"+sep) || !strings.Contains(string(got), "/b") {
		t.Errorf("mung.prefix = %q", got)
	}

	got, ok = evalValue(t, env, `mung.prefixif(subject, s -> s != "/x", "/c", "/x")`).(Str)
	if !ok {
		t.Fatalf("mung.prefixif returned %T", got)
	}

	if !strings.Contains(string(got), "/c") || strings.Contains(string(got), "/x") {
		t.Errorf("mung.prefixif = %q", got)
	}

	_, err := env.Eval(t.Context(), `mung.prefixif(subject, s -> undefined, "/c")`)
	if !errors.Is(err, ErrUnknownSymbol) {
		t.Errorf("expected predicate error to propagate, got %v", err)
	}
}

func mustBinary(t *testing.T, env *Environment, name string) *BinaryOperator {
	t.Helper()

	op, ok := env.Operators().Binary(name)
	if !ok {
		t.Fatalf("binary operator %q not found", name)
	}

	return op
}
