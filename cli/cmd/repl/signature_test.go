package repl

import (
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/calc/lang"
)

func TestDetectFunctionCall(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  functionCall
	}{
		{"no call", "greeting", functionCall{}},
		{"open paren", "add(", functionCall{name: "add", inCall: true}},
		{"first arg", "add(1", functionCall{name: "add", inCall: true}},
		{"second arg", "add(1,", functionCall{name: "add", argIndex: 1, inCall: true}},
		{"second arg value", "add(1, 2", functionCall{name: "add", argIndex: 1, inCall: true}},
		{"namespace", "path.cat(a, b, ", functionCall{name: "path.cat", argIndex: 2, inCall: true}},
		{"closed call", "add(1, 2)", functionCall{}},
		{"nested inner", "f(g(1, ", functionCall{name: "g", argIndex: 1, inCall: true}},
		{"nested closed", "f(g(1, 2), ", functionCall{name: "f", argIndex: 1, inCall: true}},
		{"list argument", "len([1, 2, 3], ", functionCall{name: "len", argIndex: 1, inCall: true}},
		{"grouping", "(1 + ", functionCall{}},
		{"after operator", "x + max(a", functionCall{name: "max", inCall: true}},
		{"underscore", "my_fn(", functionCall{name: "my_fn", inCall: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectFunctionCall(tt.input, len(tt.input)); got != tt.want {
				t.Errorf("detectFunctionCall(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDetectFunctionCall_Cursor(t *testing.T) {
	input := "f(a, g(b, c), d)"

	tests := []struct {
		cursor int
		want   functionCall
	}{
		{2, functionCall{name: "f", inCall: true}},
		{7, functionCall{name: "g", inCall: true}},
		{10, functionCall{name: "g", argIndex: 1, inCall: true}},
		{14, functionCall{name: "f", argIndex: 2, inCall: true}},
		{len(input), functionCall{}},
		{-5, functionCall{}},
	}

	for _, tt := range tests {
		if got := detectFunctionCall(input, tt.cursor); got != tt.want {
			t.Errorf("detectFunctionCall(%q, %d) = %+v, want %+v", input, tt.cursor, got, tt.want)
		}
	}
}

func TestSignature(t *testing.T) {
	env := lang.NewEnvironment()

	src := `def(#add, (a, b) -> a + b); def(#Point, record(#Point, 2)); def(#n, 1)`
	if _, err := env.Eval(t.Context(), src); err != nil {
		t.Fatalf("define: %v", err)
	}

	tests := []struct {
		name string
		want []string
	}{
		{"if", []string{"cond", "then", "else"}},
		{"path.rel", []string{"from", "to"}},
		{"add", []string{"a", "b"}},
		{"Point", []string{"field1", "field2"}},
		{"n", nil},
		{"missing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := signature(env, tt.name); !slices.Equal(got, tt.want) {
				t.Errorf("signature(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestNumbered(t *testing.T) {
	if got, want := numbered("arg", 3), []string{"arg1", "arg2", "arg3"}; !slices.Equal(got, want) {
		t.Errorf("numbered = %v, want %v", got, want)
	}

	if got := numbered("arg", 0); len(got) != 0 {
		t.Errorf("numbered(0) = %v, want empty", got)
	}
}

func TestRenderSignatureHint(t *testing.T) {
	tests := []struct {
		name     string
		fn       string
		params   []string
		argIndex int
		want     []string
	}{
		{"no params", "now", nil, 0, []string{"now", "(", ")"}},
		{"first param", "add", []string{"x", "y"}, 0, []string{"add", "x", "y"}},
		{"second param", "add", []string{"x", "y"}, 1, []string{"add", "x", "y"}},
		{"variadic", "path.cat", []string{"elems..."}, 3, []string{"path.cat", "elems..."}},
		{"past the end", "add", []string{"x", "y"}, 5, []string{"add", "x", "y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderSignatureHint(tt.fn, tt.params, tt.argIndex)

			for _, s := range tt.want {
				if !strings.Contains(got, s) {
					t.Errorf("renderSignatureHint(%q) = %q, missing %q", tt.fn, got, s)
				}
			}
		})
	}
}

func BenchmarkDetectFunctionCall(b *testing.B) {
	input := strings.Repeat("f(a, [1, 2], g(b, ", 8)

	for b.Loop() {
		detectFunctionCall(input, len(input))
	}
}
