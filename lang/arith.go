package lang

// Arithmetic and ordering are delegated to expr-lang: each operator is a
// precompiled program over the operands a and b.

import (
	"log/slog"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// exprOperators are the operators whose semantics come from expr-lang.
//
//nolint:gochecknoglobals
var exprOperators = sync.OnceValue(func() map[string]*vm.Program {
	programs := make(map[string]*vm.Program)

	for _, op := range []string{"+", "-", "*", "/", "%", "**", "<", "<=", ">", ">="} {
		programs[op] = mustCompile("a " + op + " b")
	}

	programs["neg"] = mustCompile("-a")
	programs["pos"] = mustCompile("+a")

	return programs
})

func mustCompile(src string) *vm.Program {
	program, err := expr.Compile(src)
	if err != nil {
		panic(ErrOperator.Wrap(err).With(slog.String("source", src)))
	}

	return program
}

func runProgram(name string, env map[string]any) (Value, error) {
	out, err := expr.Run(exprOperators()[name], env)
	if err != nil {
		return nil, ErrOperator.Wrap(err).With(slog.String("operator", name))
	}

	return FromNative(out)
}

// exprBinary returns an operator implementation running the named program.
func exprBinary(name string) BinaryFunc {
	return func(_ *Frame, a, b Value) (Value, error) {
		return runProgram(name, map[string]any{"a": ToNative(a), "b": ToNative(b)})
	}
}

// exprUnary returns an operator implementation running the named program.
func exprUnary(name string) UnaryFunc {
	return func(_ *Frame, a Value) (Value, error) {
		return runProgram(name, map[string]any{"a": ToNative(a)})
	}
}

func equalOperator(_ *Frame, a, b Value) (Value, error) { return Bool(Equal(a, b)), nil }

func notEqualOperator(_ *Frame, a, b Value) (Value, error) { return Bool(!Equal(a, b)), nil }

func andOperator(_ *Frame, a, b Value) (Value, error) { return Bool(Truthy(a) && Truthy(b)), nil }

func orOperator(_ *Frame, a, b Value) (Value, error) { return Bool(Truthy(a) || Truthy(b)), nil }

func notOperator(_ *Frame, a Value) (Value, error) { return Bool(!Truthy(a)), nil }

// applyOperator is the default operator: f x calls f with x.
func applyOperator(f *Frame, fn, arg Value) (Value, error) {
	return f.Invoke(fn, arg)
}

// dotOperator reads a named attribute: obj.name.
func dotOperator(f *Frame, obj, key Value) (Value, error) {
	name, ok := key.(Str)
	if !ok {
		return nil, typeError("attribute name", "string", key)
	}

	return attribute(f, obj, string(name))
}
