package lang

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ardnew/mung"
)

// Names of the symbols the compiler emits calls to.
const (
	SymbolClosure = "closure"
	SymbolLet     = "let"
	SymbolLetSeq  = "letseq"
	SymbolLetRec  = "letrec"
	SymbolList    = "list"
	SymbolMatch   = "match"
	SymbolCons    = "Cons"
)

// Operator and modifier names of the standard syntax.
const (
	OpCons        = ":"
	OpLambda      = "->"
	OpApply       = "@"
	OpDot         = "."
	ModifierQuote = "#"
)

// Operator precedences, loosest first.
const (
	PrecCons = (iota + 1) * 10
	PrecLambda
	PrecOr
	PrecAnd
	PrecEquality
	PrecCompare
	PrecAdd
	PrecMultiply
	PrecPower
	PrecUnary
	PrecApply
	PrecDot
)

// standardOperators returns the operator table of the standard syntax.
func standardOperators() *Dictionary {
	d := NewDictionary()

	d.AddBinary(NewBinaryOperator(OpCons, PrecCons, RightAssoc, consOperator))
	// The lambda arrow is rewritten into a closure construction by its
	// binary factory and never applied directly.
	d.AddBinary(NewBinaryOperator(OpLambda, PrecLambda, RightAssoc, nil))
	d.AddBinary(NewBinaryOperator("||", PrecOr, LeftAssoc, orOperator))
	d.AddBinary(NewBinaryOperator("&&", PrecAnd, LeftAssoc, andOperator))
	d.AddBinary(NewBinaryOperator("==", PrecEquality, LeftAssoc, equalOperator))
	d.AddBinary(NewBinaryOperator("!=", PrecEquality, LeftAssoc, notEqualOperator))

	for _, name := range []string{"<", "<=", ">", ">="} {
		d.AddBinary(NewBinaryOperator(name, PrecCompare, LeftAssoc, exprBinary(name)))
	}

	for _, name := range []string{"+", "-"} {
		d.AddBinary(NewBinaryOperator(name, PrecAdd, LeftAssoc, exprBinary(name)))
	}

	for _, name := range []string{"*", "/", "%"} {
		d.AddBinary(NewBinaryOperator(name, PrecMultiply, LeftAssoc, exprBinary(name)))
	}

	d.AddBinary(NewBinaryOperator("**", PrecPower, RightAssoc, exprBinary("**")))

	d.AddUnary(NewUnaryOperator("-", PrecUnary, exprUnary("neg")))
	d.AddUnary(NewUnaryOperator("+", PrecUnary, exprUnary("pos")))
	d.AddUnary(NewUnaryOperator("!", PrecUnary, notOperator))

	d.SetDefault(d.AddBinary(
		NewBinaryOperator(OpApply, PrecApply, LeftAssoc, applyOperator),
	))
	d.AddBinary(NewBinaryOperator(OpDot, PrecDot, LeftAssoc, dotOperator))

	return d
}

// installBuiltins defines the standard global symbols.
func installBuiltins(global Scope, patterns Scope) error {
	values := map[string]Value{
		"true":  Bool(true),
		"false": Bool(false),
		"nil":   Nil{},

		SymbolClosure: closureFunc(),
		SymbolLet:     letCallable{kind: Let},
		SymbolLetSeq:  letCallable{kind: LetSeq},
		SymbolLetRec:  letCallable{kind: LetRec},
		SymbolList:    listFunc(),
		SymbolMatch:   matchFunc(patterns),
		SymbolCons:    consConstructor{},

		"car":    carFunc(),
		"cdr":    cdrFunc(),
		"len":    lenFunc(),
		"if":     ifFunc(),
		"apply":  applyFunc(),
		"record": recordFunc(),
		"str":    strFunc(),
		"def":    defFunc(global),

		"path": NewNamespace("path", map[string]Value{
			"abs": stringFunc("path.abs", 1, func(s []string) string { return pathAbs(s[0]) }),
			"cat": stringFunc("path.cat", Variadic, func(s []string) string { return filepath.Join(s...) }),
			"rel": stringFunc("path.rel", 2, func(s []string) string { return pathRel(s[0], s[1]) }),
		}),
		"mung": NewNamespace("mung", map[string]Value{
			"prefix":   mungPrefixFunc(),
			"prefixif": mungPrefixIfFunc(),
		}),
	}

	for _, name := range sortedKeys(values) {
		if err := Define(global, name, values[name]); err != nil {
			return err
		}
	}

	return nil
}

// ifFunc is the if builtin: if(cond, then, else). Code branches run only
// when selected.
func ifFunc() *Function {
	return NewFunction("if", 3, func(f *Frame, args []Value) (Value, error) {
		if Truthy(args[0]) {
			return branch(f, NewNestedScope(f.scope), args[1])
		}

		return branch(f, NewNestedScope(f.scope), args[2])
	})
}

// applyFunc is the apply builtin: apply(f, a, b, ...) calls f with the
// remaining arguments. A single list argument is spread.
func applyFunc() *Function {
	return NewFunction("apply", Variadic, func(f *Frame, args []Value) (Value, error) {
		if len(args) == 0 {
			return nil, ErrArgumentCount.With(
				slog.String("callee", "apply"),
				slog.Int("minimum", 1),
			)
		}

		rest := args[1:]
		if len(rest) == 1 {
			if items, ok := ListValues(rest[0]); ok {
				rest = items
			}
		}

		return f.Invoke(args[0], rest...)
	})
}

// defFunc is the def builtin: def(#name, value) binds a global name and
// returns the value.
func defFunc(global Scope) *Function {
	return NewFunction("def", 2, func(_ *Frame, args []Value) (Value, error) {
		var name string

		switch v := args[0].(type) {
		case Sym:
			name = string(v)

		case Str:
			name = string(v)

		default:
			return nil, typeError("def name", "symbol", args[0])
		}

		if err := Define(global, name, args[1]); err != nil {
			return nil, err
		}

		return args[1], nil
	})
}

// strFunc converts any value to its display string.
func strFunc() *Function {
	return NewFunction("str", 1, func(_ *Frame, args []Value) (Value, error) {
		if s, ok := args[0].(Str); ok {
			return s, nil
		}

		return Str(args[0].String()), nil
	})
}

// stringFunc adapts a function over strings into a native function.
func stringFunc(name string, arity int, fn func([]string) string) *Function {
	return NewFunction(name, arity, func(_ *Frame, args []Value) (Value, error) {
		s, err := stringArgs(name, args)
		if err != nil {
			return nil, err
		}

		return Str(fn(s)), nil
	})
}

func stringArgs(context string, args []Value) ([]string, error) {
	out := make([]string, len(args))

	for i, arg := range args {
		s, ok := arg.(Str)
		if !ok {
			return nil, typeError(context, "string", arg)
		}

		out[i] = string(s)
	}

	return out, nil
}

func pathAbs(path string) string {
	p, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	return p
}

func pathRel(from, to string) string {
	p, err := filepath.Rel(pathAbs(from), pathAbs(to))
	if err != nil {
		return filepath.Join(from, to)
	}

	return p
}

// mungPrefixFunc is mung.prefix(list, items...): prepends items to a
// PATH-like list, removing duplicates.
func mungPrefixFunc() *Function {
	return NewFunction("mung.prefix", Variadic, func(_ *Frame, args []Value) (Value, error) {
		s, err := stringArgs("mung.prefix", args)
		if err != nil {
			return nil, err
		}

		if len(s) == 0 {
			return nil, ErrArgumentCount.With(
				slog.String("callee", "mung.prefix"),
				slog.Int("minimum", 1),
			)
		}

		return Str(mung.Make(
			mung.WithSubjectItems(s[0]),
			mung.WithDelim(string(os.PathListSeparator)),
			mung.WithPrefixItems(s[1:]...),
		).String()), nil
	})
}

// mungPrefixIfFunc is mung.prefixif(list, predicate, items...): like
// mung.prefix, keeping only items for which the callable predicate is truthy.
func mungPrefixIfFunc() *Function {
	return NewFunction("mung.prefixif", Variadic, func(f *Frame, args []Value) (Value, error) {
		if len(args) < 2 {
			return nil, ErrArgumentCount.With(
				slog.String("callee", "mung.prefixif"),
				slog.Int("minimum", 2),
				slog.Int("got", len(args)),
			)
		}

		s, err := stringArgs("mung.prefixif", append([]Value{args[0]}, args[2:]...))
		if err != nil {
			return nil, err
		}

		predicate := args[1]

		var failed error

		filter := func(item string) bool {
			if failed != nil {
				return false
			}

			r, err := f.Invoke(predicate, Str(item))
			if err != nil {
				failed = err

				return false
			}

			return Truthy(r)
		}

		out := mung.Make(
			mung.WithSubjectItems(s[0]),
			mung.WithDelim(string(os.PathListSeparator)),
			mung.WithPrefixItems(s[1:]...),
			mung.WithFilter(filter),
		).String()

		if failed != nil {
			return nil, failed
		}

		return Str(out), nil
	})
}
