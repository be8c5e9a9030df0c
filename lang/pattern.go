package lang

import (
	"log/slog"
	"strings"
)

// MatchAny is the pattern name matching anything without binding it.
const MatchAny = "_"

// Pattern matches values, writing bound names into an output scope.
//
// Matching is eager: binds are written as sub-patterns succeed, so a failed
// match may leave partial bindings in out. Callers should discard out when
// Match returns false.
type Pattern interface {
	Match(f *Frame, out Scope, v Value) (bool, error)
	String() string
}

// CompilePattern runs code in a pattern scope over parent and translates the
// single value it produces into a [Pattern]. Names parent cannot resolve
// become binds; calls of them become constructor decompositions.
func CompilePattern(parent Scope, code *Code) (Pattern, error) {
	return compilePattern(NewFrame(parent), parent, code)
}

func compilePattern(f *Frame, parent Scope, code *Code) (Pattern, error) {
	out, err := f.run(code, NewPatternScope(parent))
	if err != nil {
		return nil, err
	}

	if len(out) != 1 {
		return nil, ErrInvalidPattern.With(
			slog.String("reason", "pattern must produce one value"),
			slog.Int("got", len(out)),
		)
	}

	return translatePattern(out[0])
}

func translatePattern(v Value) (Pattern, error) {
	switch p := v.(type) {
	case varPlaceholder:
		if p.name == MatchAny {
			return anyPattern{}, nil
		}

		return bindPattern{name: p.name}, nil

	case ctorPlaceholder:
		args, err := translatePatterns(p.args)
		if err != nil {
			return nil, err
		}

		return localCtorPattern{name: p.name, args: args}, nil

	case terminalPlaceholder:
		args, err := translatePatterns(p.args)
		if err != nil {
			return nil, err
		}

		return nsCtorPattern{root: p.root, path: p.path, args: args}, nil

	case pathPlaceholder:
		return nil, ErrInvalidPattern.With(
			slog.String("reason", "unfinished namespace constructor"),
			slog.String("path", p.String()),
		)

	default:
		return nil, ErrInvalidPattern.With(
			slog.String("reason", "not a pattern"),
			slog.String("value", v.String()),
		)
	}
}

func translatePatterns(values []Value) ([]Pattern, error) {
	out := make([]Pattern, len(values))

	for i, v := range values {
		p, err := translatePattern(v)
		if err != nil {
			return nil, err
		}

		out[i] = p
	}

	return out, nil
}

type anyPattern struct{}

func (anyPattern) Match(*Frame, Scope, Value) (bool, error) { return true, nil }
func (anyPattern) String() string                           { return MatchAny }

type bindPattern struct{ name string }

func (p bindPattern) Match(_ *Frame, out Scope, v Value) (bool, error) {
	if err := out.Put(p.name, Bind(v)); err != nil {
		return false, err
	}

	return true, nil
}

func (p bindPattern) String() string { return p.name }

// localCtorPattern decomposes with a constructor found by name in the
// matching frame's scope.
type localCtorPattern struct {
	name string
	args []Pattern
}

func (p localCtorPattern) Match(f *Frame, out Scope, v Value) (bool, error) {
	sym, err := lookup(f, p.name)
	if err != nil {
		return false, err
	}

	ctor, err := sym.Get()
	if err != nil {
		return false, err
	}

	return matchConstructor(f, out, v, ctor, p.args)
}

func (p localCtorPattern) String() string {
	return p.name + "(" + joinPatterns(p.args) + ")"
}

// nsCtorPattern decomposes with a constructor found by following attribute
// names from a root symbol.
type nsCtorPattern struct {
	root string
	path []string
	args []Pattern
}

func (p nsCtorPattern) Match(f *Frame, out Scope, v Value) (bool, error) {
	sym, err := lookup(f, p.root)
	if err != nil {
		return false, err
	}

	ctor, err := sym.Get()
	if err != nil {
		return false, err
	}

	for _, key := range p.path {
		if ctor, err = attribute(f, ctor, key); err != nil {
			return false, err
		}
	}

	return matchConstructor(f, out, v, ctor, p.args)
}

func (p nsCtorPattern) String() string {
	return p.root + "." + strings.Join(p.path, ".") + "(" + joinPatterns(p.args) + ")"
}

func matchConstructor(
	f *Frame,
	out Scope,
	v, ctor Value,
	args []Pattern,
) (bool, error) {
	d, ok := ctor.(Decomposer)
	if !ok {
		return false, ErrNotDecomposable.With(
			slog.String("value", ctor.String()),
			slog.String("type", TypeName(ctor)),
		)
	}

	parts, ok, err := d.Decompose(f, v, len(args))
	if err != nil || !ok {
		return false, err
	}

	if len(parts) != len(args) {
		return false, ErrDecomposeContract.With(
			slog.String("constructor", ctor.String()),
			slog.Int("expected", len(args)),
			slog.Int("got", len(parts)),
		)
	}

	for i, part := range parts {
		if ok, err := args[i].Match(f, out, part); err != nil || !ok {
			return false, err
		}
	}

	return true, nil
}

func joinPatterns(patterns []Pattern) string {
	parts := make([]string, len(patterns))
	for i, p := range patterns {
		parts[i] = p.String()
	}

	return strings.Join(parts, ", ")
}

// patternSymbol is what a [PatternScope] resolves unknown names to.
type patternSymbol struct{ name string }

func (s patternSymbol) Get() (Value, error) { return varPlaceholder(s), nil }

func (s patternSymbol) Call(f *Frame, args, returns int) error {
	return varPlaceholder(s).Call(f, args, returns)
}

// varPlaceholder is a bare name in a pattern.
type varPlaceholder struct{ name string }

func (p varPlaceholder) String() string { return "?" + p.name }

// Attr implements [Attributer]: a.b starts a namespace constructor path.
func (p varPlaceholder) Attr(_ *Frame, key string) (Value, bool, error) {
	return pathPlaceholder{root: p.name, path: []string{key}}, true, nil
}

// Call implements [Caller]: Name(p...) captures sub-patterns.
func (p varPlaceholder) Call(f *Frame, args, returns int) error {
	sub, err := capturePatternArgs(f, p.name, args, returns)
	if err != nil {
		return err
	}

	f.stack.Push(ctorPlaceholder{name: p.name, args: sub})

	return nil
}

// ctorPlaceholder is a call of a bare name in a pattern.
type ctorPlaceholder struct {
	name string
	args []Value
}

func (p ctorPlaceholder) String() string {
	return "?" + p.name + "(" + joinValues(p.args, ", ") + ")"
}

// pathPlaceholder is a dotted name in a pattern that has not been called.
type pathPlaceholder struct {
	root string
	path []string
}

func (p pathPlaceholder) String() string {
	return "?" + p.root + "." + strings.Join(p.path, ".")
}

// Attr implements [Attributer]: extends the path.
func (p pathPlaceholder) Attr(_ *Frame, key string) (Value, bool, error) {
	path := make([]string, len(p.path), len(p.path)+1)
	copy(path, p.path)

	return pathPlaceholder{root: p.root, path: append(path, key)}, true, nil
}

// Call implements [Caller]: terminates the path with sub-patterns.
func (p pathPlaceholder) Call(f *Frame, args, returns int) error {
	sub, err := capturePatternArgs(f, p.String(), args, returns)
	if err != nil {
		return err
	}

	f.stack.Push(terminalPlaceholder{root: p.root, path: p.path, args: sub})

	return nil
}

// terminalPlaceholder is a called dotted name in a pattern.
type terminalPlaceholder struct {
	root string
	path []string
	args []Value
}

func (p terminalPlaceholder) String() string {
	return "?" + p.root + "." + strings.Join(p.path, ".") +
		"(" + joinValues(p.args, ", ") + ")"
}

func capturePatternArgs(f *Frame, name string, args, returns int) ([]Value, error) {
	if returns != 1 {
		return nil, ErrReturnCount.With(
			slog.String("constructor", name),
			slog.Int("expected", 1),
			slog.Int("requested", returns),
		)
	}

	return f.stack.PopN(args)
}

// attribute reads key from v.
func attribute(f *Frame, v Value, key string) (Value, error) {
	a, ok := v.(Attributer)
	if !ok {
		return nil, ErrNotStructure.With(
			slog.String("value", v.String()),
			slog.String("attribute", key),
		)
	}

	r, ok, err := a.Attr(f, key)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, ErrUnknownAttribute.With(
			slog.String("value", v.String()),
			slog.String("attribute", key),
		)
	}

	return r, nil
}

// matchFunc is the match builtin:
//
//	match(value, {pattern}, {then}, ..., {else})
//
// Clauses are tried in order. The first matching pattern runs its branch in
// a scope holding the pattern's binds. Without a match the optional trailing
// else branch runs, or nil is returned. Patterns compile over patterns, so
// constructor names in them are resolved when matching, not when compiling.
func matchFunc(patterns Scope) *Function {
	return NewFunction(SymbolMatch, Variadic, func(f *Frame, args []Value) (Value, error) {
		if len(args) < 3 {
			return nil, ErrArgumentCount.With(
				slog.String("callee", SymbolMatch),
				slog.Int("minimum", 3),
				slog.Int("got", len(args)),
			)
		}

		value, clauses := args[0], args[1:]

		for ; len(clauses) >= 2; clauses = clauses[2:] {
			code, ok := clauses[0].(*Code)
			if !ok {
				return nil, typeError("match pattern", "code", clauses[0])
			}

			pattern, err := compilePattern(f, patterns, code)
			if err != nil {
				return nil, err
			}

			out := NewNestedScope(f.scope)

			ok, err = pattern.Match(f, out, value)
			if err != nil {
				return nil, err
			}

			if ok {
				return branch(f, out, clauses[1])
			}
		}

		if len(clauses) == 1 {
			return branch(f, NewNestedScope(f.scope), clauses[0])
		}

		return Nil{}, nil
	})
}

// branch evaluates a code branch in scope, or returns a non-code value as
// is.
func branch(f *Frame, scope Scope, v Value) (Value, error) {
	code, ok := v.(*Code)
	if !ok {
		return v, nil
	}

	return f.runSingle(code, scope, "branch")
}
