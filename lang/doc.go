// Package lang implements a small embeddable expression language: a token
// stream is parsed into an expression tree by an operator-precedence parser,
// the tree is flattened into immutable [Code], and code is executed against a
// stack and a chain of lexical scopes.
//
// # Syntax
//
// Expressions are infix with configurable precedence. Juxtaposition applies
// a function to its argument through the default operator, so f x y means
// (f x) y. Brackets group:
//
//	(a + b) * c         grouping
//	[1, 2, 3]           list literal
//	{x + 1}             code literal, executed on demand
//	f(a, b)             symbol call
//	ns.attr, ns.f(x)    attribute access
//	#name               quoted symbol
//
// The standard operators, loosest first:
//
//	:        cons, right associative
//	->       lambda, right associative
//	||  &&   logical
//	== !=    equality
//	< <= > >= comparison
//	+ -      additive
//	* / %    multiplicative
//	**       power, right associative
//	- + !    unary prefix
//	@        application (default operator)
//	.        attribute access
//
// # Binding forms
//
//	x -> x + 1                              closure
//	(x, y) -> {x * y}                       closure with inline body
//	let([a: 1, b: 2], a + b)                independent bindings
//	letseq([a: 1, b: a + 1], b)             sequential bindings
//	letrec([even(n): ..., odd(n): ...], e)  mutually recursive bindings
//
// # Patterns
//
// match(value, {pattern}, {then}, ..., {else}) compiles each pattern in a
// read-only scope where every unresolved name is a placeholder:
//
//	_            matches anything
//	x            binds x
//	Cons(h, t)   decomposes a value through the named constructor
//	ns.Point(x)  decomposes through a constructor reached by attributes
//
// Constructors are any value that can decompose, such as the builtin Cons
// or one declared with record(#Point, 2).
//
// # Environment
//
// An [Environment] owns the operator dictionary, the registered syntax
// factories and the global scope. It is set up once and then used from a
// single goroutine.
//
//	env := lang.NewEnvironment(lang.WithMaxDepth(1000))
//	out, err := env.Eval(ctx, "let([sq(x): x * x], sq 7)")
package lang
