package lang

import (
	"context"
	"log/slog"
	"time"

	"github.com/ardnew/calc/lang/lexer"
	"github.com/ardnew/calc/lang/token"
	"github.com/ardnew/calc/log"
)

// Environment is an explicit handle on everything parsing and execution
// consult: the operator dictionary, the syntax factories and the global
// scope. It is set up once and then used from one goroutine at a time.
type Environment struct {
	parser   *Parser
	global   *RootScope
	patterns *RootScope
	cache    map[string]*program
	logger   log.Logger
	maxDepth int
}

// Option configures an [Environment].
type Option func(*Environment)

// WithMaxDepth limits the nesting of frames during execution.
func WithMaxDepth(depth int) Option {
	return func(env *Environment) {
		env.maxDepth = depth
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(env *Environment) {
		env.logger = logger
	}
}

// WithLiteralParser replaces the parser for value tokens.
func WithLiteralParser(lp LiteralParser) Option {
	return func(env *Environment) {
		env.parser.literal = lp
	}
}

// NewEnvironment returns an environment with the standard operators,
// syntax and builtins installed.
func NewEnvironment(opts ...Option) *Environment {
	env := &Environment{
		parser:   NewParser(standardOperators(), ParseLiteral),
		global:   NewRootScope(),
		patterns: NewRootScope(),
		cache:    make(map[string]*program),
		maxDepth: DefaultMaxDepth,
	}

	env.parser.binaries[OpLambda] = lambdaNode
	env.parser.binaries[OpDot] = dotNode
	env.parser.modifiers[ModifierQuote] = quoteModifier
	env.parser.symbols[SymbolLet] = letSymbol(Let)
	env.parser.symbols[SymbolLetSeq] = letSymbol(LetSeq)
	env.parser.symbols[SymbolLetRec] = letSymbol(LetRec)

	// Root scopes accept every write.
	_ = installBuiltins(env.global, env.patterns)

	for _, opt := range opts {
		opt(env)
	}

	return env
}

// Operators returns the operator dictionary.
func (env *Environment) Operators() *Dictionary { return env.parser.ops }

// Parser returns the environment's parser.
func (env *Environment) Parser() *Parser { return env.parser }

// Global returns the global scope.
func (env *Environment) Global() Scope { return env.global }

// Patterns returns the scope patterns are compiled over. It is empty by
// default, so every name in a pattern is a bind or constructor placeholder.
func (env *Environment) Patterns() Scope { return env.patterns }

// Define binds a global name to v.
func (env *Environment) Define(name string, v Value) {
	env.global.symbols[name] = Bind(v)
}

// DefineSymbol installs a global symbol.
func (env *Environment) DefineSymbol(name string, sym Symbol) {
	env.global.symbols[name] = sym
}

// RegisterSymbolFactory installs custom syntax for a symbol name.
func (env *Environment) RegisterSymbolFactory(name string, f SymbolFactory) {
	env.parser.symbols[name] = f
	env.ClearCache()
}

// RegisterModifier installs custom syntax introduced by a modifier token.
func (env *Environment) RegisterModifier(name string, f ModifierFactory) {
	env.parser.modifiers[name] = f
	env.ClearCache()
}

// RegisterBinaryFactory installs the node builder for a binary operator.
func (env *Environment) RegisterBinaryFactory(name string, f BinaryFactory) {
	env.parser.binaries[name] = f
	env.ClearCache()
}

// Lexer returns a lexer for the environment's operators and modifiers.
func (env *Environment) Lexer() *lexer.Lexer {
	return lexer.New(
		lexer.WithOperators(env.parser.ops.Names()...),
		lexer.WithModifiers(sortedKeys(env.parser.modifiers)...),
	)
}

// Parse consumes one expression from s.
func (env *Environment) Parse(ctx context.Context, s token.Stream) (Node, error) {
	env.logger.TraceContext(ctx, "parse start")

	node, err := env.parser.Parse(s)
	if err != nil {
		env.logger.TraceContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	env.logger.TraceContext(ctx, "parse complete", slog.String("ast", node.String()))

	return node, nil
}

// Compile flattens node into code.
func (env *Environment) Compile(ctx context.Context, node Node) *Code {
	code := Compile(node)

	env.logger.TraceContext(ctx, "compile", slog.Int("ops", code.Len()))

	return code
}

// Execute runs code in a fresh frame over the global scope and returns the
// values left on the stack, bottom first.
func (env *Environment) Execute(ctx context.Context, code *Code) ([]Value, error) {
	f := env.frame()
	start := time.Now()

	env.logger.TraceContext(ctx, "execute start", slog.Int("ops", code.Len()))

	if err := code.Execute(f); err != nil {
		env.logger.TraceContext(ctx, "execute failed", slog.Any("error", err))

		return nil, err
	}

	env.logger.TraceContext(
		ctx,
		"execute complete",
		slog.Int("results", f.stack.Len()),
		slog.Duration("elapsed", time.Since(start)),
	)

	return f.stack.Values(), nil
}

// Eval tokenizes, parses, compiles and executes src. Statements are
// separated by ";" and share the global scope; the values of the last
// statement are returned. Compiled sources are cached by content.
func (env *Environment) Eval(ctx context.Context, src string) ([]Value, error) {
	code, err := env.compileCached(ctx, src)
	if err != nil {
		return nil, err
	}

	var out []Value

	for _, c := range code {
		if out, err = env.Execute(ctx, c); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// ParseAll tokenizes and parses every ";"-separated statement of src.
func (env *Environment) ParseAll(ctx context.Context, src string) ([]Node, error) {
	stream, err := env.Lexer().Stream(src)
	if err != nil {
		return nil, err
	}

	var nodes []Node

	for {
		tok, ok := stream.Peek()
		if !ok {
			return nodes, nil
		}

		if tok.Type == token.Terminator {
			stream.Next()

			continue
		}

		node, err := env.Parse(ctx, stream)
		if err != nil {
			return nil, NewParseError(err, src)
		}

		if err := statementEnd(stream); err != nil {
			return nil, NewParseError(err, src)
		}

		nodes = append(nodes, node)
	}
}

// statementEnd checks that a top-level expression is followed by a
// terminator or the end of input.
func statementEnd(s token.Stream) error {
	tok, ok := s.Peek()
	if !ok {
		return nil
	}

	switch tok.Type {
	case token.Terminator:
		return nil

	case token.RightBracket:
		return ErrUnmatchedBrackets.With(
			slog.String("close", tok.Text),
			slog.Int(posKey, tok.Pos),
		)

	default:
		return ErrInvalidToken.With(
			slog.String("token", tok.String()),
			slog.Int(posKey, tok.Pos),
		)
	}
}

func (env *Environment) frame() *Frame {
	f := NewFrame(env.global)
	f.limit = env.maxDepth

	return f
}
