package lang

import (
	"log/slog"
	"strings"
)

// Closure is a callable pairing a captured scope with parameter names and a
// body. Each call runs the body in a fresh scope chained to the captured one.
type Closure struct {
	scope  Scope
	body   *Code
	params []string
}

// NewClosure returns a closure over scope.
func NewClosure(scope Scope, params []string, body *Code) *Closure {
	return &Closure{scope: scope, params: params, body: body}
}

// Params returns the parameter names.
func (c *Closure) Params() []string { return c.params }

// Call implements [Caller].
func (c *Closure) Call(f *Frame, args, returns int) error {
	if args != len(c.params) {
		return ErrArgumentCount.With(
			slog.String("callee", c.String()),
			slog.Int("expected", len(c.params)),
			slog.Int("got", args),
		)
	}

	in, err := f.stack.PopN(args)
	if err != nil {
		return err
	}

	local := NewNestedScope(c.scope)
	for i, name := range c.params {
		if err := local.Put(name, Bind(in[i])); err != nil {
			return err
		}
	}

	out, err := f.run(c.body, local)
	if err != nil {
		return err
	}

	if len(out) != returns {
		return ErrReturnCount.With(
			slog.String("callee", c.String()),
			slog.Int("expected", returns),
			slog.Int("got", len(out)),
		)
	}

	f.stack.Push(out...)

	return nil
}

func (c *Closure) String() string {
	return "<closure (" + strings.Join(c.params, ", ") + ")>"
}
