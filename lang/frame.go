package lang

import "log/slog"

// DefaultMaxDepth is the default limit on nested frames.
const DefaultMaxDepth = 10000

// Frame pairs an evaluation stack with the scope symbols are resolved in.
// A frame lives for one execution of a [Code] value.
type Frame struct {
	stack *Stack
	scope Scope
	depth int
	limit int
}

// NewFrame returns a top-level frame over scope with an empty stack.
func NewFrame(scope Scope) *Frame {
	return &Frame{stack: &Stack{}, scope: scope, limit: DefaultMaxDepth}
}

// Stack returns the frame's evaluation stack.
func (f *Frame) Stack() *Stack { return f.stack }

// Scope returns the frame's symbol scope.
func (f *Frame) Scope() Scope { return f.scope }

// Depth returns the number of frames enclosing f.
func (f *Frame) Depth() int { return f.depth }

// Nested returns a child frame with an empty stack over scope.
func (f *Frame) Nested(scope Scope) (*Frame, error) {
	if f.depth+1 > f.limit {
		return nil, ErrMaxDepthExceeded.With(slog.Int("max_depth", f.limit))
	}

	return &Frame{
		stack: &Stack{},
		scope: scope,
		depth: f.depth + 1,
		limit: f.limit,
	}, nil
}

// Invoke calls callee with args and returns its single result.
func (f *Frame) Invoke(callee Value, args ...Value) (Value, error) {
	c, ok := callee.(Caller)
	if !ok {
		return nil, ErrNotCallable.With(slog.String("value", callee.String()))
	}

	base := f.stack.Len()
	f.stack.Push(args...)

	if err := c.Call(f, len(args), 1); err != nil {
		return nil, err
	}

	if f.stack.Len() != base+1 {
		return nil, ErrReturnCount.With(
			slog.Int("expected", 1),
			slog.Int("got", f.stack.Len()-base),
		)
	}

	return f.stack.Pop()
}

// run executes code in a child frame over scope and returns everything left
// on the child's stack.
func (f *Frame) run(code *Code, scope Scope) ([]Value, error) {
	child, err := f.Nested(scope)
	if err != nil {
		return nil, err
	}

	if err := code.Execute(child); err != nil {
		return nil, err
	}

	return child.stack.values, nil
}

// runSingle is run for code that must produce exactly one value.
func (f *Frame) runSingle(code *Code, scope Scope, context string) (Value, error) {
	out, err := f.run(code, scope)
	if err != nil {
		return nil, err
	}

	if len(out) != 1 {
		return nil, ErrReturnCount.With(
			slog.String("context", context),
			slog.Int("expected", 1),
			slog.Int("got", len(out)),
		)
	}

	return out[0], nil
}
