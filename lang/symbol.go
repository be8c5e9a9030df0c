package lang

import "log/slog"

// Symbol is the entity a name resolves to.
type Symbol interface {
	// Get returns the symbol's value.
	Get() (Value, error)
	// Call invokes the symbol with args values taken from the frame's stack,
	// leaving returns values in their place.
	Call(f *Frame, args, returns int) error
}

// Binding is a symbol bound to a value. Calling it calls the value.
type Binding struct {
	Value Value
}

// Bind returns a symbol bound to v.
func Bind(v Value) Binding { return Binding{Value: v} }

// Get implements [Symbol].
func (b Binding) Get() (Value, error) { return b.Value, nil }

// Call implements [Symbol].
func (b Binding) Call(f *Frame, args, returns int) error {
	c, ok := b.Value.(Caller)
	if !ok {
		return ErrNotCallable.With(
			slog.String("value", b.Value.String()),
			slog.String("type", TypeName(b.Value)),
		)
	}

	return c.Call(f, args, returns)
}

// placeholder stands for a name whose definition is being evaluated. Any use
// of it is an error.
type placeholder struct {
	name string
}

// Get implements [Symbol].
func (p placeholder) Get() (Value, error) {
	return nil, ErrPlaceholder.With(slog.String("name", p.name))
}

// Call implements [Symbol].
func (p placeholder) Call(*Frame, int, int) error {
	return ErrPlaceholder.With(slog.String("name", p.name))
}
