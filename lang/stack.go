package lang

import "log/slog"

// Stack is the LIFO evaluation stack owned by a [Frame].
type Stack struct {
	values []Value
}

// Push pushes values in order, so the last argument ends up on top.
func (s *Stack) Push(v ...Value) { s.values = append(s.values, v...) }

// Pop removes and returns the top value.
func (s *Stack) Pop() (Value, error) {
	n := len(s.values)
	if n == 0 {
		return nil, ErrStackUnderflow
	}

	v := s.values[n-1]
	s.values[n-1] = nil
	s.values = s.values[:n-1]

	return v, nil
}

// PopN removes the top n values and returns them in push order.
func (s *Stack) PopN(n int) ([]Value, error) {
	if n < 0 || n > len(s.values) {
		return nil, ErrStackUnderflow.With(
			slog.Int("requested", n),
			slog.Int("size", len(s.values)),
		)
	}

	top := len(s.values) - n
	out := make([]Value, n)
	copy(out, s.values[top:])
	clear(s.values[top:])
	s.values = s.values[:top]

	return out, nil
}

// Remove removes and returns the value with depth values above it.
func (s *Stack) Remove(depth int) (Value, error) {
	i := len(s.values) - 1 - depth
	if depth < 0 || i < 0 {
		return nil, ErrStackUnderflow.With(
			slog.Int("depth", depth),
			slog.Int("size", len(s.values)),
		)
	}

	v := s.values[i]
	copy(s.values[i:], s.values[i+1:])
	s.values[len(s.values)-1] = nil
	s.values = s.values[:len(s.values)-1]

	return v, nil
}

// Peek returns the top value without removing it.
func (s *Stack) Peek() (Value, bool) {
	if len(s.values) == 0 {
		return nil, false
	}

	return s.values[len(s.values)-1], true
}

// Len returns the number of values on the stack.
func (s *Stack) Len() int { return len(s.values) }

// Values returns a copy of the stack contents, bottom first.
func (s *Stack) Values() []Value {
	out := make([]Value, len(s.values))
	copy(out, s.values)

	return out
}
