package lang

import (
	"errors"
	"testing"
)

func TestStack(t *testing.T) {
	var s Stack

	if _, err := s.Pop(); !errors.Is(err, ErrStackUnderflow) {
		t.Errorf("Pop on empty stack: %v", err)
	}

	if _, ok := s.Peek(); ok {
		t.Error("Peek on empty stack reported a value")
	}

	s.Push(Int(1), Int(2), Int(3), Int(4))

	if top, _ := s.Peek(); !Equal(top, Int(4)) {
		t.Errorf("Peek = %v, want 4", top)
	}

	v, err := s.Remove(2)
	if err != nil || !Equal(v, Int(2)) {
		t.Errorf("Remove(2) = %v, %v; want 2", v, err)
	}

	got, err := s.PopN(2)
	if err != nil {
		t.Fatalf("PopN: %v", err)
	}

	if len(got) != 2 || !Equal(got[0], Int(3)) || !Equal(got[1], Int(4)) {
		t.Errorf("PopN(2) = %v, want [3 4]", got)
	}

	if _, err := s.PopN(2); !errors.Is(err, ErrStackUnderflow) {
		t.Errorf("PopN past bottom: %v", err)
	}

	if _, err := s.Remove(1); !errors.Is(err, ErrStackUnderflow) {
		t.Errorf("Remove past bottom: %v", err)
	}

	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}

	vals := s.Values()
	vals[0] = Int(99)

	if top, _ := s.Peek(); !Equal(top, Int(1)) {
		t.Errorf("Values() aliases the stack: top = %v", top)
	}
}
