package token

import "iter"

// Stream is a peeking iterator over tokens in source order.
type Stream interface {
	// Peek returns the next token without consuming it.
	Peek() (Token, bool)
	// Next consumes and returns the next token.
	Next() (Token, bool)
}

// SliceStream is a [Stream] over a fixed slice of tokens.
type SliceStream struct {
	tokens []Token
	pos    int
}

// NewStream returns a stream over the given tokens.
func NewStream(tokens ...Token) *SliceStream {
	return &SliceStream{tokens: tokens}
}

// Peek implements [Stream].
func (s *SliceStream) Peek() (Token, bool) {
	if s.pos >= len(s.tokens) {
		return Token{}, false
	}

	return s.tokens[s.pos], true
}

// Next implements [Stream].
func (s *SliceStream) Next() (Token, bool) {
	t, ok := s.Peek()
	if ok {
		s.pos++
	}

	return t, ok
}

// Remaining returns the number of tokens not yet consumed.
func (s *SliceStream) Remaining() int { return len(s.tokens) - s.pos }

// All returns an iterator over the tokens not yet consumed. Iterating
// consumes them.
func (s *SliceStream) All() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for {
			t, ok := s.Next()
			if !ok || !yield(t) {
				return
			}
		}
	}
}
