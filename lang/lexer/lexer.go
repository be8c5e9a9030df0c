// Package lexer splits source text into the typed tokens consumed by the
// infix parser.
//
// Identifiers, numbers and quoted literals follow Go lexical rules via
// [text/scanner]. Runs of punctuation are split greedily into the longest
// registered operator or modifier names, so the lexer must be configured
// with the operator set of the environment it feeds.
package lexer

import (
	"cmp"
	"slices"
	"strings"
	"text/scanner"

	"github.com/ardnew/calc/lang/token"
)

// punctuation is the set of runes that may form operator or modifier names.
const punctuation = `+-*/%^<>=!&|.:#@~?\$`

// Lexer produces tokens for a fixed operator and modifier vocabulary.
type Lexer struct {
	kind  map[string]token.Type // operator/modifier name -> token type
	names []string              // punctuation names, longest first
}

// Option configures a [Lexer].
type Option func(*Lexer)

// WithOperators registers operator names.
func WithOperators(names ...string) Option {
	return func(l *Lexer) {
		for _, name := range names {
			l.kind[name] = token.Operator
		}
	}
}

// WithModifiers registers modifier names.
func WithModifiers(names ...string) Option {
	return func(l *Lexer) {
		for _, name := range names {
			l.kind[name] = token.Modifier
		}
	}
}

// New returns a lexer recognizing the given operators and modifiers.
func New(opts ...Option) *Lexer {
	l := &Lexer{kind: make(map[string]token.Type)}

	for _, opt := range opts {
		opt(l)
	}

	for name := range l.kind {
		if isPunctuation(name) {
			l.names = append(l.names, name)
		}
	}

	// Longest first; ties sorted for deterministic matching.
	slices.SortFunc(l.names, func(a, b string) int {
		if c := cmp.Compare(len(b), len(a)); c != 0 {
			return c
		}

		return strings.Compare(a, b)
	})

	return l
}

// Stream tokenizes src and returns a stream over the result.
func (l *Lexer) Stream(src string) (*token.SliceStream, error) {
	tokens, err := l.Tokenize(src)
	if err != nil {
		return nil, err
	}

	return token.NewStream(tokens...), nil
}

// Tokenize splits src into tokens.
func (l *Lexer) Tokenize(src string) ([]token.Token, error) {
	var (
		s      scanner.Scanner
		tokens []token.Token
		errs   []error
	)

	s.Init(strings.NewReader(src))
	s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats |
		scanner.ScanStrings | scanner.ScanRawStrings | scanner.ScanChars |
		scanner.ScanComments | scanner.SkipComments
	s.Error = func(s *scanner.Scanner, msg string) {
		errs = append(errs, ErrScan.Wrapf("offset %d: %s", s.Pos().Offset, msg))
	}

	for tok := s.Scan(); tok != scanner.EOF; tok = s.Scan() {
		if len(errs) > 0 {
			return nil, errs[0]
		}

		pos := s.Position.Offset
		text := s.TokenText()

		switch tok {
		case scanner.Ident:
			typ, ok := l.kind[text]
			if !ok {
				typ = token.Symbol
			}

			tokens = append(tokens, token.Token{Type: typ, Text: text, Pos: pos})

		case scanner.Int, scanner.Float, scanner.String, scanner.RawString,
			scanner.Char:
			tokens = append(tokens, token.Token{Type: token.Value, Text: text, Pos: pos})

		default:
			switch {
			case token.IsOpeningBracket(text):
				tokens = append(tokens, token.Token{Type: token.LeftBracket, Text: text, Pos: pos})

			case token.IsClosingBracket(text):
				tokens = append(tokens, token.Token{Type: token.RightBracket, Text: text, Pos: pos})

			case text == ",":
				tokens = append(tokens, token.Token{Type: token.Separator, Text: text, Pos: pos})

			case text == ";":
				tokens = append(tokens, token.Token{Type: token.Terminator, Text: text, Pos: pos})

			case isPunctuation(text):
				run := text
				for isPunctuationRune(s.Peek()) {
					run += string(s.Next())
				}

				split, err := l.split(run, pos)
				if err != nil {
					return nil, err
				}

				tokens = append(tokens, split...)

			default:
				return nil, ErrUnexpectedRune.Wrapf("offset %d: %q", pos, text)
			}
		}
	}

	if len(errs) > 0 {
		return nil, errs[0]
	}

	return tokens, nil
}

// split divides a punctuation run into the longest registered names.
func (l *Lexer) split(run string, pos int) ([]token.Token, error) {
	var out []token.Token

	for i := 0; i < len(run); {
		idx := slices.IndexFunc(l.names, func(name string) bool {
			return strings.HasPrefix(run[i:], name)
		})
		if idx < 0 {
			return nil, ErrUnknownPunctuation.Wrapf("offset %d: %q", pos+i, run[i:])
		}

		name := l.names[idx]
		out = append(out, token.Token{Type: l.kind[name], Text: name, Pos: pos + i})
		i += len(name)
	}

	return out, nil
}

func isPunctuation(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if !isPunctuationRune(r) {
			return false
		}
	}

	return true
}

func isPunctuationRune(r rune) bool {
	return r > 0 && strings.ContainsRune(punctuation, r)
}
