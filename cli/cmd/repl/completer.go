package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/calc/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "load", "edit", "clear", "quit"}

// isWordBoundary reports whether r delimits words for completion: blanks,
// brackets, separators, the attribute dot and operator characters.
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t', '.', ',', ';',
		'(', ')', '[', ']', '{', '}',
		'+', '-', '*', '/', '%', '@', '#', ':',
		'<', '>', '=', '!', '&', '|', '"', '\'':
		return true
	}

	return false
}

// wordBounds returns the word around cursor and its byte boundaries within
// input. The word is empty when the cursor sits between boundaries.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the attribute chain leading up to the word starting at
// wordStart. For "x + path.ab" and the word "ab" it is "path"; for a word
// that is not an attribute it is "".
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]

	trimmed := strings.TrimSuffix(prefix, ".")
	if trimmed == prefix || trimmed == "" {
		return ""
	}

	pos := len(trimmed)
	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(trimmed[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return strings.Trim(trimmed[pos:], ".")
}

// resolve looks up a dotted name in the global scope of env.
func resolve(env *lang.Environment, name string) (lang.Value, bool) {
	head, rest, _ := strings.Cut(name, ".")

	sym, ok := env.Global().Get(head)
	if !ok {
		return nil, false
	}

	v, err := sym.Get()
	if err != nil {
		return nil, false
	}

	for rest != "" {
		var attr string

		attr, rest, _ = strings.Cut(rest, ".")

		ns, ok := v.(*lang.Namespace)
		if !ok {
			return nil, false
		}

		if v, ok, _ = ns.Attr(nil, attr); !ok {
			return nil, false
		}
	}

	return v, true
}

// childCandidates returns the completions below parent: the global names for
// an empty parent, otherwise the attributes of the namespace it names.
func childCandidates(env *lang.Environment, parent string) []string {
	if parent == "" {
		return env.Global().Names()
	}

	v, ok := resolve(env, parent)
	if !ok {
		return nil
	}

	if ns, ok := v.(*lang.Namespace); ok {
		return ns.Keys()
	}

	return nil
}

// isCallable reports whether the dotted name refers to a callable value.
func isCallable(env *lang.Environment, name string) bool {
	v, ok := resolve(env, name)
	if !ok {
		return false
	}

	_, ok = v.(lang.Caller)

	return ok
}

// computeMatches ranks the candidates for the word at the cursor and
// returns them with the word's bounds and its attribute parent. An empty
// top-level word has no matches, so the hint stays visible; an empty word
// after a dot lists every attribute.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int, parent string) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	var candidates []string

	switch m.mode {
	case modeCtrl:
		candidates = ctrlCommands

	default:
		parent = parentPath(input, wordStart)
		candidates = childCandidates(m.env, parent)

		if word == "" && parent != "" {
			for i, c := range candidates {
				matches = append(matches, fuzzy.Match{Str: c, Index: i})
			}

			return matches, wordStart, wordEnd, parent
		}
	}

	if word == "" {
		return nil, wordStart, wordEnd, parent
	}

	return fuzzy.Find(word, candidates), wordStart, wordEnd, parent
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// width. The selected candidate is highlighted while tab-cycling, and
// callables carry a "()" suffix.
func renderCandidateBar(
	matches fuzzy.Matches,
	selected int,
	width int,
	callable func(string) bool,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	reserve := lipgloss.Width(sep) + lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, i == selected, callable(match.Str))

		w := lipgloss.Width(rendered)
		if i > 0 {
			w += lipgloss.Width(sep)
		}

		last := i == len(matches)-1
		if i > 0 && (used+w > width || (!last && used+w+reserve > width)) {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += w
	}

	return b.String()
}

// renderCandidate renders a candidate with its matched characters in bold.
func renderCandidate(match fuzzy.Match, selected, callable bool) string {
	base := suggestionStyle
	if selected {
		base = selectedStyle
	}

	highlight := base.Bold(true)

	var b strings.Builder

	next := 0

	for i, r := range match.Str {
		style := base
		if next < len(match.MatchedIndexes) && match.MatchedIndexes[next] == i {
			style = highlight
			next++
		}

		b.WriteString(style.Render(string(r)))
	}

	if callable {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}

// preview is a one-line description of a global value for the list
// command.
func preview(v lang.Value) string {
	var s string

	switch v := v.(type) {
	case *lang.Closure:
		s = "(" + strings.Join(v.Params(), ", ") + ") -> ..."

	case *lang.Namespace:
		s = "{" + strings.Join(v.Keys(), ", ") + "}"

	default:
		s = v.String()
	}

	const limit = 40
	if utf8.RuneCountInString(s) > limit {
		s = string([]rune(s)[:limit-3]) + "..."
	}

	return s
}
