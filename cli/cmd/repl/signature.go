package repl

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/calc/lang"
)

// builtinParams names the parameters of builtins whose native arity says
// nothing useful. A trailing "..." marks a variadic parameter.
var builtinParams = map[string][]string{
	"if":            {"cond", "then", "else"},
	"match":         {"value", "pattern", "then", "more..."},
	"record":        {"name", "fields"},
	"def":           {"name", "value"},
	"apply":         {"f", "args..."},
	"closure":       {"params", "body"},
	"let":           {"bindings", "body"},
	"letseq":        {"bindings", "body"},
	"letrec":        {"bindings", "body"},
	"list":          {"items..."},
	"Cons":          {"car", "cdr"},
	"car":           {"pair"},
	"cdr":           {"pair"},
	"len":           {"list"},
	"str":           {"value"},
	"path.abs":      {"path"},
	"path.cat":      {"elems..."},
	"path.rel":      {"from", "to"},
	"mung.prefix":   {"list", "items..."},
	"mung.prefixif": {"list", "pred", "items..."},
}

// Styles of the signature hint line.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	currentParamStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

// functionCall describes the call whose argument list contains the cursor.
type functionCall struct {
	name     string // dotted callee name, such as "path.cat"
	argIndex int    // 0-based index of the argument under the cursor
	inCall   bool
}

// detectFunctionCall finds the innermost unclosed "(" before cursor that
// directly follows a name, and counts the top-level commas after it.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(max(cursor, 0), len(input))

	open, depth := -1, 0

	for i := cursor - 1; i >= 0 && open < 0; i-- {
		switch input[i] {
		case ')', ']', '}':
			depth++

		case '[', '{':
			depth--

		case '(':
			if depth == 0 {
				open = i
			} else {
				depth--
			}
		}
	}

	if open < 0 {
		return functionCall{}
	}

	start := open
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if r != '.' && r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}

		start -= size
	}

	name := strings.Trim(input[start:open], ".")
	if name == "" {
		return functionCall{}
	}

	call := functionCall{name: name, inCall: true}

	depth = 0
	for _, r := range input[open+1 : cursor] {
		switch r {
		case '(', '[', '{':
			depth++

		case ')', ']', '}':
			depth--

		case ',':
			if depth == 0 {
				call.argIndex++
			}
		}
	}

	return call
}

// signature returns the parameter names of the callable named name, or nil
// when name is unknown or not callable.
func signature(env *lang.Environment, name string) []string {
	if params, ok := builtinParams[name]; ok {
		return params
	}

	v, ok := resolve(env, name)
	if !ok {
		return nil
	}

	switch v := v.(type) {
	case *lang.Closure:
		return v.Params()

	case *lang.Constructor:
		return numbered("field", v.Fields)

	case *lang.Function:
		if v.Arity == lang.Variadic {
			return []string{"args..."}
		}

		return numbered("arg", v.Arity)
	}

	return nil
}

func numbered(prefix string, n int) []string {
	params := make([]string, n)
	for i := range params {
		params[i] = prefix + strconv.Itoa(i+1)
	}

	return params
}

// renderSignatureHint renders name(params) with the parameter at argIndex
// highlighted. A variadic last parameter stays highlighted past the end.
func renderSignatureHint(name string, params []string, argIndex int) string {
	if n := len(params); n > 0 && argIndex >= n && strings.HasSuffix(params[n-1], "...") {
		argIndex = n - 1
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, p := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		if i == argIndex {
			b.WriteString(currentParamStyle.Render(p))
		} else {
			b.WriteString(signatureStyle.Render(p))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
