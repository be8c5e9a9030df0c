package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// theme styles the parts of a pretty record. Styles come from a renderer
// bound to the output, so they are plain text unless it is a color
// terminal.
type theme struct {
	key, text, number, yes, no, when, null lipgloss.Style
	trace, debug, info, warn, err         lipgloss.Style
}

func newTheme(w io.Writer) theme {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style { return r.NewStyle().Foreground(lipgloss.Color(c)) }

	return theme{
		key:    fg("8"),
		text:   fg("6"),
		number: fg("3"),
		yes:    fg("2"),
		no:     fg("1"),
		when:   fg("4"),
		null:   fg("8"),
		trace:  fg("5"),
		debug:  fg("4"),
		info:   fg("2"),
		warn:   fg("3").Bold(true),
		err:    fg("1").Bold(true),
	}
}

func (t theme) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return t.err
	case l >= slog.LevelWarn:
		return t.warn
	case l >= slog.LevelInfo:
		return t.info
	case l >= slog.LevelDebug:
		return t.debug
	default:
		return t.trace
	}
}

// field is one flattened attribute. Group members have dotted keys.
type field struct {
	key   string
	value slog.Value
	style *lipgloss.Style
}

// prettyHandler writes records for a human reader, either as unquoted
// key=value text on one line or as indented JSON.
type prettyHandler struct {
	opts   *slog.HandlerOptions
	theme  theme
	mu     *sync.Mutex
	w      io.Writer
	attrs  []field
	prefix string
	json   bool
}

func newPrettyHandler(w io.Writer, format Format, opts *slog.HandlerOptions) *prettyHandler {
	return &prettyHandler{
		opts:  opts,
		theme: newTheme(w),
		mu:    &sync.Mutex{},
		w:     w,
		json:  format == FormatJSON,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = h.attrs[:len(h.attrs):len(h.attrs)]

	for _, a := range attrs {
		c.attrs = flatten(c.attrs, h.prefix, a)
	}

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix += name + "."

	return &c
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]field, 0, 4+len(h.attrs)+r.NumAttrs())

	builtin := func(a slog.Attr, style *lipgloss.Style) {
		if h.opts.ReplaceAttr != nil {
			a = h.opts.ReplaceAttr(nil, a)
		}

		if a.Key != "" {
			fields = append(fields, field{key: a.Key, value: a.Value.Resolve(), style: style})
		}
	}

	if !r.Time.IsZero() {
		builtin(slog.Time(slog.TimeKey, r.Time), &h.theme.when)
	}

	levelStyle := h.theme.level(r.Level)
	builtin(slog.Any(slog.LevelKey, r.Level), &levelStyle)

	if h.opts.AddSource && r.PC != 0 {
		if src := r.Source(); src != nil {
			builtin(slog.String(slog.SourceKey, src.File+":"+strconv.Itoa(src.Line)), nil)
		}
	}

	builtin(slog.String(slog.MessageKey, r.Message), nil)

	fields = append(fields, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		fields = flatten(fields, h.prefix, a)

		return true
	})

	var buf bytes.Buffer

	if h.json {
		h.writeJSON(&buf, fields)
	} else {
		h.writeText(&buf, fields)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

// flatten appends a to fields, expanding groups into dotted keys.
func flatten(fields []field, prefix string, a slog.Attr) []field {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return fields
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, member := range a.Value.Group() {
			fields = flatten(fields, prefix, member)
		}

		return fields
	}

	return append(fields, field{key: prefix + a.Key, value: a.Value})
}

func (h *prettyHandler) writeText(buf *bytes.Buffer, fields []field) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(' ')
		}

		text, style := h.leaf(f, false)

		buf.WriteString(h.theme.key.Render(f.key))
		buf.WriteByte('=')
		buf.WriteString(style.Render(text))
	}

	buf.WriteByte('\n')
}

func (h *prettyHandler) writeJSON(buf *bytes.Buffer, fields []field) {
	buf.WriteString("{\n")

	for i, f := range fields {
		text, style := h.leaf(f, true)

		buf.WriteString("  ")
		buf.WriteString(h.theme.key.Render(strconv.Quote(f.key)))
		buf.WriteString(": ")
		buf.WriteString(style.Render(text))

		if i < len(fields)-1 {
			buf.WriteByte(',')
		}

		buf.WriteByte('\n')
	}

	buf.WriteString("}\n")
}

// leaf renders a non-group value and picks its style. In JSON, strings are
// quoted and other values are encoded as JSON when possible.
func (h *prettyHandler) leaf(f field, quote bool) (string, lipgloss.Style) {
	v := f.value

	text, style := "", h.theme.text

	switch v.Kind() {
	case slog.KindString:
		text = v.String()

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return v.String(), h.themed(f, h.theme.number)

	case slog.KindBool:
		if v.Bool() {
			return "true", h.themed(f, h.theme.yes)
		}

		return "false", h.themed(f, h.theme.no)

	case slog.KindDuration:
		text, style = v.Duration().String(), h.theme.number

	case slog.KindTime:
		text, style = v.Time().Format(time.RFC3339Nano), h.theme.when

	default:
		switch x := v.Any().(type) {
		case nil:
			if quote {
				return "null", h.theme.null
			}

			return "<nil>", h.theme.null

		case error:
			text = x.Error()

		case fmt.Stringer:
			text = x.String()

		default:
			if quote {
				if data, err := json.Marshal(x); err == nil {
					return string(data), h.themed(f, style)
				}
			}

			text = fmt.Sprint(x)
		}
	}

	if quote {
		text = strconv.Quote(text)
	}

	return text, h.themed(f, style)
}

func (h *prettyHandler) themed(f field, fallback lipgloss.Style) lipgloss.Style {
	if f.style != nil {
		return *f.style
	}

	return fallback
}
