package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/calc/lang"
	"github.com/ardnew/calc/log"
)

// editDoneMsg is sent when the session was edited and re-evaluated.
type editDoneMsg struct {
	env    *lang.Environment
	source string
}

// editCancelledMsg is sent when the user cleared the editor content or
// declined to fix an erroneous edit.
type editCancelledMsg struct{}

// editErrorMsg is sent when the editor itself failed.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

const helpMessage = `
: Commands (press Esc to toggle mode):

  help        Print this help
  list        List global names
  load FILE   Evaluate a program file into the session
  edit        Edit the session program in $EDITOR and re-evaluate it
  clear       Clear screen
  quit        Exit REPL

Usage:
  Type an expression to evaluate it; separate statements with ";"
  Define globals with def(#name, value)
  Completions appear as you type; Tab / Shift-Tab cycle through them
  Space or Enter accepts the current candidate
  Up/Down browse history, Shift-Up/Shift-Down within the current mode
  Press Ctrl+C on empty line or Ctrl+D to exit
`

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

func prompt(mode inputMode) string {
	if mode == modeCtrl {
		return ctrlPromptStyle.Render(ctrlPrompt)
	}

	return promptStyle.Render(evalPrompt)
}

// echo formats a submitted line the way it was entered.
func echo(mode inputMode, input string) string {
	return prompt(mode) + inputStyle.Render(input)
}

// draft is the unsubmitted input of one mode.
type draft struct {
	text   string
	cursor int
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctx     context.Context
	env     *lang.Environment
	newEnv  func() *lang.Environment
	logger  log.Logger
	history *History
	input   textinput.Model
	drafts  [2]draft
	session []string // inputs that evaluated successfully

	matches    fuzzy.Matches
	parent     string // attribute chain before the current word
	wordStart  int
	wordEnd    int
	suggIdx    int
	historyIdx int
	width      int

	preTab    draft
	tabActive bool
	mode      inputMode
	quitting  bool
}

// Option configures the REPL.
type Option func(*model)

// WithHistory persists the input history in the file at path.
func WithHistory(path string) Option {
	return func(m *model) { m.history = NewHistory(path) }
}

// WithLogger sets the logger for trace-level debugging.
func WithLogger(logger log.Logger) Option {
	return func(m *model) { m.logger = logger }
}

// WithSession records src as already evaluated into the environment, so
// that the edit command includes it.
func WithSession(src string) Option {
	return func(m *model) {
		if strings.TrimSpace(src) != "" {
			m.session = append(m.session, src)
		}
	}
}

// WithEnvironmentFactory sets how the edit command builds the environment
// it re-evaluates the session in.
func WithEnvironmentFactory(fn func() *lang.Environment) Option {
	return func(m *model) { m.newEnv = fn }
}

// Run starts an interactive session over env.
func Run(ctx context.Context, env *lang.Environment, opts ...Option) error {
	m := newModel(ctx, env, opts...)

	if err := m.history.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not load history: %v\n", err)
	}

	m.historyIdx = m.history.Len()

	m.logger.TraceContext(
		ctx,
		"repl start",
		slog.String("history", m.history.path),
		slog.Int("history_entries", m.history.Len()),
		slog.Int("globals", len(env.Global().Names())),
	)

	_, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()

	return err
}

const defaultWidth = 80

func newModel(ctx context.Context, env *lang.Environment, opts ...Option) model {
	ti := textinput.New()
	ti.Prompt = prompt(modeEval)
	ti.CharLimit = 4096
	ti.Width = defaultWidth
	ti.Focus()

	m := model{
		ctx:     ctx,
		env:     env,
		input:   ti,
		history: NewHistory(""),
		width:   defaultWidth,
		suggIdx: -1,
	}

	for _, opt := range opts {
		opt(&m)
	}

	if m.newEnv == nil {
		logger := m.logger
		m.newEnv = func() *lang.Environment {
			return lang.NewEnvironment(lang.WithLogger(logger))
		}
	}

	return m
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - lipgloss.Width(evalPrompt) - 2

		return m, nil

	case editDoneMsg:
		m.env = msg.env
		m.session = []string{msg.source}
		m.refreshMatches(false)

		m.logger.TraceContext(
			m.ctx,
			"repl edit complete",
			slog.Int("globals", len(m.env.Global().Names())),
		)

		return m, tea.Println(resultStyle.Render("session re-evaluated"))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	return m.input.View() + "\n" + m.hint() + "\n"
}

// hint renders the line below the input: the history position, a usage
// hint, the signature of the enclosing call or the completion bar.
func (m model) hint() string {
	input := m.input.Value()

	if m.historyIdx < m.history.Len() {
		pos := lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx + 1))

		return hintStyle.Render(fmt.Sprintf("%s/%d", pos, m.history.Len()))
	}

	if strings.TrimSpace(input) == "" {
		if m.mode == modeCtrl {
			return hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)")
		}

		return hintStyle.Render("Type an expression or press Esc for commands")
	}

	if m.mode == modeEval && !m.tabActive {
		if call := detectFunctionCall(input, m.input.Position()); call.inCall {
			if params := signature(m.env, call.name); params != nil {
				return renderSignatureHint(call.name, params, call.argIndex)
			}
		}
	}

	selected := -1
	if m.tabActive {
		selected = m.suggIdx
	}

	return renderCandidateBar(m.matches, selected, m.width, func(name string) bool {
		return m.mode == modeEval && isCallable(m.env, m.qualified(name))
	})
}

// qualified returns a completion candidate with its attribute parent.
func (m model) qualified(name string) string {
	if m.parent == "" {
		return name
	}

	return m.parent + "." + name
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctx, "repl keypress", slog.String("key", msg.String()))

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.setInput("", 0)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			m.tabActive = false
			m.refreshMatches(true)

			return m, nil
		}

		return m.submit()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.seekHistory(-1, false), nil

	case tea.KeyDown:
		return m.seekHistory(1, false), nil

	case tea.KeyShiftUp:
		return m.seekHistory(-1, true), nil

	case tea.KeyShiftDown:
		return m.seekHistory(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.setInput(m.preTab.text, m.preTab.cursor)

			return m, nil
		}

		if m.mode == modeEval {
			return m.switchToMode(modeCtrl), nil
		}

		return m.switchToMode(modeEval), nil
	}

	// Typing ends tab-cycling and history browsing. Only inserted text may
	// auto-confirm a completion, so deleting never completes unexpectedly.
	inserted := msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace

	m.tabActive = false
	m.historyIdx = m.history.Len()

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	m.refreshMatches(inserted)

	return m, cmd
}

// cycle starts or continues tab-cycling through the completion candidates
// in direction step. A single candidate is accepted at once.
func (m model) cycle(step int) model {
	switch n := len(m.matches); {
	case n == 0:
		return m

	case n == 1:
		m.replaceWord(m.matches[0].Str)
		m.tabActive = false
		m.matches = nil

		return m

	case m.tabActive:
		m.suggIdx = (m.suggIdx + step + n) % n

	default:
		m.tabActive = true
		m.preTab = draft{m.input.Value(), m.input.Position()}

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = n - 1
		}
	}

	m.replaceWord(m.matches[m.suggIdx].Str)

	return m
}

// replaceWord replaces the current word with text and moves the cursor
// after it.
func (m *model) replaceWord(text string) {
	input := m.input.Value()

	m.input.SetValue(input[:m.wordStart] + text + input[m.wordEnd:])
	m.wordEnd = m.wordStart + len(text)
	m.input.SetCursor(m.wordEnd)
}

// setInput replaces the input and recomputes completions.
func (m *model) setInput(text string, cursor int) {
	m.input.SetValue(text)
	m.input.SetCursor(cursor)
	m.refreshMatches(false)
}

// refreshMatches recomputes the completions for the current input. With
// autoConfirm, a word that already equals its only candidate is accepted.
func (m *model) refreshMatches(autoConfirm bool) {
	m.matches, m.wordStart, m.wordEnd, m.parent = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.matches = nil
	}
}

// seekHistory moves through the history in direction step, optionally
// skipping entries of the other mode. Moving past the newest entry clears
// the input.
func (m model) seekHistory(step int, sameMode bool) model {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		entry, err := m.history.Entry(i)
		if err != nil || (sameMode && entry.Mode != m.mode) {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.setInput(entry.Line, len(entry.Line))

		return m
	}

	if step > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.setInput("", 0)
	}

	return m
}

// switchToMode changes the input mode, keeping each mode's draft.
func (m model) switchToMode(mode inputMode) model {
	m.drafts[m.mode] = draft{m.input.Value(), m.input.Position()}
	m.mode = mode
	m.input.Prompt = prompt(mode)
	m.setInput(m.drafts[mode].text, m.drafts[mode].cursor)

	return m
}

// submit records the input in the history and runs it.
func (m model) submit() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.drafts = [2]draft{}
	m.setInput("", 0)

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.WarnContext(m.ctx, "history not saved", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	m.logger.TraceContext(
		m.ctx,
		"repl submit",
		slog.String("input", input),
		slog.Int("mode", int(m.mode)),
	)

	if m.mode == modeCtrl {
		return m.command(input)
	}

	result := m.eval(input)

	return m, tea.Sequence(tea.Println(echo(modeEval, input)), result)
}

// eval evaluates input and returns the command printing the outcome.
func (m *model) eval(input string) tea.Cmd {
	results, err := m.env.Eval(m.ctx, input)
	if err != nil {
		return tea.Println(errorStyle.Render("error: " + err.Error()))
	}

	m.session = append(m.session, input)

	return tea.Println(formatResults(results))
}

func formatResults(results []lang.Value) string {
	if len(results) == 0 {
		return hintStyle.Render("(no value)")
	}

	text := make([]string, len(results))
	for i, v := range results {
		text[i] = v.String()
	}

	return resultStyle.Render(strings.Join(text, "\n"))
}

// command runs a control-mode command.
func (m model) command(input string) (model, tea.Cmd) {
	name, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	echoCmd := tea.Println(echo(modeCtrl, input))

	switch name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echoCmd, tea.Println(helpMessage))

	case "l", "list":
		return m, tea.Sequence(echoCmd, tea.Println(m.list()))

	case "load":
		result := m.load(arg)

		return m, tea.Sequence(echoCmd, result)

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echoCmd, m.edit())

	default:
		return m, tea.Sequence(
			echoCmd,
			tea.Println(errorStyle.Render("unknown command: "+name+" (try 'help')")),
		)
	}
}

// list renders every global name with a preview of its value.
func (m model) list() string {
	var b strings.Builder

	for _, name := range m.env.Global().Names() {
		sym, _ := m.env.Global().Get(name)

		text := "<placeholder>"
		if v, err := sym.Get(); err == nil {
			text = preview(v)
		}

		fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render(text))
	}

	return b.String()
}

// load evaluates the program in the file at path into the session.
func (m *model) load(path string) tea.Cmd {
	if path == "" {
		return tea.Println(errorStyle.Render("usage: load FILE"))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return tea.Println(errorStyle.Render("error: " + err.Error()))
	}

	return m.eval(string(data))
}

// edit opens the session program in the user's editor.
func (m model) edit() tea.Cmd {
	cmd := &editCommand{
		ctx:    m.ctx,
		logger: m.logger,
		newEnv: m.newEnv,
		source: strings.Join(m.session, ";\n") + "\n",
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editCancelledMsg{}

		case err != nil:
			return editErrorMsg{err: err}

		case cmd.env == nil:
			return editCancelledMsg{}

		default:
			return editDoneMsg{env: cmd.env, source: cmd.edited}
		}
	})
}
