package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/calc/lang"
	"github.com/ardnew/calc/log"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand] for editing the session program
// in $EDITOR. The edited program is evaluated in a fresh environment; on
// error the user may edit again or decline and keep the current session.
type editCommand struct {
	ctx    context.Context
	logger log.Logger
	newEnv func() *lang.Environment
	source string

	// Set by Run when the edit succeeded.
	env    *lang.Environment
	edited string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (c *editCommand) SetStdin(r io.Reader)  { c.stdin = r }
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-evaluate-retry loop. An emptied file cancels the
// edit; declining to retry returns [ErrEditDeclined].
func (c *editCommand) Run() error {
	f, err := os.CreateTemp("", "calc-repl-*.calc")
	if err != nil {
		return err
	}

	path := f.Name()
	defer os.Remove(path)

	if err := f.Close(); err != nil {
		return err
	}

	content := c.source

	for {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			return err
		}

		if err := runEditor(c.ctx, c.stdin, c.stdout, c.stderr, path); err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		content = string(data)
		if strings.TrimSpace(content) == "" {
			return nil
		}

		env := c.newEnv()
		_, evalErr := env.Eval(c.ctx, content)

		c.logger.TraceContext(
			c.ctx,
			"editor eval attempt",
			slog.Int("content_length", len(content)),
			slog.Bool("success", evalErr == nil),
		)

		if evalErr == nil {
			c.env, c.edited = env, content

			return nil
		}

		fmt.Fprintf(c.stderr, "\nerror: %s\n", evalErr)
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}
	}
}

// runEditor runs $EDITOR, or vi, on path.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout, stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
