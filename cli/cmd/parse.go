package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/calc/lang"
	"github.com/ardnew/calc/pkg"
)

// Parse prints the syntax tree, or the compiled code, of every statement of
// a program without running it.
type Parse struct {
	Files []string `arg:"" help:"Program file(s) or '-' for stdin" name:"file" optional:"" type:"existingfile"`
	Expr  []string `help:"Expression to parse after the files (repeatable)" short:"e"`
	Code  bool     `help:"Print the compiled code listing instead of the tree"`

	out io.Writer
}

// Run executes the parse command. With no program given it reads piped stdin.
func (p *Parse) Run(ctx context.Context) error {
	r, err := programOrStdin(ctx, p.Files, p.Expr)
	if err != nil {
		return err
	}

	src, err := io.ReadAll(r)
	if err != nil {
		return pkg.ErrReadInput.Wrap(err)
	}

	env := newEnvironment()

	nodes, err := env.ParseAll(ctx, string(src))
	if err != nil {
		return ErrEvaluate.Wrap(err).With(slog.String("command", "parse"))
	}

	w := p.out
	if w == nil {
		w = os.Stdout
	}

	for i, node := range nodes {
		text := lang.FormatTree(node)
		if p.Code {
			text = env.Compile(ctx, node).Listing()
		}

		if i > 0 {
			fmt.Fprintln(w)
		}

		if _, err := fmt.Fprint(w, text); err != nil {
			return err
		}
	}

	return nil
}
