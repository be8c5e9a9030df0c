package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/calc/cli/cmd/repl"
	"github.com/ardnew/calc/log"
	"github.com/ardnew/calc/pkg"
)

// Repl starts an interactive session.
type Repl struct {
	History string   `default:"${cache}/history.utf8" help:"History file" type:"path"`
	Load    []string `help:"Program file(s) evaluated before the session starts" short:"l" type:"existingfile"`
}

// Run executes the repl command. The global sources and the loaded files
// are evaluated first and become part of the editable session.
func (r *Repl) Run(ctx context.Context) error {
	env := newEnvironment()

	opts := []repl.Option{
		repl.WithHistory(r.History),
		repl.WithLogger(log.Default()),
		repl.WithEnvironmentFactory(newEnvironment),
	}

	if prog := program(ctx, r.Load, nil); prog != nil {
		src, err := io.ReadAll(prog)
		if err != nil {
			return pkg.ErrReadInput.Wrap(err)
		}

		if _, err := env.Eval(ctx, string(src)); err != nil {
			return ErrEvaluate.Wrap(err).With(slog.String("command", "repl"))
		}

		opts = append(opts, repl.WithSession(string(src)))
	}

	return repl.Run(ctx, env, opts...)
}
