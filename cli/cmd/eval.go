package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/calc/lang"
	"github.com/ardnew/calc/log"
	"github.com/ardnew/calc/pkg"
)

// Eval evaluates a program and prints the values of its last statement.
type Eval struct {
	Files  []string `arg:"" help:"Program file(s) or '-' for stdin" name:"file" optional:"" type:"existingfile"`
	Expr   []string `help:"Expression to evaluate after the files (repeatable)" short:"e"`
	Output string   `default:"text" enum:"text,json,yaml" help:"Result format (${enum})" short:"o"`

	out io.Writer
}

// Run executes the eval command. With no program given it reads piped stdin.
func (e *Eval) Run(ctx context.Context) error {
	r, err := programOrStdin(ctx, e.Files, e.Expr)
	if err != nil {
		return err
	}

	env := newEnvironment()

	results, err := env.EvalReader(ctx, r)
	if err != nil {
		return ErrEvaluate.Wrap(err).With(slog.String("command", "eval"))
	}

	log.DebugContext(ctx, "evaluated program", slog.Int("results", len(results)))

	return e.print(results)
}

func (e *Eval) print(results []lang.Value) error {
	w := e.out
	if w == nil {
		w = os.Stdout
	}

	switch e.Output {
	case "", "text":
		for _, v := range results {
			if _, err := fmt.Fprintln(w, display(v)); err != nil {
				return err
			}
		}

		return nil

	case "json":
		data, err := json.MarshalIndent(native(results), "", "  ")
		if err != nil {
			return pkg.ErrJSONMarshal.Wrap(err)
		}

		_, err = fmt.Fprintln(w, string(data))

		return err

	case "yaml":
		data, err := yaml.Marshal(native(results))
		if err != nil {
			return pkg.ErrYAMLMarshal.Wrap(err)
		}

		_, err = w.Write(data)

		return err

	default:
		return pkg.ErrInvalidFormat.Wrapf("%q (valid formats: text, json, yaml)", e.Output)
	}
}

// display is the text form of a result. Strings print unquoted.
func display(v lang.Value) string {
	if s, ok := v.(lang.Str); ok {
		return string(s)
	}

	return v.String()
}

// native converts results to plain data. A single result is returned as
// itself, anything else as a list.
func native(results []lang.Value) any {
	values := slices.Collect(pkg.TypeCast[lang.Value, any](lang.ToNative).Values(results...))

	if len(values) == 1 {
		return values[0]
	}

	return values
}
