package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/calc/lang"
	"github.com/ardnew/calc/log"
)

// Init generates a configuration file with the current flag values.
type Init struct {
	Force  bool   `help:"Overwrite existing configuration file" short:"f"`
	Format string `default:"calc" enum:"calc,yaml" help:"Configuration file format (${enum})"`
}

// ignoredFlags are flag name prefixes never written to a configuration.
var ignoredFlags = []string{"help", "version", "pprof", "source"}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) error {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		panic("internal error: kong context undefined")
	}

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	if i.Format == "yaml" {
		confPath += ".yaml"
	}

	if _, err := os.Stat(confPath); err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath), slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}
	defer file.Close()

	if err := i.write(file, flagValues(ktx)); err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file", slog.String("path", confPath))

	return nil
}

// setting is one flag value of a configuration.
type setting struct {
	name  string
	value lang.Value
}

// write renders settings in the chosen format.
func (i *Init) write(w io.Writer, settings []setting) error {
	if i.Format == "yaml" {
		doc := make(map[string]any, len(settings))
		for _, s := range settings {
			doc[s.name] = lang.ToNative(s.value)
		}

		data, err := yaml.Marshal(doc)
		if err != nil {
			return err
		}

		_, err = w.Write(data)

		return err
	}

	lines := make([]string, len(settings))
	for n, s := range settings {
		lines[n] = fmt.Sprintf("def(#%s, %s)", strings.ReplaceAll(s.name, "-", "_"), s.value)
	}

	_, err := fmt.Fprintln(w, strings.Join(lines, ";\n"))

	return err
}

// flagValues collects the set, non-empty flag values of ktx as language
// values, in flag order.
func flagValues(ktx *kong.Context) []setting {
	var settings []setting

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignoredFlags, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		val := ktx.FlagValue(flag)
		if val == nil {
			continue
		}

		v, err := lang.FromNative(val)
		if err != nil || isEmpty(v) {
			continue
		}

		settings = append(settings, setting{name: flag.Name, value: v})
	}

	return settings
}

func isEmpty(v lang.Value) bool {
	switch v := v.(type) {
	case lang.Nil:
		return true

	case lang.Str:
		return v == ""
	}

	return false
}
