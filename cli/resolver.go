package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/calc/lang"
	"github.com/ardnew/calc/log"
)

// resolve returns a [kong.ConfigurationLoader] for config files written in
// the calc language.
//
// The file is evaluated as a program in a fresh environment. Every global
// name it defines that is not a builtin becomes a configuration key:
//
//	def(#log_level, "debug");
//	def(#log_pretty, false);
//	def(#source, ["defs.calc", "more.calc"])
//
// This configuration applies the flags:
//
//	--log-level=debug --no-log-pretty --source=defs.calc,more.calc
//
// Flag names with hyphens may use underscores in the config file.
// A file that fails to evaluate is logged and otherwise ignored.
// Command-line flags override config file values.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		builtin := lang.NewEnvironment()
		env := lang.NewEnvironment(lang.WithLogger(log.Default()))

		if _, err := env.EvalReader(ctx, r); err != nil {
			log.WarnContext(ctx, "ignoring configuration file", slog.Any("error", err))

			return config{}, nil
		}

		conf := make(config)

		for _, name := range env.Global().Names() {
			if _, ok := builtin.Global().Get(name); ok {
				continue
			}

			sym, _ := env.Global().Get(name)

			v, err := sym.Get()
			if err != nil {
				continue
			}

			conf.set(name, lang.ToNative(v))
		}

		return conf, nil
	}
}

// resolveYAML is a [kong.ConfigurationLoader] for YAML config files.
// Nested mappings name flags by their joined keys, so that
//
//	log:
//	  level: debug
//
// applies --log-level=debug.
func resolveYAML(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any

	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	conf := make(config)

	for k, v := range doc {
		conf.set(k, v)
	}

	return conf, nil
}

// config implements [kong.Resolver] over a flat map of flag values.
type config map[string]any

// set stores v under key, flattening nested maps into hyphen-joined keys and
// formatting numbers as strings for Kong's mappers.
func (c config) set(key string, v any) {
	switch v := v.(type) {
	case map[string]any:
		for k, sub := range v {
			c.set(key+"-"+k, sub)
		}

	case int:
		c[key] = strconv.Itoa(v)

	case int64:
		c[key] = strconv.FormatInt(v, 10)

	case uint64:
		c[key] = strconv.FormatUint(v, 10)

	case float64:
		c[key] = strconv.FormatFloat(v, 'f', -1, 64)

	case []any:
		items := make([]string, len(v))
		for i, item := range v {
			items[i] = flagText(item)
		}

		c[key] = strings.Join(items, ",")

	default:
		c[key] = v
	}
}

// flagText formats a list element as flag text.
func flagText(v any) string {
	switch v := v.(type) {
	case nil:
		return ""

	case string:
		return v

	default:
		return fmt.Sprint(v)
	}
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver]. A flag is found by its own name or by
// the same name with underscores for hyphens.
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	for _, name := range []string{
		flag.Name,
		strings.ReplaceAll(flag.Name, "-", "_"),
	} {
		if value, ok := c[name]; ok {
			return value, nil
		}
	}

	return nil, nil
}
