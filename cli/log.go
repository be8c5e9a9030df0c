package cli

import (
	"context"
	"encoding"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/calc/log"
)

// levelFlag and formatFlag reconfigure the default logger as soon as Kong
// decodes them, so that messages logged while parsing already use them.
type (
	levelFlag  string
	formatFlag string
)

func (f *levelFlag) UnmarshalText(text []byte) error {
	*f = levelFlag(text)
	log.Config(log.WithLevel(f.level()))

	return nil
}

func (f levelFlag) level() log.Level { return log.ParseLevel(string(f)) }

func (f *formatFlag) UnmarshalText(text []byte) error {
	*f = formatFlag(text)
	log.Config(log.WithFormat(f.format()))

	return nil
}

func (f formatFlag) format() log.Format { return log.ParseFormat(string(f)) }

type logConfig struct {
	Level      levelFlag  `default:"info"    enum:"${logLevelEnum}"  help:"Set log level."`
	Format     formatFlag `default:"json"    enum:"${logFormatEnum}" help:"Set log format."`
	TimeLayout string     `default:"RFC3339"                         help:"Set timestamp format."`
	Caller     bool       `default:"false"                           help:"Include caller information."       negatable:""`
	Pretty     bool       `default:"true"                            help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevelEnum":  strings.Join(slices.Collect(log.Levels()), ","),
		"logFormatEnum": strings.Join(slices.Collect(log.Formats()), ","),
	}
}

func (*logConfig) group() kong.Group {
	return kong.Group{Key: "log", Title: "Logging options"}
}

// start applies every parsed setting to the default logger.
func (c *logConfig) start(ctx context.Context) {
	log.Config(
		log.WithLevel(c.Level.level()),
		log.WithFormat(c.Format.format()),
		log.WithTimeLayout(c.TimeLayout),
		log.WithCaller(c.Caller),
		log.WithPretty(c.Pretty),
	)

	log.DebugContext(ctx, "logger initialized", slog.Group("log",
		slog.String("level", string(c.Level)),
		slog.String("format", string(c.Format)),
		slog.String("time", c.TimeLayout),
		slog.Bool("caller", c.Caller),
		slog.Bool("pretty", c.Pretty),
	))
}

// scan applies the logging flags found in args before Kong parses them.
// Boolean flags have no decode hook, so this is their only early path.
// Scanning stops at "--".
func (c *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			return
		}

		flag, value, inline := strings.Cut(args[i], "=")
		if !strings.HasPrefix(flag, "--") {
			continue
		}

		name, negated := strings.CutPrefix(flag[2:], "no-")

		var dst encoding.TextUnmarshaler

		switch name {
		case "log-level":
			dst = &c.Level
		case "log-format":
			dst = &c.Format
		case "log-pretty":
			if on, ok := flagBool(value, inline, negated); ok {
				c.Pretty = on
				log.Config(log.WithPretty(on))
			}
		case "log-caller":
			if on, ok := flagBool(value, inline, negated); ok {
				c.Caller = on
				log.Config(log.WithCaller(on))
			}
		}

		if dst == nil || negated {
			continue
		}

		if !inline && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
			value = args[i]
		}

		_ = dst.UnmarshalText([]byte(value))
	}
}

// flagBool returns the value of a boolean flag: true when bare, false when
// bare and negated, otherwise the parsed inline value, inverted if negated.
func flagBool(value string, inline, negated bool) (on, ok bool) {
	if !inline {
		return !negated, true
	}

	v, err := strconv.ParseBool(value)
	if err != nil {
		return false, false
	}

	return v != negated, true
}
