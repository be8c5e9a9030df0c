package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/calc/cli/cmd"
	"github.com/ardnew/calc/pkg"
)

// CLI is the top-level command-line interface for calc.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Source []string `help:"Input source file(s) or '-' for stdin" name:"source" short:"s" type:"existingfile"`

	Init  cmd.Init  `cmd:"" help:"Initialize configuration file"`
	Parse cmd.Parse `cmd:"" help:"Print the syntax tree or compiled code of a program"`
	Repl  cmd.Repl  `cmd:"" help:"Start an interactive session"`

	Eval cmd.Eval `cmd:"" default:"withargs" help:"Evaluate a program"`
}

// Run parses args and runs the selected command. Kong calls exit after
// printing help or a usage error.
func Run(ctx context.Context, exit func(code int), args ...string) error {
	if err := mkdirAllRequired(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var cli CLI

	cli.Log.scan(args)

	// Commands receive ctx as it is after parsing, carrying the Kong context
	// and the global source files.
	parser, err := kong.New(&cli, append(cli.options(ctx, exit),
		kong.BindSingletonProvider(func() context.Context { return ctx }),
	)...)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithSourceFiles(cmd.WithContext(ctx, ktx), cli.Source)

	cli.Log.start(ctx)
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}

// options returns the parser configuration. The configuration file may be
// written in JSON, YAML or calc, distinguished by extension.
func (c *CLI) options(ctx context.Context, exit func(int)) []kong.Option {
	conf := configPath(baseConfig)

	return []kong.Option{
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups([]kong.Group{c.Log.group(), c.Pprof.group()}),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			Summary:             true,
			Tree:                true,
			NoExpandSubcommands: true,
		}),
		kong.Configuration(kong.JSON, conf+".json"),
		kong.Configuration(resolveYAML, conf+".yaml"),
		kong.Configuration(resolve(ctx), conf),
		kong.Vars{
			"version":            pkg.Name + " " + pkg.Version(),
			cmd.ConfigIdentifier: conf,
			cmd.CacheIdentifier:  pkg.CacheDir(),
		}.CloneWith(c.Log.vars()).CloneWith(c.Pprof.vars()),
	}
}
