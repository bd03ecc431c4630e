package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/expand/cli/cmd"
	"github.com/ardnew/expand/pkg"
)

// CLI is the top-level command-line interface for expand.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Config string   `default:"${config}" help:"Configuration document, searched like INCLUDE targets." short:"c"`
	Path   []string `help:"Directories searched before EXPAND_PATH."          sep:","     short:"p"`

	Run     cmd.Run     `cmd:"" default:"withargs" help:"Expand a template against the configuration"`
	Get     cmd.Get     `cmd:""                    help:"Print the expansion of one name"`
	Dump    cmd.Dump    `cmd:""                    help:"Print the resolved variables, instances and aliases"`
	Repl    cmd.Repl    `cmd:""                    help:"Start an interactive expansion shell"`
	Init    cmd.Init    `cmd:""                    help:"Write the current flags to the settings file"`
	Version cmd.Version `cmd:""                    help:"Print the program version"`
}

// Run executes the expand CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	settingsPath := configPath(settingsFile)

	vars := kong.Vars{
		cmd.SettingsIdentifier: settingsPath,
		cmd.CacheIdentifier:    cacheDir(),
		"config":               cmd.DefaultConfig,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Logger flags take effect before parsing so that settings and
	// configuration problems are reported at the requested level.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, settingsPath+".json"),
		kong.Configuration(resolve, settingsPath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Apply the parsed values, including those that have no early scan.
	defer cli.Log.start(ctx)()

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSession(ctx, cmd.NewSession(cli.Config, cli.Path))

	return ktx.Run(ctx, &cli)
}
