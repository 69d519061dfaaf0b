// Package cli wires the inikit command line to the resolver, the planner
// and the task runner.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/kxue43/inikit/config"
	"github.com/kxue43/inikit/npm"
	"github.com/kxue43/inikit/registry"
	"github.com/kxue43/inikit/resolve"
	"github.com/kxue43/inikit/runner"
	"github.com/kxue43/inikit/scaffold"
	"github.com/kxue43/inikit/validate"
	"github.com/kxue43/inikit/version"
)

const description = `Scaffold a Next.js, React or Express.js project with the dev tools you pick.

create is the default command: "inikit my-app --nextjs" runs "inikit create my-app --nextjs".
Run "inikit create --help" for the framework, language and dev tool flags. A project named
tools or docs needs the explicit form, e.g. "inikit create docs".`

type (
	CLI struct {
		Version kong.VersionFlag `short:"v" help:"Output the current version of inikit."`

		Create CreateCmd `cmd:"" default:"withargs" help:"Create a new project. This is the default command."`
		Tools  ToolsCmd  `cmd:"" help:"List the dev tools inikit can set up."`
		Docs   DocsCmd   `cmd:"" help:"Show the documentation page of a dev tool."`
	}

	// App holds the collaborators of a run. Nil fields get their production
	// defaults.
	App struct {
		Stdout      io.Writer
		Stderr      io.Writer
		Stdin       io.Reader
		Registry    *registry.Registry
		Collector   resolve.Collector
		Invoker     scaffold.Invoker
		Tracker     runner.Tracker
		Dir         string
		ConfigPaths []string
	}

	ValidationError struct {
		Violations []validate.Violation
	}

	// ExitError reports that kong finished the run early, after printing
	// help or the version.
	ExitError struct {
		Code int
	}

	exitRequest int
)

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i := range e.Violations {
		msgs[i] = e.Violations[i].Error()
	}

	return strings.Join(msgs, "; ")
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit %d", e.Code)
}

func NewApp() (*App, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current working directory: %w", err)
	}

	return &App{
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Stdin:       os.Stdin,
		Registry:    registry.Default,
		Dir:         dir,
		ConfigPaths: config.Paths(),
	}, nil
}

func vars(reg *registry.Registry) kong.Vars {
	v := kong.Vars{
		"version":          "inikit " + version.String(),
		"default_registry": npm.DefaultRegistry,
	}

	for _, td := range reg.All() {
		v["help_"+td.ID] = td.Description
	}

	return v
}

// NewParser builds the kong parser for app. Help and version requests
// surface as an [*ExitError] from [Execute] instead of exiting the process.
func NewParser(cli *CLI, app *App) (*kong.Kong, error) {
	return kong.New(
		cli,
		kong.Name("inikit"),
		kong.Description(description),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Writers(app.Stdout, app.Stderr),
		kong.Exit(func(code int) { panic(exitRequest(code)) }),
		kong.Configuration(config.Loader, app.ConfigPaths...),
		vars(app.Registry),
	)
}

// Execute parses args and runs the selected command.
func Execute(ctx context.Context, args []string, app *App) (err error) {
	if app.Registry == nil {
		app.Registry = registry.Default
	}

	defer func() {
		if r := recover(); r != nil {
			code, ok := r.(exitRequest)
			if !ok {
				panic(r)
			}

			err = &ExitError{Code: int(code)}
		}
	}()

	var cli CLI

	parser, err := NewParser(&cli, app)
	if err != nil {
		return err
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	kctx.BindTo(ctx, (*context.Context)(nil))

	return kctx.Run(app)
}
