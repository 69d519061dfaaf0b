package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"

	"github.com/kxue43/inikit/npm"
	"github.com/kxue43/inikit/plan"
	"github.com/kxue43/inikit/prompt"
	"github.com/kxue43/inikit/registry"
	"github.com/kxue43/inikit/resolve"
	"github.com/kxue43/inikit/runner"
	"github.com/kxue43/inikit/scaffold"
	"github.com/kxue43/inikit/terminal"
	"github.com/kxue43/inikit/validate"
	"github.com/kxue43/inikit/version"
)

type CreateCmd struct {
	Directory string `arg:"" optional:"" name:"directory" help:"Project directory, also used as the project name."`

	NextJS    bool `name:"nextjs" aliases:"next" xor:"framework" group:"Framework" help:"Initialize as a Next.js project."`
	ReactJS   bool `name:"reactjs" aliases:"react" xor:"framework" group:"Framework" help:"Initialize as a React project."`
	ExpressJS bool `name:"expressjs" aliases:"express" xor:"framework" group:"Framework" help:"Initialize as an Express.js project."`

	TypeScript bool `name:"typescript" aliases:"ts" xor:"language" group:"Language" help:"Initialize as a TypeScript project."`
	JavaScript bool `name:"javascript" aliases:"js" xor:"language" group:"Language" help:"Initialize as a JavaScript project."`

	Tailwind   bool `name:"tailwind" aliases:"tailwindcss" group:"Dev tools" help:"${help_tailwind}"`
	ESLint     bool `name:"eslint" aliases:"lint" group:"Dev tools" help:"${help_eslint}"`
	Prettier   bool `name:"prettier" group:"Dev tools" help:"${help_prettier}"`
	Commitlint bool `name:"commitlint" group:"Dev tools" help:"${help_commitlint}"`
	Shadcn     bool `name:"shadcn" group:"Dev tools" help:"${help_shadcn}"`
	Prisma     bool `name:"prisma" group:"Dev tools" help:"${help_prisma}"`
	AuthJS     bool `name:"authjs" aliases:"auth" group:"Dev tools" help:"${help_authjs}"`
	Zod        bool `name:"zod" group:"Dev tools" help:"${help_zod}"`
	Zustand    bool `name:"zustand" group:"Dev tools" help:"${help_zustand}"`

	Recommended bool `name:"tools" xor:"tools" group:"Dev tools" help:"Use the recommended dev tools."`
	NoTools     bool `name:"no-tools" xor:"tools" group:"Dev tools" help:"Skip all dev tools setup."`

	NoGit         bool          `name:"no-git" help:"Skip git initialization."`
	DryRun        bool          `name:"dry-run" help:"Print the plan as YAML and exit without creating anything."`
	PinVersions   bool          `name:"pin-versions" help:"Look up the latest generator versions before running them."`
	Registry      string        `name:"registry" default:"${default_registry}" help:"npm registry used by --pin-versions."`
	LookupTimeout time.Duration `name:"lookup-timeout" default:"3s" help:"Time limit for all version lookups together."`
	Plain         bool          `name:"plain" help:"Print plain progress lines instead of a spinner."`
	Verbose       bool          `name:"verbose" help:"Log external commands and their output."`
}

const successMessage = "Project initialized successfully! Happy coding!"

// toolFlags maps tool IDs to the fields that select them.
func (c *CreateCmd) toolFlags() map[string]*bool {
	return map[string]*bool{
		"tailwind":   &c.Tailwind,
		"eslint":     &c.ESLint,
		"prettier":   &c.Prettier,
		"commitlint": &c.Commitlint,
		"shadcn":     &c.Shadcn,
		"prisma":     &c.Prisma,
		"authjs":     &c.AuthJS,
		"zod":        &c.Zod,
		"zustand":    &c.Zustand,
	}
}

func (c *CreateCmd) flags(kctx *kong.Context, reg *registry.Registry) resolve.Flags {
	f := resolve.Flags{
		ProjectName:    c.Directory,
		NextJS:         c.NextJS,
		ReactJS:        c.ReactJS,
		ExpressJS:      c.ExpressJS,
		TypeScript:     c.TypeScript,
		JavaScript:     c.JavaScript,
		UseRecommended: c.Recommended,
		SkipTools:      c.NoTools,
		SkipGit:        c.NoGit,
	}

	for _, p := range kctx.Path {
		if p.Positional != nil && p.Positional.Name == "directory" {
			f.HasProjectName = true
		}
	}

	set := c.toolFlags()

	for _, td := range reg.All() {
		if v, ok := set[td.ID]; ok && *v {
			f.Tools = append(f.Tools, td.ID)
		}
	}

	return f
}

func (c *CreateCmd) Run(ctx context.Context, kctx *kong.Context, app *App) error {
	console := terminal.NewConsole(app.Stderr, c.Verbose)

	console.Intro("Inikit", version.Short())

	collector := app.Collector
	if collector == nil {
		pc := prompt.New()
		pc.In, pc.Out = app.Stdin, app.Stderr
		collector = pc
	}

	sel, err := resolve.Resolver{Registry: app.Registry}.Resolve(ctx, c.flags(kctx, app.Registry), collector)
	if err != nil {
		return err
	}

	if violations := validate.Validate(app.Registry, sel); len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}

	p := plan.New(app.Registry, sel)

	if c.DryRun {
		return writeYAML(app.Stdout, p.Summary())
	}

	var versions npm.Versions

	if c.PinVersions {
		if versions, err = c.pin(ctx, console, p); err != nil {
			return err
		}
	}

	invoker := app.Invoker
	if invoker == nil {
		invoker = scaffold.ExecInvoker{Logger: console}
	}

	env := &scaffold.Env{
		Invoker:  invoker,
		Copier:   scaffold.NewCopier(),
		Versions: versions,
		Dir:      app.Dir,
	}

	r := runner.Runner{
		Executors: scaffold.Executors(env),
		Tracker:   c.tracker(app, console),
	}

	res, err := r.Run(ctx, p)
	if err != nil {
		return err
	}

	console.Printf("completed %d of %d steps", len(res.Completed), len(p.Steps))
	console.Outro(successMessage)

	return nil
}

func (c *CreateCmd) pin(ctx context.Context, console *terminal.Console, p plan.Plan) (npm.Versions, error) {
	names := scaffold.Generators(p)
	if len(names) == 0 {
		return nil, nil
	}

	versions, err := npm.NewClient(c.Registry).Pin(ctx, names, c.LookupTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to pin generator versions: %w", err)
	}

	for _, name := range names {
		console.Info("Using " + versions.Spec(name))
	}

	return versions, nil
}

func (c *CreateCmd) tracker(app *App, console *terminal.Console) runner.Tracker {
	if app.Tracker != nil {
		return app.Tracker
	}

	if c.Plain || c.Verbose || !isTerminal(app.Stderr) {
		return terminal.PlainTracker{Console: console}
	}

	return terminal.SpinnerTracker{Console: console, Out: app.Stderr, In: app.Stdin}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func writeYAML(w io.Writer, v any) error {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal plan to YAML: %w", err)
	}

	_, err = w.Write(b)

	return err
}
