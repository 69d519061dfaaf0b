package scaffold

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kxue43/inikit/npm"
	"github.com/kxue43/inikit/plan"
	"github.com/kxue43/inikit/registry"
	"github.com/kxue43/inikit/resolve"
	"github.com/kxue43/inikit/runner"
)

type (
	// Env is what every executor shares: where projects are created, how
	// programs are run and which generator versions to ask npx for.
	Env struct {
		Invoker  Invoker
		Copier   *Copier
		Versions npm.Versions
		Dir      string
	}

	FrameworkExecutor struct {
		Env *Env
	}

	ToolExecutor struct {
		Env *Env
	}

	GitExecutor struct {
		Env *Env
	}

	toolAction struct {
		run   func(ctx context.Context, e *Env, sel resolve.Selection, dir string) error
		start string
		done  string
	}
)

const (
	createNextApp = "create-next-app"
	createVite    = "create-vite"
	shadcnCLI     = "shadcn"
)

var (
	ErrUnknownStep = errors.New("unknown step")

	expressScripts = map[string]string{
		"start": "node dist/index.js",
		"dev":   "tsx watch src/index.ts",
		"build": "tsc",
	}

	toolActions = map[string]toolAction{
		"tailwind": {
			start: "Adding Tailwind CSS to the project",
			done:  "Added Tailwind CSS configuration",
			run:   addTailwind,
		},
		"eslint": {
			start: "Adding ESLint to the project",
			done:  "Added ESLint configuration",
			run:   addESLint,
		},
		"prettier": {
			start: "Adding prettier to the project",
			done:  "Added prettier configuration",
			run:   addPrettier,
		},
		"commitlint": {
			start: "Adding husky and commitlint to the project",
			done:  "Added husky and commitlint configuration",
			run:   addCommitlint,
		},
		"shadcn": {
			start: "Adding shadcn UI to the project",
			done:  "Added shadcn UI configuration",
			run:   addShadcn,
		},
		"prisma": {
			start: "Adding Prisma ORM to the project",
			done:  "Added Prisma ORM configuration",
			run:   addPrisma,
		},
		"authjs": {
			start: "Adding Auth.js to the project",
			done:  "Added Auth.js configuration",
			run:   addAuthJS,
		},
		"zustand": {
			start: "Adding Zustand state management",
			done:  "Added Zustand configuration",
			run:   addZustand,
		},
		"zod": {
			start: "Adding Zod validation library",
			done:  "Added Zod configuration",
			run:   addZod,
		},
	}
)

func Executors(env *Env) map[plan.Kind]runner.Executor {
	return map[plan.Kind]runner.Executor{
		plan.ScaffoldFramework: FrameworkExecutor{Env: env},
		plan.EnableTool:        ToolExecutor{Env: env},
		plan.InitializeVCS:     GitExecutor{Env: env},
	}
}

// Generators lists the npm packages the plan runs through npx.
func Generators(p plan.Plan) []string {
	var out []string

	switch p.Selection.Framework {
	case registry.NextJS:
		out = append(out, createNextApp)
	case registry.ReactJS:
		out = append(out, createVite)
	}

	for _, id := range p.Tools() {
		if id == "shadcn" {
			out = append(out, shadcnCLI)
		}
	}

	return out
}

func (e *Env) ProjectDir(sel resolve.Selection) string {
	return filepath.Join(e.Dir, sel.ProjectName)
}

// sourceDir is where example sources go: Next.js apps keep them at the
// root, Vite apps under src.
func (e *Env) sourceDir(sel resolve.Selection) string {
	if sel.Framework == registry.NextJS {
		return e.ProjectDir(sel)
	}

	return filepath.Join(e.ProjectDir(sel), "src")
}

func (e *Env) run(ctx context.Context, dir, name string, args ...string) error {
	_, err := e.Invoker.Run(ctx, dir, name, args...)

	return err
}

func (e *Env) npmInstall(ctx context.Context, dir string, pkgs ...string) error {
	return e.run(ctx, dir, "npm", append([]string{"install"}, pkgs...)...)
}

func (e *Env) npmInstallDev(ctx context.Context, dir string, pkgs ...string) error {
	return e.run(ctx, dir, "npm", append([]string{"install", "-D"}, pkgs...)...)
}

func (e *Env) npx(ctx context.Context, dir, pkg string, args ...string) error {
	return e.run(ctx, dir, "npx", append([]string{"--yes", e.Versions.Spec(pkg)}, args...)...)
}

func (e *Env) copyTemplate(sel resolve.Selection, dest, src string) error {
	return e.Copier.Copy(dest, src, TemplateData{Name: sel.ProjectName, TypeScript: sel.TypeScript()})
}

func (x FrameworkExecutor) Describe(sel resolve.Selection, _ plan.Step) runner.Messages {
	dir := x.Env.ProjectDir(sel)

	switch sel.Framework {
	case registry.ExpressJS:
		return runner.Messages{
			Start: "Creating a new Express TypeScript app in " + dir,
			Done:  "Created Express TypeScript app at " + dir,
		}
	default:
		return runner.Messages{
			Start: fmt.Sprintf("Creating a new %s app in %s", sel.Framework.Label(), dir),
			Done:  fmt.Sprintf("Created %s at %s", sel.ProjectName, dir),
		}
	}
}

func (x FrameworkExecutor) Execute(ctx context.Context, sel resolve.Selection, _ plan.Step) error {
	switch sel.Framework {
	case registry.NextJS:
		return x.nextApp(ctx, sel)
	case registry.ReactJS:
		return x.reactApp(ctx, sel)
	case registry.ExpressJS:
		return x.expressApp(ctx, sel)
	default:
		return fmt.Errorf("%w: no scaffold for framework %q", ErrUnknownStep, sel.Framework)
	}
}

func (x FrameworkExecutor) nextApp(ctx context.Context, sel resolve.Selection) error {
	args := []string{sel.ProjectName, "--ts"}
	if !sel.TypeScript() {
		args[1] = "--js"
	}

	if sel.Has("tailwind") {
		args = append(args, "--tailwind")
	} else {
		args = append(args, "--no-tailwind")
	}

	if sel.Has("eslint") {
		args = append(args, "--eslint")
	} else {
		args = append(args, "--no-eslint")
	}

	args = append(args, "--app", "--turbopack", "--use-npm", "--yes", "--disable-git")

	return x.Env.npx(ctx, x.Env.Dir, createNextApp, args...)
}

func (x FrameworkExecutor) reactApp(ctx context.Context, sel resolve.Selection) error {
	template := "react"
	if sel.TypeScript() {
		template = "react-ts"
	}

	if err := x.Env.npx(ctx, x.Env.Dir, createVite, sel.ProjectName, "--template", template); err != nil {
		return err
	}

	return x.Env.run(ctx, x.Env.ProjectDir(sel), "npm", "install")
}

func (x FrameworkExecutor) expressApp(ctx context.Context, sel resolve.Selection) (err error) {
	dir := x.Env.ProjectDir(sel)

	if err = os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create the project directory: %w", err)
	}

	if err = x.Env.run(ctx, dir, "npm", "init", "-y"); err != nil {
		return err
	}

	if err = x.Env.npmInstall(ctx, dir, "express"); err != nil {
		return err
	}

	if err = x.Env.npmInstallDev(ctx, dir, "typescript", "tsx", "@types/express", "@types/node"); err != nil {
		return err
	}

	if err = x.Env.copyTemplate(sel, dir, "express"); err != nil {
		return err
	}

	return PatchScripts(dir, expressScripts)
}

// PatchScripts merges scripts into the "scripts" object of dir/package.json.
// Every other member is kept as is.
func PatchScripts(dir string, scripts map[string]string) error {
	name := filepath.Join(dir, "package.json")

	contents, err := os.ReadFile(filepath.Clean(name))
	if err != nil {
		return fmt.Errorf("failed to read package.json: %w", err)
	}

	var pkg map[string]json.RawMessage

	if err = json.Unmarshal(contents, &pkg); err != nil {
		return fmt.Errorf("failed to parse package.json: %w", err)
	}

	current := make(map[string]string)

	if raw, ok := pkg["scripts"]; ok {
		if err = json.Unmarshal(raw, &current); err != nil {
			return fmt.Errorf(`failed to parse the "scripts" of package.json: %w`, err)
		}
	}

	for k, v := range scripts {
		current[k] = v
	}

	if pkg["scripts"], err = json.Marshal(current); err != nil {
		return err
	}

	return WriteToFile(dir, "package.json", func(fd io.Writer) error {
		enc := json.NewEncoder(fd)
		enc.SetIndent("", "  ")

		return enc.Encode(pkg)
	})
}

func (x ToolExecutor) Describe(_ resolve.Selection, step plan.Step) runner.Messages {
	a, ok := toolActions[step.Tool]
	if !ok {
		return runner.Messages{Start: "Adding " + step.Tool, Done: "Added " + step.Tool}
	}

	return runner.Messages{Start: a.start, Done: a.done}
}

func (x ToolExecutor) Execute(ctx context.Context, sel resolve.Selection, step plan.Step) error {
	a, ok := toolActions[step.Tool]
	if !ok {
		return fmt.Errorf("%w: no action for tool %q", ErrUnknownStep, step.Tool)
	}

	return a.run(ctx, x.Env, sel, x.Env.ProjectDir(sel))
}

func addTailwind(ctx context.Context, e *Env, sel resolve.Selection, dir string) error {
	// create-next-app was told --tailwind.
	if sel.Framework != registry.ReactJS {
		return nil
	}

	if err := e.npmInstall(ctx, dir, "tailwindcss", "@tailwindcss/vite"); err != nil {
		return err
	}

	variant := "vite/js"
	if sel.TypeScript() {
		variant = "vite/ts"
	}

	if err := e.copyTemplate(sel, dir, "tailwind/"+variant); err != nil {
		return err
	}

	return e.copyTemplate(sel, dir, "tailwind/css")
}

func addESLint(ctx context.Context, e *Env, sel resolve.Selection, dir string) error {
	// Both generators ship an ESLint setup.
	if sel.Framework != registry.ExpressJS {
		return nil
	}

	if err := e.npmInstallDev(ctx, dir, "eslint", "@eslint/js", "typescript-eslint", "globals"); err != nil {
		return err
	}

	if err := e.copyTemplate(sel, dir, "eslint/express"); err != nil {
		return err
	}

	return PatchScripts(dir, map[string]string{"lint": "eslint ."})
}

func addPrettier(ctx context.Context, e *Env, sel resolve.Selection, dir string) error {
	if err := e.npmInstallDev(ctx, dir, "prettier", "prettier-plugin-tailwindcss"); err != nil {
		return err
	}

	return e.copyTemplate(sel, dir, "prettier")
}

func addCommitlint(ctx context.Context, e *Env, sel resolve.Selection, dir string) error {
	if err := e.npmInstallDev(ctx, dir, "husky", "@commitlint/config-conventional", "@commitlint/cli"); err != nil {
		return err
	}

	if err := e.run(ctx, dir, "npx", "husky", "init"); err != nil {
		return err
	}

	if err := e.copyTemplate(sel, dir, "commitlint"); err != nil {
		return err
	}

	return e.run(ctx, dir, "npm", "run", "prepare")
}

func addShadcn(ctx context.Context, e *Env, sel resolve.Selection, dir string) error {
	if sel.Framework == registry.ReactJS {
		if err := e.copyTemplate(sel, dir, "shadcn-vite"); err != nil {
			return err
		}
	}

	return e.npx(ctx, dir, shadcnCLI, "init", "-d", "-y", "-s")
}

func addPrisma(ctx context.Context, e *Env, sel resolve.Selection, dir string) error {
	if err := e.npmInstallDev(ctx, dir, "prisma"); err != nil {
		return err
	}

	if err := e.npmInstall(ctx, dir, "@prisma/client", "dotenv"); err != nil {
		return err
	}

	if err := e.run(ctx, dir, "npx", "prisma", "init"); err != nil {
		return err
	}

	return e.copyTemplate(sel, dir, "prisma")
}

func addAuthJS(ctx context.Context, e *Env, sel resolve.Selection, dir string) error {
	if err := e.npmInstall(ctx, dir, "next-auth@beta", "@auth/prisma-adapter"); err != nil {
		return err
	}

	return e.copyTemplate(sel, dir, "authjs")
}

func addZustand(ctx context.Context, e *Env, sel resolve.Selection, dir string) error {
	if err := e.npmInstall(ctx, dir, "zustand"); err != nil {
		return err
	}

	return e.copyTemplate(sel, e.sourceDir(sel), "zustand/ts")
}

func addZod(ctx context.Context, e *Env, sel resolve.Selection, dir string) error {
	if err := e.npmInstall(ctx, dir, "zod"); err != nil {
		return err
	}

	return e.copyTemplate(sel, e.sourceDir(sel), "zod/ts")
}

func (x GitExecutor) Describe(resolve.Selection, plan.Step) runner.Messages {
	return runner.Messages{Start: "Initializing git repository", Done: "Initialized git repository"}
}

func (x GitExecutor) Execute(ctx context.Context, sel resolve.Selection, _ plan.Step) error {
	dir := x.Env.ProjectDir(sel)

	_, err := os.Stat(filepath.Join(dir, ".git"))
	if err == nil {
		return nil
	}

	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to check for an existing repository: %w", err)
	}

	return x.Env.run(ctx, dir, "git", "init")
}
