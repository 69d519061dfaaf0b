// Package prompt asks the user for whatever the command line left open.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/kxue43/inikit/registry"
	"github.com/kxue43/inikit/resolve"
)

type (
	// Collector implements [resolve.Collector] with huh forms.
	Collector struct {
		In         io.Reader
		Out        io.Writer
		Accessible bool
	}
)

var (
	ciEnvVars = []string{
		"CI",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"JENKINS_URL",
		"TRAVIS",
		"CIRCLECI",
		"BUILDKITE",
	}

	// Interactive reports whether prompts can be shown at all.
	Interactive = func() bool {
		for _, v := range ciEnvVars {
			if os.Getenv(v) != "" {
				return false
			}
		}

		fd := os.Stdin.Fd()

		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
)

func New() *Collector {
	return &Collector{In: os.Stdin, Out: os.Stderr, Accessible: os.Getenv("ACCESSIBLE") != ""}
}

func refuse(what, hint string) error {
	return &resolve.InputError{Msg: fmt.Sprintf("cannot ask for the %s without an interactive terminal; %s", what, hint)}
}

func run[T any](ctx context.Context, c *Collector, field huh.Field, value *T) (resolve.Answer[T], error) {
	form := huh.NewForm(huh.NewGroup(field)).
		WithInput(c.In).
		WithOutput(c.Out).
		WithAccessible(c.Accessible).
		WithShowHelp(false)

	err := form.RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return resolve.Cancelled[T](), nil
	}

	if err != nil {
		return resolve.Answer[T]{}, fmt.Errorf("prompt failed: %w", err)
	}

	return resolve.Answered(*value), nil
}

func (c *Collector) ProjectName(ctx context.Context, placeholder string, validate func(string) error) (resolve.Answer[string], error) {
	if !Interactive() {
		return resolve.Answer[string]{}, refuse("project name", "pass it as the [directory] argument")
	}

	var name string

	input := huh.NewInput().
		Title("What is your project named?").
		Placeholder(placeholder).
		Validate(validate).
		Value(&name)

	return run(ctx, c, input, &name)
}

func (c *Collector) Framework(ctx context.Context, options []registry.FrameworkInfo) (resolve.Answer[registry.Framework], error) {
	if !Interactive() {
		return resolve.Answer[registry.Framework]{}, refuse("framework", "pass --nextjs, --reactjs or --expressjs")
	}

	var fw registry.Framework

	sel := huh.NewSelect[registry.Framework]().
		Title("Which framework would you like to use?").
		Options(frameworkOptions(options)...).
		Value(&fw)

	return run(ctx, c, sel, &fw)
}

func (c *Collector) TypeScript(ctx context.Context, initial bool) (resolve.Answer[bool], error) {
	if !Interactive() {
		return resolve.Answer[bool]{}, refuse("language", "pass --typescript or --javascript")
	}

	ts := initial

	confirm := huh.NewConfirm().
		Title("Would you like to use TypeScript?").
		Affirmative("Yes").
		Negative("No").
		Value(&ts)

	return run(ctx, c, confirm, &ts)
}

func (c *Collector) Tools(ctx context.Context, options []resolve.ToolOption) (resolve.Answer[[]string], error) {
	if !Interactive() {
		return resolve.Answer[[]string]{}, refuse("dev tools", "pass --tools, --no-tools or individual tool flags")
	}

	opts, picked := toolOptions(options)

	ms := huh.NewMultiSelect[string]().
		Title("Which dev tools would you like to add?").
		Description("space to toggle, enter to confirm").
		Options(opts...).
		Value(&picked)

	return run(ctx, c, ms, &picked)
}

func frameworkOptions(infos []registry.FrameworkInfo) []huh.Option[registry.Framework] {
	out := make([]huh.Option[registry.Framework], len(infos))

	for i, info := range infos {
		out[i] = huh.NewOption(fmt.Sprintf("%s (%s)", info.Label, info.Hint), info.ID)
	}

	return out
}

// toolOptions also returns the IDs checked up front, so the multiselect
// starts with them selected whichever way huh reconciles value and options.
func toolOptions(options []resolve.ToolOption) ([]huh.Option[string], []string) {
	out := make([]huh.Option[string], len(options))
	checked := make([]string, 0, len(options))

	for i, o := range options {
		out[i] = huh.NewOption(fmt.Sprintf("%s (%s)", o.Label, o.Hint), o.ID).Selected(o.Checked)

		if o.Checked {
			checked = append(checked, o.ID)
		}
	}

	return out, checked
}
