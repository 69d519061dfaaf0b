package resolve

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kxue43/inikit/registry"
)

type (
	Flags struct {
		ProjectName    string
		Tools          []string
		HasProjectName bool
		NextJS         bool
		ReactJS        bool
		ExpressJS      bool
		TypeScript     bool
		JavaScript     bool
		UseRecommended bool
		SkipTools      bool
		SkipGit        bool
	}

	Selection struct {
		ProjectName string             `yaml:"projectName"`
		Framework   registry.Framework `yaml:"framework"`
		Language    registry.Language  `yaml:"language"`
		Tools       []string           `yaml:"tools"`
		SkipGit     bool               `yaml:"skipGit"`
	}

	// Answer is what a prompt produced. A cancelled answer carries no value.
	Answer[T any] struct {
		Value     T
		Cancelled bool
	}

	ToolOption struct {
		ID      string
		Label   string
		Hint    string
		Checked bool
	}

	Collector interface {
		ProjectName(ctx context.Context, placeholder string, validate func(string) error) (Answer[string], error)
		Framework(ctx context.Context, options []registry.FrameworkInfo) (Answer[registry.Framework], error)
		TypeScript(ctx context.Context, initial bool) (Answer[bool], error)
		Tools(ctx context.Context, options []ToolOption) (Answer[[]string], error)
	}

	InputError struct {
		Msg string
	}

	Resolver struct {
		Registry *registry.Registry
	}
)

var ErrCancelled = errors.New("operation cancelled")

func (e *InputError) Error() string {
	return e.Msg
}

func inputErrorf(format string, args ...any) *InputError {
	return &InputError{Msg: fmt.Sprintf(format, args...)}
}

func (s Selection) TypeScript() bool {
	return s.Language == registry.TypeScript
}

func (s Selection) Has(id string) bool {
	for _, t := range s.Tools {
		if t == id {
			return true
		}
	}

	return false
}

func Answered[T any](v T) Answer[T] {
	return Answer[T]{Value: v}
}

func Cancelled[T any]() Answer[T] {
	return Answer[T]{Cancelled: true}
}

// Resolve uses the builtin tool registry.
func Resolve(ctx context.Context, flags Flags, c Collector) (Selection, error) {
	r := Resolver{Registry: registry.Default}

	return r.Resolve(ctx, flags, c)
}

// Resolve fills whatever flags leave open by asking c. Flag conflicts and
// invalid names are reported as [*InputError] before the first prompt. A
// cancelled prompt yields [ErrCancelled].
func (r Resolver) Resolve(ctx context.Context, flags Flags, c Collector) (sel Selection, err error) {
	toolFlags, err := r.checkFlags(flags)
	if err != nil {
		return sel, err
	}

	sel.SkipGit = flags.SkipGit

	if sel.ProjectName, err = r.projectName(ctx, flags, c); err != nil {
		return sel, err
	}

	if sel.Framework, err = r.framework(ctx, flags, c); err != nil {
		return sel, err
	}

	if sel.Language, err = r.language(ctx, flags, sel.Framework, c); err != nil {
		return sel, err
	}

	if sel.Tools, err = r.tools(ctx, flags, toolFlags, sel.Framework, sel.Language, c); err != nil {
		return sel, err
	}

	return sel, nil
}

func flagFramework(flags Flags) (fw registry.Framework, n int) {
	if flags.NextJS {
		fw, n = registry.NextJS, n+1
	}

	if flags.ReactJS {
		fw, n = registry.ReactJS, n+1
	}

	if flags.ExpressJS {
		fw, n = registry.ExpressJS, n+1
	}

	return fw, n
}

func flagLanguage(flags Flags) (lang registry.Language, n int) {
	if flags.TypeScript {
		lang, n = registry.TypeScript, n+1
	}

	if flags.JavaScript {
		lang, n = registry.JavaScript, n+1
	}

	return lang, n
}

// checkFlags returns the canonical IDs of the individually requested tools.
func (r Resolver) checkFlags(flags Flags) ([]string, error) {
	fw, nfw := flagFramework(flags)
	if nfw > 1 {
		return nil, inputErrorf("--nextjs, --reactjs and --expressjs are mutually exclusive")
	}

	lang, nlang := flagLanguage(flags)
	if nlang > 1 {
		return nil, inputErrorf("--typescript and --javascript are mutually exclusive")
	}

	if fw == registry.ExpressJS && lang == registry.JavaScript {
		return nil, errExpressJavaScript()
	}

	if flags.UseRecommended && flags.SkipTools {
		return nil, inputErrorf("--tools and --no-tools are mutually exclusive")
	}

	if flags.HasProjectName {
		if err := ValidateProjectName(flags.ProjectName); err != nil {
			return nil, &InputError{Msg: err.Error()}
		}
	}

	ids := make([]string, 0, len(flags.Tools))

	for _, name := range flags.Tools {
		td, ok := r.Registry.Lookup(name)
		if !ok {
			return nil, inputErrorf("unknown tool %q", name)
		}

		if nlang == 1 && !td.SupportsLanguage(lang) {
			return nil, inputErrorf("--%s requires --%s to be set", td.ID, joinLanguages(td.Languages))
		}

		if nfw == 1 && !td.SupportsFramework(fw) {
			return nil, inputErrorf("--%s requires --%s to be set", td.ID, joinFrameworks(td.Frameworks))
		}

		ids = append(ids, td.ID)
	}

	return ids, nil
}

// Express.js is always scaffolded in TypeScript, whether the framework came
// from a flag or a prompt.
func errExpressJavaScript() *InputError {
	return inputErrorf("Express.js projects are scaffolded in TypeScript; drop --javascript")
}

func joinLanguages(ls []registry.Language) string {
	parts := make([]string, len(ls))
	for i := range ls {
		parts[i] = string(ls[i])
	}

	return strings.Join(parts, " or --")
}

func joinFrameworks(fs []registry.Framework) string {
	parts := make([]string, len(fs))
	for i := range fs {
		parts[i] = string(fs[i])
	}

	return strings.Join(parts, " or --")
}

func (r Resolver) projectName(ctx context.Context, flags Flags, c Collector) (string, error) {
	if flags.HasProjectName {
		return normalizeProjectName(flags.ProjectName), nil
	}

	answer, err := c.ProjectName(ctx, DefaultProjectName, ValidateProjectName)
	if err != nil {
		return "", fmt.Errorf("failed to ask for the project name: %w", err)
	}

	if answer.Cancelled {
		return "", ErrCancelled
	}

	if err = ValidateProjectName(answer.Value); err != nil {
		return "", &InputError{Msg: err.Error()}
	}

	return normalizeProjectName(answer.Value), nil
}

func (r Resolver) framework(ctx context.Context, flags Flags, c Collector) (registry.Framework, error) {
	if fw, n := flagFramework(flags); n == 1 {
		return fw, nil
	}

	answer, err := c.Framework(ctx, registry.Frameworks())
	if err != nil {
		return "", fmt.Errorf("failed to ask for the framework: %w", err)
	}

	if answer.Cancelled {
		return "", ErrCancelled
	}

	if !answer.Value.Valid() {
		return "", inputErrorf("unsupported framework %q", answer.Value)
	}

	return answer.Value, nil
}

func (r Resolver) language(ctx context.Context, flags Flags, fw registry.Framework, c Collector) (registry.Language, error) {
	lang, n := flagLanguage(flags)

	if fw == registry.ExpressJS {
		if n == 1 && lang == registry.JavaScript {
			return "", errExpressJavaScript()
		}

		return registry.TypeScript, nil
	}

	if n == 1 {
		return lang, nil
	}

	answer, err := c.TypeScript(ctx, true)
	if err != nil {
		return "", fmt.Errorf("failed to ask for the language: %w", err)
	}

	if answer.Cancelled {
		return "", ErrCancelled
	}

	if answer.Value {
		return registry.TypeScript, nil
	}

	return registry.JavaScript, nil
}

func (r Resolver) tools(ctx context.Context, flags Flags, toolFlags []string, fw registry.Framework, lang registry.Language, c Collector) ([]string, error) {
	switch {
	case len(toolFlags) > 0:
		return r.Registry.ExpandRequirements(toolFlags), nil
	case flags.UseRecommended:
		return r.Registry.ExpandRequirements(r.Registry.Recommended(fw, lang)), nil
	case flags.SkipTools:
		return []string{}, nil
	}

	compatible := r.Registry.Compatible(fw, lang)
	if len(compatible) == 0 {
		return []string{}, nil
	}

	options := make([]ToolOption, len(compatible))
	for i := range compatible {
		options[i] = ToolOption{
			ID:      compatible[i].ID,
			Label:   compatible[i].Label,
			Hint:    compatible[i].Hint,
			Checked: compatible[i].Recommended,
		}
	}

	answer, err := c.Tools(ctx, options)
	if err != nil {
		return nil, fmt.Errorf("failed to ask for dev tools: %w", err)
	}

	if answer.Cancelled {
		return nil, ErrCancelled
	}

	return r.Registry.ExpandRequirements(answer.Value), nil
}
