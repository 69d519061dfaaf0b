package plan

import (
	"fmt"
	"slices"

	"github.com/kxue43/inikit/registry"
	"github.com/kxue43/inikit/resolve"
)

type (
	Kind byte

	Step struct {
		Tool string
		Kind Kind
	}

	Plan struct {
		Selection resolve.Selection
		Steps     []Step
	}

	Summary struct {
		Project   string             `yaml:"project"`
		Framework registry.Framework `yaml:"framework"`
		Language  registry.Language  `yaml:"language"`
		Tools     []string           `yaml:"tools"`
		Steps     []string           `yaml:"steps"`
	}
)

const (
	ScaffoldFramework Kind = iota
	EnableTool
	InitializeVCS
)

func (k Kind) String() string {
	switch k {
	case ScaffoldFramework:
		return "scaffold-framework"
	case EnableTool:
		return "enable-tool"
	case InitializeVCS:
		return "initialize-vcs"
	default:
		return fmt.Sprintf("kind(%d)", byte(k))
	}
}

func (s Step) String() string {
	if s.Kind == EnableTool {
		return s.Kind.String() + ":" + s.Tool
	}

	return s.Kind.String()
}

// New is pure: equal selections always produce equal plans.
func New(reg *registry.Registry, sel resolve.Selection) Plan {
	p := Plan{
		Selection: sel,
		Steps:     make([]Step, 0, len(sel.Tools)+2),
	}

	p.Steps = append(p.Steps, Step{Kind: ScaffoldFramework})

	for _, id := range order(reg, sel.Tools) {
		p.Steps = append(p.Steps, Step{Kind: EnableTool, Tool: id})
	}

	if !sel.SkipGit {
		p.Steps = append(p.Steps, Step{Kind: InitializeVCS})
	}

	return p
}

// order sorts ids topologically over the requires edges among them. Among
// the tools that are ready, the earliest registered one goes first.
func order(reg *registry.Registry, ids []string) []string {
	nodes := make([]string, 0, len(ids))

	for _, id := range ids {
		if !slices.Contains(nodes, id) {
			nodes = append(nodes, id)
		}
	}

	slices.SortStableFunc(nodes, func(a, b string) int {
		return rank(reg, a) - rank(reg, b)
	})

	pos := make(map[string]int, len(nodes))
	for i, id := range nodes {
		pos[id] = i
	}

	pending := make([]int, len(nodes))
	dependents := make([][]int, len(nodes))

	for i, id := range nodes {
		td, ok := reg.Lookup(id)
		if !ok {
			continue
		}

		for _, dep := range td.Requires {
			if j, ok := pos[dep]; ok {
				pending[i]++
				dependents[j] = append(dependents[j], i)
			}
		}
	}

	out := make([]string, 0, len(nodes))
	placed := make([]bool, len(nodes))

	for len(out) < len(nodes) {
		next := -1

		for i := range nodes {
			if !placed[i] && pending[i] == 0 {
				next = i

				break
			}
		}

		// Only reachable with a cyclic table, which registry.New refuses.
		if next < 0 {
			panic(fmt.Sprintf("requirement cycle among %v", nodes))
		}

		placed[next] = true
		out = append(out, nodes[next])

		for _, k := range dependents[next] {
			pending[k]--
		}
	}

	return out
}

// rank orders unknown IDs after every registered one.
func rank(reg *registry.Registry, id string) int {
	if i := reg.Index(id); i >= 0 {
		return i
	}

	return len(reg.All())
}

// Tools lists the tool IDs in the order the plan enables them.
func (p Plan) Tools() []string {
	var out []string

	for _, s := range p.Steps {
		if s.Kind == EnableTool {
			out = append(out, s.Tool)
		}
	}

	return out
}

func (p Plan) Summary() Summary {
	steps := make([]string, len(p.Steps))
	for i := range p.Steps {
		steps[i] = p.Steps[i].String()
	}

	return Summary{
		Project:   p.Selection.ProjectName,
		Framework: p.Selection.Framework,
		Language:  p.Selection.Language,
		Tools:     p.Tools(),
		Steps:     steps,
	}
}
