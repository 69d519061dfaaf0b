package registry

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

type (
	Framework string

	Language string

	FrameworkInfo struct {
		ID    Framework
		Label string
		Hint  string
	}

	ToolDescriptor struct {
		ID          string
		Alias       string
		Description string
		Label       string
		Hint        string
		Homepage    string
		Languages   []Language
		Frameworks  []Framework
		Requires    []string
		Recommended bool
	}

	Registry struct {
		tools  []ToolDescriptor
		byName map[string]int
	}
)

const (
	NextJS    Framework = "nextjs"
	ReactJS   Framework = "reactjs"
	ExpressJS Framework = "expressjs"

	TypeScript Language = "typescript"
	JavaScript Language = "javascript"
)

var (
	ErrConfig = errors.New("invalid tool registry")

	frameworks = []FrameworkInfo{
		{ID: NextJS, Label: "Next.js", Hint: "using create-next-app"},
		{ID: ReactJS, Label: "React", Hint: "using vite"},
		{ID: ExpressJS, Label: "Express.js", Hint: "minimal server"},
	}
)

func Frameworks() []FrameworkInfo {
	return slices.Clone(frameworks)
}

func (f Framework) Label() string {
	for i := range frameworks {
		if frameworks[i].ID == f {
			return frameworks[i].Label
		}
	}

	return string(f)
}

func (f Framework) Valid() bool {
	for i := range frameworks {
		if frameworks[i].ID == f {
			return true
		}
	}

	return false
}

func (l Language) Label() string {
	switch l {
	case TypeScript:
		return "TypeScript"
	case JavaScript:
		return "JavaScript"
	default:
		return string(l)
	}
}

func (t *ToolDescriptor) SupportsLanguage(l Language) bool {
	return slices.Contains(t.Languages, l)
}

func (t *ToolDescriptor) SupportsFramework(f Framework) bool {
	return slices.Contains(t.Frameworks, f)
}

func (t *ToolDescriptor) Compatible(f Framework, l Language) bool {
	return t.SupportsFramework(f) && t.SupportsLanguage(l)
}

// New checks the table once: unique IDs and aliases, known requirements and
// an acyclic requires graph. Non-nil returned error wraps [ErrConfig].
func New(tools []ToolDescriptor) (*Registry, error) {
	r := Registry{
		tools:  slices.Clone(tools),
		byName: make(map[string]int, 2*len(tools)),
	}

	for i := range r.tools {
		if r.tools[i].ID == "" {
			return nil, fmt.Errorf("%w: tool #%d has an empty ID", ErrConfig, i)
		}

		names := []string{r.tools[i].ID}
		if r.tools[i].Alias != "" {
			names = append(names, r.tools[i].Alias)
		}

		for _, name := range names {
			if j, ok := r.byName[name]; ok {
				return nil, fmt.Errorf("%w: name %q is used by both %q and %q", ErrConfig, name, r.tools[j].ID, r.tools[i].ID)
			}

			r.byName[name] = i
		}
	}

	for i := range r.tools {
		for _, dep := range r.tools[i].Requires {
			j, ok := r.byName[dep]
			if !ok || r.tools[j].ID != dep {
				return nil, fmt.Errorf("%w: %q requires unknown tool %q", ErrConfig, r.tools[i].ID, dep)
			}
		}
	}

	if err := r.checkAcyclic(); err != nil {
		return nil, err
	}

	return &r, nil
}

func MustNew(tools []ToolDescriptor) *Registry {
	r, err := New(tools)
	if err != nil {
		panic(err)
	}

	return r
}

// checkAcyclic peels off tools without pending requirements (Kahn's algorithm).
// Whatever is left over sits on a cycle.
func (r *Registry) checkAcyclic() error {
	pending := make([]int, len(r.tools))
	dependents := make([][]int, len(r.tools))

	for i := range r.tools {
		for _, dep := range r.tools[i].Requires {
			j := r.byName[dep]
			pending[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	queue := make([]int, 0, len(r.tools))

	for i := range pending {
		if pending[i] == 0 {
			queue = append(queue, i)
		}
	}

	var removed int

	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		removed++

		for _, k := range dependents[i] {
			pending[k]--
			if pending[k] == 0 {
				queue = append(queue, k)
			}
		}
	}

	if removed == len(r.tools) {
		return nil
	}

	var cyclic []string

	for i := range pending {
		if pending[i] > 0 {
			cyclic = append(cyclic, r.tools[i].ID)
		}
	}

	return fmt.Errorf("%w: requirement cycle among %s", ErrConfig, strings.Join(cyclic, ", "))
}

func (r *Registry) Lookup(name string) (ToolDescriptor, bool) {
	i, ok := r.byName[name]
	if !ok {
		return ToolDescriptor{}, false
	}

	return r.tools[i], true
}

// Canonical maps an ID or alias to the ID.
func (r *Registry) Canonical(name string) (string, bool) {
	i, ok := r.byName[name]
	if !ok {
		return "", false
	}

	return r.tools[i].ID, true
}

func (r *Registry) All() []ToolDescriptor {
	return slices.Clone(r.tools)
}

// Index returns the registration index of id, or -1.
func (r *Registry) Index(id string) int {
	i, ok := r.byName[id]
	if !ok || r.tools[i].ID != id {
		return -1
	}

	return i
}

// ExpandRequirements grows ids until every requirement of every member is a
// member too. Known IDs come back in registration order, unknown ones after
// them in input order.
func (r *Registry) ExpandRequirements(ids []string) []string {
	known := make([]bool, len(r.tools))

	var unknown []string

	for _, id := range ids {
		i := r.Index(id)
		if i < 0 {
			if !slices.Contains(unknown, id) {
				unknown = append(unknown, id)
			}

			continue
		}

		known[i] = true
	}

	for changed := true; changed; {
		changed = false

		for i := range known {
			if !known[i] {
				continue
			}

			for _, dep := range r.tools[i].Requires {
				if j := r.byName[dep]; !known[j] {
					known[j] = true
					changed = true
				}
			}
		}
	}

	out := make([]string, 0, len(ids))

	for i := range known {
		if known[i] {
			out = append(out, r.tools[i].ID)
		}
	}

	return append(out, unknown...)
}

func (r *Registry) Compatible(f Framework, l Language) []ToolDescriptor {
	var out []ToolDescriptor

	for i := range r.tools {
		if r.tools[i].Compatible(f, l) {
			out = append(out, r.tools[i])
		}
	}

	return out
}

func (r *Registry) Recommended(f Framework, l Language) []string {
	var out []string

	for _, t := range r.Compatible(f, l) {
		if t.Recommended {
			out = append(out, t.ID)
		}
	}

	return out
}
