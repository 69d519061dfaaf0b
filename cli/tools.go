package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/kxue43/inikit/docs"
	"github.com/kxue43/inikit/registry"
	"github.com/kxue43/inikit/resolve"
)

type (
	ToolsCmd struct {
		Framework string `name:"framework" placeholder:"nextjs|reactjs|expressjs" help:"Only list tools that work with this framework."`
		Language  string `name:"language" placeholder:"typescript|javascript" help:"Only list tools that work with this language."`
	}

	DocsCmd struct {
		Tool  string `arg:"" name:"tool" help:"Tool ID or alias."`
		Print bool   `name:"print" help:"Print the HTML page instead of opening it in the browser."`
	}
)

var toolsHeaders = []string{"Tool", "Alias", "Recommended", "Languages", "Frameworks", "Requires", "Description"}

// Validate is called by kong after parsing.
func (c *ToolsCmd) Validate() error {
	if c.Framework != "" && !registry.Framework(c.Framework).Valid() {
		return &resolve.InputError{Msg: fmt.Sprintf("unknown framework %q", c.Framework)}
	}

	switch registry.Language(c.Language) {
	case "", registry.TypeScript, registry.JavaScript:
		return nil
	default:
		return &resolve.InputError{Msg: fmt.Sprintf("unknown language %q", c.Language)}
	}
}

func (c *ToolsCmd) Run(app *App) error {
	r := lipgloss.NewRenderer(app.Stdout)
	header := r.NewStyle().Bold(true).Padding(0, 1)
	cell := r.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.NewStyle().Foreground(lipgloss.Color("241"))).
		Headers(toolsHeaders...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}

			return cell
		})

	for _, td := range c.tools(app.Registry) {
		recommended := "no"
		if td.Recommended {
			recommended = "yes"
		}

		t.Row(
			td.ID,
			td.Alias,
			recommended,
			join(td.Languages),
			join(td.Frameworks),
			strings.Join(td.Requires, ", "),
			td.Description,
		)
	}

	_, err := fmt.Fprintln(app.Stdout, t.Render())

	return err
}

func (c *ToolsCmd) tools(reg *registry.Registry) []registry.ToolDescriptor {
	var out []registry.ToolDescriptor

	for _, td := range reg.All() {
		if c.Framework != "" && !td.SupportsFramework(registry.Framework(c.Framework)) {
			continue
		}

		if c.Language != "" && !td.SupportsLanguage(registry.Language(c.Language)) {
			continue
		}

		out = append(out, td)
	}

	return out
}

func join[T ~string](vs []T) string {
	if len(vs) == 0 {
		return "-"
	}

	s := make([]string, len(vs))
	for i := range vs {
		s[i] = string(vs[i])
	}

	return strings.Join(s, ", ")
}

func (c *DocsCmd) Run(app *App) error {
	if c.Print {
		return docs.Show(app.Registry, c.Tool, app.Stdout)
	}

	return docs.Show(app.Registry, c.Tool, nil)
}
