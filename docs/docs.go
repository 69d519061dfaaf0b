// Package docs renders the documentation page of a registered tool.
package docs

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	texttemplate "text/template"

	"github.com/pkg/browser"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/kxue43/inikit/registry"
)

type (
	row struct {
		Framework  string
		TypeScript string
		JavaScript string
	}

	page struct {
		Tool       registry.ToolDescriptor
		Requires   []registry.ToolDescriptor
		RequiredBy []registry.ToolDescriptor
		Rows       []row
		Example    string
	}
)

var (
	//go:embed tool.md.tmplt
	markdownTemplate string

	//go:embed page.html.tmplt
	htmlTemplate string

	mdTmplt = texttemplate.Must(texttemplate.New("tool.md").Parse(markdownTemplate))

	htmlTmplt = template.Must(template.New("page.html").Parse(htmlTemplate))

	md = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)

	// OpenReader shows an HTML document to the user.
	OpenReader = browser.OpenReader
)

// Markdown describes the tool named by id or alias.
func Markdown(reg *registry.Registry, name string) ([]byte, error) {
	td, ok := reg.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%q is not a registered tool", name)
	}

	p := page{Tool: td, Example: example(td)}

	for _, id := range td.Requires {
		if dep, ok := reg.Lookup(id); ok {
			p.Requires = append(p.Requires, dep)
		}
	}

	for _, other := range reg.All() {
		for _, id := range other.Requires {
			if id == td.ID {
				p.RequiredBy = append(p.RequiredBy, other)
			}
		}
	}

	for _, fw := range registry.Frameworks() {
		p.Rows = append(p.Rows, row{
			Framework:  fw.Label,
			TypeScript: mark(td.Compatible(fw.ID, registry.TypeScript)),
			JavaScript: mark(td.Compatible(fw.ID, registry.JavaScript) && fw.ID != registry.ExpressJS),
		})
	}

	var buf bytes.Buffer

	if err := mdTmplt.Execute(&buf, p); err != nil {
		return nil, fmt.Errorf("failed to render the %s page: %w", td.ID, err)
	}

	return buf.Bytes(), nil
}

// HTML converts GitHub flavored markdown into a standalone page.
func HTML(title string, source []byte) ([]byte, error) {
	var body, out bytes.Buffer

	if err := md.Convert(source, &body); err != nil {
		return nil, fmt.Errorf("failed to convert Markdown to HTML: %w", err)
	}

	err := htmlTmplt.Execute(&out, struct {
		Title string
		Body  template.HTML
	}{
		Title: title,
		// goldmark escapes raw HTML unless html.WithUnsafe is set.
		Body: template.HTML(body.String()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert converted HTML into template: %w", err)
	}

	return out.Bytes(), nil
}

// Show writes the page for name to w, or opens it in the default browser
// when w is nil.
func Show(reg *registry.Registry, name string, w io.Writer) error {
	source, err := Markdown(reg, name)
	if err != nil {
		return err
	}

	td, _ := reg.Lookup(name)

	page, err := HTML(td.Label, source)
	if err != nil {
		return err
	}

	if w != nil {
		_, err = w.Write(page)

		return err
	}

	if err = OpenReader(bytes.NewReader(page)); err != nil {
		return fmt.Errorf("failed to open rendered HTML in default browser: %w", err)
	}

	return nil
}

func example(td registry.ToolDescriptor) string {
	var flags []string

	for _, fw := range registry.Frameworks() {
		if td.SupportsFramework(fw.ID) {
			flags = append(flags, "--"+string(fw.ID))

			break
		}
	}

	if td.SupportsLanguage(registry.TypeScript) {
		flags = append(flags, "--typescript")
	} else {
		flags = append(flags, "--javascript")
	}

	return strings.Join(append(flags, "--"+td.ID), " ")
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}

	return "✗"
}
