package docs

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kxue43/inikit/registry"
)

func TestMarkdown(t *testing.T) {
	source, err := Markdown(registry.Default, "auth")
	require.NoError(t, err)

	text := string(source)

	assert.Contains(t, text, "# Auth.js\n")
	assert.Contains(t, text, "- Flag: `--authjs` (alias `--auth`)")
	assert.Contains(t, text, "- Requires: Prisma (`--prisma`)")
	assert.Contains(t, text, "| Next.js | ✓ | ✗ |")
	assert.Contains(t, text, "| React | ✗ | ✗ |")
	assert.Contains(t, text, "inikit my-app --nextjs --typescript --authjs")
	assert.NotContains(t, text, "Required by")
}

func TestMarkdownRequiredBy(t *testing.T) {
	source, err := Markdown(registry.Default, "tailwind")
	require.NoError(t, err)

	text := string(source)

	assert.Contains(t, text, "## Required by\n\n- Shadcn (`--shadcn`)")
	assert.Contains(t, text, "| Express.js | ✗ | ✗ |")
	assert.Contains(t, text, "inikit my-app --nextjs --typescript --tailwind")
}

func TestMarkdownUnknownTool(t *testing.T) {
	_, err := Markdown(registry.Default, "jquery")
	require.Error(t, err)
}

func TestHTML(t *testing.T) {
	page, err := HTML("Zod <schemas>", []byte("# Zod\n\n| a | b |\n| --- | --- |\n| 1 | 2 |\n\n<script>alert(1)</script>\n"))
	require.NoError(t, err)

	html := string(page)

	assert.Contains(t, html, "<title>Zod &lt;schemas&gt; - inikit</title>")
	assert.Contains(t, html, `<h1 id="zod">Zod</h1>`)
	assert.Contains(t, html, "<table>")
	assert.NotContains(t, html, "<script>alert(1)</script>")
}

func TestShowPrints(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Show(registry.Default, "zustand", &buf))
	assert.Contains(t, buf.String(), "<h1 id=\"zustand\">Zustand</h1>")
}

func TestShowOpensBrowser(t *testing.T) {
	var opened []byte

	original := OpenReader
	OpenReader = func(r io.Reader) error {
		var err error

		opened, err = io.ReadAll(r)

		return err
	}

	defer func() {
		OpenReader = original
	}()

	require.NoError(t, Show(registry.Default, "prettier", nil))
	assert.Contains(t, string(opened), "<title>Prettier - inikit</title>")

	OpenReader = func(io.Reader) error { return errors.New("no browser") }

	err := Show(registry.Default, "prettier", nil)
	require.ErrorContains(t, err, "no browser")
}
