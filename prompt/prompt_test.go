package prompt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kxue43/inikit/registry"
	"github.com/kxue43/inikit/resolve"
)

func TestRefusesWithoutTerminal(t *testing.T) {
	original := Interactive
	Interactive = func() bool { return false }

	defer func() {
		Interactive = original
	}()

	c := New()
	ctx := context.Background()

	var inputErr *resolve.InputError

	_, err := c.ProjectName(ctx, "my-app", resolve.ValidateProjectName)
	require.ErrorAs(t, err, &inputErr)
	assert.Contains(t, err.Error(), "[directory]")

	_, err = c.Framework(ctx, registry.Frameworks())
	require.ErrorAs(t, err, &inputErr)
	assert.Contains(t, err.Error(), "--nextjs")

	_, err = c.TypeScript(ctx, true)
	require.ErrorAs(t, err, &inputErr)
	assert.Contains(t, err.Error(), "--typescript")

	_, err = c.Tools(ctx, nil)
	require.ErrorAs(t, err, &inputErr)
	assert.Contains(t, err.Error(), "--no-tools")
}

func TestRefusesInCI(t *testing.T) {
	t.Setenv("CI", "true")

	assert.False(t, Interactive())
}

func TestFrameworkOptions(t *testing.T) {
	opts := frameworkOptions(registry.Frameworks())
	require.Len(t, opts, 3)

	assert.Equal(t, "Next.js (using create-next-app)", opts[0].Key)
	assert.Equal(t, registry.NextJS, opts[0].Value)
	assert.Equal(t, registry.ExpressJS, opts[2].Value)
}

func TestToolOptions(t *testing.T) {
	opts, checked := toolOptions([]resolve.ToolOption{
		{ID: "tailwind", Label: "Tailwind CSS", Hint: "utility-first CSS", Checked: true},
		{ID: "eslint", Label: "ESLint", Hint: "pluggable linting"},
		{ID: "prettier", Label: "Prettier", Hint: "opinionated code formatting", Checked: true},
	})

	require.Len(t, opts, 3)

	assert.Equal(t, "Tailwind CSS (utility-first CSS)", opts[0].Key)
	assert.Equal(t, "eslint", opts[1].Value)
	assert.Equal(t, []string{"tailwind", "prettier"}, checked)
}
