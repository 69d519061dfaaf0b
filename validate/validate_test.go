package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kxue43/inikit/registry"
	"github.com/kxue43/inikit/resolve"
)

func TestValidateAccepts(t *testing.T) {
	sel := resolve.Selection{
		ProjectName: "web",
		Framework:   registry.NextJS,
		Language:    registry.TypeScript,
		Tools:       []string{"tailwind", "shadcn", "prisma", "authjs"},
	}

	assert.Empty(t, Validate(registry.Default, sel))
}

func TestValidateLanguageMismatch(t *testing.T) {
	sel := resolve.Selection{
		Framework: registry.ReactJS,
		Language:  registry.JavaScript,
		Tools:     []string{"prettier", "zustand"},
	}

	violations := Validate(registry.Default, sel)
	require.Len(t, violations, 1)

	assert.Equal(t, "zustand", violations[0].Tool)
	assert.Equal(t, "zustand requires TypeScript", violations[0].Error())
}

func TestValidateFrameworkMismatch(t *testing.T) {
	sel := resolve.Selection{
		Framework: registry.ExpressJS,
		Language:  registry.TypeScript,
		Tools:     []string{"tailwind"},
	}

	violations := Validate(registry.Default, sel)
	require.Len(t, violations, 1)

	assert.Equal(t, "tailwind requires React or Next.js", violations[0].Error())
}

func TestValidateReportsEveryFailedCheck(t *testing.T) {
	sel := resolve.Selection{
		Framework: registry.ReactJS,
		Language:  registry.JavaScript,
		Tools:     []string{"prisma", "jquery"},
	}

	violations := Validate(registry.Default, sel)

	assert.Equal(t, []Violation{
		{Tool: "prisma", Reason: "requires TypeScript"},
		{Tool: "prisma", Reason: "requires Next.js"},
		{Tool: "jquery", Reason: "is not a registered tool"},
	}, violations)
}

func TestValidateRejectsAliases(t *testing.T) {
	sel := resolve.Selection{
		Framework: registry.NextJS,
		Language:  registry.TypeScript,
		Tools:     []string{"tailwindcss"},
	}

	assert.Len(t, Validate(registry.Default, sel), 1, "selections carry canonical IDs only")
}
