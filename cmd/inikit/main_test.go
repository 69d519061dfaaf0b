package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kxue43/inikit/cli"
	"github.com/kxue43/inikit/plan"
	"github.com/kxue43/inikit/resolve"
	"github.com/kxue43/inikit/runner"
	"github.com/kxue43/inikit/terminal"
	"github.com/kxue43/inikit/validate"
)

func TestReport(t *testing.T) {
	var tests = []struct {
		name     string
		err      error
		code     int
		contains []string
	}{
		{"success", nil, 0, nil},
		{"help", &cli.ExitError{Code: 0}, 0, nil},
		{"cancelled", fmt.Errorf("prompt: %w", resolve.ErrCancelled), 0, []string{"Operation cancelled."}},
		{"input", &resolve.InputError{Msg: "unknown tool \"svelte\""}, 1, []string{"unknown tool", usageHint}},
		{
			"violations",
			&cli.ValidationError{Violations: []validate.Violation{
				{Tool: "shadcn", Reason: "requires TypeScript"},
				{Tool: "prisma", Reason: "requires Next.js"},
			}},
			1,
			[]string{"shadcn requires TypeScript", "prisma requires Next.js"},
		},
		{
			"step",
			&runner.StepError{Step: plan.Step{Kind: plan.EnableTool, Tool: "zod"}, Err: errors.New("npm exited")},
			1,
			[]string{"An error occurred", "enable-tool:zod", "npm exited"},
		},
		{"other", errors.New("disk full"), 1, []string{"disk full"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer

			assert.Equal(t, tc.code, report(context.Background(), terminal.NewConsole(&buf, false), tc.err))

			for _, s := range tc.contains {
				assert.Contains(t, buf.String(), s)
			}

			if len(tc.contains) == 0 {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestReportAfterSignal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer

	err := &runner.StepError{Step: plan.Step{Kind: plan.ScaffoldFramework}, Err: errors.New("signal: killed")}

	assert.Equal(t, 0, report(ctx, terminal.NewConsole(&buf, false), err))
	assert.Contains(t, buf.String(), "Operation cancelled.")
	assert.NotContains(t, buf.String(), "An error occurred")
}
