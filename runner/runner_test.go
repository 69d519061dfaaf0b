package runner

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kxue43/inikit/plan"
	"github.com/kxue43/inikit/registry"
	"github.com/kxue43/inikit/resolve"
)

type (
	FakeExecutor struct {
		Fail map[string]error
		Ran  *[]string
	}

	FakeTracker struct {
		Events []string
	}
)

func (e FakeExecutor) Describe(_ resolve.Selection, step plan.Step) Messages {
	return Messages{Start: "start " + step.String(), Done: "done " + step.String()}
}

func (e FakeExecutor) Execute(_ context.Context, _ resolve.Selection, step plan.Step) error {
	*e.Ran = append(*e.Ran, step.String())

	return e.Fail[step.String()]
}

func (t *FakeTracker) Track(ctx context.Context, start, done string, fn func(context.Context) error) error {
	t.Events = append(t.Events, start)

	if err := fn(ctx); err != nil {
		return err
	}

	t.Events = append(t.Events, done)

	return nil
}

func newRunner(ran *[]string, fail map[string]error) (*Runner, *FakeTracker) {
	exec := FakeExecutor{Ran: ran, Fail: fail}
	tracker := &FakeTracker{}

	return &Runner{
		Executors: map[plan.Kind]Executor{
			plan.ScaffoldFramework: exec,
			plan.EnableTool:        exec,
			plan.InitializeVCS:     exec,
		},
		Tracker: tracker,
	}, tracker
}

func samplePlan() plan.Plan {
	return plan.New(registry.Default, resolve.Selection{
		ProjectName: "web",
		Framework:   registry.NextJS,
		Language:    registry.TypeScript,
		Tools:       []string{"prisma", "authjs"},
	})
}

func TestRunSequential(t *testing.T) {
	var ran []string

	r, tracker := newRunner(&ran, nil)

	res, err := r.Run(context.Background(), samplePlan())
	require.NoError(t, err)

	want := []string{"scaffold-framework", "enable-tool:prisma", "enable-tool:authjs", "initialize-vcs"}

	assert.Equal(t, want, ran)
	assert.Len(t, res.Completed, len(want))

	var events []string
	for _, s := range want {
		events = append(events, "start "+s, "done "+s)
	}

	assert.Equal(t, events, tracker.Events, "each step is announced and completed before the next starts")
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	var ran []string

	boom := errors.New("npm exited with status 1")

	r, tracker := newRunner(&ran, map[string]error{"enable-tool:prisma": boom})

	res, err := r.Run(context.Background(), samplePlan())
	require.ErrorIs(t, err, boom)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)

	assert.Equal(t, plan.Step{Kind: plan.EnableTool, Tool: "prisma"}, stepErr.Step)
	assert.Equal(t, "step enable-tool:prisma failed: npm exited with status 1", err.Error())
	assert.Equal(t, []string{"scaffold-framework", "enable-tool:prisma"}, ran, "no step runs after a failure")
	assert.Equal(t, []plan.Step{{Kind: plan.ScaffoldFramework}}, res.Completed)
	assert.NotContains(t, tracker.Events, "done enable-tool:prisma")
}

func TestRunMissingExecutor(t *testing.T) {
	var ran []string

	r, _ := newRunner(&ran, nil)
	delete(r.Executors, plan.InitializeVCS)

	_, err := r.Run(context.Background(), samplePlan())

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)

	assert.Equal(t, plan.InitializeVCS, stepErr.Step.Kind)
	assert.Len(t, ran, 3)
}

func TestRunChecksContextBetweenSteps(t *testing.T) {
	var ran []string

	ctx, cancel := context.WithCancelCause(context.Background())
	cause := fmt.Errorf("interrupt")

	r, _ := newRunner(&ran, nil)
	r.Executors[plan.ScaffoldFramework] = cancelling{cancel: func() { cancel(cause) }, FakeExecutor: FakeExecutor{Ran: &ran}}

	res, err := r.Run(ctx, samplePlan())
	require.ErrorIs(t, err, cause)

	assert.Equal(t, []string{"scaffold-framework"}, ran)
	assert.Len(t, res.Completed, 1)
}

type cancelling struct {
	FakeExecutor
	cancel func()
}

func (c cancelling) Execute(ctx context.Context, sel resolve.Selection, step plan.Step) error {
	defer c.cancel()

	return c.FakeExecutor.Execute(ctx, sel, step)
}
