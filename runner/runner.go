package runner

import (
	"context"
	"fmt"

	"github.com/kxue43/inikit/plan"
	"github.com/kxue43/inikit/resolve"
)

type (
	Messages struct {
		Start string
		Done  string
	}

	Executor interface {
		Describe(sel resolve.Selection, step plan.Step) Messages
		Execute(ctx context.Context, sel resolve.Selection, step plan.Step) error
	}

	// Tracker reports the progress of one action. It emits start, runs fn and
	// emits done only when fn succeeded.
	Tracker interface {
		Track(ctx context.Context, start, done string, fn func(context.Context) error) error
	}

	Runner struct {
		Executors map[plan.Kind]Executor
		Tracker   Tracker
	}

	Result struct {
		Completed []plan.Step
	}

	StepError struct {
		Step plan.Step
		Err  error
	}
)

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s failed: %s", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Run executes the steps of p one at a time, in order. The first failure
// stops the run; steps already completed are not undone.
//
// Non-nil returned error is a [*StepError] unless ctx was done between steps.
func (r *Runner) Run(ctx context.Context, p plan.Plan) (res Result, err error) {
	res.Completed = make([]plan.Step, 0, len(p.Steps))

	for _, step := range p.Steps {
		if err = context.Cause(ctx); err != nil {
			return res, fmt.Errorf("run interrupted before %s: %w", step, err)
		}

		exec, ok := r.Executors[step.Kind]
		if !ok {
			return res, &StepError{Step: step, Err: fmt.Errorf("no executor registered for %s", step.Kind)}
		}

		msgs := exec.Describe(p.Selection, step)

		err = r.Tracker.Track(ctx, msgs.Start, msgs.Done, func(ctx context.Context) error {
			return exec.Execute(ctx, p.Selection, step)
		})
		if err != nil {
			return res, &StepError{Step: step, Err: err}
		}

		res.Completed = append(res.Completed, step)
	}

	return res, nil
}
