package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kxue43/inikit/resolve"
)

type (
	// PlainTracker prints one line when an action starts and one when it
	// completes. It suits logs, pipes and verbose runs.
	PlainTracker struct {
		Console *Console
	}

	// SpinnerTracker animates a spinner next to the start message while the
	// action runs. Pressing ctrl+c cancels the whole run.
	SpinnerTracker struct {
		Console *Console
		Out     io.Writer
		In      io.Reader
	}

	spinnerModel struct {
		err      error
		start    string
		spinner  spinner.Model
		finished bool
		aborted  bool
	}

	finishedMsg struct {
		err error
	}
)

func (t PlainTracker) Track(ctx context.Context, start, done string, fn func(context.Context) error) error {
	t.Console.Step(start + "...")

	if err := fn(ctx); err != nil {
		return err
	}

	t.Console.Done(done)

	return nil
}

// Non-nil returned error wraps [resolve.ErrCancelled] when the user pressed
// ctrl+c while the spinner was showing. The action's context is cancelled
// then, and Track returns only after the action has.
func (t SpinnerTracker) Track(ctx context.Context, start, done string, fn func(context.Context) error) error {
	actionCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	p := tea.NewProgram(
		newSpinnerModel(start),
		tea.WithContext(ctx),
		tea.WithOutput(t.Out),
		tea.WithInput(t.In),
	)

	result := make(chan error, 1)

	go func() {
		err := fn(actionCtx)
		result <- err

		p.Send(finishedMsg{err: err})
	}()

	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrInterrupted) {
			err = cancelled(start)
		} else {
			err = fmt.Errorf("failed to run the progress spinner: %w", err)
		}

		cancel(err)
		<-result

		return err
	}

	if m, ok := final.(spinnerModel); ok && m.aborted {
		err = cancelled(start)

		cancel(err)
		<-result

		return err
	}

	if err = <-result; err != nil {
		return err
	}

	t.Console.Done(done)

	return nil
}

func cancelled(start string) error {
	return fmt.Errorf("%s: %w", start, resolve.ErrCancelled)
}

func newSpinnerModel(start string) spinnerModel {
	return spinnerModel{
		start: start,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(palette.magenta)),
		),
	}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case finishedMsg:
		m.finished = true
		m.err = msg.err

		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.aborted = true

			return m, tea.Quit
		}

		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd

		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	default:
		return m, nil
	}
}

func (m spinnerModel) View() string {
	if m.finished || m.aborted {
		return ""
	}

	return m.spinner.View() + " " + m.start + "\n"
}
