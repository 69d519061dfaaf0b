package terminal

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kxue43/inikit/resolve"
)

func TestConsole(t *testing.T) {
	var buf bytes.Buffer

	c := NewConsole(&buf, false)

	c.Intro("Inikit", "1.2.0")
	c.Info("info")
	c.Error("bad")
	c.Printf("hidden %d", 1)
	c.Println("hidden")
	c.Outro("bye")

	assert.Equal(t, "┌  Welcome to Inikit v1.2.0\n●  info\n■  bad\n└  bye\n", buf.String(), "a buffer gets no colors and debug logs stay quiet")
}

func TestConsoleVerbose(t *testing.T) {
	var buf bytes.Buffer

	c := NewConsole(&buf, true)
	require.True(t, c.Verbose())

	c.Printf("$ %s", "npm install")
	c.Println("added 1 package\nfound 0 vulnerabilities")

	assert.Equal(t, "inikit: $ npm install\ninikit:   added 1 package\ninikit:   found 0 vulnerabilities\n", buf.String())
}

func TestPlainTracker(t *testing.T) {
	var buf bytes.Buffer

	tracker := PlainTracker{Console: NewConsole(&buf, false)}

	err := tracker.Track(context.Background(), "Adding Zod", "Added Zod", func(context.Context) error { return nil })
	require.NoError(t, err)

	boom := errors.New("boom")

	err = tracker.Track(context.Background(), "Adding Zustand", "Added Zustand", func(context.Context) error { return boom })
	require.ErrorIs(t, err, boom)

	assert.Equal(t, "◇  Adding Zod...\n◆  Added Zod\n◇  Adding Zustand...\n", buf.String())
}

func TestSpinnerTracker(t *testing.T) {
	var out, in, status bytes.Buffer

	tracker := SpinnerTracker{Console: NewConsole(&status, false), Out: &out, In: &in}

	ran := false

	err := tracker.Track(context.Background(), "Initializing git repository", "Initialized git repository", func(context.Context) error {
		ran = true

		return nil
	})
	require.NoError(t, err)

	assert.True(t, ran)
	assert.Equal(t, "◆  Initialized git repository\n", status.String())

	boom := errors.New("boom")

	err = tracker.Track(context.Background(), "start", "done", func(context.Context) error { return boom })
	require.ErrorIs(t, err, boom)
	assert.NotContains(t, status.String(), "done")
}

func TestSpinnerTrackerCancelsAction(t *testing.T) {
	var out, status bytes.Buffer

	tracker := SpinnerTracker{Console: NewConsole(&status, false), Out: &out, In: strings.NewReader("\x03")}

	var stopped atomic.Bool

	err := tracker.Track(context.Background(), "Creating app", "Created app", func(ctx context.Context) error {
		<-ctx.Done()
		stopped.Store(true)

		return context.Cause(ctx)
	})

	require.ErrorIs(t, err, resolve.ErrCancelled)
	assert.True(t, stopped.Load(), "the action must have returned before Track does")
	assert.Empty(t, status.String())
}

func TestSpinnerModel(t *testing.T) {
	m := newSpinnerModel("Working")

	assert.Contains(t, m.View(), "Working")

	next, cmd := m.Update(spinner.TickMsg{ID: m.spinner.ID()})
	assert.NotNil(t, cmd, "the spinner keeps ticking")
	assert.False(t, next.(spinnerModel).finished)

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.True(t, next.(spinnerModel).aborted)
	assert.Empty(t, next.View())

	boom := errors.New("boom")

	next, _ = m.Update(finishedMsg{err: boom})
	assert.True(t, next.(spinnerModel).finished)
	assert.ErrorIs(t, next.(spinnerModel).err, boom)

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.Nil(t, cmd)
	assert.False(t, next.(spinnerModel).aborted)
}

func TestSpinnerCancelledError(t *testing.T) {
	m := newSpinnerModel("x")
	m.aborted = true

	assert.Empty(t, m.View())
	assert.ErrorIs(t, cancelled("x"), resolve.ErrCancelled)
}
