// Package terminal owns what inikit prints to the user: status lines,
// progress for long running steps and, on request, debug logs.
package terminal

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

type (
	Console struct {
		out     io.Writer
		logger  *log.Logger
		styles  styles
		mux     sync.Mutex
		verbose bool
	}

	styles struct {
		bar    lipgloss.Style
		title  lipgloss.Style
		info   lipgloss.Style
		step   lipgloss.Style
		done   lipgloss.Style
		error  lipgloss.Style
		cancel lipgloss.Style
		debug  lipgloss.Style
	}
)

var (
	palette = struct {
		magenta lipgloss.Color
		green   lipgloss.Color
		yellow  lipgloss.Color
		red     lipgloss.Color
		blue    lipgloss.Color
		gray    lipgloss.Color
	}{
		magenta: lipgloss.Color("212"),
		green:   lipgloss.Color("2"),
		yellow:  lipgloss.Color("184"),
		red:     lipgloss.Color("9"),
		blue:    lipgloss.Color("39"),
		gray:    lipgloss.Color("241"),
	}
)

// NewConsole writes to out, which is normally stderr. Colors are used only
// when out is a terminal that supports them.
func NewConsole(out io.Writer, verbose bool) *Console {
	r := lipgloss.NewRenderer(out)

	c := &Console{
		out:     out,
		verbose: verbose,
		styles: styles{
			bar:    r.NewStyle().Foreground(palette.gray),
			title:  r.NewStyle().Bold(true).Foreground(palette.magenta),
			info:   r.NewStyle().Foreground(palette.blue),
			step:   r.NewStyle().Foreground(palette.magenta),
			done:   r.NewStyle().Foreground(palette.green),
			error:  r.NewStyle().Foreground(palette.red),
			cancel: r.NewStyle().Foreground(palette.yellow),
			debug:  r.NewStyle().Foreground(palette.gray),
		},
	}

	c.logger = log.New(out, "inikit: ", 0)

	return c
}

func (c *Console) Verbose() bool {
	return c.verbose
}

func (c *Console) line(symbol lipgloss.Style, glyph, msg string) {
	c.mux.Lock()
	defer c.mux.Unlock()

	_, _ = fmt.Fprintf(c.out, "%s  %s\n", symbol.Render(glyph), msg)
}

func (c *Console) Intro(name, version string) {
	c.line(c.styles.bar, "┌", c.styles.title.Render(fmt.Sprintf("Welcome to %s v%s", name, version)))
}

func (c *Console) Info(msg string) {
	c.line(c.styles.info, "●", msg)
}

func (c *Console) Step(msg string) {
	c.line(c.styles.step, "◇", msg)
}

func (c *Console) Done(msg string) {
	c.line(c.styles.done, "◆", msg)
}

func (c *Console) Error(msg string) {
	c.line(c.styles.error, "■", c.styles.error.Render(msg))
}

func (c *Console) Outro(msg string) {
	c.line(c.styles.bar, "└", c.styles.done.Render(msg))
}

func (c *Console) Cancel(msg string) {
	c.line(c.styles.bar, "└", c.styles.cancel.Render(msg))
}

// Printf logs a debug line. Nothing is printed unless the console is verbose.
func (c *Console) Printf(format string, v ...any) {
	if !c.verbose {
		return
	}

	c.mux.Lock()
	defer c.mux.Unlock()

	c.logger.Print(c.styles.debug.Render(fmt.Sprintf(format, v...)))
}

func (c *Console) Println(v ...any) {
	if !c.verbose {
		return
	}

	c.mux.Lock()
	defer c.mux.Unlock()

	for _, line := range strings.Split(strings.TrimRight(fmt.Sprint(v...), "\n"), "\n") {
		c.logger.Print(c.styles.debug.Render("  " + line))
	}
}
