// Package console implements the interactive terminal surface: prompts,
// match pickers, confirmations, progress bars, and tabular output.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/vmunix/collectarr/internal/match"
)

// Console reads line-based input and writes styled output. It implements
// match.Chooser, match.Progress, and collection.Prompter.
type Console struct {
	in  *bufio.Reader
	out io.Writer

	bar      *progressbar.ProgressBar
	barTotal int
}

// New creates a console over the given streams. Colors are disabled when
// out is not a terminal.
func New(in io.Reader, out io.Writer) *Console {
	if f, ok := out.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		text.DisableColors()
	}
	return &Console{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Printf writes formatted output.
func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// Header writes a highlighted section header.
func (c *Console) Header(s string) {
	fmt.Fprintln(c.out, text.Colors{text.FgCyan, text.Bold}.Sprint(s))
}

// Successf writes a green status line.
func (c *Console) Successf(format string, args ...any) {
	fmt.Fprintln(c.out, text.FgGreen.Sprintf(format, args...))
}

// Warnf writes a yellow status line.
func (c *Console) Warnf(format string, args ...any) {
	fmt.Fprintln(c.out, text.FgYellow.Sprintf(format, args...))
}

// Errorf writes a red status line.
func (c *Console) Errorf(format string, args ...any) {
	fmt.Fprintln(c.out, text.FgRed.Sprintf(format, args...))
}

// ReadLine prompts and reads one trimmed line. The second return is false
// when the user cancelled by typing "esc" or closing the input stream.
func (c *Console) ReadLine(prompt string) (string, bool) {
	c.finishBar()
	fmt.Fprint(c.out, prompt)

	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	line = strings.TrimSpace(line)

	switch strings.ToLower(line) {
	case "esc", "escape":
		return "", false
	}
	return line, true
}

// PickIndex displays numbered options and reads a selection. Invalid input
// re-prompts; "s" skips the current item and "esc" cancels the whole run.
func (c *Console) PickIndex(header string, options []string) (int, match.PickOutcome) {
	c.finishBar()
	fmt.Fprintln(c.out, header)
	for i, opt := range options {
		fmt.Fprintf(c.out, "  %d) %s\n", i+1, opt)
	}

	for {
		line, ok := c.ReadLine("Select [number, s=skip, esc=cancel]: ")
		if !ok {
			return 0, match.PickCancelled
		}
		if strings.EqualFold(line, "s") {
			return 0, match.PickSkipped
		}
		n, err := strconv.Atoi(line)
		if err == nil && n >= 1 && n <= len(options) {
			return n - 1, match.Picked
		}
		c.Warnf("enter a number between 1 and %d", len(options))
	}
}

// Choose prompts for a single-letter choice out of choices, re-prompting
// until one matches. Cancelling yields false.
func (c *Console) Choose(prompt, choices string) (rune, bool) {
	for {
		line, ok := c.ReadLine(prompt)
		if !ok {
			return 0, false
		}
		if len(line) == 1 && strings.ContainsRune(strings.ToLower(choices), rune(strings.ToLower(line)[0])) {
			return rune(strings.ToLower(line)[0]), true
		}
		c.Warnf("choose one of: %s", choices)
	}
}

// Confirm asks a yes/no question. Anything other than y counts as no.
func (c *Console) Confirm(prompt string) bool {
	line, ok := c.ReadLine(prompt + " [y/n]: ")
	if !ok {
		return false
	}
	return strings.EqualFold(line, "y") || strings.EqualFold(line, "yes")
}

// Step advances the batch progress bar.
func (c *Console) Step(current, total int, message string) {
	if c.bar == nil || c.barTotal != total {
		c.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(c.out),
			progressbar.OptionSetWidth(30),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetPredictTime(false),
		)
		c.barTotal = total
	}
	c.bar.Describe(message)
	_ = c.bar.Set(current)
	if current >= total {
		c.finishBar()
	}
}

// finishBar clears any active progress bar so prompts render on a clean line.
func (c *Console) finishBar() {
	if c.bar != nil {
		_ = c.bar.Finish()
		c.bar = nil
		c.barTotal = 0
	}
}

// Table renders rows with the shared table style.
func (c *Console) Table(header []string, rows [][]string) {
	t := table.NewWriter()
	t.SetOutputMirror(c.out)
	t.SetStyle(table.StyleLight)

	hr := make(table.Row, len(header))
	for i, h := range header {
		hr[i] = h
	}
	t.AppendHeader(hr)

	for _, row := range rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		t.AppendRow(r)
	}
	t.Render()
}
