package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/oukeidos/aitag/internal/settings"
	"github.com/oukeidos/aitag/internal/tagging"
)

// consoleNotifier prints notifications as single lines.
type consoleNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

func (n *consoleNotifier) ShowError(title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.out, "Error: %s: %s\n", title, message)
}

func (n *consoleNotifier) ShowSuccess(title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.out, "%s: %s\n", title, message)
}

// consoleProgress prints each status change on its own line.
type consoleProgress struct {
	out io.Writer
}

func newConsoleProgress(out io.Writer) tagging.ProgressFactory {
	return func(title, text string) tagging.Progress {
		fmt.Fprintf(out, "%s: %s\n", title, text)
		return &consoleProgress{out: out}
	}
}

func (p *consoleProgress) SetText(text string) { fmt.Fprintln(p.out, "  "+text) }
func (p *consoleProgress) Finish()             {}

// terminalDialog renders a settings dialog as a prompt sequence.
// Show asks for every input, then triggers the first button.
type terminalDialog struct {
	out     io.Writer
	prompt  func(string) (string, error)
	title   string
	heading string
	lines   []string
	inputs  []settings.InputSpec
	labels  map[string]string
	values  map[string]string
	buttons []func(settings.Dialog)
	closed  bool
	err     error
}

func newTerminalDialog(out io.Writer, prompt func(string) (string, error)) *terminalDialog {
	return &terminalDialog{
		out:    out,
		prompt: prompt,
		labels: map[string]string{},
		values: map[string]string{},
	}
}

func (d *terminalDialog) SetTitle(title string) { d.title = title }

// AddText keeps bold text as the label of the next input.
func (d *terminalDialog) AddText(text string, bold bool) {
	if bold {
		d.heading = text
		return
	}
	d.lines = append(d.lines, text)
}

func (d *terminalDialog) AddInput(spec settings.InputSpec) {
	d.inputs = append(d.inputs, spec)
	d.labels[spec.Var] = d.heading
	d.values[spec.Var] = spec.Value
	d.heading = ""
}

func (d *terminalDialog) AddInfo(text, _ string) { d.lines = append(d.lines, text) }

func (d *terminalDialog) AddButton(_ string, onTap func(settings.Dialog)) {
	d.buttons = append(d.buttons, onTap)
}

func (d *terminalDialog) Value(name string) string { return d.values[name] }

func (d *terminalDialog) Show() {
	fmt.Fprintln(d.out, d.title)
	for _, line := range d.lines {
		fmt.Fprintln(d.out, line)
	}
	for _, in := range d.inputs {
		label := d.labels[in.Var]
		if label == "" {
			label = in.Var
		}
		v, err := d.prompt(label + ": ")
		if err != nil {
			d.err = err
			return
		}
		d.values[in.Var] = v
	}
	if len(d.buttons) > 0 {
		d.buttons[0](d)
	}
}

func (d *terminalDialog) Close() { d.closed = true }
