// Package prompt asks yes/no questions on the terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrNonInteractive is returned when confirmation is needed but stdin is not a terminal.
var ErrNonInteractive = errors.New("non-interactive stdin: use -y to overwrite existing output")

// Confirmer reads answers from In and writes questions to Out.
type Confirmer struct {
	In            io.Reader
	Out           io.Writer
	IsInteractive func() bool
}

// DefaultConfirmer talks to the process terminal.
func DefaultConfirmer() Confirmer {
	return Confirmer{
		In:  os.Stdin,
		Out: os.Stderr,
		IsInteractive: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

// ConfirmOverwrite asks before replacing an existing file. Missing files and force skip the question.
func (c Confirmer) ConfirmOverwrite(path string, force bool) (bool, error) {
	if force {
		return true, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return true, nil
	}
	if c.IsInteractive == nil || !c.IsInteractive() {
		return false, ErrNonInteractive
	}
	if c.Out != nil {
		fmt.Fprintf(c.Out, "%s already exists. Overwrite? (y/N): ", path)
	}
	line, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
