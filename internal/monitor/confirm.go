package monitor

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// Confirmer asks a yes/no question. Only an explicit yes returns true.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(prompt string) (bool, error)

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(prompt string) (bool, error) {
	return f(prompt)
}

// LineConfirmer reads a typed answer from In, writing the prompt to Out.
// "y" and "yes" (any case) confirm; anything else, including EOF, declines.
type LineConfirmer struct {
	In  io.Reader
	Out io.Writer
}

// Confirm implements Confirmer.
func (c LineConfirmer) Confirm(prompt string) (bool, error) {
	if c.Out != nil {
		fmt.Fprintf(c.Out, "\n%s (yes/no) ", prompt)
	}

	line, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// ttyConfirmer shows an interactive huh prompt on the controlling terminal,
// so it works even while stdout is redirected.
type ttyConfirmer struct {
	path string
}

// Confirm implements Confirmer.
func (c ttyConfirmer) Confirm(prompt string) (bool, error) {
	tty, err := os.OpenFile(c.path, os.O_RDWR, 0)
	if err != nil {
		return false, err
	}
	defer tty.Close()

	var quit bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(prompt).
				Affirmative("Yes").
				Negative("No").
				Value(&quit),
		),
	).WithProgramOptions(tea.WithInput(tty), tea.WithOutput(tty))

	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			return false, nil
		}
		return false, err
	}
	return quit, nil
}

// NewTerminalConfirmer returns the confirmer for interactive use: a huh
// prompt on /dev/tty when stdin is a terminal, otherwise a line prompt on
// stdin/stderr.
func NewTerminalConfirmer() Confirmer {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return ttyConfirmer{path: "/dev/tty"}
	}
	return LineConfirmer{In: os.Stdin, Out: os.Stderr}
}
