package doctor

import (
	"context"
	"os"

	"golang.org/x/term"
)

// TerminalCheck reports how an interrupt will be confirmed: with an
// interactive prompt on the controlling terminal, or a typed answer on stdin.
type TerminalCheck struct {
	// IsTerminal defaults to term.IsTerminal on stdin.
	IsTerminal func() bool
	// TTYPath defaults to /dev/tty.
	TTYPath string
}

func (c *TerminalCheck) Name() string     { return "terminal" }
func (c *TerminalCheck) Category() string { return "TERMINAL" }

func (c *TerminalCheck) Run(_ context.Context) CheckResult {
	isTerminal := c.IsTerminal
	if isTerminal == nil {
		isTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	}
	path := c.TTYPath
	if path == "" {
		path = "/dev/tty"
	}

	if !isTerminal() {
		return CheckResult{
			Status:     StatusWarn,
			Message:    "stdin is not a terminal, Ctrl-C will read a typed yes/no from stdin",
			Suggestion: "Run sysmon from an interactive shell to get the quit prompt",
		}
	}

	tty, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return CheckResult{
			Status:     StatusWarn,
			Message:    "Cannot open " + path + ": " + err.Error(),
			Suggestion: "The quit prompt needs a controlling terminal",
		}
	}
	tty.Close()

	return CheckResult{
		Status:  StatusPass,
		Message: "Interactive quit prompt on " + path,
	}
}
