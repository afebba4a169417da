package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// DividerWidth is the inner width of the divider framing each sample.
const DividerWidth = 37

// SampleHeader is what the orchestrator prints once per iteration.
type SampleHeader struct {
	Sample   int   // 1-based iteration index
	Samples  int   // configured sample count
	Interval int   // configured delay in seconds
	SelfKB   int64 // this process's resident memory
	SelfErr  error // set when SelfKB could not be read
}

// RenderDivider renders the "+-----+" line framing a sample.
func RenderDivider() string {
	style := lipgloss.NewStyle().Foreground(ColorMuted)
	return style.Render("+" + strings.Repeat("-", DividerWidth) + "+")
}

// RenderSampleHeader renders the header block that opens an iteration.
func RenderSampleHeader(h SampleHeader) string {
	titleStyle := lipgloss.NewStyle().Foreground(ColorInfo).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(RenderDivider())
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d samples every %d second(s)", h.Samples, h.Interval)))
	b.WriteString("\n")
	b.WriteString(titleStyle.Render(fmt.Sprintf("Sample #%d", h.Sample)))
	b.WriteString("\n\n")

	if h.SelfErr != nil {
		warn := lipgloss.NewStyle().Foreground(ColorWarning)
		b.WriteString(warn.Render(fmt.Sprintf("Memory Usage: unavailable (%v)", h.SelfErr)))
	} else {
		b.WriteString(fmt.Sprintf("Memory Usage: %d kB", h.SelfKB))
	}
	b.WriteString("\n\n")

	return b.String()
}

// RenderSampleFooter closes an iteration.
func RenderSampleFooter() string {
	return "\n" + RenderDivider() + "\n"
}

// RenderBaselineNotice is printed while the orchestrator waits out its CPU warm-up.
func RenderBaselineNotice() string {
	style := lipgloss.NewStyle().Foreground(ColorSecondary)
	return style.Render("Grabbing Baseline Sample...") + "\n"
}

// RenderError renders an error for stderr.
func RenderError(err error) string {
	if err == nil {
		return ""
	}
	style := lipgloss.NewStyle().Foreground(ColorError)
	return style.Render(strings.TrimRight(err.Error(), "\n")) + "\n"
}

// ClearScreen erases the display and moves the cursor home.
func ClearScreen(w io.Writer) {
	out := termenv.NewOutput(w)
	out.ClearScreen()
}

// DisableColors switches all rendering to plain text.
func DisableColors() {
	lipgloss.SetColorProfile(termenv.Ascii)
}
