package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/sysmon/internal/config"
	"github.com/rileyhilliard/sysmon/internal/doctor"
	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/rileyhilliard/sysmon/internal/monitor"
	"github.com/rileyhilliard/sysmon/internal/ui"
)

// DoctorOutput represents the JSON output for the doctor command.
type DoctorOutput struct {
	Categories []CategoryOutput `json:"categories"`
	Summary    SummaryOutput    `json:"summary"`
}

// CategoryOutput represents a category of check results.
type CategoryOutput struct {
	Name    string               `json:"name"`
	Results []doctor.CheckResult `json:"results"`
}

// SummaryOutput summarizes the check results.
type SummaryOutput struct {
	Pass     int  `json:"pass"`
	Warn     int  `json:"warn"`
	Fail     int  `json:"fail"`
	AllClear bool `json:"all_clear"`
}

// sourceFactory builds the metric source the doctor checks.
type sourceFactory func(name string) (monitor.Source, error)

func newDoctorCmd(newSource sourceFactory) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that the host counters and defaults file are usable",
		Long: `Read every counter the reports read from the selected metric source,
validate the defaults file and SYSMON_* overrides, and check whether an
interrupt can be confirmed interactively.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString(flagConfig)
			name, _ := cmd.Flags().GetString(flagSource)

			src, err := newSource(name)
			if err != nil {
				return err
			}

			checks := []doctor.Check{
				&doctor.ConfigFileCheck{ConfigPath: path},
				&doctor.ConfigValuesCheck{ConfigPath: path},
			}
			checks = append(checks, doctor.SourceChecks(src)...)
			checks = append(checks, &doctor.TerminalCheck{})

			results := doctor.RunAllParallel(cmd.Context(), checks)

			out := cmd.OutOrStdout()
			if asJSON {
				if err := writeDoctorJSON(out, results); err != nil {
					return err
				}
			} else {
				writeDoctorText(out, name, results)
			}

			if doctor.HasFailures(results) {
				return errors.New(errors.ErrSource,
					doctor.Summary(results),
					"See the failed checks above")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output in JSON format")
	return cmd
}

func writeDoctorJSON(w io.Writer, results []doctor.CheckResult) error {
	order, grouped := doctor.GroupByCategory(results)

	output := DoctorOutput{
		Categories: make([]CategoryOutput, 0, len(order)),
	}
	for _, cat := range order {
		output.Categories = append(output.Categories, CategoryOutput{
			Name:    cat,
			Results: grouped[cat],
		})
	}

	counts := doctor.CountByStatus(results)
	output.Summary = SummaryOutput{
		Pass:     counts[doctor.StatusPass],
		Warn:     counts[doctor.StatusWarn],
		Fail:     counts[doctor.StatusFail],
		AllClear: !doctor.HasIssues(results),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func writeDoctorText(w io.Writer, sourceName string, results []doctor.CheckResult) {
	headerStyle := lipgloss.NewStyle().Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(ui.ColorMuted)

	if sourceName == "" {
		sourceName = config.SourceGopsutil
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("sysmon diagnostic report"), mutedStyle.Render("(source: "+sourceName+")"))
	fmt.Fprintln(w)

	order, grouped := doctor.GroupByCategory(results)
	for _, cat := range order {
		fmt.Fprintln(w, headerStyle.Render(cat))
		for _, r := range grouped[cat] {
			writeCheckResult(w, r, mutedStyle)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, strings.Repeat("━", 60))
	fmt.Fprintln(w)

	symbol := lipgloss.NewStyle().Foreground(ui.ColorSuccess).Render(ui.SymbolSuccess)
	if doctor.HasIssues(results) {
		symbol = lipgloss.NewStyle().Foreground(ui.ColorError).Render(ui.SymbolFail)
	}
	fmt.Fprintf(w, "%s %s\n\n", symbol, doctor.Summary(results))
}

func writeCheckResult(w io.Writer, r doctor.CheckResult, mutedStyle lipgloss.Style) {
	var symbol string
	var style lipgloss.Style

	switch r.Status {
	case doctor.StatusPass:
		symbol, style = ui.SymbolSuccess, lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	case doctor.StatusWarn:
		symbol, style = ui.SymbolWarning, lipgloss.NewStyle().Foreground(ui.ColorWarning)
	default:
		symbol, style = ui.SymbolFail, lipgloss.NewStyle().Foreground(ui.ColorError)
	}

	fmt.Fprintf(w, "  %s %s\n", style.Render(symbol), r.Message)
	if r.Suggestion != "" && r.Status != doctor.StatusPass {
		for _, line := range strings.Split(r.Suggestion, "\n") {
			fmt.Fprintf(w, "    %s\n", mutedStyle.Render(line))
		}
	}
}
