// Package ui renders the parts of sysmon's output that frame the reports:
// the per-sample header, dividers, the baseline notice, error text and the
// clear-and-home sequence used between refreshes.
//
// Styling uses Lip Gloss and degrades to plain text when stdout is not a
// terminal. Use DisableColors() for the --no-color flag.
//
//	ui.ClearScreen(os.Stdout)
//	fmt.Print(ui.RenderSampleHeader(ui.SampleHeader{Sample: 1, Samples: 10, Interval: 1, SelfKB: 5120}))
package ui
