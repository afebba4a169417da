// Package cli implements the sysmon command-line interface.
//
// The root command runs the report:
//
//	sysmon [samples [tdelay]] [--user] [--system] [--graphics] [--sequential]
//	       [--samples=N] [--tdelay=T] [--source=gopsutil|procfs] [--no-color]
//
// Subcommands:
//
//	sysmon config   - Print the effective configuration as YAML
//	sysmon doctor   - Check the metric source, defaults file and terminal
//	sysmon version  - Print build information
//
// # Flag Handling
//
// Report flags are persistent so "sysmon config" resolves the same values a
// run would. Command line values are checked before anything is sampled: a
// missing, non-numeric or non-positive --samples or --tdelay, an unknown
// flag, or a bad positional argument is an ARGUMENT error naming the flag.
//
// Values are layered as flags, then SYSMON_* environment variables, then the
// defaults file, then built-in defaults (see internal/config).
//
// # Exit Status
//
// Errors are printed to stderr and the process always exits 0.
package cli
