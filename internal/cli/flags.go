package cli

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/rileyhilliard/sysmon/internal/config"
	"github.com/rileyhilliard/sysmon/internal/errors"
)

// Flag names shared by the root command and its subcommands.
const (
	flagConfig     = "config"
	flagUser       = "user"
	flagSystem     = "system"
	flagGraphics   = "graphics"
	flagSequential = "sequential"
	flagSamples    = "samples"
	flagTdelay     = "tdelay"
	flagSource     = "source"
	flagNoColor    = "no-color"
)

// positionalNames names the optional positional arguments, in order.
var positionalNames = []string{flagSamples, flagTdelay}

// addReportFlags registers the report flags as persistent flags so the
// config subcommand resolves exactly what a run would use.
func addReportFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String(flagConfig, "", "Defaults file (default: ./.sysmon.yaml or ~/.config/sysmon/config.yaml)")
	flags.Bool(flagUser, false, "Report the users currently connected")
	flags.Bool(flagSystem, false, "Report CPU and memory usage")
	flags.BoolP(flagGraphics, "g", false, "Append ASCII trend bars to memory and CPU history")
	flags.Bool(flagSequential, false, "Print each sample below the last instead of refreshing the screen")
	flags.Int(flagSamples, config.DefaultSamples, "Number of samples to take")
	flags.Int(flagTdelay, config.DefaultInterval, "Seconds between samples")
	flags.String(flagSource, config.SourceGopsutil, "Metric source: gopsutil or procfs")
	flags.Bool(flagNoColor, false, "Disable colored output")
}

// validateCountFlags rejects explicitly given --samples or --tdelay values
// that are not positive.
func validateCountFlags(flags *pflag.FlagSet) error {
	for _, name := range positionalNames {
		f := flags.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		n, err := flags.GetInt(name)
		if err != nil {
			return errors.NewArgumentError(name, err.Error())
		}
		if n <= 0 {
			return errors.NewArgumentError(name, fmt.Sprintf("must be a positive integer, got %d", n))
		}
	}
	return nil
}

// parsePositional reads the optional "samples [tdelay]" arguments. A zero
// result means the argument was not given.
func parsePositional(args []string) (samples, tdelay int, err error) {
	values := make([]int, len(positionalNames))
	for i, arg := range args {
		if i >= len(positionalNames) {
			return 0, 0, errors.NewArgumentError(arg, "too many positional arguments")
		}
		n, convErr := strconv.Atoi(strings.TrimSpace(arg))
		if convErr != nil || n <= 0 {
			return 0, 0, errors.NewArgumentError(positionalNames[i],
				fmt.Sprintf("must be a positive integer, got %q", arg))
		}
		values[i] = n
	}
	return values[0], values[1], nil
}

var (
	invalidValueRe = regexp.MustCompile(`invalid argument "(.*)" for "(?:-\w, )?--([\w-]+)" flag`)
	needsValueRe   = regexp.MustCompile(`flag needs an argument: (?:'(\w)' in -\w|--([\w-]+))`)
	unknownFlagRe  = regexp.MustCompile(`unknown (?:shorthand )?flag: (?:'(\w)' in -\w+|--([\w-]+))`)
)

// flagError converts a pflag parse failure into an ArgumentError naming the
// offending flag.
func flagError(_ *cobra.Command, err error) error {
	return argumentError(err)
}

// argumentError maps command line failures onto ARGUMENT errors. Errors that
// are already structured pass through unchanged.
func argumentError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*errors.Error); ok {
		return err
	}

	msg := err.Error()
	if m := invalidValueRe.FindStringSubmatch(msg); m != nil {
		return errors.NewArgumentError(m[2], fmt.Sprintf("%q is not a valid value", m[1]))
	}
	if m := needsValueRe.FindStringSubmatch(msg); m != nil {
		return errors.NewArgumentError(firstNonEmpty(m[1], m[2]), "a value is required")
	}
	if m := unknownFlagRe.FindStringSubmatch(msg); m != nil {
		return errors.NewArgumentError(firstNonEmpty(m[1], m[2]), "unknown flag")
	}
	if isUnknownCommandError(err) {
		return errors.NewArgumentError(extractUnknownCommand(err), "unknown command")
	}
	return errors.WrapWithCode(err, errors.ErrArgument,
		"Invalid command line arguments",
		"Use 'sysmon --help' to see a list of commands.")
}

// isUnknownCommandError checks if the error is cobra's unknown command error.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag")
}

// extractUnknownCommand pulls the command name out of cobra's
// `unknown command "foo" for "sysmon"` message.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start == -1 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end == -1 {
		return ""
	}
	return msg[start+1 : start+1+end]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
