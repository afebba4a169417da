package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/sysmon/internal/config"
	"github.com/rileyhilliard/sysmon/internal/monitor"
	"github.com/rileyhilliard/sysmon/internal/source"
	"github.com/rileyhilliard/sysmon/internal/ui"
)

// reportFunc runs the report for a resolved configuration.
type reportFunc func(ctx context.Context, cfg config.Config, out, errOut io.Writer) error

var rootCmd = newRootCmd(runReport)

func newRootCmd(report reportFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sysmon [samples [tdelay]]",
		Short: "Periodic report of sessions, CPU and memory usage",
		Long: `sysmon samples the local host a fixed number of times and prints, for
every sample, the memory use, the connected users and the CPU utilization.

With neither --user nor --system, both reports are shown.

Examples:
  sysmon
  sysmon 5 2
  sysmon --system --graphics --samples=20
  sysmon --user --sequential --tdelay=3`,
		Args:          cobra.MaximumNArgs(len(positionalNames)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, args)
			if err != nil {
				return err
			}
			if cfg.NoColor {
				ui.DisableColors()
			}
			return report(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	addReportFlags(cmd)
	cmd.SetFlagErrorFunc(flagError)

	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newDoctorCmd(source.New))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// resolveConfig validates the command line, then layers it over the
// environment, the defaults file and the built-in defaults.
func resolveConfig(cmd *cobra.Command, args []string) (config.Config, error) {
	flags := cmd.Flags()
	if err := validateCountFlags(flags); err != nil {
		return config.Config{}, err
	}

	samples, tdelay, err := parsePositional(args)
	if err != nil {
		return config.Config{}, err
	}

	path, _ := flags.GetString(flagConfig)
	cfg, err := config.Load(path, flags)
	if err != nil {
		return config.Config{}, err
	}

	// Positional values apply unless the matching flag was given.
	if samples > 0 && !flags.Changed(flagSamples) {
		cfg.Samples = samples
	}
	if tdelay > 0 && !flags.Changed(flagTdelay) {
		cfg.Interval = tdelay
	}

	return cfg, config.Validate(cfg)
}

// runReport wires the real metric source, terminal confirmer and signal
// handling into an orchestrator and runs it.
func runReport(ctx context.Context, cfg config.Config, out, errOut io.Writer) error {
	src, err := source.New(cfg.Source)
	if err != nil {
		return err
	}

	display := &sync.Mutex{}
	bridge := monitor.NewSignalBridge(monitor.NewTerminalConfirmer(), display,
		monitor.WithBridgeErrorOutput(errOut))

	orch := monitor.NewOrchestrator(cfg, src,
		monitor.WithOutput(out),
		monitor.WithErrorOutput(errOut),
		monitor.WithDisplayLock(display),
		monitor.WithSignalBridge(bridge),
	)
	return orch.Run(ctx)
}

// Execute runs the root command. Failures are printed to stderr; the
// process exit status is always 0.
func Execute() {
	execute(rootCmd, os.Stderr)
}

func execute(cmd *cobra.Command, stderr io.Writer) error {
	err := argumentError(cmd.Execute())
	if err != nil {
		fmt.Fprint(stderr, ui.RenderError(err))
	}
	return err
}
