package cli

import (
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/sysmon/internal/config"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration a run would use, after applying flags,
SYSMON_* environment variables and the defaults file.

The output is valid YAML and can be saved as .sysmon.yaml.

Examples:
  sysmon config
  sysmon config --system --samples=30 > .sysmon.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, nil)
			if err != nil {
				return err
			}
			out, err := config.Render(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
