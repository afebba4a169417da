package doctor

import (
	"context"
	"fmt"

	"github.com/rileyhilliard/sysmon/internal/config"
)

// ConfigFileCheck reports which defaults file a run would read.
type ConfigFileCheck struct {
	ConfigPath string // Explicit path, or empty to search
}

func (c *ConfigFileCheck) Name() string     { return "config_file" }
func (c *ConfigFileCheck) Category() string { return "CONFIG" }

func (c *ConfigFileCheck) Run(_ context.Context) CheckResult {
	path, err := config.Find(c.ConfigPath)
	if err != nil {
		return CheckResult{
			Status:     StatusFail,
			Message:    fmt.Sprintf("Error finding config: %v", err),
			Suggestion: "Check the --config path and its permissions",
		}
	}

	if path == "" {
		return CheckResult{
			Status:  StatusPass,
			Message: "No defaults file, built-in defaults apply",
		}
	}

	return CheckResult{
		Status:  StatusPass,
		Message: fmt.Sprintf("Defaults file: %s", path),
	}
}

// ConfigValuesCheck loads the defaults file together with SYSMON_*
// environment overrides and validates the result.
type ConfigValuesCheck struct {
	ConfigPath string
}

func (c *ConfigValuesCheck) Name() string     { return "config_values" }
func (c *ConfigValuesCheck) Category() string { return "CONFIG" }

func (c *ConfigValuesCheck) Run(_ context.Context) CheckResult {
	cfg, err := config.Load(c.ConfigPath, nil)
	if err != nil {
		return CheckResult{
			Status:     StatusFail,
			Message:    fmt.Sprintf("Invalid configuration: %v", err),
			Suggestion: "Fix the defaults file or unset the offending SYSMON_* variable",
		}
	}

	return CheckResult{
		Status: StatusPass,
		Message: fmt.Sprintf("samples=%d tdelay=%ds source=%s",
			cfg.Samples, cfg.Interval, cfg.Source),
	}
}
