package config

import (
	"fmt"
	"sort"

	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/rileyhilliard/sysmon/internal/util"
)

// KnownSources lists the accepted values for Config.Source.
var KnownSources = map[string]bool{
	SourceGopsutil: true,
	SourceProcfs:   true,
}

// SourceNames returns the known source names in sorted order.
func SourceNames() []string {
	names := make([]string, 0, len(KnownSources))
	for name := range KnownSources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownSourceError reports a source name that is not registered, suggesting
// the closest known name when there is one.
func UnknownSourceError(name string) error {
	suggestion := "Use one of: " + util.JoinOrDefault(SourceNames(), "(none)") + "."
	if similar := util.SuggestSimilar(name, SourceNames(), 3); len(similar) > 0 {
		suggestion = fmt.Sprintf("Did you mean '%s'?", similar[0])
	}
	return errors.New(errors.ErrConfig,
		fmt.Sprintf("Unknown metric source '%s'", name),
		suggestion)
}

// Validate checks the configuration for values the orchestrator cannot run with.
func Validate(cfg Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but sysmon only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade sysmon or lower the version field.")
	}

	if cfg.Samples < 1 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("samples must be a positive integer, got %d", cfg.Samples),
			"Set samples to 1 or more in .sysmon.yaml or SYSMON_SAMPLES.")
	}

	if cfg.Interval < 1 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("tdelay must be a positive integer, got %d", cfg.Interval),
			"Set tdelay to 1 or more seconds in .sysmon.yaml or SYSMON_TDELAY.")
	}

	if !KnownSources[cfg.Source] {
		return UnknownSourceError(cfg.Source)
	}

	return nil
}
