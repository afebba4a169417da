package config

// CurrentConfigVersion is the schema version for the defaults file.
const CurrentConfigVersion = 1

// Defaults used when neither a flag, the environment nor a defaults file sets a value.
const (
	DefaultSamples  = 10
	DefaultInterval = 1
)

// Metric sources understood by the source package.
const (
	SourceGopsutil = "gopsutil"
	SourceProcfs   = "procfs"
)

// Config is the immutable run configuration handed to the orchestrator and,
// by value, to every reporter it spawns.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// ReportUsers enables the connected sessions report.
	ReportUsers bool `yaml:"user" mapstructure:"user"`

	// ReportSystem enables the memory and CPU reports. They always run together
	// since the CPU report needs a warm-up tick.
	ReportSystem bool `yaml:"system" mapstructure:"system"`

	// Graphics appends ASCII trend bars to memory and CPU history lines.
	Graphics bool `yaml:"graphics" mapstructure:"graphics"`

	// Sequential prints each refresh below the previous one instead of clearing the screen.
	Sequential bool `yaml:"sequential" mapstructure:"sequential"`

	// Samples is the number of iterations to display.
	Samples int `yaml:"samples" mapstructure:"samples"`

	// Interval is the delay between samples, in seconds.
	Interval int `yaml:"tdelay" mapstructure:"tdelay"`

	// Source selects the host counter backend.
	Source string `yaml:"source" mapstructure:"source"`

	// NoColor disables styling of headers and separators.
	NoColor bool `yaml:"no_color" mapstructure:"no_color"`
}

// DefaultConfig returns a Config with the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Version:  CurrentConfigVersion,
		Samples:  DefaultSamples,
		Interval: DefaultInterval,
		Source:   SourceGopsutil,
	}
}

// Normalize turns both categories on when neither was requested.
func (c Config) Normalize() Config {
	if !c.ReportUsers && !c.ReportSystem {
		c.ReportUsers = true
		c.ReportSystem = true
	}
	if c.Source == "" {
		c.Source = SourceGopsutil
	}
	return c
}
