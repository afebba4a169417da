package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the defaults file looked up in the current directory.
	ConfigFileName = ".sysmon.yaml"
	// GlobalConfigDir is the directory for the global defaults file.
	GlobalConfigDir = ".config/sysmon"
	// GlobalConfigFile is the global defaults file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes environment overrides (SYSMON_SAMPLES, SYSMON_TDELAY, ...).
	EnvPrefix = "SYSMON"
)

// flagKeys maps config keys to the command line flags that may override them.
var flagKeys = map[string]string{
	"user":       "user",
	"system":     "system",
	"graphics":   "graphics",
	"sequential": "sequential",
	"samples":    "samples",
	"tdelay":     "tdelay",
	"source":     "source",
	"no_color":   "no-color",
}

// Find locates the defaults file using the search order:
// 1. Explicit path (from --config flag)
// 2. .sysmon.yaml in current directory
// 3. ~/.config/sysmon/config.yaml
//
// Returns the path to the file, or empty string if none exists.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	if cwd, err := os.Getwd(); err == nil {
		local := filepath.Join(cwd, ConfigFileName)
		if _, err := os.Stat(local); err == nil {
			return local, nil
		}
	}

	if home, err := os.UserHomeDir(); err == nil && home != "" {
		global := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(global); err == nil {
			return global, nil
		}
	}

	return "", nil
}

// Load builds the run configuration. Precedence is flags, then SYSMON_*
// environment variables, then the defaults file, then built-in defaults.
// flags may be nil.
func Load(explicit string, flags *pflag.FlagSet) (Config, error) {
	path, err := Find(explicit)
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file",
				"Check the file exists and is valid YAML: "+path)
		}
	}

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, errors.WrapWithCode(err, errors.ErrConfig,
						"Failed to bind flag --"+name, "")
				}
			}
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		where := "the environment"
		if path != "" {
			where = path
		}
		return Config{}, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the values in "+where)
	}

	cfg = cfg.Normalize()
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can resolve it during Unmarshal.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("user", d.ReportUsers)
	v.SetDefault("system", d.ReportSystem)
	v.SetDefault("graphics", d.Graphics)
	v.SetDefault("sequential", d.Sequential)
	v.SetDefault("samples", d.Samples)
	v.SetDefault("tdelay", d.Interval)
	v.SetDefault("source", d.Source)
	v.SetDefault("no_color", d.NoColor)
}

// Render returns the configuration as YAML, in the same shape the defaults file uses.
func Render(cfg Config) ([]byte, error) {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig, "Failed to render config", "")
	}
	return out, nil
}
