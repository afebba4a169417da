package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/sysmon/internal/config"
	sysmonerrors "github.com/rileyhilliard/sysmon/internal/errors"
)

// isolate keeps a developer's own defaults file and environment out of the test.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{"SAMPLES", "TDELAY", "SOURCE", "USER", "SYSTEM", "GRAPHICS", "SEQUENTIAL", "NO_COLOR"} {
		t.Setenv(config.EnvPrefix+"_"+key, "")
	}
	return home
}

type runResult struct {
	runs   []config.Config
	stdout string
	stderr string
	err    error
}

// runRoot executes a fresh root command whose report step only records the
// configuration it was given.
func runRoot(t *testing.T, reportErr error, args ...string) runResult {
	t.Helper()
	var res runResult
	cmd := newRootCmd(func(_ context.Context, cfg config.Config, _, _ io.Writer) error {
		res.runs = append(res.runs, cfg)
		return reportErr
	})

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	res.err = execute(cmd, &stderr)
	res.stdout = stdout.String()
	res.stderr = stderr.String()
	return res
}

func TestRoot_Defaults(t *testing.T) {
	isolate(t)

	res := runRoot(t, nil)
	require.NoError(t, res.err)
	require.Len(t, res.runs, 1)

	cfg := res.runs[0]
	assert.Equal(t, config.DefaultSamples, cfg.Samples)
	assert.Equal(t, config.DefaultInterval, cfg.Interval)
	assert.True(t, cfg.ReportUsers, "neither --user nor --system enables both")
	assert.True(t, cfg.ReportSystem)
	assert.Equal(t, config.SourceGopsutil, cfg.Source)
}

func TestRoot_Flags(t *testing.T) {
	isolate(t)

	res := runRoot(t, nil, "--user", "-g", "--sequential", "--samples=3", "--tdelay=2", "--source=procfs")
	require.NoError(t, res.err)
	require.Len(t, res.runs, 1)

	cfg := res.runs[0]
	assert.True(t, cfg.ReportUsers)
	assert.False(t, cfg.ReportSystem)
	assert.True(t, cfg.Graphics)
	assert.True(t, cfg.Sequential)
	assert.Equal(t, 3, cfg.Samples)
	assert.Equal(t, 2, cfg.Interval)
	assert.Equal(t, config.SourceProcfs, cfg.Source)
}

func TestRoot_Positional(t *testing.T) {
	isolate(t)

	tests := []struct {
		name        string
		args        []string
		wantSamples int
		wantTdelay  int
	}{
		{"samples only", []string{"5"}, 5, config.DefaultInterval},
		{"samples and tdelay", []string{"5", "2"}, 5, 2},
		{"flag wins over positional", []string{"--samples=7", "5"}, 7, config.DefaultInterval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runRoot(t, nil, tt.args...)
			require.NoError(t, res.err)
			require.Len(t, res.runs, 1)
			assert.Equal(t, tt.wantSamples, res.runs[0].Samples)
			assert.Equal(t, tt.wantTdelay, res.runs[0].Interval)
		})
	}
}

func TestRoot_InvalidArgumentsNeverRun(t *testing.T) {
	isolate(t)

	tests := []struct {
		name     string
		args     []string
		wantFlag string
	}{
		{"zero samples", []string{"--samples=0"}, "samples"},
		{"negative samples", []string{"--samples=-3"}, "samples"},
		{"non-numeric samples", []string{"--samples=abc"}, "samples"},
		{"missing samples value", []string{"--samples"}, "samples"},
		{"zero tdelay", []string{"--tdelay=0"}, "tdelay"},
		{"non-numeric tdelay", []string{"--tdelay=soon"}, "tdelay"},
		{"unknown flag", []string{"--bogus"}, "bogus"},
		{"unknown shorthand", []string{"-x"}, "x"},
		{"zero positional samples", []string{"0"}, "samples"},
		{"non-numeric positional samples", []string{"ten"}, "samples"},
		{"bad positional tdelay", []string{"5", "zero"}, "tdelay"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runRoot(t, nil, tt.args...)

			require.Error(t, res.err)
			assert.True(t, sysmonerrors.IsCode(res.err, sysmonerrors.ErrArgument), "got %v", res.err)
			assert.Empty(t, res.runs, "orchestration must not start")
			assert.Contains(t, res.stderr, "Your flag '"+tt.wantFlag+"' is invalid")
			assert.Contains(t, res.stderr, "sysmon --help")
		})
	}
}

func TestRoot_TooManyPositionals(t *testing.T) {
	isolate(t)

	res := runRoot(t, nil, "1", "2", "3")
	require.Error(t, res.err)
	assert.True(t, sysmonerrors.IsCode(res.err, sysmonerrors.ErrArgument))
	assert.Empty(t, res.runs)
}

func TestRoot_UnknownSource(t *testing.T) {
	isolate(t)

	res := runRoot(t, nil, "--source=wmi")
	require.Error(t, res.err)
	assert.True(t, sysmonerrors.IsCode(res.err, sysmonerrors.ErrConfig))
	assert.Empty(t, res.runs)
}

func TestRoot_Help(t *testing.T) {
	isolate(t)

	res := runRoot(t, nil, "--help")
	require.NoError(t, res.err)
	assert.Empty(t, res.runs)

	for _, want := range []string{"--user", "--system", "--graphics", "--sequential", "--samples", "--tdelay", "Number of samples to take"} {
		assert.Contains(t, res.stdout, want)
	}
}

func TestRoot_EnvironmentAndDefaultsFile(t *testing.T) {
	home := isolate(t)

	dir := filepath.Join(home, config.GlobalConfigDir)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.GlobalConfigFile),
		[]byte("samples: 8\ntdelay: 3\ngraphics: true\n"), 0o644))
	t.Setenv("SYSMON_SAMPLES", "4")

	res := runRoot(t, nil)
	require.NoError(t, res.err)
	require.Len(t, res.runs, 1)
	assert.Equal(t, 4, res.runs[0].Samples, "environment beats the defaults file")
	assert.Equal(t, 3, res.runs[0].Interval)
	assert.True(t, res.runs[0].Graphics)
}

func TestRoot_ReportErrorIsPrinted(t *testing.T) {
	isolate(t)

	spawnErr := sysmonerrors.New(sysmonerrors.ErrSpawn, "No reporter could start", "")
	res := runRoot(t, spawnErr)

	require.Error(t, res.err)
	assert.True(t, sysmonerrors.IsCode(res.err, sysmonerrors.ErrSpawn))
	assert.Contains(t, res.stderr, "No reporter could start")
}

func TestConfigCommand(t *testing.T) {
	isolate(t)

	res := runRoot(t, nil, "config", "--system", "--samples=30")
	require.NoError(t, res.err)
	assert.Empty(t, res.runs)

	assert.Contains(t, res.stdout, "samples: 30")
	assert.Contains(t, res.stdout, "system: true")
	assert.Contains(t, res.stdout, "user: false")
	assert.Contains(t, res.stdout, "tdelay: 1")
}

func TestConfigCommand_InvalidFlag(t *testing.T) {
	isolate(t)

	res := runRoot(t, nil, "config", "--tdelay=0")
	require.Error(t, res.err)
	assert.True(t, sysmonerrors.IsCode(res.err, sysmonerrors.ErrArgument))
}

func TestIsUnknownCommandError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "unknown command error",
			err:  errors.New(`unknown command "foo" for "sysmon"`),
			want: true,
		},
		{
			name: "unknown flag error",
			err:  errors.New(`unknown flag: --foo`),
			want: true,
		},
		{
			name: "other error",
			err:  errors.New("permission denied"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUnknownCommandError(tt.err))
		})
	}
}

func TestExtractUnknownCommand(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "standard cobra format",
			err:  errors.New(`unknown command "foo" for "sysmon"`),
			want: "foo",
		},
		{
			name: "command with hyphen",
			err:  errors.New(`unknown command "my-report" for "sysmon"`),
			want: "my-report",
		},
		{
			name: "no quotes returns empty",
			err:  errors.New("unknown command foo"),
			want: "",
		},
		{
			name: "single quote returns empty",
			err:  errors.New(`unknown command "foo`),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractUnknownCommand(tt.err))
		})
	}
}
