package errors

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	codes := []string{
		ErrArgument,
		ErrConfig,
		ErrSpawn,
		ErrSource,
		ErrSignal,
	}

	seen := make(map[string]bool)
	for _, code := range codes {
		assert.NotEmpty(t, code, "error code should not be empty")
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		message    string
		suggestion string
	}{
		{
			name:       "config error",
			code:       ErrConfig,
			message:    "Invalid configuration in .sysmon.yaml",
			suggestion: "Check your configuration file syntax",
		},
		{
			name:       "spawn error",
			code:       ErrSpawn,
			message:    "Could not start the cpu reporter",
			suggestion: "",
		},
		{
			name:       "source error",
			code:       ErrSource,
			message:    "Error fetching memory usage",
			suggestion: "Check that /proc is mounted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, tt.suggestion)

			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.suggestion, err.Suggestion)
			assert.Nil(t, err.Cause)
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name          string
		err           *Error
		expectedParts []string
		notExpected   []string
	}{
		{
			name:          "basic error formatting",
			err:           New(ErrConfig, "Invalid configuration", "Check .sysmon.yaml syntax"),
			expectedParts: []string{"✗", "Invalid configuration", "Check .sysmon.yaml syntax"},
		},
		{
			name:          "error without suggestion",
			err:           New(ErrSpawn, "Could not start reporter", ""),
			expectedParts: []string{"Could not start reporter"},
			notExpected:   []string{"suggestion"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := tt.err.Error()

			for _, part := range tt.expectedParts {
				assert.Contains(t, output, part)
			}
			for _, part := range tt.notExpected {
				assert.NotContains(t, output, part)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("open /proc/stat: no such file")
	wrapped := Wrap(cause, "Error fetching CPU usage")

	require.NotNil(t, wrapped)
	assert.Equal(t, ErrSource, wrapped.Code, "Wrap should default to ErrSource code")
	assert.Equal(t, cause, wrapped.Cause)
	assert.Contains(t, wrapped.Error(), "no such file")
}

func TestWrapWithCode(t *testing.T) {
	cause := errors.New("file not found")
	wrapped := WrapWithCode(cause, ErrConfig, "Failed to load config", "Create .sysmon.yaml")

	assert.Equal(t, ErrConfig, wrapped.Code)
	assert.Equal(t, "Create .sysmon.yaml", wrapped.Suggestion)
	assert.True(t, errors.Is(wrapped, cause))
	assert.Equal(t, cause, wrapped.Unwrap())
}

func TestNewArgumentError(t *testing.T) {
	err := NewArgumentError("--samples", "must be a positive integer")

	assert.Equal(t, ErrArgument, err.Code)
	assert.Contains(t, err.Message, "--samples")
	assert.Contains(t, err.Error(), "--help")
}

func TestIsCode(t *testing.T) {
	err := New(ErrConfig, "Config error", "")

	assert.True(t, IsCode(err, ErrConfig))
	assert.False(t, IsCode(err, ErrArgument))
	assert.False(t, IsCode(errors.New("standard error"), ErrConfig))
	assert.False(t, IsCode(nil, ErrConfig))
}

func TestErrorMessageStructure(t *testing.T) {
	err := WrapWithCode(
		errors.New("sample count 0 out of range"),
		ErrArgument,
		"Invalid samples value",
		"Use a positive integer",
	)

	lines := strings.Split(err.Error(), "\n")
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[0]), "✗"))
	assert.Contains(t, lines[0], "Invalid samples value")
}
