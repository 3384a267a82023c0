package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultProjectConfigIsValid verifies the default configuration passes validation.
func TestDefaultProjectConfigIsValid(t *testing.T) {
	projectConfig := GetDefaultProjectConfig()
	assert.NoError(t, projectConfig.Validate())
	assert.Equal(t, "input", projectConfig.Runtime.InputFile)
	assert.Equal(t, "szd_execution", projectConfig.Runtime.ExecutionFile)
	assert.True(t, projectConfig.Runtime.GateUntilFirstInput)
	assert.Equal(t, zerolog.InfoLevel, projectConfig.Logging.Level)
}

// TestProjectConfigFileRoundTrip verifies that a written configuration is read back identically.
func TestProjectConfigFileRoundTrip(t *testing.T) {
	// The directory the configuration is written in is created if missing
	path := filepath.Join(t.TempDir(), "project", DefaultProjectConfigFilename)

	projectConfig := GetDefaultProjectConfig()
	projectConfig.Runtime.ArchivePath = "runs.db"
	projectConfig.Runtime.StateLogFile = "states.log"
	projectConfig.Tracing.Enabled = true
	projectConfig.Tracing.IncludeStack = true
	projectConfig.Logging.Level = zerolog.TraceLevel
	require.NoError(t, projectConfig.WriteToFile(path))

	read, err := ReadProjectConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, projectConfig, read)
}

// TestReadProjectConfigKeepsDefaults verifies that fields missing from a configuration file keep their defaults.
func TestReadProjectConfigKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultProjectConfigFilename)
	require.NoError(t, os.WriteFile(path, []byte(`{"runtime": {"inputFile": "seed"}, "logging": {"level": "debug"}}`), 0644))

	read, err := ReadProjectConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "seed", read.Runtime.InputFile)
	assert.Equal(t, "szd_execution", read.Runtime.ExecutionFile)
	assert.True(t, read.Runtime.GateUntilFirstInput)
	assert.Equal(t, zerolog.DebugLevel, read.Logging.Level)
}

// TestReadProjectConfigErrors verifies that missing and malformed configuration files are reported.
func TestReadProjectConfigErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := ReadProjectConfigFromFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(dir, DefaultProjectConfigFilename)
	require.NoError(t, os.WriteFile(path, []byte(`{"runtime": `), 0644))
	_, err = ReadProjectConfigFromFile(path)
	assert.Error(t, err)
}

// TestValidate verifies every validation rule of the ProjectConfig.
func TestValidate(t *testing.T) {
	tests := map[string]func(p *ProjectConfig){
		"empty execution file": func(p *ProjectConfig) { p.Runtime.ExecutionFile = "" },
		"archive is execution": func(p *ProjectConfig) { p.Runtime.ArchivePath = p.Runtime.ExecutionFile },
		"stack without tracing": func(p *ProjectConfig) {
			p.Tracing.Enabled = false
			p.Tracing.IncludeStack = true
		},
		"negative tail length": func(p *ProjectConfig) { p.Tracing.TailLength = -1 },
	}
	for name, mutate := range tests {
		projectConfig := GetDefaultProjectConfig()
		mutate(projectConfig)
		assert.Error(t, projectConfig.Validate(), name)
	}
}
