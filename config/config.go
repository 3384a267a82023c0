package config

import (
	"encoding/json"
	"os"

	"github.com/crytic/concolic/utils"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ProjectConfig describes the configuration of a concolic run: where inputs and results are read from and written to,
// and how the run is traced and logged.
type ProjectConfig struct {
	// Runtime describes the configuration used by the hooks.Runtime driving an Interpreter.
	Runtime RuntimeConfig `json:"runtime"`

	// Tracing describes the configuration used by the interpreter event subscribers.
	Tracing TracingConfig `json:"tracing"`

	// Logging describes the configuration used for logging
	Logging LoggingConfig `json:"logging"`
}

// RuntimeConfig describes the configuration options used by the hooks.Runtime.
type RuntimeConfig struct {
	// InputFile describes the path of the whitespace-separated concrete input vector to replay. If the file does not
	// exist, every input takes its default value.
	InputFile string `json:"inputFile"`

	// ExecutionFile describes the path the recorded symbolic.Execution is serialized to when the run finishes.
	ExecutionFile string `json:"executionFile"`

	// ArchivePath describes the path of the run archive database every finished execution is also stored in. If the
	// string is empty, no archive is kept.
	ArchivePath string `json:"archivePath"`

	// StateLogFile describes the path named variable snapshots are appended to. If the string is empty, snapshots
	// are not written out.
	StateLogFile string `json:"stateLogFile"`

	// GateUntilFirstInput describes whether stack and memory operations are ignored until the first symbolic input
	// is declared. Calls and returns are always recorded.
	GateUntilFirstInput bool `json:"gateUntilFirstInput"`
}

// TracingConfig describes the configuration options used for tracing interpreter operations.
type TracingConfig struct {
	// Enabled describes whether every interpreter operation is logged at trace level.
	Enabled bool `json:"enabled"`

	// IncludeStack describes whether every traced operation also dumps the shadow stack and symbolic memory.
	IncludeStack bool `json:"includeStack"`

	// TailLength describes how many of the most recent traced operations are retained and reported if the run is
	// aborted by a contract violation. A zero value disables retention.
	TailLength int `json:"tailLength"`
}

// LoggingConfig describes the configuration options used for logging
type LoggingConfig struct {
	// Level describes whether logs of certain severity levels (eg info, warning, etc.) will be emitted or discarded.
	// Increasing level values represent more severe logs
	Level zerolog.Level `json:"level"`

	// LogDirectory describes the directory where structured log _files_ will be outputted. If the string is empty, then
	// no log files are kept
	LogDirectory string `json:"logDirectory"`

	// NoColor indicates whether or not console output should be colorized. Colors are never emitted if stdout is not
	// a terminal.
	NoColor bool `json:"noColor"`
}

// ReadProjectConfigFromFile reads a JSON-serialized ProjectConfig from a provided file path. Fields missing from the
// file keep their default values.
// Returns the ProjectConfig if it succeeds, or an error if one occurs.
func ReadProjectConfigFromFile(path string) (*ProjectConfig, error) {
	// Read our project configuration file data
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// Parse the project configuration on top of the defaults
	projectConfig := GetDefaultProjectConfig()
	err = json.Unmarshal(b, projectConfig)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return projectConfig, nil
}

// WriteToFile writes the ProjectConfig to a provided file path in a JSON-serialized format.
// Returns an error if one occurs.
func (p *ProjectConfig) WriteToFile(path string) error {
	// Serialize the configuration
	b, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return errors.WithStack(err)
	}

	// Save it to the provided output path and return the result
	if err = utils.MakeParentDirectory(path); err != nil {
		return err
	}
	err = os.WriteFile(path, b, 0644)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// Validate validates that the ProjectConfig meets certain requirements.
// Returns an error if one occurs.
func (p *ProjectConfig) Validate() error {
	// The execution must always be written somewhere
	if p.Runtime.ExecutionFile == "" {
		return errors.Errorf("execution file path must not be empty")
	}

	// The execution and the archive cannot share a file
	if p.Runtime.ArchivePath != "" && p.Runtime.ArchivePath == p.Runtime.ExecutionFile {
		return errors.Errorf("archive path must differ from the execution file path")
	}

	// Dumping the stack only makes sense when tracing
	if p.Tracing.IncludeStack && !p.Tracing.Enabled {
		return errors.Errorf("tracing must be enabled to include stack dumps")
	}

	if p.Tracing.TailLength < 0 {
		return errors.Errorf("tracing tail length must not be negative")
	}

	return nil
}
