package config

import "github.com/rs/zerolog"

// DefaultProjectConfigFilename describes the default config filename for a given project folder.
const DefaultProjectConfigFilename = "concolic.json"

// GetDefaultProjectConfig obtains a default configuration for a project. The defaults match the file layout expected
// by the search driver: inputs are read from "input" and the execution is written to "szd_execution".
func GetDefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		Runtime: RuntimeConfig{
			InputFile:           "input",
			ExecutionFile:       "szd_execution",
			ArchivePath:         "",
			StateLogFile:        "",
			GateUntilFirstInput: true,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			IncludeStack: false,
			TailLength:   32,
		},
		Logging: LoggingConfig{
			Level:        zerolog.InfoLevel,
			LogDirectory: "",
			NoColor:      false,
		},
	}
}
