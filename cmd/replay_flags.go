package cmd

import (
	"github.com/crytic/concolic/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// addReplayFlags adds the various flags for the replay command
func addReplayFlags() error {
	// Get the default project config for the flag descriptions
	defaultConfig := config.GetDefaultProjectConfig()

	// Config file
	replayCmd.Flags().String("config", "", "path to config file")

	// Runtime files
	replayCmd.Flags().String("input", "", "path of the input vector to replay (unless a config file is provided, default is \""+defaultConfig.Runtime.InputFile+"\")")
	replayCmd.Flags().String("execution", "", "path the recorded execution is written to (unless a config file is provided, default is \""+defaultConfig.Runtime.ExecutionFile+"\")")
	replayCmd.Flags().String("archive", "", "path of the run archive the recorded execution is stored in")
	replayCmd.Flags().String("state-log", "", "path state snapshots and path conditions are appended to")

	// Tracing
	replayCmd.Flags().Bool("trace", false, "log every interpreter operation at trace level")
	replayCmd.Flags().Bool("trace-stack", false, "dump the shadow stack and symbolic memory after every traced operation")

	return nil
}

// updateProjectConfigWithReplayFlags will update the given projectConfig with any CLI arguments that were provided
// to the replay command
func updateProjectConfigWithReplayFlags(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	var err error

	err = updateRuntimeFiles(cmd, projectConfig)
	if err != nil {
		return err
	}

	// Update the state log path
	if cmd.Flags().Changed("state-log") {
		projectConfig.Runtime.StateLogFile, err = cmd.Flags().GetString("state-log")
		if err != nil {
			return err
		}
	}

	// Update tracing, --trace-stack implies --trace and traced operations are only visible at trace level
	if cmd.Flags().Changed("trace") {
		projectConfig.Tracing.Enabled, err = cmd.Flags().GetBool("trace")
		if err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("trace-stack") {
		projectConfig.Tracing.IncludeStack, err = cmd.Flags().GetBool("trace-stack")
		if err != nil {
			return err
		}
		if projectConfig.Tracing.IncludeStack {
			projectConfig.Tracing.Enabled = true
		}
	}
	if projectConfig.Tracing.Enabled && (cmd.Flags().Changed("trace") || cmd.Flags().Changed("trace-stack")) {
		projectConfig.Logging.Level = zerolog.TraceLevel
	}
	return nil
}
