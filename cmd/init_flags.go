package cmd

import (
	"github.com/crytic/concolic/config"
	"github.com/spf13/cobra"
)

// addInitFlags adds the various flags for the init command
func addInitFlags() error {
	// Output path for configuration
	initCmd.Flags().String("out", "", "output path for the new project configuration file")

	// Overwrite an existing file
	initCmd.Flags().Bool("force", false, "overwrite the output file if it already exists")

	// Runtime files
	initCmd.Flags().String("input", "", "path of the input vector to replay (unless a config file is provided, default is \"input\")")
	initCmd.Flags().String("execution", "", "path the recorded execution is written to (unless a config file is provided, default is \"szd_execution\")")
	initCmd.Flags().String("archive", "", "path of the run archive every recorded execution is stored in")

	return nil
}

// updateProjectConfigWithInitFlags will update the given projectConfig with any CLI arguments that were provided to
// the init command
func updateProjectConfigWithInitFlags(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	return updateRuntimeFiles(cmd, projectConfig)
}

// updateRuntimeFiles updates the runtime file paths of the projectConfig with the --input, --execution and --archive
// flags, if they were used.
func updateRuntimeFiles(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	var err error
	if cmd.Flags().Changed("input") {
		if projectConfig.Runtime.InputFile, err = cmd.Flags().GetString("input"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("execution") {
		if projectConfig.Runtime.ExecutionFile, err = cmd.Flags().GetString("execution"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("archive") {
		if projectConfig.Runtime.ArchivePath, err = cmd.Flags().GetString("archive"); err != nil {
			return err
		}
	}
	return nil
}
