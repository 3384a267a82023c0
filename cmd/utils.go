package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/crytic/concolic/config"
	"github.com/crytic/concolic/logging"
	"github.com/crytic/concolic/logging/colors"
	"github.com/crytic/concolic/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// cmdValidUnusedFlags returns the flags of the command which were not used yet, for dynamic completion of commands
// which accept no further positional arguments.
func cmdValidUnusedFlags(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	// Gather a list of flags that are available to be used in the current command but have not been used yet
	var unusedFlags []string

	// Examine all the flags, and add any flags that have not been set in the current command line
	// to a list of unused flags
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		if !flag.Changed {
			// When adding a flag to a command, include the "--" prefix to indicate that it is a flag
			// and not a positional argument.
			unusedFlags = append(unusedFlags, "--"+flag.Name)
		}
	})
	return unusedFlags, cobra.ShellCompDirectiveNoFileComp
}

// cmdValidFileArgs completes file paths for commands expecting files as positional arguments.
func cmdValidFileArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return nil, cobra.ShellCompDirectiveDefault
}

// resolveProjectConfig obtains the project configuration for a command, navigating through the following
// possibilities:
// #1: We will search for either a custom config file (via --config) or the default (concolic.json).
// If we find it, read it. If we can't read it, throw an error.
// #2: If a custom file was provided (--config was used), and we can't find the file, throw an error.
// #3: If concolic.json can't be found, use the default project configuration.
func resolveProjectConfig(cmd *cobra.Command) (*config.ProjectConfig, error) {
	// Check to see if --config flag was used and store the value of --config flag
	configFlagUsed := cmd.Flags().Changed("config")
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// If --config was not used, look for `concolic.json` in the current work directory
	if !configFlagUsed {
		workingDirectory, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		configPath = filepath.Join(workingDirectory, config.DefaultProjectConfigFilename)
	}

	// Check to see if the file exists at configPath
	_, existenceError := os.Stat(configPath)

	// Possibility #1: File was found
	if existenceError == nil {
		cmdLogger.Info("Reading the configuration file at: ", colors.Bold, configPath, colors.Reset)
		return config.ReadProjectConfigFromFile(configPath)
	}

	// Possibility #2: If the --config flag was used, and we couldn't find the file, we'll throw an error
	if configFlagUsed {
		return nil, existenceError
	}

	// Possibility #3: --config flag was not used and concolic.json was not found, so use the default project config
	cmdLogger.Warn(fmt.Sprintf("Unable to find the config file at %v, will use the default project configuration instead", configPath))
	return config.GetDefaultProjectConfig(), nil
}

// setupGlobalLogger configures logging.GlobalLogger from the provided logging configuration. Console output goes to
// stdout and, if a log directory is configured, structured output goes to a new file within it.
// Returns the log file, if one was created, which the caller must close.
func setupGlobalLogger(loggingConfig config.LoggingConfig) (*os.File, error) {
	if loggingConfig.NoColor {
		colors.DisableColor()
	}

	logging.GlobalLogger = logging.NewLogger(loggingConfig.Level)
	logging.GlobalLogger.AddWriter(os.Stdout, logging.UNSTRUCTURED, colors.Enabled())
	cmdLogger.SetLevel(loggingConfig.Level)

	if loggingConfig.LogDirectory == "" {
		return nil, nil
	}
	file, err := utils.CreateFile(loggingConfig.LogDirectory, time.Now().Format("2006-01-02-15-04-05")+".log")
	if err != nil {
		return nil, err
	}
	logging.GlobalLogger.AddWriter(file, logging.STRUCTURED, false)
	return file, nil
}
