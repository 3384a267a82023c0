package cmd

import (
	"fmt"
	"os"

	"github.com/crytic/concolic/cmd/exitcodes"
	"github.com/crytic/concolic/hooks"
	"github.com/crytic/concolic/interpreter"
	"github.com/crytic/concolic/logging"
	"github.com/crytic/concolic/logging/colors"
	"github.com/crytic/concolic/oplog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// replayCmd represents the command provider for replaying an operation log
var replayCmd = &cobra.Command{
	Use:   "replay <oplog>",
	Short: "Replays a recorded operation log",
	Long: `Replays the instrumentation callbacks recorded in an operation log through the runtime, writing out the
resulting execution as an instrumented program would when exiting`,
	Args:              cmdValidateReplayArgs,
	ValidArgsFunction: cmdValidFileArgs,
	RunE:              cmdRunReplay,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	// Add all the flags allowed for the replay command
	err := addReplayFlags()
	if err != nil {
		cmdLogger.Panic("Failed to initialize the replay command", err)
	}

	// Add the replay command and its associated flags to the root command
	rootCmd.AddCommand(replayCmd)
}

// cmdValidateReplayArgs makes sure that exactly one operation log is provided to the replay command
func cmdValidateReplayArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		err = fmt.Errorf("replay expects exactly one operation log argument")
		cmdLogger.Error("Failed to validate args to the replay command", err)
		return err
	}
	return nil
}

// cmdRunReplay executes the CLI replay command
func cmdRunReplay(cmd *cobra.Command, args []string) error {
	projectConfig, err := resolveProjectConfig(cmd)
	if err != nil {
		cmdLogger.Error("Failed to run the replay command", err)
		return err
	}

	// Update the project configuration given whatever flags were set using the CLI
	err = updateProjectConfigWithReplayFlags(cmd, projectConfig)
	if err != nil {
		cmdLogger.Error("Failed to run the replay command", err)
		return err
	}

	logFile, err := setupGlobalLogger(projectConfig.Logging)
	if err != nil {
		cmdLogger.Error("Failed to run the replay command", err)
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	// Parse the operation log
	file, err := os.Open(args[0])
	if err != nil {
		cmdLogger.Error("Failed to run the replay command", err)
		return err
	}
	ops, err := oplog.Parse(file)
	file.Close()
	if err != nil {
		cmdLogger.Error("Failed to parse the operation log", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	cmdLogger.Info("Replaying ", colors.Bold, len(ops), colors.Reset, " operations from ", colors.Bold, args[0], colors.Reset)

	rt, err := hooks.NewRuntime(projectConfig)
	if err != nil {
		cmdLogger.Error("Failed to run the replay command", err)
		return err
	}

	// A contract violation aborts the run without writing out the execution
	if err = oplog.Run(rt, ops); err != nil {
		if closeErr := rt.Close(); closeErr != nil {
			cmdLogger.Warn("Failed to release the runtime files", closeErr)
		}
		var violation *interpreter.ContractViolation
		if !errors.As(err, &violation) {
			return err
		}

		cmdLogger.Error("Replay was aborted", err)
		if tail := rt.TraceTail(); len(tail) > 0 {
			buffer := logging.NewLogBuffer()
			buffer.Append("Most recent operations:")
			for _, line := range tail {
				buffer.Append("\n  ", colors.DarkGray, line, colors.Reset)
			}
			cmdLogger.Warn(buffer)
		}
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeContractViolation)
	}

	if err = rt.Finish(); err != nil {
		cmdLogger.Error("Failed to write out the execution", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	return nil
}
