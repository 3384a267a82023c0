package cmd

import (
	"fmt"

	"github.com/crytic/concolic/symbolic"
	"github.com/spf13/cobra"
)

// inspectCmd represents the command provider for inspecting an execution file
var inspectCmd = &cobra.Command{
	Use:               "inspect <execution-file>",
	Short:             "Prints a recorded execution",
	Long:              `Decodes a recorded execution file and prints its inputs and path`,
	Args:              cmdValidateInspectArgs,
	ValidArgsFunction: cmdValidFileArgs,
	RunE:              cmdRunInspect,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	inspectCmd.Flags().Bool("json", false, "print the execution as JSON")
	rootCmd.AddCommand(inspectCmd)
}

// cmdValidateInspectArgs makes sure that exactly one execution file is provided to the inspect command
func cmdValidateInspectArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		err = fmt.Errorf("inspect expects exactly one execution file argument")
		cmdLogger.Error("Failed to validate args to the inspect command", err)
		return err
	}
	return nil
}

// cmdRunInspect executes the CLI inspect command
func cmdRunInspect(cmd *cobra.Command, args []string) error {
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		cmdLogger.Error("Failed to run the inspect command", err)
		return err
	}

	ex, err := symbolic.ReadExecutionFile(args[0])
	if err != nil {
		cmdLogger.Error("Failed to run the inspect command", err)
		return err
	}

	view := newExecutionView(ex)
	if asJSON {
		err = view.writeJSON(cmd.OutOrStdout())
	} else {
		err = view.writeText(cmd.OutOrStdout())
	}
	if err != nil {
		cmdLogger.Error("Failed to run the inspect command", err)
	}
	return err
}
