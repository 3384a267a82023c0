package cmd

import (
	"os"

	"github.com/crytic/concolic/logging"
	"github.com/crytic/concolic/logging/colors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// cmdLogger describes the logger used by every command to report progress and failures to the console.
var cmdLogger = logging.NewLogger(zerolog.InfoLevel).NewSubLogger("module", logging.CLI_SERVICE)

var rootCmd = &cobra.Command{
	Use:   "concolic",
	Short: "A concolic execution runtime for instrumented C programs",
	Long:  "concolic records the symbolic path of an instrumented program run and manages the recorded executions",
}

func init() {
	// Colors are only emitted to terminals
	if !colors.IsTerminal(os.Stdout) {
		colors.DisableColor()
	}
	cmdLogger.AddWriter(os.Stdout, logging.UNSTRUCTURED, colors.Enabled())
}

// Execute runs the root command, dispatching to the sub-command selected by the command line arguments.
func Execute() error {
	return rootCmd.Execute()
}
