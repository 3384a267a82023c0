package cmd

import (
	"fmt"

	"github.com/crytic/concolic/symbolic"
	"github.com/crytic/concolic/version"
	"github.com/spf13/cobra"
)

// versionCmd represents the version command that displays build information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and build information",
	Long: `Print detailed version and build information for concolic.

This includes the semantic version, git commit hash, build timestamp,
Go version used to compile the binary, and the execution file format
version it writes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.GetInfo()

		short, err := cmd.Flags().GetBool("short")
		if err != nil {
			return err
		}
		if short {
			fmt.Fprintln(cmd.OutOrStdout(), info.Short())
			return nil
		}

		fmt.Fprint(cmd.OutOrStdout(), info.String())
		fmt.Fprintf(cmd.OutOrStdout(), "  Execution format: %s\n", symbolic.ExecutionFormatVersion)
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("short", false, "print only the version")
	rootCmd.AddCommand(versionCmd)
}
