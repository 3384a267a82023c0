package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/crytic/concolic/archive"
	"github.com/crytic/concolic/cmd/exitcodes"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// archiveCmd represents the command provider for browsing a run archive
var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Browses a run archive",
	Long:  `Browses the executions stored in a run archive`,
}

// archiveListCmd represents the command provider for listing the executions of a run archive
var archiveListCmd = &cobra.Command{
	Use:               "list <archive>",
	Short:             "Lists the archived executions",
	Long:              `Lists every execution stored in a run archive, oldest first`,
	Args:              cmdValidateArchiveArgs(1, "list expects exactly one archive argument"),
	ValidArgsFunction: cmdValidFileArgs,
	RunE:              cmdRunArchiveList,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// archiveShowCmd represents the command provider for printing a single archived execution
var archiveShowCmd = &cobra.Command{
	Use:               "show <archive> <id>",
	Short:             "Prints an archived execution",
	Long:              `Prints the inputs and path of a single execution stored in a run archive`,
	Args:              cmdValidateArchiveArgs(2, "show expects an archive argument and a record id argument"),
	ValidArgsFunction: cmdValidFileArgs,
	RunE:              cmdRunArchiveShow,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	archiveShowCmd.Flags().Bool("json", false, "print the execution as JSON")

	archiveCmd.AddCommand(archiveListCmd, archiveShowCmd)
	rootCmd.AddCommand(archiveCmd)
}

// cmdValidateArchiveArgs makes sure that exactly n positional arguments are provided to an archive sub-command
func cmdValidateArchiveArgs(n int, msg string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			err = fmt.Errorf("%s", msg)
			cmdLogger.Error("Failed to validate args to the archive command", err)
			return err
		}
		return nil
	}
}

// cmdRunArchiveList executes the CLI archive list command
func cmdRunArchiveList(cmd *cobra.Command, args []string) error {
	a, err := archive.Open(args[0])
	if err != nil {
		cmdLogger.Error("Failed to run the archive list command", err)
		return err
	}
	defer a.Close()

	summaries, err := a.List()
	if err != nil {
		cmdLogger.Error("Failed to run the archive list command", err)
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tRUNTIME\tINPUTS\tCONSTRAINTS\tFINGERPRINT")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n", s.ID, s.Created.Format(time.RFC3339), s.RuntimeVersion, s.NumInputs,
			s.NumConstraints, s.Fingerprint[:16])
	}
	return w.Flush()
}

// cmdRunArchiveShow executes the CLI archive show command
func cmdRunArchiveShow(cmd *cobra.Command, args []string) error {
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		cmdLogger.Error("Failed to run the archive show command", err)
		return err
	}

	id, err := uuid.Parse(args[1])
	if err != nil {
		err = fmt.Errorf("invalid record id '%s': %w", args[1], err)
		cmdLogger.Error("Failed to run the archive show command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	a, err := archive.Open(args[0])
	if err != nil {
		cmdLogger.Error("Failed to run the archive show command", err)
		return err
	}
	defer a.Close()

	record, err := a.Get(id)
	if err != nil {
		cmdLogger.Error("Failed to run the archive show command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	view := newExecutionView(record.Execution)
	if asJSON {
		return view.writeJSON(cmd.OutOrStdout())
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Record %s, archived %s by runtime %s\n", record.ID, record.Created.Format(time.RFC3339),
		record.RuntimeVersion)
	return view.writeText(cmd.OutOrStdout())
}
