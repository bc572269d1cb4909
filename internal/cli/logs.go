package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/gitecho/internal/logx"
)

var logsCmd = &cobra.Command{
	Use:   "logs [lines]",
	Short: "Show recent background activity",
	Long: `Show the most recent lines of the background sync log.

Background sessions never write to a terminal; this log is their only output.

Examples:
  # Show the last 10 lines
  ge logs

  # Show the last 50 lines
  ge logs 50`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogs,
}

func runLogs(cmd *cobra.Command, args []string) error {
	count := 10
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid line count %q", args[0])
		}
		count = n
	}

	d, err := newDeps()
	if err != nil {
		return err
	}

	lines, err := logx.Tail(d.logFile, count)
	if err != nil {
		return err
	}

	if len(lines) == 0 {
		PrintEmptyState("No logs yet.")
		return nil
	}

	if jsonOutput {
		return outputJSON(lines)
	}
	for _, line := range lines {
		fmt.Println(line)
	}
	return nil
}
