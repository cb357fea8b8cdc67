// Command ezcron is the CLI front end for the scheduler daemon: it
// starts/stops the background process, inspects its published state,
// tails logs, and submits manual run requests.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	baseDir string
	verbose bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ezcron:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ezcron",
		Short:         "A user-space cron-like scheduler daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&baseDir, "base-dir", defaultBaseDir(), "base directory for jobs, logs, and runtime state")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "print debug-level diagnostics to stderr")

	root.AddCommand(
		newVersionCmd(),
		newStartCmd(),
		newStopCmd(),
		newStatusCmd(),
		newListCmd(),
		newLogsCmd(),
		newRunCmd(),
		newTUICmd(),
		newDaemonCmd(),
	)
	return root
}

func defaultBaseDir() string {
	if v := os.Getenv("EZCRON_BASE_DIR"); v != "" {
		return v
	}
	return "./ezcron-data"
}
