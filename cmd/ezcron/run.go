package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loykin/ezcron/internal/daemon"
	"github.com/loykin/ezcron/internal/lifecycle"
	"github.com/loykin/ezcron/internal/requests"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <job_id>",
		Short: "Trigger one job immediately",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID := args[0]
			layout, err := resolveLayout()
			if err != nil {
				return err
			}

			forceInline := os.Getenv("EZCRON_FORCE_INLINE") == "1"
			if _, running := lifecycle.RunningPID(layout.PIDFile); running && !forceInline {
				if err := requests.Submit(layout.RequestsDir, jobID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "run request submitted for job=%s\n", jobID)
				return nil
			}

			rec, err := daemon.RunInline(layout, jobID)
			if err != nil {
				return err
			}
			exitCode := "<nil>"
			if rec.ExitCode != nil {
				exitCode = fmt.Sprintf("%d", *rec.ExitCode)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "job=%s status=%s exit_code=%s ended_at=%s\n",
				rec.JobID, rec.Status, exitCode, rec.EndedAt.Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}
