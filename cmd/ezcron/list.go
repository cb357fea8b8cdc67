package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/loykin/ezcron/internal/jobconfig"
	"github.com/loykin/ezcron/internal/schedule"
	"github.com/loykin/ezcron/internal/state"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured jobs and their next run time",
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := resolveLayout()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			st, err := state.Read(layout.StateFile)
			if err == nil {
				if len(st.Jobs) == 0 {
					fmt.Fprintln(out, "no jobs loaded")
					return nil
				}
				for _, job := range st.Jobs {
					next := "-"
					if job.NextRun != nil {
						next = job.NextRun.Format("2006-01-02 15:04:05")
					}
					last := "-"
					if job.LastResult != nil {
						last = fmt.Sprintf("%s(%s)", job.LastResult.Status, job.LastResult.EndedAt.Format("01-02 15:04:05"))
					}
					fmt.Fprintf(out, "id=%s enabled=%t schedule=%s next_run=%s last=%s\n",
						job.ID, job.Enabled, job.Schedule, next, last)
				}
				return nil
			}
			if !state.Unavailable(err) {
				return err
			}

			jobs, err := jobconfig.Load(layout.JobsDir)
			if err != nil {
				return err
			}
			if len(jobs) == 0 {
				fmt.Fprintln(out, "no jobs found in jobs/")
				return nil
			}
			now := time.Now()
			for _, job := range jobs {
				next, err := schedule.NextRunAfter(job, now)
				if err != nil {
					return err
				}
				nextLabel := "-"
				if next != nil {
					nextLabel = next.Format("2006-01-02 15:04:05")
				}
				fmt.Fprintf(out, "id=%s enabled=%t schedule=%s next_run=%s\n",
					job.ID, job.IsEnabled(), schedule.ScheduleLabel(job.Schedule), nextLabel)
			}
			return nil
		},
	}
}
