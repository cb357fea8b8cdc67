package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loykin/ezcron/internal/lifecycle"
	"github.com/loykin/ezcron/internal/state"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the daemon is running and its last published state",
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := resolveLayout()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if pid, ok := lifecycle.RunningPID(layout.PIDFile); ok {
				fmt.Fprintf(out, "daemon: running (pid=%d)\n", pid)
			} else {
				fmt.Fprintln(out, "daemon: stopped")
			}

			st, err := state.Read(layout.StateFile)
			if err != nil {
				if state.Unavailable(err) {
					fmt.Fprintln(out, "state: unavailable")
					return nil
				}
				return err
			}

			fmt.Fprintf(out, "updated_at: %s\n", st.UpdatedAt.Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "loaded_jobs: %d\n", len(st.Jobs))
			if st.LastReloadError != "" {
				fmt.Fprintf(out, "last_reload_error: %s\n", st.LastReloadError)
			}
			return nil
		},
	}
}
