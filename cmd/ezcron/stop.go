package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loykin/ezcron/internal/lifecycle"
)

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Send a graceful stop signal to the running daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := resolveLayout()
			if err != nil {
				return err
			}

			pid, ok := lifecycle.RunningPID(layout.PIDFile)
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "daemon is not running")
				return nil
			}

			if err := lifecycle.Stop(layout.PIDFile); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stop signal sent to pid=%d\n", pid)
			return nil
		},
	}
}
