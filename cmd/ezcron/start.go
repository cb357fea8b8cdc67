package main

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/loykin/ezcron/internal/lifecycle"
)

func newStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the daemon in the background",
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := resolveLayout()
			if err != nil {
				return err
			}

			if pid, ok := lifecycle.RunningPID(layout.PIDFile); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "daemon is already running (pid=%d)\n", pid)
				return nil
			}

			exe, err := os.Executable()
			if err != nil {
				return fmt.Errorf("resolve current executable: %w", err)
			}

			child := exec.Command(exe, "--base-dir", layout.BaseDir, "daemon")
			child.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
			child.Stdin = nil
			child.Stdout = nil
			child.Stderr = nil
			if err := child.Start(); err != nil {
				return fmt.Errorf("spawn daemon: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "daemon started (pid=%d)\n", child.Process.Pid)
			return nil
		},
	}
}
