package main

import (
	"errors"

	"github.com/spf13/cobra"
)

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:    "tui",
		Short:  "Interactive terminal UI (not implemented)",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return errors.New("tui: the interactive terminal UI is an external collaborator out of scope for this build; use status/list/logs instead")
		},
	}
}
