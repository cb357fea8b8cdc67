package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

func newLogsCmd() *cobra.Command {
	var jobFilter string
	var tail int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the tail of the log file whose name sorts last (job logs sort after daemon logs)",
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := resolveLayout()
			if err != nil {
				return err
			}

			entries, err := os.ReadDir(layout.LogsDir)
			if err != nil {
				return err
			}
			var files []string
			for _, entry := range entries {
				if !entry.IsDir() {
					files = append(files, entry.Name())
				}
			}
			if len(files) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no logs found")
				return nil
			}
			sort.Strings(files)
			latest := filepath.Join(layout.LogsDir, files[len(files)-1])

			f, err := os.Open(latest)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			var lines []string
			scanner := bufio.NewScanner(f)
			for scanner.Scan() {
				line := scanner.Text()
				if jobFilter != "" && !strings.Contains(line, "job_id="+jobFilter) {
					continue
				}
				lines = append(lines, line)
			}
			if err := scanner.Err(); err != nil {
				return err
			}

			start := 0
			if len(lines) > tail {
				start = len(lines) - tail
			}
			for _, line := range lines[start:] {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&jobFilter, "job", "", "only show lines tagged with this job id")
	cmd.Flags().IntVar(&tail, "tail", 50, "number of trailing lines to show")
	return cmd
}
