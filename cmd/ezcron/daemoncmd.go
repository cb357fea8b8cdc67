package main

import (
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/loykin/ezcron/internal/daemon"
	"github.com/loykin/ezcron/internal/logger"
	"github.com/loykin/ezcron/internal/metrics"
)

func newDaemonCmd() *cobra.Command {
	var metricsListen string

	cmd := &cobra.Command{
		Use:    "daemon",
		Short:  "Run the scheduler control loop in the foreground",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := resolveLayout()
			if err != nil {
				return err
			}

			console := logger.NewConsole(os.Stderr, verbose)
			console.Info("starting daemon", "base_dir", layout.BaseDir)
			defer console.Info("daemon stopped")

			if metricsListen != "" {
				if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
					return err
				}
				mux := http.NewServeMux()
				mux.Handle("/metrics", metrics.Handler())
				console.Info("serving metrics", "addr", metricsListen)
				go func() {
					if err := http.ListenAndServe(metricsListen, mux); err != nil { //nolint:gosec
						console.Error("metrics server stopped", "error", err)
					}
				}()
			}

			return daemon.Run(layout)
		},
	}

	cmd.Flags().StringVar(&metricsListen, "metrics-listen", "", "address to serve Prometheus metrics on (disabled when empty)")
	return cmd
}
