// Package metrics exposes an optional Prometheus facade over the daemon
// loop's execution counts and snapshot health, mirroring the
// register-once/no-op-until-registered pattern the teacher used for its
// process supervisor metrics.
package metrics

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	regOK atomic.Bool

	executions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ezcron",
			Subsystem: "job",
			Name:      "executions_total",
			Help:      "Number of completed job executions by outcome.",
		}, []string{"job_id", "status"},
	)

	recentRunsSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ezcron",
			Subsystem: "state",
			Name:      "recent_runs",
			Help:      "Number of execution records currently held in the recent-runs ring.",
		},
	)

	secondsSincePublish = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ezcron",
			Subsystem: "state",
			Name:      "seconds_since_publish",
			Help:      "Seconds since the daemon last published a state snapshot.",
		},
	)

	reloadErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ezcron",
			Subsystem: "config",
			Name:      "reload_errors_total",
			Help:      "Number of job-directory reloads rejected due to an invalid descriptor.",
		}, []string{"reason"},
	)
)

// Register registers all collectors with r. Safe to call more than once;
// later calls after a success are no-ops.
func Register(r prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}
	cs := []prometheus.Collector{executions, recentRunsSize, secondsSincePublish, reloadErrors}
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// Handler serves the DefaultGatherer in the Prometheus exposition format.
func Handler() http.Handler { return promhttp.Handler() }

// IncExecution records one completed run for jobID with the given
// terminal status ("success", "failed", or "timeout").
func IncExecution(jobID, status string) {
	if regOK.Load() {
		executions.WithLabelValues(jobID, status).Inc()
	}
}

// SetRecentRunsSize reports the current length of the recent-runs ring.
func SetRecentRunsSize(n int) {
	if regOK.Load() {
		recentRunsSize.Set(float64(n))
	}
}

// SetSecondsSincePublish reports how long ago the last snapshot was written.
func SetSecondsSincePublish(seconds float64) {
	if regOK.Load() {
		secondsSincePublish.Set(seconds)
	}
}

// IncReloadError records a rejected job-directory reload.
func IncReloadError(reason string) {
	if regOK.Load() {
		reloadErrors.WithLabelValues(reason).Inc()
	}
}
