package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestRegisterIdempotentAndCountersWork(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	require.NoError(t, Register(reg)) // idempotent

	IncExecution("backup", "success")
	IncExecution("backup", "success")
	IncExecution("backup", "timeout")
	SetRecentRunsSize(42)
	SetSecondsSincePublish(1.5)
	IncReloadError("duplicate-id")

	mfs, err := reg.Gather()
	require.NoError(t, err)

	wantNames := map[string]bool{
		"ezcron_job_executions_total":        false,
		"ezcron_state_recent_runs":           false,
		"ezcron_state_seconds_since_publish": false,
		"ezcron_config_reload_errors_total":  false,
	}
	for _, mf := range mfs {
		if _, ok := wantNames[mf.GetName()]; ok {
			wantNames[mf.GetName()] = true
		}
	}
	for name, seen := range wantNames {
		require.True(t, seen, "expected metric %s to be registered", name)
	}
}

func TestHandlerServesExposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	IncExecution("backup", "success")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	Handler().ServeHTTP(rec, req)

	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "go_")
	_ = strings.TrimSpace(string(body))
}

func TestHelpersAreNoOpBeforeRegister(t *testing.T) {
	regOK.Store(false)
	require.NotPanics(t, func() {
		IncExecution("x", "success")
		SetRecentRunsSize(1)
		SetSecondsSincePublish(1)
		IncReloadError("x")
	})
}
