package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"agr-scraper/services"
	"agr-scraper/utils"

	"github.com/stretchr/testify/require"
)

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func newTestServer(result services.RunResult) *Server {
	logger := utils.NewLogger()
	trigger := func() services.RunResult { return result }
	return New(logger, services.NewRunner(logger), trigger, trigger, trigger)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(services.RunResult{OK: true})
	rec := get(t, srv.Handler(), "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestStatusIdle(t *testing.T) {
	srv := newTestServer(services.RunResult{OK: true})
	rec := get(t, srv.Handler(), "/status")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"ok":true,"current_job":"","running_for":""}`, rec.Body.String())
}

func TestRunOutcomes(t *testing.T) {
	cases := []struct {
		name     string
		result   services.RunResult
		wantCode int
	}{
		{"success", services.RunResult{OK: true}, http.StatusOK},
		{"busy", services.RunResult{Skipped: true, Running: "items", RunningFor: "3m 2s"}, http.StatusConflict},
		{"failure", services.RunResult{Error: "portal down"}, http.StatusInternalServerError},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			srv := newTestServer(c.result)
			rec := get(t, srv.Handler(), "/run-movements")
			require.Equal(t, c.wantCode, rec.Code)
		})
	}
}

func TestBusyMessageNamesRunningJob(t *testing.T) {
	srv := newTestServer(services.RunResult{Skipped: true, Running: "movements", RunningFor: "42s"})
	rec := get(t, srv.Handler(), "/run-all")
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "movements")
	require.Contains(t, rec.Body.String(), "42s")
}
