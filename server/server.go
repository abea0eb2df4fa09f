package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"agr-scraper/services"
	"agr-scraper/utils"
)

// TriggerFunc starts a job under the single-flight runner and reports its
// structured outcome.
type TriggerFunc func() services.RunResult

// Server exposes the manual trigger surface: health, lock status and the
// three run endpoints. Busy is reported as 409, distinct from failure (500).
type Server struct {
	logger       *utils.Logger
	runner       *services.Runner
	runMovements TriggerFunc
	runItems     TriggerFunc
	runAll       TriggerFunc
}

// New creates a Server around the given triggers.
func New(logger *utils.Logger, runner *services.Runner, runMovements, runItems, runAll TriggerFunc) *Server {
	return &Server{
		logger:       logger,
		runner:       runner,
		runMovements: runMovements,
		runItems:     runItems,
		runAll:       runAll,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleHealth)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/run-movements", s.runHandler("movements", s.runMovements))
	mux.HandleFunc("/run-items", s.runHandler("items", s.runItems))
	mux.HandleFunc("/run-all", s.runHandler("movements + items", s.runAll))
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "ok")
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	job, runningFor := s.runner.Status()
	payload := map[string]interface{}{
		"ok":          true,
		"current_job": job,
		"running_for": "",
	}
	if job != "" {
		payload["running_for"] = services.FormatElapsed(runningFor)
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) runHandler(label string, fn TriggerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		r := fn()
		switch {
		case r.Skipped:
			w.WriteHeader(http.StatusConflict)
			fmt.Fprintf(w, "Busy: %s running for %s", r.Running, r.RunningFor)
		case r.OK:
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, "%s OK", label)
		default:
			s.logger.Error("Manual trigger %s failed: %s", label, r.Error)
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprintf(w, "Error running %s", label)
		}
	}
}
