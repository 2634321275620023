package endpoints

import (
	"net/http"
	"os"
	"time"

	"github.com/echoman/robots-in-go/pkg/robot"
	"github.com/echoman/robots-in-go/pkg/server"
)

// StatusResponse represents the response from /
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Robots  int    `json:"robots"`

	// NextRuns lists the upcoming sign and process triggers
	NextRuns []time.Time `json:"next_runs"`
}

// RegisterStatusEndpoints registers the status endpoint
func RegisterStatusEndpoints(s *server.Server) {
	// GET / - Status page (no auth required)
	s.Router.HandleFunc("/", handleStatus(s.Registry, s.Dispatcher)).Methods("GET")
}

func handleStatus(registry *robot.Registry, dispatcher *robot.Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := os.Getenv("ROBOTS_VERSION_DISPLAY")
		if version == "" {
			version = "0.1.0"
		}

		next := []time.Time{}
		if dispatcher != nil {
			next = append(next, dispatcher.Next()...)
		}

		writeJSON(w, http.StatusOK, StatusResponse{
			Status:   "ok",
			Version:  version,
			Robots:   registry.Len(),
			NextRuns: next,
		})
	}
}
