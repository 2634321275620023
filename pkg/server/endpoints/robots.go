package endpoints

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/mux"

	"github.com/echoman/robots-in-go/pkg/model"
	"github.com/echoman/robots-in-go/pkg/robot"
	"github.com/echoman/robots-in-go/pkg/server"
)

// RobotResponse describes one enrolled robot
type RobotResponse struct {
	Vendor  string `json:"vendor"`
	Account string `json:"account"`
	Key     string `json:"key"`
}

// RunResponse describes one finished run
type RunResponse struct {
	ID         int64     `json:"id,omitempty"`
	Vendor     string    `json:"vendor"`
	Account    string    `json:"account"`
	Action     string    `json:"action"`
	Success    bool      `json:"success"`
	Message    string    `json:"message,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

func newRunResponse(r *model.Run) RunResponse {
	return RunResponse{
		ID:         r.ID,
		Vendor:     r.Vendor,
		Account:    r.Account,
		Action:     r.Action,
		Success:    r.Success,
		Message:    r.Message,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
}

// RegisterRobotsEndpoints registers the robot listing and run endpoints
func RegisterRobotsEndpoints(s *server.Server) {
	s.Router.Handle("/robots", s.Auth.Middleware(handleListRobots(s.Registry))).Methods("GET")
	s.Router.Handle("/robots/{vendor}/{account}/{action}", s.Auth.Middleware(handleRunRobot(s.Dispatcher))).Methods("POST")
}

func handleListRobots(registry *robot.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries := registry.Entries()
		robots := make([]RobotResponse, 0, len(entries))
		for _, e := range entries {
			robots = append(robots, RobotResponse{Vendor: e.Vendor, Account: e.Owner, Key: e.Key()})
		}
		writeJSON(w, http.StatusOK, robots)
	}
}

func handleRunRobot(dispatcher *robot.Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		vendor, err := url.PathUnescape(vars["vendor"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "malformed vendor")
			return
		}
		account, err := url.PathUnescape(vars["account"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "malformed account")
			return
		}

		run, err := dispatcher.RunOne(r.Context(), vendor, account, vars["action"])
		if errors.Is(err, robot.ErrUnknownAction) {
			writeError(w, http.StatusBadRequest, "%v", err)
			return
		}
		if err != nil {
			writeError(w, http.StatusNotFound, "%v", err)
			return
		}

		writeJSON(w, http.StatusOK, newRunResponse(run))
	}
}
