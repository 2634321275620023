package endpoints

import (
	"net/http"
	"strconv"

	"github.com/echoman/robots-in-go/pkg/journal"
	"github.com/echoman/robots-in-go/pkg/server"
)

// RegisterRunsEndpoints registers the journal endpoint
func RegisterRunsEndpoints(s *server.Server) {
	s.Router.Handle("/runs", s.Auth.Middleware(handleListRuns(s.Journal))).Methods("GET")
}

func handleListRuns(j *journal.Journal) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
				return
			}
			limit = n
		}

		runs, err := j.Recent(r.Context(), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "%v", err)
			return
		}

		resp := make([]RunResponse, 0, len(runs))
		for i := range runs {
			resp = append(resp, newRunResponse(&runs[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
