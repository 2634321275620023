package endpoints

import (
	"github.com/echoman/robots-in-go/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterStatusEndpoints(srv)
	RegisterRobotsEndpoints(srv)
	RegisterRunsEndpoints(srv)
}
