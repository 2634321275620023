// Package server provides the control API of the robots.
//
// It uses gorilla/mux for routing and protects everything but the status
// page with HS256 bearer tokens signed with ROBOTS_API_SECRET.
//
// # Server Setup
//
//	cfg, _ := server.ConfigFromEnv()
//	srv := server.NewServer(cfg, registry, dispatcher, journal)
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Endpoints
//
//   - GET / - Status (no auth required)
//   - GET /robots - Enrolled robots
//   - POST /robots/{vendor}/{account}/{action} - Run sign or process now
//   - GET /runs?limit=N - Latest journal entries
package server
