package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/echoman/robots-in-go/pkg/journal"
	"github.com/echoman/robots-in-go/pkg/robot"
	"github.com/echoman/robots-in-go/pkg/server/middleware"
)

// Config holds the listener settings of the control API
type Config struct {
	Host   string `env:"BIND_ADDRESS" envDefault:"127.0.0.1"`
	Port   string `env:"PORT" envDefault:"8080"`
	Secret string `env:"ROBOTS_API_SECRET"`
}

// ConfigFromEnv reads the server configuration from the environment.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}

type Server struct {
	Router     *mux.Router
	Registry   *robot.Registry
	Dispatcher *robot.Dispatcher
	Journal    *journal.Journal
	Auth       *middleware.JWTAuthenticator
	srv        *http.Server
}

func NewServer(
	cfg Config,
	registry *robot.Registry,
	dispatcher *robot.Dispatcher,
	j *journal.Journal,
) *Server {

	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler:      handlers.LoggingHandler(os.Stdout, router),
		Addr:         cfg.Addr(),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Router:     router,
		Registry:   registry,
		Dispatcher: dispatcher,
		Journal:    j,
		Auth:       middleware.NewJWTAuthenticator([]byte(cfg.Secret)),
		srv:        srv,
	}
}

// Start listens until the server is shut down.
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// Shutdown stops accepting requests and waits for running ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Handler returns the root handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}
