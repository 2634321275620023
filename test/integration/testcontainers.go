package integration

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/echoman/robots-in-go/pkg/db"
	"github.com/echoman/robots-in-go/pkg/journal"
	"github.com/echoman/robots-in-go/pkg/robot"
	"github.com/echoman/robots-in-go/pkg/server"
	"github.com/echoman/robots-in-go/pkg/server/endpoints"
	"github.com/echoman/robots-in-go/pkg/storage"
	"github.com/echoman/robots-in-go/pkg/tasks"
)

const apiSecret = "integration-secret"

// TestContext holds all the resources needed for integration tests
type TestContext struct {
	DB          *gorm.DB
	Dao         *storage.Dao
	Queue       *tasks.Queue
	Registry    *robot.Registry
	Container   testcontainers.Container
	ServerURL   string
	DatabaseURL string
	HTTPClient  *http.Client
	Server      *server.Server
}

// countingRobot records how often it was asked to act
type countingRobot struct {
	mu      sync.Mutex
	signs   int
	process int
}

func (c *countingRobot) BackgroundSign(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.signs++
	return nil
}

func (c *countingRobot) BackgroundProcess(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.process++
	return nil
}

// NewTestContext starts a PostgreSQL testcontainer, creates the tables and
// runs the control API in-process.
func NewTestContext(ctx context.Context) (*TestContext, error) {
	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("robots_test"),
		tcpostgres.WithUsername("robots"),
		tcpostgres.WithPassword("robots"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	database, err := db.Connect(db.Config{
		URL:          connStr,
		MaxOpenConns: 4,
		MaxIdleConns: 2,
		LogLevel:     "silent",
	})
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}
	database.Logger = logger.Default.LogMode(logger.Silent)

	dao, err := storage.New(database, storage.WithFaultPolicy(storage.Strict))
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}

	queue := tasks.NewQueue(dao)
	store := journal.NewStore(dao)
	if err := queue.CreateTables(ctx); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}
	if err := store.CreateTable(ctx); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}

	logs := journal.NewLogger()
	logs.SetWriter(io.Discard)
	j := journal.New(logs, store)

	registry := robot.NewRegistry()
	dispatcher := robot.NewDispatcher(registry,
		robot.WithRecorder(j),
		robot.WithLogger(log.New(io.Discard, "", 0)),
	)

	cfg := server.Config{Host: "127.0.0.1", Port: "18080", Secret: apiSecret}
	s := server.NewServer(cfg, registry, dispatcher, j)
	endpoints.RegisterAll(s)
	go func() {
		_ = s.Start()
	}()

	serverURL := "http://" + cfg.Addr()
	if err := waitForServer(serverURL, 30*time.Second); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}

	return &TestContext{
		DB:          database,
		Dao:         dao,
		Queue:       queue,
		Registry:    registry,
		Container:   pgContainer,
		ServerURL:   serverURL,
		DatabaseURL: connStr,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
		Server:      s,
	}, nil
}

// Reset empties every table between scenarios.
func (tc *TestContext) Reset() error {
	return tc.DB.Exec("TRUNCATE robot_keyword, robot_send_task, robot_run RESTART IDENTITY").Error
}

// waitForServer polls the server until it responds or times out
func waitForServer(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + "/")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server did not become ready within %v", timeout)
}

// Close cleans up all test resources
func (tc *TestContext) Close(ctx context.Context) {
	if tc.Server != nil {
		_ = tc.Server.Shutdown(ctx)
	}
	if sqlDB, err := tc.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}
