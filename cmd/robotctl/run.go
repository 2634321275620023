package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/echoman/robots-in-go/pkg/config"
	"github.com/echoman/robots-in-go/pkg/journal"
	"github.com/echoman/robots-in-go/pkg/robot"
	"github.com/echoman/robots-in-go/pkg/server"
	"github.com/echoman/robots-in-go/pkg/server/endpoints"
	"github.com/echoman/robots-in-go/pkg/tasks"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the robot dispatcher and the control API",
	Long: `Run the robot dispatcher and the control API.

Robots are enrolled for the accounts listed in robots.yml. They sign in on
sign_schedule and process on process_schedule. With --watch, robots.yml is
watched and the robots are re-enrolled whenever it changes.

Requires DATABASE_URL. The control API additionally needs ROBOTS_API_SECRET.

Example:
  robotctl run
  robotctl run --watch --no-server`,
	Run: func(cmd *cobra.Command, args []string) {
		watch, _ := cmd.Flags().GetBool("watch")
		noServer, _ := cmd.Flags().GetBool("no-server")
		createTables, _ := cmd.Flags().GetBool("create-tables")

		if err := runRobots(watch, !noServer, createTables); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to run robots: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolP("watch", "w", false, "re-enroll robots when robots.yml changes")
	runCmd.Flags().Bool("no-server", false, "do not start the control API")
	runCmd.Flags().Bool("create-tables", true, "create missing tables on start")
}

func runRobots(watch, serve, createTables bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dao, err := openDao(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := journal.NewStore(dao)
	if createTables {
		log.Println("Creating missing tables...")
		if err := store.CreateTable(ctx); err != nil {
			return err
		}
		if err := tasks.NewQueue(dao).CreateTables(ctx); err != nil {
			return err
		}
	}

	j := journal.New(journal.NewLogger(), store)
	registry := newRegistry()
	enroll(registry, cfg, j)

	dispatcher := robot.NewDispatcher(registry, robot.WithRecorder(j))
	if err := dispatcher.Schedule(ctx, cfg.SignSchedule, cfg.ProcessSchedule); err != nil {
		return err
	}
	dispatcher.Start()
	defer func() { <-dispatcher.Stop().Done() }()
	log.Printf("Dispatcher started: sign %q, process %q", cfg.SignSchedule, cfg.ProcessSchedule)

	errs := make(chan error, 2)
	if serve {
		srvCfg, err := server.ConfigFromEnv()
		if err != nil {
			return err
		}
		s := server.NewServer(srvCfg, registry, dispatcher, j)
		endpoints.RegisterAll(s)

		go func() {
			log.Printf("Running control API at http://%s...", srvCfg.Addr())
			if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errs <- err
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = s.Shutdown(shutdownCtx)
		}()
	}

	if watch {
		go func() {
			errs <- watchConfig(ctx, cfg.ConfigFilePath(), func() {
				if _, err := loadConfig(); err != nil {
					log.Printf("Keeping current robots: %v", err)
					return
				}
				enroll(registry, config.Get(), j)
			})
		}()
	}

	select {
	case <-ctx.Done():
		log.Println("Shutting down...")
		return nil
	case err := <-errs:
		return err
	}
}

// watchConfig calls reload whenever path is written or replaced. The
// directory is watched so that editors replacing the file are noticed.
func watchConfig(ctx context.Context, path string, reload func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}
	log.Printf("Watching %s for robot changes", path)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if isConfigChange(event, path) {
				log.Printf("[%s] %s changed, re-enrolling robots...", time.Now().Format(time.RFC3339), path)
				reload()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Watcher error: %v", err)
		case <-ctx.Done():
			return nil
		}
	}
}

func isConfigChange(event fsnotify.Event, path string) bool {
	if filepath.Clean(event.Name) != filepath.Clean(path) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// configPathHint is shown in help texts.
var configPathHint = filepath.Join(config.DefaultConfigPath, config.ConfigFileName)
