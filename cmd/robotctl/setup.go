package main

import (
	"fmt"
	"log"

	"github.com/echoman/robots-in-go/pkg/config"
	"github.com/echoman/robots-in-go/pkg/db"
	"github.com/echoman/robots-in-go/pkg/journal"
	"github.com/echoman/robots-in-go/pkg/robot"
	"github.com/echoman/robots-in-go/pkg/storage"
)

// loadConfig reloads robots.yml and the environment. An invalid file
// leaves config.Get on the last good configuration.
func loadConfig() (*config.RobotsConfig, error) {
	cfg, err := config.Reload()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// openDao connects to DATABASE_URL and returns a Dao configured by cfg.
func openDao(cfg *config.RobotsConfig) (*storage.Dao, error) {
	dbCfg, err := db.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	database, err := db.Connect(dbCfg)
	if err != nil {
		return nil, err
	}

	opts, err := cfg.StorageOptions()
	if err != nil {
		return nil, err
	}
	return storage.New(database, opts...)
}

// vendors installs the constructors of the vendor robots shipped with
// robotctl. Accounts of any other vendor get a robot.DefaultRobot.
var vendors = map[string]robot.Constructor{}

func newRegistry() *robot.Registry {
	r := robot.NewRegistry()
	for name, c := range vendors {
		r.RegisterVendor(name, c)
	}
	return r
}

// enroll (re)loads the robots of cfg into registry and journals the result.
func enroll(registry *robot.Registry, cfg *config.RobotsConfig, j *journal.Journal) {
	err := registry.Replace(cfg.Robots)
	event := journal.EnrollEvent{}
	for _, e := range registry.Entries() {
		event.Robots = append(event.Robots, e.Key())
	}
	if err != nil {
		event.Errors = len(cfg.Robots) - registry.Len()
		log.Printf("Some robots were not enrolled: %v", err)
	}
	j.Log(event)
}
