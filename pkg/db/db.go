package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNoURL is returned when no database URL is configured.
var ErrNoURL = errors.New("DATABASE_URL environment variable is required")

// Config holds database connection configuration
type Config struct {
	// URL is the database connection URL
	URL string `env:"DATABASE_URL"`

	MaxOpenConns    int           `env:"ROBOTS_DB_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `env:"ROBOTS_DB_MAX_IDLE_CONNS" envDefault:"2"`
	ConnMaxLifetime time.Duration `env:"ROBOTS_DB_CONN_MAX_LIFETIME" envDefault:"30m"`

	// LogLevel "debug" logs every statement
	LogLevel string `env:"ROBOTS_LOG_LEVEL" envDefault:"info"`
}

// ConfigFromEnv reads the connection configuration from the environment.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// LogMode maps the configured log level onto gorm's. The default keeps
// warnings, which carry per-field binding faults.
func (c Config) LogMode() logger.LogLevel {
	switch c.LogLevel {
	case "debug":
		return logger.Info
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	default:
		return logger.Warn
	}
}

// Connect opens a pooled lib/pq connection and wraps it in a gorm handle.
func Connect(cfg Config) (*gorm.DB, error) {
	if cfg.URL == "" {
		return nil, ErrNoURL
	}

	sqlDB, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	db, err := Open(sqlDB, cfg.LogMode())
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Open wraps an existing connection pool.
func Open(sqlDB *sql.DB, level logger.LogLevel) (*gorm.DB, error) {
	return gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{
			Logger: logger.Default.LogMode(level),
		},
	)
}
