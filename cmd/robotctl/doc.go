// Command robotctl runs and administers the account robots.
//
// Robots act for configured accounts at third-party vendors: they sign in
// once a day and process their queue every ten minutes during the day.
// Everything they do is journaled to the database.
//
// # Architecture
//
//   - pkg/storage: Tag-driven persistence of records over SQL
//   - pkg/model: Persisted records and robot accounts
//   - pkg/robot: Robot registry and cron dispatcher
//   - pkg/journal: Run journal (syslog lines and database)
//   - pkg/tasks: Keywords and the send task queue
//   - pkg/server: Control API
//   - pkg/config: Configuration management
//   - pkg/db: Database connection utilities
//
// # Quick Start
//
//	# Create the tables
//	robotctl db create-tables
//
//	# Run the dispatcher and the control API
//	robotctl run --watch
//
//	# Issue a token for the control API
//	robotctl token issue ops
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - ROBOTS_CONFIG_PATH: Directory holding robots.yml
//   - ROBOTS_API_SECRET: HS256 secret of control API tokens
//   - ROBOTS_LOG_LEVEL: Log level (debug, info, warn, error, silent)
//   - PORT, BIND_ADDRESS: Control API listener (default 127.0.0.1:8080)
package main
