// Package config provides configuration management for the robots.
//
// Configuration is layered: built-in defaults, then robots.yml, then
// environment variables. Every attribute remembers which layer set it.
//
// # Configuration Sources
//
//   - robots.yml in ROBOTS_CONFIG_PATH (default /etc/robots)
//   - Environment variables (take precedence)
//
// # Key Configuration Options
//
//   - ROBOTS_TABLE_PREFIX: Prefix of generated table names
//   - ROBOTS_FAULT_POLICY: "availability" or "strict"
//   - ROBOTS_SIGN_SCHEDULE: Cron expression of the daily sign-in
//   - ROBOTS_PROCESS_SCHEDULE: Cron expression of periodic processing
//
// Robot accounts can only be configured in robots.yml:
//
//	robots:
//	  - type: QQ
//	    account: jd
//	    password: secret
package config
