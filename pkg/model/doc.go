// Package model defines the records the robots persist and configure.
//
// Persisted records implement storage.Storable and are mapped through
// their `store` struct tags:
//
//   - Keyword: fan search keywords (robot_keyword)
//   - SendTask: queued messages claimed by robots (robot_send_task)
//   - Run: the journal of dispatched robot actions (robot_run)
//
// RobotAccount is configuration only and is never stored.
package model
