// Package journal records what the robots did.
//
// Every dispatched run is written as an RFC5424 syslog line and, when a
// Store is attached, saved to the run table through the storage package.
//
// # Usage
//
//	j := journal.New(journal.NewLogger(), journal.NewStore(dao))
//	dispatcher := robot.NewDispatcher(registry, robot.WithRecorder(j))
package journal
