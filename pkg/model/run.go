package model

import "time"

// Run action names.
const (
	ActionSign    = "sign"
	ActionProcess = "process"
)

// Run records one robot action executed by the dispatcher.
type Run struct {
	ID         int64     `store:"readonly"`
	Vendor     string    `store:"type=varchar,length=32"`
	Account    string    `store:"type=varchar,length=128"`
	Action     string    `store:"type=varchar,length=16"`
	Success    bool      `store:"type=boolean"`
	Message    string    `store:"type=varchar,length=512"`
	StartedAt  time.Time `store:"type=timestamp"`
	FinishedAt time.Time `store:"type=timestamp"`
}

func (r *Run) Values() []any {
	return []any{r.Vendor, r.Account, r.Action, r.Success, r.Message, r.StartedAt, r.FinishedAt}
}

// EqualValues is empty: runs are append-only and never deduplicated.
func (r *Run) EqualValues() map[string]any {
	return nil
}

// Duration is the wall time the run took.
func (r *Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
