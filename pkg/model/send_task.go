package model

import "time"

// SendTask is a queued message for the fans found by a keyword. A task with
// DelFlag set has been claimed.
type SendTask struct {
	ID           int64     `store:"readonly"`
	FansKeywords string    `store:"equal,type=varchar,length=128"`
	Content      string    `store:"type=varchar,length=1024"`
	DelFlag      int       `store:"type=smallint"`
	CreatedAt    time.Time `store:"type=timestamp"`
}

func (t *SendTask) Values() []any {
	return []any{t.FansKeywords, t.Content, t.DelFlag, t.CreatedAt}
}

func (t *SendTask) EqualValues() map[string]any {
	if t.FansKeywords == "" {
		return nil
	}
	return map[string]any{"fans_keywords": t.FansKeywords}
}

// Claimed reports whether the task was taken off the queue.
func (t *SendTask) Claimed() bool {
	return t.DelFlag != 0
}
