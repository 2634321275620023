package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/echoman/robots-in-go/pkg/model"
	"github.com/echoman/robots-in-go/pkg/storage"
)

// ErrEmptyKeyword is returned for a blank keyword.
var ErrEmptyKeyword = errors.New("keyword must not be empty")

// maxClaimAttempts bounds how often Next retries after losing a claim
// to another worker.
const maxClaimAttempts = 3

// Queue manages search keywords and the send tasks robots work through.
type Queue struct {
	dao *storage.Dao
	now func() time.Time
}

// NewQueue creates a queue on top of dao.
func NewQueue(dao *storage.Dao) *Queue {
	return &Queue{dao: dao, now: time.Now}
}

// CreateTables creates the keyword and send task tables if needed.
func (q *Queue) CreateTables(ctx context.Context) error {
	for _, entity := range []any{&model.Keyword{}, &model.SendTask{}} {
		if err := q.dao.CreateTable(ctx, entity); err != nil {
			return err
		}
	}
	return nil
}

// AddKeyword saves keyword unless it is already known. It reports whether
// a row was written.
func (q *Queue) AddKeyword(ctx context.Context, keyword string) (bool, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return false, ErrEmptyKeyword
	}

	kw := &model.Keyword{FansKeywords: keyword}
	found, err := q.dao.Exist(ctx, kw)
	if err != nil {
		return false, err
	}
	if found {
		return false, nil
	}

	n, err := q.dao.Save(ctx, kw)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Keywords returns the active keywords.
func (q *Queue) Keywords(ctx context.Context) ([]model.Keyword, error) {
	table, err := q.dao.TableName(&model.Keyword{})
	if err != nil {
		return nil, err
	}
	return storage.GetBeans[model.Keyword](ctx, q.dao,
		fmt.Sprintf("SELECT * FROM %s WHERE del_flag=? ORDER BY id", table), 0)
}

// Enqueue adds a send task for the fans of keyword.
func (q *Queue) Enqueue(ctx context.Context, keyword, content string) (int64, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return 0, ErrEmptyKeyword
	}
	return q.dao.Save(ctx, &model.SendTask{
		FansKeywords: keyword,
		Content:      content,
		CreatedAt:    q.now().UTC(),
	})
}

// Next claims the oldest pending task and returns it, or nil when the queue
// is empty. A task is claimed by flagging it; when another worker flags it
// first the next candidate is tried.
func (q *Queue) Next(ctx context.Context) (*model.SendTask, error) {
	table, err := q.dao.TableName(&model.SendTask{})
	if err != nil {
		return nil, err
	}
	pending := fmt.Sprintf("SELECT * FROM %s WHERE del_flag=? ORDER BY id LIMIT 1", table)
	claim := fmt.Sprintf("UPDATE %s SET del_flag=1 WHERE id=? AND del_flag=0", table)

	for attempt := 0; attempt < maxClaimAttempts; attempt++ {
		task, err := storage.GetBean[model.SendTask](ctx, q.dao, pending, 0)
		if err != nil || task == nil {
			return nil, err
		}

		n, err := q.dao.Update(ctx, claim, task.ID)
		if err != nil {
			return nil, err
		}
		if n == 1 {
			task.DelFlag = 1
			return task, nil
		}
	}
	return nil, nil
}
