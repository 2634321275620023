package journal

import (
	"context"
	"fmt"

	"github.com/echoman/robots-in-go/pkg/model"
	"github.com/echoman/robots-in-go/pkg/storage"
)

// DefaultRecentLimit caps Recent when no positive limit is given.
const DefaultRecentLimit = 50

// Store handles run persistence
type Store struct {
	dao *storage.Dao
}

// NewStore creates a store on top of dao
func NewStore(dao *storage.Dao) *Store {
	return &Store{dao: dao}
}

// CreateTable creates the run table if needed
func (s *Store) CreateTable(ctx context.Context) error {
	return s.dao.CreateTable(ctx, &model.Run{})
}

// Save persists a run
func (s *Store) Save(ctx context.Context, run *model.Run) error {
	_, err := s.dao.Save(ctx, run)
	return err
}

// Recent returns up to limit runs, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]model.Run, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	table, err := s.dao.TableName(&model.Run{})
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT * FROM %s ORDER BY id DESC LIMIT ?", table)
	return storage.GetBeans[model.Run](ctx, s.dao, query, limit)
}
