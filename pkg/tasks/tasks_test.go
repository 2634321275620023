package tasks

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/echoman/robots-in-go/pkg/model"
	"github.com/echoman/robots-in-go/pkg/storage"
)

var (
	existKeyword  = regexp.QuoteMeta(`SELECT * FROM robot_keyword WHERE 1=1 AND fans_keywords=$1`)
	insertKeyword = regexp.QuoteMeta(`INSERT INTO robot_keyword (fans_keywords,del_flag) VALUES ($1,$2)`)
	nextPending   = regexp.QuoteMeta(`SELECT * FROM robot_send_task WHERE del_flag=$1 ORDER BY id LIMIT 1`)
	claimTask     = regexp.QuoteMeta(`UPDATE robot_send_task SET del_flag=1 WHERE id=$1 AND del_flag=0`)
	taskColumns   = []string{"id", "fans_keywords", "content", "del_flag", "created_at"}
)

type QueueSuite struct {
	suite.Suite
	mock  sqlmock.Sqlmock
	queue *Queue
	ctx   context.Context
}

func (s *QueueSuite) SetupTest() {
	var (
		db  *sql.DB
		err error
	)

	db, s.mock, err = sqlmock.New()
	require.NoError(s.T(), err)

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err)

	dao, err := storage.New(gdb)
	require.NoError(s.T(), err)

	s.queue = NewQueue(dao)
	s.queue.now = func() time.Time { return time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC) }
	s.ctx = context.Background()
}

func (s *QueueSuite) AfterTest(_, _ string) {
	require.NoError(s.T(), s.mock.ExpectationsWereMet())
}

func TestQueue(t *testing.T) {
	suite.Run(t, new(QueueSuite))
}

func (s *QueueSuite) TestAddKeyword() {
	s.mock.ExpectQuery(existKeyword).
		WithArgs("spring").
		WillReturnRows(sqlmock.NewRows([]string{"id", "fans_keywords", "del_flag"}))
	s.mock.ExpectExec(insertKeyword).
		WithArgs("spring", 0).
		WillReturnResult(sqlmock.NewResult(1, 1))

	added, err := s.queue.AddKeyword(s.ctx, " spring ")
	require.NoError(s.T(), err)
	assert.True(s.T(), added)
}

func (s *QueueSuite) TestAddKeywordAlreadyKnown() {
	s.mock.ExpectQuery(existKeyword).
		WithArgs("spring").
		WillReturnRows(sqlmock.NewRows([]string{"id", "fans_keywords", "del_flag"}).AddRow(1, "spring", 0))

	added, err := s.queue.AddKeyword(s.ctx, "spring")
	require.NoError(s.T(), err)
	assert.False(s.T(), added)
}

func (s *QueueSuite) TestAddKeywordEmpty() {
	_, err := s.queue.AddKeyword(s.ctx, "  ")
	assert.ErrorIs(s.T(), err, ErrEmptyKeyword)
}

func (s *QueueSuite) TestAddKeywordStorageDown() {
	// Under the default policy faults read as "not found" and "not saved".
	s.mock.ExpectQuery(existKeyword).WillReturnError(errors.New("connection refused"))
	s.mock.ExpectExec(insertKeyword).WillReturnError(errors.New("connection refused"))

	added, err := s.queue.AddKeyword(s.ctx, "spring")
	require.NoError(s.T(), err)
	assert.False(s.T(), added)
}

func (s *QueueSuite) TestKeywords() {
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM robot_keyword WHERE del_flag=$1 ORDER BY id`)).
		WithArgs(0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "fans_keywords", "del_flag"}).
			AddRow(1, "spring", 0).
			AddRow(2, "summer", 0))

	kws, err := s.queue.Keywords(s.ctx)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), []model.Keyword{
		{ID: 1, FansKeywords: "spring"},
		{ID: 2, FansKeywords: "summer"},
	}, kws)
}

func (s *QueueSuite) TestEnqueue() {
	s.mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO robot_send_task (fans_keywords,content,del_flag,created_at) VALUES ($1,$2,$3,$4)`)).
		WithArgs("spring", "hello", 0, time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	n, err := s.queue.Enqueue(s.ctx, "spring", "hello")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(1), n)

	_, err = s.queue.Enqueue(s.ctx, "", "hello")
	assert.ErrorIs(s.T(), err, ErrEmptyKeyword)
}

func (s *QueueSuite) TestNext() {
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	s.mock.ExpectQuery(nextPending).
		WithArgs(0).
		WillReturnRows(sqlmock.NewRows(taskColumns).AddRow(int64(7), "spring", "hello", 0, created))
	s.mock.ExpectBegin()
	s.mock.ExpectExec(claimTask).WithArgs(int64(7)).WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	task, err := s.queue.Next(s.ctx)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), task)
	assert.Equal(s.T(), model.SendTask{
		ID:           7,
		FansKeywords: "spring",
		Content:      "hello",
		DelFlag:      1,
		CreatedAt:    created,
	}, *task)
}

func (s *QueueSuite) TestNextEmpty() {
	s.mock.ExpectQuery(nextPending).WithArgs(0).WillReturnRows(sqlmock.NewRows(taskColumns))

	task, err := s.queue.Next(s.ctx)
	require.NoError(s.T(), err)
	assert.Nil(s.T(), task)
}

func (s *QueueSuite) TestNextLosesRace() {
	s.mock.ExpectQuery(nextPending).
		WithArgs(0).
		WillReturnRows(sqlmock.NewRows(taskColumns).AddRow(int64(7), "spring", "hello", 0, time.Now()))
	s.mock.ExpectBegin()
	s.mock.ExpectExec(claimTask).WithArgs(int64(7)).WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectCommit()
	s.mock.ExpectQuery(nextPending).
		WithArgs(0).
		WillReturnRows(sqlmock.NewRows(taskColumns).AddRow(int64(8), "spring", "again", 0, time.Now()))
	s.mock.ExpectBegin()
	s.mock.ExpectExec(claimTask).WithArgs(int64(8)).WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	task, err := s.queue.Next(s.ctx)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), task)
	assert.Equal(s.T(), int64(8), task.ID)
}

func (s *QueueSuite) TestCreateTables() {
	s.mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS robot_keyword`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectExec(regexp.QuoteMeta(
		`CREATE TABLE IF NOT EXISTS robot_send_task (id SERIAL PRIMARY KEY, fans_keywords varchar(128) DEFAULT NULL, content varchar(1024) DEFAULT NULL, del_flag smallint DEFAULT NULL, created_at timestamp DEFAULT NULL)`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(s.T(), s.queue.CreateTables(s.ctx))
}
