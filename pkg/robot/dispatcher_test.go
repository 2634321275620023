package robot

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echoman/robots-in-go/pkg/model"
)

type recorder struct {
	runs []*model.Run
	err  error
}

func (r *recorder) Record(_ context.Context, run *model.Run) error {
	r.runs = append(r.runs, run)
	return r.err
}

func newTestDispatcher(r *Registry, rec Recorder) (*Dispatcher, *bytes.Buffer) {
	var buf bytes.Buffer
	d := NewDispatcher(r, WithRecorder(rec), WithLogger(log.New(&buf, "", 0)))
	start := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	d.now = func() time.Time {
		start = start.Add(time.Second)
		return start
	}
	return d, &buf
}

func TestDispatcher_Sign(t *testing.T) {
	r := NewRegistry()
	qq, baidu := &mockRobot{}, &mockRobot{err: errors.New("wrong password")}
	r.Enroll("QQ", "jd", qq)
	r.Enroll("BAIDU", "jd", baidu)

	rec := &recorder{}
	d, logs := newTestDispatcher(r, rec)

	runs := d.Sign(context.Background())
	require.Len(t, runs, 2)

	assert.Equal(t, 1, qq.signs)
	assert.Equal(t, 1, baidu.signs)
	assert.Equal(t, runs, rec.runs)

	// Entries are ordered by key: jd@BAIDU before jd@QQ.
	assert.Equal(t, "BAIDU", runs[0].Vendor)
	assert.False(t, runs[0].Success)
	assert.Equal(t, "wrong password", runs[0].Message)
	assert.True(t, runs[1].Success)
	assert.Equal(t, model.ActionSign, runs[1].Action)
	assert.Equal(t, time.Second, runs[1].Duration())

	assert.Contains(t, logs.String(), "Start sign")
	assert.Contains(t, logs.String(), "End sign")
}

func TestDispatcher_Process(t *testing.T) {
	r := NewRegistry()
	qq := &mockRobot{}
	r.Enroll("QQ", "jd", qq)

	d, logs := newTestDispatcher(r, &recorder{})
	runs := d.Process(context.Background())

	require.Len(t, runs, 1)
	assert.Equal(t, 1, qq.process)
	assert.Contains(t, logs.String(), "1 robots")
}

func TestDispatcher_RecoversPanics(t *testing.T) {
	r := NewRegistry()
	r.Enroll("QQ", "jd", &mockRobot{panics: true})
	r.Enroll("QQ", "amy", &mockRobot{})

	d, _ := newTestDispatcher(r, nil)
	runs := d.Sign(context.Background())

	require.Len(t, runs, 2)
	assert.True(t, runs[0].Success)
	assert.False(t, runs[1].Success)
	assert.Contains(t, runs[1].Message, "captcha changed")
}

func TestDispatcher_RecorderFailureIsLogged(t *testing.T) {
	r := NewRegistry()
	r.Enroll("QQ", "jd", &mockRobot{})

	d, logs := newTestDispatcher(r, &recorder{err: errors.New("disk full")})
	runs := d.Sign(context.Background())

	require.Len(t, runs, 1)
	assert.True(t, runs[0].Success)
	assert.Contains(t, logs.String(), "record run: disk full")
}

func TestDispatcher_StopsOnCancelledContext(t *testing.T) {
	r := NewRegistry()
	r.Enroll("QQ", "jd", &mockRobot{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d, _ := newTestDispatcher(r, nil)
	assert.Empty(t, d.Sign(ctx))
}

func TestDispatcher_RunOne(t *testing.T) {
	r := NewRegistry()
	qq := &mockRobot{}
	r.Enroll("QQ", "jd", qq)

	rec := &recorder{}
	d, _ := newTestDispatcher(r, rec)

	run, err := d.RunOne(context.Background(), "QQ", "jd", model.ActionProcess)
	require.NoError(t, err)
	assert.True(t, run.Success)
	assert.Equal(t, 1, qq.process)
	assert.Len(t, rec.runs, 1)

	_, err = d.RunOne(context.Background(), "QQ", "amy", model.ActionSign)
	assert.ErrorContains(t, err, "amy@QQ not enrolled")

	_, err = d.RunOne(context.Background(), "QQ", "jd", "wander")
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestDispatcher_Schedule(t *testing.T) {
	d, _ := newTestDispatcher(NewRegistry(), nil)
	ctx := context.Background()

	require.NoError(t, d.Schedule(ctx, "0 30 10 * * *", "0 0/10 6-23 * * *"))
	assert.Len(t, d.cron.Entries(), 2)

	assert.Error(t, d.Schedule(ctx, "30 10 * * *", "0 0/10 6-23 * * *"))
}

func TestDispatcher_StartStop(t *testing.T) {
	d, _ := newTestDispatcher(NewRegistry(), nil)
	require.NoError(t, d.Schedule(context.Background(), "@every 1h", "@every 1h"))

	assert.Empty(t, d.Next())

	d.Start()
	next := d.Next()
	<-d.Stop().Done()

	require.Len(t, next, 2)
	for _, n := range next {
		assert.False(t, n.IsZero())
	}
}
