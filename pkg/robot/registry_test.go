package robot

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echoman/robots-in-go/pkg/model"
)

// mockRobot counts the actions it is asked to perform
type mockRobot struct {
	account model.RobotAccount
	signs   int
	process int
	err     error
	panics  bool
}

func (m *mockRobot) BackgroundSign(ctx context.Context) error {
	if m.panics {
		panic("captcha changed")
	}
	m.signs++
	return m.err
}

func (m *mockRobot) BackgroundProcess(ctx context.Context) error {
	m.process++
	return m.err
}

func mockConstructor(account model.RobotAccount) (Robot, error) {
	return &mockRobot{account: account}, nil
}

func TestRegistry_Enroll(t *testing.T) {
	r := NewRegistry()
	robot := &mockRobot{}

	r.Enroll("QQ", "jd", robot)

	got, ok := r.Get("QQ", "jd")
	assert.True(t, ok)
	assert.Same(t, robot, got)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_Enroll_Replaces(t *testing.T) {
	r := NewRegistry()
	second := &mockRobot{}

	r.Enroll("QQ", "jd", &mockRobot{})
	r.Enroll("QQ", "jd", second)

	got, _ := r.Get("QQ", "jd")
	assert.Same(t, second, got)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_Get_NotFound(t *testing.T) {
	r := NewRegistry()
	r.Enroll("QQ", "jd", &mockRobot{})

	_, ok := r.Get("BAIDU", "jd")
	assert.False(t, ok)
}

func TestRegistry_New(t *testing.T) {
	r := NewRegistry()
	r.RegisterVendor("qq", mockConstructor)

	robot, err := r.New(model.RobotAccount{Type: "QQ", Account: "jd"})
	require.NoError(t, err)
	assert.Equal(t, "jd", robot.(*mockRobot).account.Account)

	robot, err = r.New(model.RobotAccount{Type: "WEIBO", Account: "jd"})
	require.NoError(t, err)
	assert.IsType(t, DefaultRobot{}, robot)

	assert.Equal(t, []string{"QQ"}, r.Vendors())
}

func TestRegistry_Load(t *testing.T) {
	r := NewRegistry()
	r.RegisterVendor("QQ", mockConstructor)
	r.RegisterVendor("BAIDU", func(model.RobotAccount) (Robot, error) {
		return nil, errors.New("login page moved")
	})

	err := r.Load([]model.RobotAccount{
		{Type: "QQ", Account: "jd"},
		{Type: "BAIDU", Account: "jd"},
		{Type: "HUJIANG", Account: "amy"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jd@BAIDU")

	keys := []string{}
	for _, e := range r.Entries() {
		keys = append(keys, e.Key())
	}
	assert.Equal(t, []string{"amy@HUJIANG", "jd@QQ"}, keys)
}

func TestRegistry_Replace(t *testing.T) {
	r := NewRegistry()
	r.Enroll("QQ", "jd", &mockRobot{})

	require.NoError(t, r.Replace([]model.RobotAccount{{Type: "BAIDU", Account: "amy"}}))

	_, ok := r.Get("QQ", "jd")
	assert.False(t, ok)
	_, ok = r.Get("BAIDU", "amy")
	assert.True(t, ok)
}

func TestDo(t *testing.T) {
	m := &mockRobot{}
	ctx := context.Background()

	require.NoError(t, Do(ctx, m, model.ActionSign))
	require.NoError(t, Do(ctx, m, model.ActionProcess))
	assert.ErrorIs(t, Do(ctx, m, "wander"), ErrUnknownAction)

	assert.Equal(t, 1, m.signs)
	assert.Equal(t, 1, m.process)
}

func TestDefaultRobot(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, DefaultRobot{}.BackgroundSign(ctx))
	assert.NoError(t, DefaultRobot{}.BackgroundProcess(ctx))
}
