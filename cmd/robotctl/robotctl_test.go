package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echoman/robots-in-go/pkg/config"
	"github.com/echoman/robots-in-go/pkg/model"
	"github.com/echoman/robots-in-go/pkg/robot"
)

func TestIsConfigChange(t *testing.T) {
	path := "/etc/robots/robots.yml"

	assert.True(t, isConfigChange(fsnotify.Event{Name: path, Op: fsnotify.Write}, path))
	assert.True(t, isConfigChange(fsnotify.Event{Name: path, Op: fsnotify.Create}, path))
	assert.False(t, isConfigChange(fsnotify.Event{Name: path, Op: fsnotify.Chmod}, path))
	assert.False(t, isConfigChange(fsnotify.Event{Name: "/etc/robots/other.yml", Op: fsnotify.Write}, path))
}

func TestWatchConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("robots: []\n"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	reloaded := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- watchConfig(ctx, path, func() {
			select {
			case reloaded <- struct{}{}:
			default:
			}
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("robots:\n  - type: QQ\n    account: jd\n"), 0o600))

	select {
	case <-reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("config change was not noticed")
	}

	cancel()
	assert.NoError(t, <-done)
}

func TestPrintRobots(t *testing.T) {
	registry := newRegistry()
	require.NoError(t, registry.Load([]model.RobotAccount{{Type: "QQ", Account: "jd"}}))

	var buf bytes.Buffer
	printRobots(&buf, registry)

	assert.Contains(t, buf.String(), "jd@QQ")
	assert.Contains(t, buf.String(), "default")
	assert.Contains(t, buf.String(), "No vendor robots registered")
}

func TestPrintRobotsListsVendors(t *testing.T) {
	registry := robot.NewRegistry()
	registry.RegisterVendor("weibo", func(model.RobotAccount) (robot.Robot, error) {
		return robot.DefaultRobot{}, nil
	})
	registry.RegisterVendor("qq", func(model.RobotAccount) (robot.Robot, error) {
		return robot.DefaultRobot{}, nil
	})

	var buf bytes.Buffer
	printRobots(&buf, registry)

	assert.Contains(t, buf.String(), "Vendor robots: QQ, WEIBO")
}

func TestShowConfiguration(t *testing.T) {
	t.Setenv("ROBOTS_CONFIG_PATH", t.TempDir())

	var buf bytes.Buffer
	require.NoError(t, showConfiguration(&buf, "text"))
	assert.Contains(t, buf.String(), "process_schedule")

	buf.Reset()
	require.NoError(t, showConfiguration(&buf, "json"))
	assert.Contains(t, buf.String(), `"attributes"`)
}

func TestEnroll(t *testing.T) {
	var logs bytes.Buffer
	j := newTestJournal(&logs)

	registry := newRegistry()
	registry.Enroll("BAIDU", "old", robot.DefaultRobot{})

	cfg := &config.RobotsConfig{Robots: []model.RobotAccount{{Type: "QQ", Account: "jd"}}}
	enroll(registry, cfg, j)

	_, ok := registry.Get("BAIDU", "old")
	assert.False(t, ok)
	_, ok = registry.Get("QQ", "jd")
	assert.True(t, ok)
	assert.Contains(t, logs.String(), "1 robots are enrolled: jd@QQ")
}

func TestWaitForServer(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	assert.NoError(t, waitForServer(ts.URL, 1, time.Millisecond))
	assert.Error(t, waitForServer("http://127.0.0.1:1/", 2, time.Millisecond))
}
