package task

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"autogame.dev/internal/config"
	"autogame.dev/internal/logs"
)

var testStart = time.Date(2025, 6, 1, 8, 0, 0, 0, time.Local)

// fakeClock advances only when slept on
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration

	// onSleep runs after each advance, with the new time
	onSleep func(now time.Time)
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: testStart}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}

	c.mu.Lock()
	c.now = c.now.Add(d)
	c.sleeps = append(c.sleeps, d)
	now, hook := c.now, c.onSleep
	c.mu.Unlock()

	if hook != nil {
		hook(now)
	}
	return ctx.Err()
}

func (c *fakeClock) slept() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total time.Duration
	for _, d := range c.sleeps {
		total += d
	}
	return total
}

type memSink struct {
	mu      sync.Mutex
	records []RunRecord
}

func (s *memSink) Append(rec RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

type harness struct {
	sup    *Supervisor
	clock  *fakeClock
	sink   *memSink
	file   *bytes.Buffer
	events []Event
}

func newHarness(t *testing.T, w Watcher, l Launcher, settle time.Duration) *harness {
	t.Helper()
	h := &harness{clock: newFakeClock(), sink: &memSink{}, file: &bytes.Buffer{}}
	log := logs.NewLogger(h.file, nil, h.clock.Now)
	h.sup = NewSupervisor(w, l, log, Options{
		RunID:        "20250601_080000",
		PollInterval: time.Second,
		SettleWait:   settle,
		Observer:     func(ev Event) { h.events = append(h.events, ev) },
		Records:      h.sink,
	}).WithClock(h.clock)
	return h
}

func (h *harness) count(substr string) int {
	return strings.Count(h.file.String(), substr)
}

func (h *harness) states() []State {
	var out []State
	for _, ev := range h.events {
		out = append(out, ev.State)
	}
	return out
}

// fakeExecutable creates an empty file that passes the existence check
func fakeExecutable(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "game.exe")
	if err := os.WriteFile(path, nil, 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func monitoredTask(t *testing.T) config.Task {
	return config.Task{
		Key:               "star_rail",
		Name:              "测试游戏",
		Enabled:           true,
		Kind:              config.KindMonitoredLaunch,
		Path:              fakeExecutable(t),
		ProcessName:       "Game.exe",
		LaunchTimeout:     3,
		PostExecutionWait: 5,
	}
}
