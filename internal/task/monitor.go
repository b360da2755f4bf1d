package task

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"autogame.dev/internal/config"
	"autogame.dev/internal/logs"
)

// State is a step of the monitoring sub-state machine
type State int

const (
	StateNotStarted State = iota
	StateLaunchPending
	StateRunning
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateLaunchPending:
		return "launch_pending"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Event reports a state change to an observer
type Event struct {
	RunID       string
	TaskKey     string
	TaskName    string
	ProcessName string
	PID         int
	State       State
	Outcome     Outcome
	At          time.Time
}

// monitor waits for the task's process to appear, then follows it until it
// exits. The returned record is nil if the process never appeared.
func (s *Supervisor) monitor(ctx context.Context, t config.Task, pid int) (*RunRecord, error) {
	ev := Event{TaskKey: t.Key, TaskName: t.Name, ProcessName: t.ProcessName, PID: pid}

	// LaunchPending: poll until the process shows up or launch_timeout passes
	pendingSince := s.clock.Now()
	timeout := seconds(t.LaunchTimeout)
	for !s.watcher.IsRunning(ctx, t.ProcessName) {
		if ctx.Err() != nil {
			return nil, s.interruptedPending(t, pendingSince, ctx.Err())
		}
		waited := s.clock.Now().Sub(pendingSince)
		if waited >= timeout {
			s.log.Warnf("%s: %d 秒内未检测到进程 %s，继续下一个任务", t.Name, t.LaunchTimeout, t.ProcessName)
			return nil, fmt.Errorf("%w: %s after %ds", ErrLaunchTimeout, t.ProcessName, t.LaunchTimeout)
		}
		s.log.Status("等待%s启动… %s", t.Name, logs.FormatDuration(waited))
		if err := s.clock.Sleep(ctx, s.opts.PollInterval); err != nil {
			return nil, s.interruptedPending(t, pendingSince, err)
		}
	}

	// Running
	start := s.clock.Now()
	rec := &RunRecord{
		ID:          uuid.New().String(),
		RunID:       s.opts.RunID,
		TaskKey:     t.Key,
		TaskName:    t.Name,
		ProcessName: t.ProcessName,
		Start:       start,
	}
	s.log.ClearStatus()
	s.log.FileOnly("检测到%s正在运行", t.ProcessName)
	ev.State = StateRunning
	s.emit(ev)

	for {
		s.log.Status("%s 运行中 %s", t.Name, logs.FormatDuration(s.clock.Now().Sub(start)))
		if err := s.clock.Sleep(ctx, s.opts.PollInterval); err != nil {
			return rec, s.closeInterrupted(rec, t, err)
		}
		if s.watcher.IsRunning(ctx, t.ProcessName) {
			continue
		}
		if ctx.Err() != nil {
			// the query was cut short, not the process
			return rec, s.closeInterrupted(rec, t, ctx.Err())
		}
		break
	}

	// Finished
	rec.End = s.clock.Now()
	rec.Duration = rec.End.Sub(rec.Start)
	s.log.ClearStatus()
	s.log.Printf("%s 运行时长: %s", t.Name, logs.FormatDuration(rec.Duration))
	s.record(*rec)

	if s.opts.SettleWait > 0 {
		s.log.Status("等待 %s 后继续", logs.FormatDuration(s.opts.SettleWait))
		err := s.clock.Sleep(ctx, s.opts.SettleWait)
		s.log.ClearStatus()
		if err != nil {
			return rec, interruptedErr(err)
		}
	}
	return rec, nil
}

// closeInterrupted closes the record against now, writes the single
// interruption line and returns the error to propagate
func (s *Supervisor) closeInterrupted(rec *RunRecord, t config.Task, cause error) error {
	rec.End = s.clock.Now()
	rec.Duration = rec.End.Sub(rec.Start)
	rec.Incomplete = true

	s.log.ClearStatus()
	s.log.Printf("%s 已中断，已运行 %s", t.Name, logs.FormatDuration(rec.Duration))
	s.record(*rec)
	return interruptedErr(cause)
}

func (s *Supervisor) interruptedPending(t config.Task, since time.Time, cause error) error {
	s.log.ClearStatus()
	s.log.Printf("%s 已中断，等待启动 %s", t.Name, logs.FormatDuration(s.clock.Now().Sub(since)))
	return interruptedErr(cause)
}

func (s *Supervisor) record(rec RunRecord) {
	if s.opts.Records == nil {
		return
	}
	if err := s.opts.Records.Append(rec); err != nil {
		s.log.Warnf("无法写入运行记录: %v", err)
	}
}
