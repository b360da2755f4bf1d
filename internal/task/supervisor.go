package task

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"autogame.dev/internal/config"
	"autogame.dev/internal/logs"
	"autogame.dev/internal/process"
	"autogame.dev/internal/template"
)

// Options tune a Supervisor
type Options struct {
	// RunID stamps run records; usually the log file's run id
	RunID string
	// PollInterval is the cadence of every watcher query and countdown tick
	PollInterval time.Duration
	// SettleWait is slept after a monitored process exits
	SettleWait time.Duration
	// Observer, if set, is told about every state change
	Observer func(Event)
	// Records, if set, receives every closed run record
	Records RecordSink
}

// Supervisor launches tasks and waits for them to complete
type Supervisor struct {
	watcher  Watcher
	launcher Launcher
	log      *logs.Logger
	clock    Clock
	opts     Options
}

// NewSupervisor creates a supervisor that logs to log
func NewSupervisor(watcher Watcher, launcher Launcher, log *logs.Logger, opts Options) *Supervisor {
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Second
	}
	if opts.SettleWait < 0 {
		opts.SettleWait = 0
	}
	return &Supervisor{
		watcher:  watcher,
		launcher: launcher,
		log:      log,
		clock:    RealClock(),
		opts:     opts,
	}
}

// WithClock replaces the supervisor's clock
func (s *Supervisor) WithClock(c Clock) *Supervisor {
	s.clock = c
	return s
}

// RunTask launches one task and waits for it according to its kind.
// Task problems are reported in the Result; the error is non-nil only when
// ctx is cancelled, and then wraps ErrInterrupted.
func (s *Supervisor) RunTask(ctx context.Context, t config.Task) (res *Result, err error) {
	res = &Result{Key: t.Key, Name: t.Name}

	if !t.Enabled || t.Path == "" {
		s.log.Printf("跳过%s（未启用）", t.Name)
		res.Outcome = OutcomeSkipped
		return res, nil
	}

	if _, statErr := os.Stat(t.Path); statErr != nil {
		s.log.Errorf("%s: 找不到可执行文件 %s", t.Name, t.Path)
		res.fail(fmt.Errorf("%w: %s", ErrExecutableNotFound, t.Path))
		return res, nil
	}

	started := s.clock.Now()
	defer func() {
		if r := recover(); r != nil {
			s.log.ClearStatus()
			s.log.Errorf("%s: 意外错误: %v", t.Name, r)
			res.fail(fmt.Errorf("panic: %v", r))
			err = nil
		}
		res.Duration = s.clock.Now().Sub(started)
		s.emit(Event{TaskKey: t.Key, TaskName: t.Name, ProcessName: t.ProcessName, State: StateFinished, Outcome: res.Outcome})
	}()

	markers := template.ResolveAll(config.GameList{t})[0]
	s.log.Printf("%s", markers.Start)
	s.emit(Event{TaskKey: t.Key, TaskName: t.Name, ProcessName: t.ProcessName, State: StateLaunchPending})

	spec := process.LaunchSpec{Path: t.Path, Args: t.Args, WorkingDir: t.WorkingDir}
	pid, err := s.launch(ctx, t, spec)
	if err != nil {
		if ctx.Err() != nil {
			return res, s.interrupted(res, t, started, ctx.Err())
		}
		s.log.Errorf("%s: 启动失败: %v", t.Name, err)
		res.fail(fmt.Errorf("%w: %v", ErrLaunchFailure, err))
		return res, nil
	}

	switch t.EffectiveKind() {
	case config.KindTimedScript:
		if err := s.countdown(ctx, t.Name, t.WaitTimeout); err != nil {
			return res, s.interrupted(res, t, started, err)
		}
		res.WaitedInternally = true

	case config.KindMonitoredLaunch:
		rec, err := s.monitor(ctx, t, pid)
		res.Record = rec
		if err != nil {
			res.fail(err)
			if errors.Is(err, ErrInterrupted) {
				return res, err
			}
			return res, nil
		}
		res.WaitedInternally = true

	default:
		s.log.Printf("%s", markers.Fallback)
		if err := s.clock.Sleep(ctx, seconds(t.PostExecutionWait)); err != nil {
			return res, s.interrupted(res, t, started, err)
		}
		res.WaitedInternally = true
	}

	s.log.Printf("%s", markers.End)
	res.Outcome = OutcomeSuccess
	return res, nil
}

// launch runs a script to completion or starts a program detached
func (s *Supervisor) launch(ctx context.Context, t config.Task, spec process.LaunchSpec) (int, error) {
	if t.RunAsScript {
		return 0, s.launcher.RunScript(ctx, spec)
	}
	return s.launcher.Start(ctx, spec)
}

// countdown shows a per-tick console countdown of secs seconds
func (s *Supervisor) countdown(ctx context.Context, name string, secs int) error {
	defer s.log.ClearStatus()
	remaining := seconds(secs)
	for remaining > 0 {
		s.log.Status("%s: 等待 %s", name, logs.FormatDuration(remaining))
		step := s.opts.PollInterval
		if step > remaining {
			step = remaining
		}
		if err := s.clock.Sleep(ctx, step); err != nil {
			return err
		}
		remaining -= step
	}
	return nil
}

// interrupted logs the single interruption line and builds the error to return
func (s *Supervisor) interrupted(res *Result, t config.Task, since time.Time, cause error) error {
	s.log.ClearStatus()
	s.log.Printf("%s 已中断，已运行 %s", t.Name, logs.FormatDuration(s.clock.Now().Sub(since)))
	err := interruptedErr(cause)
	res.fail(err)
	return err
}

func (s *Supervisor) emit(ev Event) {
	if s.opts.Observer == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = s.clock.Now()
	}
	ev.RunID = s.opts.RunID
	s.opts.Observer(ev)
}

func (r *Result) fail(err error) {
	r.Outcome = OutcomeFailed
	r.Err = err
	r.Error = err.Error()
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}
