package process

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func fakeWatcher(names []string, err error) *SystemWatcher {
	return &SystemWatcher{list: func(context.Context) ([]string, error) {
		return names, err
	}}
}

func TestIsRunning(t *testing.T) {
	w := fakeWatcher([]string{"explorer.exe", "StarRail.exe", "ZenlessZoneZero.exe"}, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		want bool
	}{
		{"StarRail.exe", true},
		{"starrail.EXE", true},
		{"StarRail", true},
		{"Star", false},
		{"StarRail.ex", false},
		{"", false},
		{"YuanShen.exe", false},
	}
	for _, tt := range tests {
		if got := w.IsRunning(ctx, tt.name); got != tt.want {
			t.Errorf("IsRunning(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestIsRunningFailsClosed(t *testing.T) {
	w := fakeWatcher([]string{"StarRail.exe"}, errors.New("access denied"))
	if w.IsRunning(context.Background(), "StarRail.exe") {
		t.Error("query errors must report not running")
	}
}

func TestRunning(t *testing.T) {
	w := fakeWatcher([]string{"StarRail.exe"}, nil)
	got := w.Running(context.Background(), []string{"StarRail.exe", "ZenlessZoneZero.exe"})
	if !got["StarRail.exe"] || got["ZenlessZoneZero.exe"] {
		t.Errorf("unexpected result %v", got)
	}
}

func TestMatchesName(t *testing.T) {
	if !MatchesName("BetterGI.exe", "bettergi") {
		t.Error("extensionless name should match .exe image")
	}
	if MatchesName("BetterGI.exe", "bettergi.com") {
		t.Error("explicit extension must match exactly")
	}
}

func TestPIDAlive(t *testing.T) {
	if !PIDAlive(os.Getpid()) {
		t.Error("current process should be alive")
	}
	if PIDAlive(0) || PIDAlive(-1) {
		t.Error("non-positive PIDs are never alive")
	}
}

func TestNewWatcherQueriesSystem(t *testing.T) {
	w := NewWatcher()
	// no real process carries this name; the query itself must not panic
	if w.IsRunning(context.Background(), "autogame-no-such-process.exe") {
		t.Error("unexpected match")
	}
}

func TestDetachedCommand(t *testing.T) {
	tests := []struct {
		goos     string
		path     string
		wantName string
		wantArgs []string
	}{
		{"windows", `C:\m7\March7th Assistant.exe`, `C:\m7\March7th Assistant.exe`, []string{"-a"}},
		{"windows", `C:\bgi\BetterGI.lnk`, "cmd", []string{"/c", "start", "", `C:\bgi\BetterGI.lnk`, "-a"}},
		{"windows", `C:\zzz\OneDragon.bat`, "cmd", []string{"/c", "start", "", `C:\zzz\OneDragon.bat`, "-a"}},
		{"linux", "/opt/tool.sh", "/opt/tool.sh", []string{"-a"}},
	}
	for _, tt := range tests {
		l := &Launcher{goos: tt.goos}
		name, args := l.detachedCommand(LaunchSpec{Path: tt.path, Args: []string{"-a"}})
		if name != tt.wantName || strings.Join(args, "|") != strings.Join(tt.wantArgs, "|") {
			t.Errorf("%s %s: got %s %q", tt.goos, tt.path, name, args)
		}
	}
}

func TestScriptCommand(t *testing.T) {
	l := &Launcher{Interpreter: "py", goos: "windows"}
	tests := []struct {
		path     string
		wantName string
		wantArg0 string
	}{
		{"sign.py", "py", "sign.py"},
		{"sign.BAT", "cmd", "/c"},
		{"sign.cmd", "cmd", "/c"},
		{"sign.ps1", "powershell", "-NoProfile"},
		{"sign.sh", "/bin/sh", "sign.sh"},
		{"sign.exe", "sign.exe", ""},
	}
	for _, tt := range tests {
		name, args := l.scriptCommand(LaunchSpec{Path: tt.path})
		if name != tt.wantName {
			t.Errorf("%s: name = %s, want %s", tt.path, name, tt.wantName)
		}
		arg0 := ""
		if len(args) > 0 {
			arg0 = args[0]
		}
		if arg0 != tt.wantArg0 {
			t.Errorf("%s: first arg = %q, want %q", tt.path, arg0, tt.wantArg0)
		}
	}
}

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunScript(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/sh")
	}
	dir := t.TempDir()
	script := writeScript(t, dir, "sign.sh", `echo "signed $1"; pwd > cwd.txt`)

	var out bytes.Buffer
	l := NewLauncher("", &out, &out)
	if err := l.RunScript(context.Background(), LaunchSpec{Path: script, Args: []string{"ok"}}); err != nil {
		t.Fatalf("RunScript failed: %v", err)
	}
	if !strings.Contains(out.String(), "signed ok") {
		t.Errorf("unexpected output %q", out.String())
	}
	// default working directory is the script's own directory
	if _, err := os.Stat(filepath.Join(dir, "cwd.txt")); err != nil {
		t.Errorf("script did not run in its own directory: %v", err)
	}
}

func TestRunScriptExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/sh")
	}
	script := writeScript(t, t.TempDir(), "fail.sh", "exit 3")

	err := NewLauncher("", nil, nil).RunScript(context.Background(), LaunchSpec{Path: script})
	if err == nil || !strings.Contains(err.Error(), "code 3") {
		t.Errorf("expected exit code error, got %v", err)
	}
}

func TestRunScriptCancel(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/sh")
	}
	script := writeScript(t, t.TempDir(), "slow.sh", "sleep 30")

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := NewLauncher("", nil, nil).RunScript(ctx, LaunchSpec{Path: script})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if time.Since(start) > 10*time.Second {
		t.Errorf("cancel did not stop the script promptly")
	}
}

func TestStartDetached(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/sh")
	}
	dir := t.TempDir()
	marker := filepath.Join(dir, "started")
	script := writeScript(t, dir, "tool.sh", "touch "+marker)

	pid, err := NewLauncher("", nil, nil).Start(context.Background(), LaunchSpec{Path: script})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if pid <= 0 {
		t.Errorf("expected a PID, got %d", pid)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(marker); err == nil {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Error("detached program never ran")
}

func TestStartMissingExecutable(t *testing.T) {
	_, err := NewLauncher("", nil, nil).Start(context.Background(), LaunchSpec{Path: filepath.Join(t.TempDir(), "missing.exe")})
	if err == nil {
		t.Error("expected error for missing executable")
	}
}

func TestActiveFile(t *testing.T) {
	stateDir := t.TempDir()

	got, err := ReadActive(stateDir)
	if err != nil || got != nil {
		t.Fatalf("expected nothing, got %v, %v", got, err)
	}

	data := ActiveTask{
		LauncherPID: os.Getpid(),
		RunID:       "20250101_080000",
		TaskKey:     "march7th_assistant",
		TaskName:    "三月七小助手",
		ProcessName: "StarRail.exe",
		State:       "running",
		StartedAt:   time.Now(),
	}
	if err := WriteActive(stateDir, data); err != nil {
		t.Fatalf("WriteActive failed: %v", err)
	}

	got, err = ReadActive(stateDir)
	if err != nil || got == nil {
		t.Fatalf("expected active task, got %v, %v", got, err)
	}
	if got.TaskKey != "march7th_assistant" || got.State != "running" {
		t.Errorf("unexpected data %+v", got)
	}

	ClearActive(stateDir)
	if got, _ := ReadActive(stateDir); got != nil {
		t.Error("expected file to be cleared")
	}
}

func TestActiveFileStaleLauncher(t *testing.T) {
	stateDir := t.TempDir()
	// PIDs this large are not handed out on any supported OS
	if err := WriteActive(stateDir, ActiveTask{LauncherPID: 1 << 30, TaskKey: "x"}); err != nil {
		t.Fatal(err)
	}

	got, err := ReadActive(stateDir)
	if err != nil || got != nil {
		t.Errorf("stale file should be ignored, got %v, %v", got, err)
	}
	if _, err := os.Stat(ActiveFilePath(stateDir)); !os.IsNotExist(err) {
		t.Error("stale file should be removed")
	}
}
