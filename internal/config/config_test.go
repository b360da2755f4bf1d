package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const orderedJSON = `{
  "games": {
    "zenless_zone_zero": {
      "name": "绝区零一条龙",
      "enabled": true,
      "path": "C:/zzz/OneDragon.exe",
      "process_name": "ZenlessZoneZero.exe",
      "launch_timeout": 45,
      "post_execution_wait": 5
    },
    "mihoyo_sign": {
      "name": "签到指令",
      "enabled": true,
      "path": "C:/sign/run.bat",
      "run_as_script": true,
      "wait_timeout": 60
    },
    "better_gi": {
      "name": "BetterGI",
      "enabled": false,
      "path": "",
      "args": ["startOneDragon"]
    }
  },
  "global_settings": {
    "user_choice_timeout": 3
  }
}`

func TestParseConfigPreservesGameOrder(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.json", orderedJSON)

	cfg, err := ParseConfig(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"zenless_zone_zero", "mihoyo_sign", "better_gi"}, cfg.Games.Keys())
	assert.Equal(t, "绝区零一条龙", cfg.Games[0].Name)
	assert.Equal(t, []string{"startOneDragon"}, cfg.Games[2].Args)
}

func TestParseConfigDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.json", orderedJSON)

	cfg, err := ParseConfig(path)
	require.NoError(t, err)

	gs := cfg.GlobalSettings
	assert.Equal(t, 3, gs.UserChoiceTimeout, "explicit value kept")
	assert.Equal(t, 5, gs.ExitCountdown)
	assert.Equal(t, 5, gs.MaxLogFiles)
	assert.Equal(t, 1, gs.PollInterval)
	assert.Equal(t, 15, gs.SettleWait)
	assert.Equal(t, "python", gs.Interpreter)
	assert.Equal(t, "./logs", gs.LogDir)

	assert.Equal(t, 45, cfg.Games[0].LaunchTimeout)
	assert.Equal(t, defaultLaunchTimeout, cfg.Games[1].LaunchTimeout)
}

func TestEffectiveKind(t *testing.T) {
	tests := []struct {
		name string
		task Task
		want TaskKind
	}{
		{"explicit kind wins", Task{Kind: KindFireAndForget, ProcessName: "x.exe"}, KindFireAndForget},
		{"wait timeout implies timed script", Task{WaitTimeout: 60, ProcessName: "x.exe"}, KindTimedScript},
		{"process name implies monitored", Task{ProcessName: "x.exe"}, KindMonitoredLaunch},
		{"nothing implies fire and forget", Task{Path: "x.exe"}, KindFireAndForget},
		{"key is never consulted", Task{Key: "mihoyo_sign"}, KindFireAndForget},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.task.EffectiveKind())
		})
	}
}

func TestParseConfigSchemaErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantLoc string
	}{
		{
			name:    "wrong type",
			content: `{"games": {"a": {"name": "A", "launch_timeout": "30"}}}`,
			wantLoc: "/games/a/launch_timeout",
		},
		{
			name:    "unknown field",
			content: `{"games": {"a": {"name": "A", "procces_name": "a.exe"}}}`,
			wantLoc: "/games/a",
		},
		{
			name:    "bad kind",
			content: `{"games": {"a": {"name": "A", "kind": "daemon"}}}`,
			wantLoc: "/games/a/kind",
		},
		{
			name:    "games missing",
			content: `{"global_settings": {}}`,
			wantLoc: "/",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.json", tt.content)
			_, err := ParseConfig(path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfigMalformed))
			assert.Contains(t, err.Error(), tt.wantLoc)
		})
	}
}

func TestParseConfigInvalidJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.json", `{"games": {`)
	_, err := ParseConfig(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfigMalformed))
}

func TestParseConfigDuplicateKeyRejected(t *testing.T) {
	var l GameList
	err := json.Unmarshal([]byte(`{"a": {"name": "A"}, "a": {"name": "B"}}`), &l)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate game key 'a'")
}

func TestParseConfigStripsBOM(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.json", "\xef\xbb\xbf"+orderedJSON)
	cfg, err := ParseConfig(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Games, 3)
}

func TestParseConfigYAML(t *testing.T) {
	content := `games:
  second:
    name: Second
    enabled: true
    path: /bin/true
  first:
    name: First
    enabled: true
    path: /bin/true
    process_name: first.exe
global_settings:
  max_log_files: 7
`
	path := writeFile(t, t.TempDir(), "config.yaml", content)

	cfg, err := ParseConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"second", "first"}, cfg.Games.Keys())
	assert.Equal(t, 7, cfg.GlobalSettings.MaxLogFiles)
	assert.Equal(t, KindMonitoredLaunch, cfg.Games[1].EffectiveKind())
}

func TestSaveRoundTripKeepsOrder(t *testing.T) {
	cfg := Default()
	cfg.Games = GameList{
		{Key: "z", Name: "Zed", Enabled: true, Path: "/z", LaunchTimeout: 30},
		{Key: "a", Name: "Ay", Enabled: false, LaunchTimeout: 30},
		{Key: "m", Name: "Em", Enabled: true, Path: "/m", ProcessName: "m.exe", LaunchTimeout: 30},
	}

	for _, name := range []string{"config.json", "config.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, Save(path, cfg))

			got, err := ParseConfig(path)
			require.NoError(t, err)
			assert.Equal(t, []string{"z", "a", "m"}, got.Games.Keys())
			assert.Equal(t, cfg.Games, got.Games)
		})
	}
}

func TestSaveWritesUnescapedNames(t *testing.T) {
	cfg := Default()
	cfg.Games = GameList{{Key: "mihoyo_sign", Name: "签到指令", LaunchTimeout: 30}}
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, Save(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "签到指令")
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	exe := writeFile(t, dir, "tool.exe", "")

	tests := []struct {
		name        string
		task        Task
		wantErr     string
		wantWarning string
	}{
		{
			name: "valid monitored launch",
			task: Task{Key: "a", Name: "A", Enabled: true, Path: exe, ProcessName: "a.exe", LaunchTimeout: 30},
		},
		{
			name:    "enabled without path",
			task:    Task{Key: "a", Name: "A", Enabled: true},
			wantErr: "path is required when enabled",
		},
		{
			name: "disabled without path is fine",
			task: Task{Key: "a", Name: "A"},
		},
		{
			name:    "monitored without process name",
			task:    Task{Key: "a", Name: "A", Enabled: true, Path: exe, Kind: KindMonitoredLaunch, LaunchTimeout: 30},
			wantErr: "process_name is required",
		},
		{
			name:    "missing name",
			task:    Task{Key: "a"},
			wantErr: "name is required",
		},
		{
			name:    "bad marker template",
			task:    Task{Key: "a", Name: "A", Markers: Markers{Start: "{{.Name"}},
			wantErr: "markers.start",
		},
		{
			name:        "missing executable is a warning",
			task:        Task{Key: "a", Name: "A", Enabled: true, Path: filepath.Join(dir, "nope.exe"), LaunchTimeout: 30},
			wantWarning: "does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Games = GameList{tt.task}

			report := Check(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				assert.True(t, report.OK())
			} else {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrConfigMalformed))
				assert.Contains(t, err.Error(), tt.wantErr)
			}
			if tt.wantWarning != "" {
				require.NotEmpty(t, report.Warnings)
				assert.Contains(t, strings.Join(report.Warnings, "\n"), tt.wantWarning)
			}
		})
	}
}

func TestValidateMaxLogFilesWarning(t *testing.T) {
	cfg := Default()
	cfg.Games = GameList{}
	cfg.GlobalSettings.MaxLogFiles = 1

	report := Check(cfg)
	assert.True(t, report.OK())
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "max_log_files")
}

func TestLoadConfig(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("AUTOGAME_CONFIG", "")

		_, _, err := LoadConfig("")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrConfigMissing))
	})

	t.Run("explicit path missing", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		writeFile(t, dir, "config.json", orderedJSON)

		_, _, err := LoadConfig(filepath.Join(dir, "other.json"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrConfigMissing))
	})

	t.Run("default location", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		t.Setenv("AUTOGAME_CONFIG", "")
		writeFile(t, dir, "config.json", `{"games": {"a": {"name": "A"}}}`)

		cfg, path, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, "config.json", path)
		assert.Len(t, cfg.Games, 1)
	})

	t.Run("environment variable", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(t.TempDir())
		path := writeFile(t, dir, "mine.yaml", "games:\n  b:\n    name: B\n")
		t.Setenv("AUTOGAME_CONFIG", path)

		cfg, used, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, path, used)
		assert.Equal(t, []string{"b"}, cfg.Games.Keys())
	})

	t.Run("semantic errors are fatal", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "config.json", `{"games": {"a": {"name": "A", "enabled": true}}}`)

		_, _, err := LoadConfig(path)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrConfigMalformed))
	})
}

func TestExampleRoundTrip(t *testing.T) {
	for _, name := range []string{"config.json", "config.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, Save(path, Example()))

			cfg, err := ParseConfig(path)
			require.NoError(t, err)
			assert.Equal(t, []string{"mihoyo_sign", "march7th_assistant", "zenless_zone_zero", "better_gi"}, cfg.Games.Keys())
			assert.Empty(t, cfg.EnabledGames(), "every example game starts disabled")

			report := Check(cfg)
			assert.True(t, report.OK(), "unexpected errors: %v", report.Errors)
		})
	}
}
