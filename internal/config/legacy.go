package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// legacyConfig is the flat layout written by older releases
type legacyConfig struct {
	BatchFilePath         string            `mapstructure:"batch_file_path"`
	March7thAssistantPath string            `mapstructure:"march7th_assistant_path"`
	ProcessesToMonitor    map[string]string `mapstructure:"processes_to_monitor"`
	ZenlessSchedulerPath  string            `mapstructure:"zenless_zone_zero_scheduler_path"`
	BetterGIPath          string            `mapstructure:"better_gi_path"`
	BetterGIArgs          []string          `mapstructure:"better_gi_args"`
	GlobalSettings        map[string]any    `mapstructure:"global_settings"`
}

var legacyKeys = []string{
	"batch_file_path",
	"march7th_assistant_path",
	"processes_to_monitor",
	"zenless_zone_zero_scheduler_path",
	"better_gi_path",
	"better_gi_args",
}

// IsLegacy reports whether doc uses the flat layout: no games object and at
// least one of the old top-level keys.
func IsLegacy(doc map[string]any) bool {
	if _, ok := doc["games"]; ok {
		return false
	}
	for _, k := range legacyKeys {
		if _, ok := doc[k]; ok {
			return true
		}
	}
	return false
}

// MigrateLegacy converts a flat config into the games layout, backs the
// original up next to it and rewrites path in the new format.
func MigrateLegacy(path string, doc map[string]any) (*Config, error) {
	var legacy legacyConfig
	if err := mapstructure.Decode(doc, &legacy); err != nil {
		return nil, fmt.Errorf("%w: legacy config %s: %v", ErrConfigMalformed, path, err)
	}

	cfg := Default()
	if legacy.GlobalSettings != nil {
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:          "json",
			WeaklyTypedInput: true,
			Result:           &cfg.GlobalSettings,
		})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(legacy.GlobalSettings); err != nil {
			return nil, fmt.Errorf("%w: legacy global_settings: %v", ErrConfigMalformed, err)
		}
	}
	cfg.Games = legacyGames(legacy)
	applyDefaults(cfg)

	if err := backupFile(path); err != nil {
		return nil, err
	}
	if err := Save(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func legacyGames(l legacyConfig) GameList {
	games := GameList{
		{
			Key:               "mihoyo_sign",
			Name:              "签到指令",
			Kind:              KindTimedScript,
			Path:              l.BatchFilePath,
			RunAsScript:       true,
			LaunchTimeout:     defaultLaunchTimeout,
			PostExecutionWait: 5,
			WaitTimeout:       60,
		},
		{
			Key:               "march7th_assistant",
			Name:              "三月七小助手",
			Kind:              KindMonitoredLaunch,
			Path:              l.March7thAssistantPath,
			ProcessName:       l.ProcessesToMonitor["star_rail"],
			LaunchTimeout:     defaultLaunchTimeout,
			PostExecutionWait: 5,
		},
		{
			Key:               "zenless_zone_zero",
			Name:              "绝区零一条龙",
			Kind:              KindMonitoredLaunch,
			Path:              l.ZenlessSchedulerPath,
			ProcessName:       l.ProcessesToMonitor["zenless_zone_zero"],
			LaunchTimeout:     defaultLaunchTimeout,
			PostExecutionWait: 5,
		},
		{
			Key:               "better_gi",
			Name:              "BetterGI",
			Kind:              KindFireAndForget,
			Path:              l.BetterGIPath,
			Args:              l.BetterGIArgs,
			LaunchTimeout:     defaultLaunchTimeout,
			PostExecutionWait: 5,
		},
	}

	for i := range games {
		games[i].Enabled = games[i].Path != ""
		if games[i].Kind == KindMonitoredLaunch && games[i].ProcessName == "" {
			games[i].Kind = KindFireAndForget
		}
	}
	return games
}

// backupFile copies path to path.bak, or to a timestamped name when a
// backup already exists
func backupFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s for backup: %w", path, err)
	}

	backup := path + ".bak"
	if _, err := os.Stat(backup); err == nil {
		backup = fmt.Sprintf("%s.%s.bak", path, time.Now().Format("20060102_150405"))
	}

	if err := os.WriteFile(backup, data, 0644); err != nil {
		return fmt.Errorf("failed to write backup %s: %w", backup, err)
	}
	return nil
}
