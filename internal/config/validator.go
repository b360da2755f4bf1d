package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// Report separates problems that prevent a run from those that only deserve
// a mention
type Report struct {
	Errors   []string
	Warnings []string
}

// OK reports whether there are no errors
func (r Report) OK() bool {
	return len(r.Errors) == 0
}

// Validate performs semantic validation on a parsed config and returns the
// errors only. Warnings are left to Check.
func Validate(cfg *Config) error {
	report := Check(cfg)
	if len(report.Errors) > 0 {
		return fmt.Errorf("%w: validation errors:\n  - %s", ErrConfigMalformed, strings.Join(report.Errors, "\n  - "))
	}
	return nil
}

// Check runs every semantic rule over cfg
func Check(cfg *Config) Report {
	var r Report

	if cfg.Games == nil {
		r.Errors = append(r.Errors, "games must be defined")
	}

	seenNames := make(map[string]string)
	for _, t := range cfg.Games {
		checkTask(t, &r)
		if other, dup := seenNames[t.Name]; dup && t.Name != "" {
			r.Warnings = append(r.Warnings, fmt.Sprintf("game '%s': name '%s' is also used by '%s', previous-run durations will be ambiguous", t.Key, t.Name, other))
		}
		seenNames[t.Name] = t.Key
	}

	gs := cfg.GlobalSettings
	if gs.UserChoiceTimeout < 0 {
		r.Errors = append(r.Errors, "global_settings.user_choice_timeout cannot be negative")
	}
	if gs.ExitCountdown < 0 {
		r.Errors = append(r.Errors, "global_settings.exit_countdown cannot be negative")
	}
	if gs.MaxLogFiles < 0 {
		r.Errors = append(r.Errors, "global_settings.max_log_files cannot be negative")
	} else if gs.MaxLogFiles == 1 {
		r.Warnings = append(r.Warnings, "global_settings.max_log_files is 1, previous-run history needs at least 2")
	}
	if gs.MaxLogAgeDays < 0 {
		r.Errors = append(r.Errors, "global_settings.max_log_age_days cannot be negative")
	}
	if gs.SettleWait < 0 {
		r.Errors = append(r.Errors, "global_settings.settle_wait cannot be negative")
	}

	return r
}

func checkTask(t Task, r *Report) {
	prefix := fmt.Sprintf("game '%s'", t.Key)

	if t.Key == "" {
		r.Errors = append(r.Errors, "game key cannot be empty")
	}
	if t.Name == "" {
		r.Errors = append(r.Errors, prefix+": name is required")
	}

	switch t.Kind {
	case "", KindTimedScript, KindMonitoredLaunch, KindFireAndForget:
	default:
		r.Errors = append(r.Errors, fmt.Sprintf("%s: invalid kind '%s' (must be %s, %s or %s)",
			prefix, t.Kind, KindTimedScript, KindMonitoredLaunch, KindFireAndForget))
	}

	if t.LaunchTimeout < 0 {
		r.Errors = append(r.Errors, prefix+": launch_timeout cannot be negative")
	}
	if t.PostExecutionWait < 0 {
		r.Errors = append(r.Errors, prefix+": post_execution_wait cannot be negative")
	}
	if t.WaitTimeout < 0 {
		r.Errors = append(r.Errors, prefix+": wait_timeout cannot be negative")
	}

	markers := [][2]string{{"start", t.Markers.Start}, {"end", t.Markers.End}, {"fallback", t.Markers.Fallback}}
	for _, m := range markers {
		if m[1] == "" {
			continue
		}
		if _, err := template.New(m[0]).Parse(m[1]); err != nil {
			r.Errors = append(r.Errors, fmt.Sprintf("%s: markers.%s: %v", prefix, m[0], err))
		}
	}

	if !t.Enabled {
		return
	}

	if t.Path == "" {
		r.Errors = append(r.Errors, prefix+": path is required when enabled")
	} else if _, err := os.Stat(t.Path); err != nil {
		r.Warnings = append(r.Warnings, fmt.Sprintf("%s: path %s does not exist", prefix, t.Path))
	}

	switch t.EffectiveKind() {
	case KindMonitoredLaunch:
		if t.ProcessName == "" {
			r.Errors = append(r.Errors, prefix+": process_name is required for monitored_launch")
		}
		if t.LaunchTimeout == 0 {
			r.Errors = append(r.Errors, prefix+": launch_timeout must be positive for monitored_launch")
		}
	case KindTimedScript:
		if t.WaitTimeout == 0 {
			r.Warnings = append(r.Warnings, prefix+": wait_timeout is 0, the script is treated as done as soon as it returns")
		}
	}

	if t.RunAsScript && filepath.Ext(t.Path) == "" {
		r.Warnings = append(r.Warnings, prefix+": run_as_script is set but path has no extension to pick an interpreter")
	}

	if t.WorkingDir != "" {
		if info, err := os.Stat(t.WorkingDir); err != nil || !info.IsDir() {
			r.Warnings = append(r.Warnings, fmt.Sprintf("%s: working_dir %s is not a directory", prefix, t.WorkingDir))
		}
	}
}
