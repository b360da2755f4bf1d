package config

// TaskKind selects how the supervisor decides a task is complete
type TaskKind string

const (
	// KindTimedScript runs a (usually blocking) script and then counts down wait_timeout
	KindTimedScript TaskKind = "timed_script"
	// KindMonitoredLaunch starts a program and follows the lifetime of process_name
	KindMonitoredLaunch TaskKind = "monitored_launch"
	// KindFireAndForget starts a program and waits post_execution_wait
	KindFireAndForget TaskKind = "fire_and_forget"
)

// Config represents the complete launcher configuration
type Config struct {
	Games          GameList       `json:"games" yaml:"games"`
	GlobalSettings GlobalSettings `json:"global_settings" yaml:"global_settings"`
}

// Task represents a single automation unit (a game helper or sign-in script).
// Key is filled from the games object key and is never serialized inside the task.
type Task struct {
	Key               string   `json:"-" yaml:"-"`
	Name              string   `json:"name" yaml:"name"`
	Enabled           bool     `json:"enabled" yaml:"enabled"`
	Kind              TaskKind `json:"kind,omitempty" yaml:"kind,omitempty"`
	Path              string   `json:"path" yaml:"path"`
	WorkingDir        string   `json:"working_dir,omitempty" yaml:"working_dir,omitempty"`
	RunAsScript       bool     `json:"run_as_script" yaml:"run_as_script"`
	Args              []string `json:"args,omitempty" yaml:"args,omitempty"`
	ProcessName       string   `json:"process_name,omitempty" yaml:"process_name,omitempty"`
	LaunchTimeout     int      `json:"launch_timeout" yaml:"launch_timeout"`
	PostExecutionWait int      `json:"post_execution_wait" yaml:"post_execution_wait"`
	WaitTimeout       int      `json:"wait_timeout,omitempty" yaml:"wait_timeout,omitempty"`
	Markers           Markers  `json:"markers,omitempty" yaml:"markers,omitempty"`
}

// Markers holds optional templates for the phrases logged at a task's start and end.
// Empty fields fall back to the defaults in the template package.
type Markers struct {
	Start    string `json:"start,omitempty" yaml:"start,omitempty"`
	End      string `json:"end,omitempty" yaml:"end,omitempty"`
	Fallback string `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// GlobalSettings holds run-wide settings
type GlobalSettings struct {
	UserChoiceTimeout int    `json:"user_choice_timeout" yaml:"user_choice_timeout"`
	ExitCountdown     int    `json:"exit_countdown" yaml:"exit_countdown"`
	MaxLogFiles       int    `json:"max_log_files" yaml:"max_log_files"`
	MaxLogAgeDays     int    `json:"max_log_age_days,omitempty" yaml:"max_log_age_days,omitempty"`
	LogDir            string `json:"log_dir,omitempty" yaml:"log_dir,omitempty"`
	PollInterval      int    `json:"poll_interval,omitempty" yaml:"poll_interval,omitempty"`
	SettleWait        int    `json:"settle_wait" yaml:"settle_wait"`
	Interpreter       string `json:"interpreter,omitempty" yaml:"interpreter,omitempty"`
}

// Overrides represents the machine-local overrides file.
// Keys are glob patterns matched against game keys.
type Overrides struct {
	Games map[string]GameOverride `yaml:"games"`
}

// GameOverride toggles a game on this machine only
type GameOverride struct {
	Enabled *bool `yaml:"enabled"`
}

// EnabledGames returns the enabled games in configured order
func (c *Config) EnabledGames() []Task {
	var out []Task
	for _, g := range c.Games {
		if g.Enabled {
			out = append(out, g)
		}
	}
	return out
}

// Game looks up a game by key
func (c *Config) Game(key string) (Task, bool) {
	for _, g := range c.Games {
		if g.Key == key {
			return g, true
		}
	}
	return Task{}, false
}

// EffectiveKind returns the configured kind, or infers one from the task's shape
// when the kind field was omitted.
func (t Task) EffectiveKind() TaskKind {
	if t.Kind != "" {
		return t.Kind
	}
	switch {
	case t.WaitTimeout > 0:
		return KindTimedScript
	case t.ProcessName != "":
		return KindMonitoredLaunch
	default:
		return KindFireAndForget
	}
}
