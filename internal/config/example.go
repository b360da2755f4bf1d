package config

// Example returns the starter configuration written by `autogame init`.
// Every game is disabled until its path is filled in.
func Example() *Config {
	cfg := Default()
	cfg.Games = GameList{
		{
			Key:               "mihoyo_sign",
			Name:              "签到指令",
			Kind:              KindTimedScript,
			RunAsScript:       true,
			WaitTimeout:       60,
			LaunchTimeout:     defaultLaunchTimeout,
			PostExecutionWait: 5,
		},
		{
			Key:               "march7th_assistant",
			Name:              "三月七小助手",
			Kind:              KindMonitoredLaunch,
			ProcessName:       "StarRail.exe",
			LaunchTimeout:     defaultLaunchTimeout,
			PostExecutionWait: 5,
		},
		{
			Key:               "zenless_zone_zero",
			Name:              "绝区零一条龙",
			Kind:              KindMonitoredLaunch,
			ProcessName:       "ZenlessZoneZero.exe",
			LaunchTimeout:     defaultLaunchTimeout,
			PostExecutionWait: 5,
		},
		{
			Key:               "better_gi",
			Name:              "BetterGI",
			Kind:              KindFireAndForget,
			Args:              []string{"startOneDragon"},
			LaunchTimeout:     defaultLaunchTimeout,
			PostExecutionWait: 5,
		},
	}
	return cfg
}
