package dirs

// StateDir is the root directory for autogame runtime state files,
// relative to the working directory.
const StateDir = "._autogame_state"

// ConfigFile is the default configuration file, relative to the working directory.
const ConfigFile = "config.json"

// ConfigFileYAML is the alternative YAML configuration file.
const ConfigFileYAML = "config.yaml"

// OverridesFile is the path to the optional machine-local overrides file,
// relative to the working directory.
const OverridesFile = ".autogame.overrides.yaml"

// DefaultLogDir is where run logs go when global_settings.log_dir is unset.
const DefaultLogDir = "logs"

// ConfigEnv names the environment variable that overrides the config path.
const ConfigEnv = "AUTOGAME_CONFIG"
