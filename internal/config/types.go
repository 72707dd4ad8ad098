package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// Default values.
const (
	DefaultTasksFile  = "tasks.json"
	DefaultHabitsFile = "habits.json"
	DefaultListenAddr = ":8000"
	DefaultLogLevel   = "warn"
	DefaultLogFormat  = "text"
)

// Config holds the full configuration for tickoff.
type Config struct {
	// Paths
	DataDir    string `toml:"data_dir"`
	TasksFile  string `toml:"tasks_file"`
	HabitsFile string `toml:"habits_file"`

	// HTTP API
	ListenAddr string `toml:"listen_addr"`
	APIPersist bool   `toml:"api_persist"` // Back the API with tasks_file instead of memory

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
}

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	Files   []string // Config files that were read, in load order
}

// configFields returns the TOML keys tracked for source reporting.
func configFields() []string {
	return []string{
		"data_dir",
		"tasks_file",
		"habits_file",
		"listen_addr",
		"api_persist",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.DataDir = ""
	cfg.TasksFile = DefaultTasksFile
	cfg.HabitsFile = DefaultHabitsFile
	cfg.ListenAddr = DefaultListenAddr
	cfg.APIPersist = false
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}
