package config

import (
	"os"
	"strings"
)

// loadFromEnv overrides config from TICKOFF_* environment variables.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	setString := func(env, field string, target *string) {
		if v := os.Getenv(env); v != "" {
			*target = v
			sources[field] = SourceEnv
		}
	}
	setBool := func(env, field string, target *bool) {
		if v := os.Getenv(env); v != "" {
			*target = boolFromString(v)
			sources[field] = SourceEnv
		}
	}

	setString("TICKOFF_DATA_DIR", "data_dir", &cfg.DataDir)
	setString("TICKOFF_TASKS", "tasks_file", &cfg.TasksFile)
	setString("TICKOFF_HABITS", "habits_file", &cfg.HabitsFile)
	setString("TICKOFF_LISTEN", "listen_addr", &cfg.ListenAddr)
	setBool("TICKOFF_API_PERSIST", "api_persist", &cfg.APIPersist)

	// Logging configuration
	setString("TICKOFF_LOG_LEVEL", "log_level", &cfg.LogLevel)
	setString("TICKOFF_LOG_FORMAT", "log_format", &cfg.LogFormat)
	setBool("TICKOFF_LOG_TIMESTAMPS", "log_timestamps", &cfg.LogTimestamps)
	setBool("TICKOFF_LOG_CALLER", "log_caller", &cfg.LogCaller)
}

func boolFromString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
