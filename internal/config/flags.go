package config

import "flag"

// flagFields maps flag names to the TOML key they override.
var flagFields = map[string]string{
	"data-dir":       "data_dir",
	"tasks":          "tasks_file",
	"habits":         "habits_file",
	"listen":         "listen_addr",
	"api-persist":    "api_persist",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// parseFlags defines the global flags on fs and parses args.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("tickoff", flag.ContinueOnError)
	}

	// Path flags
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory holding tasks.json and habits.json")
	fs.StringVar(&cfg.TasksFile, "tasks", cfg.TasksFile, "Path to task file")
	fs.StringVar(&cfg.HabitsFile, "habits", cfg.HabitsFile, "Path to habit file")

	// HTTP API
	fs.StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "HTTP listen address for serve")
	fs.BoolVar(&cfg.APIPersist, "api-persist", cfg.APIPersist, "Persist API tasks to the task file")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|json|logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Include timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Include caller location in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if field, ok := flagFields[f.Name]; ok {
			sources[field] = SourceFlag
		}
	})
	return nil
}
