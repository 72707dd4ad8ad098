// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.tickoff/tickoff.toml or OS-specific config directory)
// 3. Project config file (tickoff.toml or .tickoff.toml in the current directory)
// 4. Environment variables (TICKOFF_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// Record files (tasks.json, habits.json) are resolved against data_dir, which
// defaults to the directory holding the tickoff executable.
package config
