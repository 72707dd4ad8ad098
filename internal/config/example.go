package config

// ExampleConfig returns an annotated tickoff.toml with every key at its default.
func ExampleConfig() string {
	return `# tickoff configuration
#
# Loaded from ~/.tickoff/tickoff.toml (or the OS config dir) and then from
# ./tickoff.toml or ./.tickoff.toml. TICKOFF_* environment variables and
# command line flags override file values.

# Directory holding the record files. Empty means the directory of the
# tickoff executable.
data_dir = ""

# Record files, relative to data_dir unless absolute.
tasks_file = "tasks.json"
habits_file = "habits.json"

# HTTP API
listen_addr = ":8000"
# Back the API with tasks_file instead of an in-memory list.
api_persist = false

# Logging: debug, info, warn, error
log_level = "warn"
# text, json or logfmt
log_format = "text"
log_timestamps = false
log_caller = false
`
}
