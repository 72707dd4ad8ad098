// Package cmd implements the CLI command structure for tickoff.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/nibzard/tickoff/internal/api"
	"github.com/nibzard/tickoff/internal/config"
	"github.com/nibzard/tickoff/internal/habit"
	"github.com/nibzard/tickoff/internal/logging"
	"github.com/nibzard/tickoff/internal/shell"
	"github.com/nibzard/tickoff/internal/store"
	"github.com/nibzard/tickoff/internal/todo"
	"github.com/nibzard/tickoff/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// errDoctorFailed is returned when at least one doctor check fails.
var errDoctorFailed = errors.New("doctor checks failed")

// IO bundles the streams a command reads from and writes to.
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdIO returns the process streams.
func StdIO() IO {
	return IO{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// env is what every subcommand receives.
type env struct {
	cfg     *config.Config
	sources *config.ConfigWithSources
	logger  *log.Logger
	io      IO
}

// Run executes the tickoff CLI on the process streams.
func Run(ctx context.Context, args []string) error {
	return RunIO(ctx, args, StdIO())
}

// RunIO executes the tickoff CLI with explicit streams.
func RunIO(ctx context.Context, args []string, stdio IO) error {
	fs := flag.NewFlagSet("tickoff", flag.ContinueOnError)
	fs.SetOutput(stdio.Err)
	fs.Usage = func() {
		printUsage(fs, stdio.Err)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdio.Out)
		return nil
	}
	if *showVersion {
		return versionCommand(stdio.Out)
	}

	cfg := cws.Config
	e := &env{
		cfg:     cfg,
		sources: cws,
		logger:  logging.FromConfig(cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller),
		io:      stdio,
	}
	e.logger.SetOutput(stdio.Err)

	subcommand := "help"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}
	e.logger.Debug("running command", "command", subcommand, "data_dir", cfg.DataDir)

	switch subcommand {
	case "todo":
		return todoCommand(ctx, e, remainingArgs)
	case "habits":
		return habitsCommand(ctx, e, remainingArgs)
	case "serve":
		return serveCommand(ctx, e, remainingArgs)
	case "tui":
		return tuiCommand(ctx, e, remainingArgs)
	case "ls":
		return lsCommand(e, remainingArgs)
	case "doctor":
		return doctorCommand(e, remainingArgs)
	case "config":
		return configCommand(e, remainingArgs)
	case "version":
		return versionCommand(stdio.Out)
	case "help":
		printUsage(fs, stdio.Out)
		return nil
	default:
		fmt.Fprintf(stdio.Err, "Unknown command: %s\n", subcommand)
		printUsage(fs, stdio.Err)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// noArgs parses a subcommand's flags and rejects positional arguments.
func noArgs(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if rest := fs.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected arguments: %v", rest)
	}
	return nil
}

func (e *env) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("tickoff "+name, flag.ContinueOnError)
	fs.SetOutput(e.io.Err)
	return fs
}

// openTasks opens the task manager over the configured tasks file.
func (e *env) openTasks() (*todo.Manager, error) {
	backend, err := store.NewFile[todo.Task](e.cfg.TasksFile,
		store.WithSchema(store.TaskSchema),
		store.WithLogger(e.logger),
	)
	if err != nil {
		return nil, err
	}
	return todo.NewManager(backend, todo.WithLogger(e.logger))
}

// openHabits opens the habit manager over the configured habits file.
func (e *env) openHabits() (*habit.Manager, error) {
	backend, err := store.NewFile[habit.Habit](e.cfg.HabitsFile,
		store.WithSchema(store.HabitSchema),
		store.WithLogger(e.logger),
	)
	if err != nil {
		return nil, err
	}
	return habit.NewManager(backend, habit.WithLogger(e.logger))
}

// closeWith closes c and keeps the first error.
func closeWith(err *error, c interface{ Close() error }) {
	if cerr := c.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}

// todoCommand runs the interactive task menu.
func todoCommand(ctx context.Context, e *env, args []string) (err error) {
	if err := noArgs(e.flagSet("todo"), args); err != nil {
		return err
	}
	tasks, err := e.openTasks()
	if err != nil {
		return err
	}
	defer closeWith(&err, tasks)

	return shell.NewTodo(tasks, e.io.In, e.io.Out, shell.WithLogger(e.logger)).Run(ctx)
}

// habitsCommand runs the interactive habit menu.
func habitsCommand(ctx context.Context, e *env, args []string) (err error) {
	if err := noArgs(e.flagSet("habits"), args); err != nil {
		return err
	}
	habits, err := e.openHabits()
	if err != nil {
		return err
	}
	defer closeWith(&err, habits)

	return shell.NewHabits(habits, e.io.In, e.io.Out, shell.WithLogger(e.logger)).Run(ctx)
}

// serveCommand runs the HTTP API until ctx is cancelled.
func serveCommand(ctx context.Context, e *env, args []string) (err error) {
	if err := noArgs(e.flagSet("serve"), args); err != nil {
		return err
	}

	var backend store.Backend[todo.Task] = store.NewMemory[todo.Task]()
	if e.cfg.APIPersist {
		fb, err := store.NewFile[todo.Task](e.cfg.TasksFile,
			store.WithSchema(store.TaskSchema),
			store.WithLogger(e.logger),
		)
		if err != nil {
			return err
		}
		backend = fb
	}
	tasks, err := todo.NewManager(backend, todo.WithLogger(e.logger))
	if err != nil {
		return err
	}
	defer closeWith(&err, tasks)

	if e.logger.GetLevel() <= log.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := api.NewRouter(api.NewTaskHandler(tasks, e.logger), e.logger)
	srv := api.NewServer(e.cfg.ListenAddr, router, e.logger)
	fmt.Fprintf(e.io.Out, "Serving tasks on %s (persist: %t)\n", e.cfg.ListenAddr, e.cfg.APIPersist)
	return srv.Run(ctx)
}

// tuiCommand launches the terminal viewer.
func tuiCommand(ctx context.Context, e *env, args []string) (err error) {
	fs := e.flagSet("tui")
	start := fs.String("view", "tasks", "Initial view (tasks|habits|calendar)")
	if err := noArgs(fs, args); err != nil {
		return err
	}
	view, err := parseView(*start)
	if err != nil {
		return err
	}

	tasks, err := e.openTasks()
	if err != nil {
		return err
	}
	defer closeWith(&err, tasks)
	habits, err := e.openHabits()
	if err != nil {
		return err
	}
	defer closeWith(&err, habits)

	return ui.RunTUI(ctx, tasks, habits, ui.WithView(view))
}

func parseView(s string) (ui.View, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tasks", "todo":
		return ui.ViewTasks, nil
	case "habits":
		return ui.ViewHabits, nil
	case "calendar":
		return ui.ViewCalendar, nil
	}
	return 0, fmt.Errorf("unknown view %q (expected tasks|habits|calendar)", s)
}

// lsCommand prints tasks and habits without entering a menu. It never writes:
// ids assigned to legacy records are left for the next editing command.
func lsCommand(e *env, args []string) error {
	fs := e.flagSet("ls")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) > 1 {
		return fmt.Errorf("unexpected arguments: %v", rest[1:])
	}
	what := "all"
	if len(rest) == 1 {
		what = rest[0]
	}

	switch what {
	case "all", "tasks", "habits":
	default:
		return fmt.Errorf("unknown list %q (expected tasks|habits)", what)
	}

	if what != "habits" {
		tasks, err := e.openTasks()
		if err != nil {
			return err
		}
		printTasks(e.io.Out, tasks.List())
	}
	if what != "tasks" {
		habits, err := e.openHabits()
		if err != nil {
			return err
		}
		printHabits(e.io.Out, habits.List(), habits.Today())
	}
	return nil
}

func printTasks(w io.Writer, tasks []todo.Task) {
	fmt.Fprintf(w, "Tasks (%d)\n", len(tasks))
	if len(tasks) == 0 {
		fmt.Fprintln(w, "  No tasks to show!")
	}
	for i, t := range tasks {
		status := "[ ]"
		if t.Completed {
			status = "[X]"
		}
		line := fmt.Sprintf("  %d. %s %s", i+1, status, t.Title)
		if t.HasDeadline() {
			line += " (Deadline: " + t.DeadlineOrEmpty() + ")"
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)
}

func printHabits(w io.Writer, habits []habit.Habit, today string) {
	fmt.Fprintf(w, "Habits (%d)\n", len(habits))
	if len(habits) == 0 {
		fmt.Fprintln(w, "  No habits to show!")
	}
	for i, h := range habits {
		mark := "[ ]"
		if h.CompletedOnDate(today) {
			mark = "[X]"
		}
		fmt.Fprintf(w, "  %d. %s %s (Regularity: %s)\n", i+1, mark, h.Title, h.Regularity)
	}
	fmt.Fprintln(w)
}

// doctorCommand checks the configuration and validates both record files.
func doctorCommand(e *env, args []string) error {
	fs := e.flagSet("doctor")
	verbose := fs.Bool("v", false, "Verbose output")
	if err := noArgs(fs, args); err != nil {
		return err
	}

	w := e.io.Out
	fmt.Fprintln(w, "tickoff Doctor")
	fmt.Fprintln(w, "==============")
	fmt.Fprintln(w)

	allOK := true

	fmt.Fprintf(w, "Data directory: %s\n", e.cfg.DataDir)
	if info, err := os.Stat(e.cfg.DataDir); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(w, "  ⚠️  Not found (created on first save)")
		} else {
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if !info.IsDir() {
		fmt.Fprintln(w, "  ❌ Error: not a directory")
		allOK = false
	} else {
		fmt.Fprintln(w, "  ✅ OK")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Config:")
	if files := e.sources.Files; len(files) > 0 {
		for _, f := range files {
			fmt.Fprintf(w, "  ✅ Loaded %s\n", f)
		}
	} else {
		fmt.Fprintln(w, "  ✅ No config file (using defaults)")
	}
	if lvl := strings.ToLower(e.cfg.LogLevel); !knownValue(lvl, "debug", "info", "warn", "warning", "error", "fatal") {
		fmt.Fprintf(w, "  ⚠️  Log level: %s (expected debug|info|warn|error|fatal, using warn)\n", e.cfg.LogLevel)
	}
	if f := strings.ToLower(e.cfg.LogFormat); !knownValue(f, "text", "json", "logfmt") {
		fmt.Fprintf(w, "  ⚠️  Log format: %s (expected text|json|logfmt, using text)\n", e.cfg.LogFormat)
	}
	fmt.Fprintln(w)

	if !checkRecordFile(w, "Tasks file", e.cfg.TasksFile, store.TaskSchema, func(path string) (int, []string, error) {
		return inspect[todo.Task](path, store.TaskSchema, func(t todo.Task) string {
			return fmt.Sprintf("%s (completed: %t)", t.Title, t.Completed)
		})
	}, *verbose) {
		allOK = false
	}
	if !checkRecordFile(w, "Habits file", e.cfg.HabitsFile, store.HabitSchema, func(path string) (int, []string, error) {
		return inspect[habit.Habit](path, store.HabitSchema, func(h habit.Habit) string {
			return fmt.Sprintf("%s (%s, %d completions)", h.Title, h.Regularity, len(h.CompletedOn))
		})
	}, *verbose) {
		allOK = false
	}

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed. tickoff may not function correctly.")
	return errDoctorFailed
}

func knownValue(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// inspect loads path with schema validation and describes each record.
func inspect[T any](path string, schema store.Schema, describe func(T) string) (int, []string, error) {
	backend, err := store.NewFile[T](path, store.WithSchema(schema))
	if err != nil {
		return 0, nil, err
	}
	records, err := backend.Load()
	if err != nil {
		return 0, nil, err
	}
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = describe(r)
	}
	return len(records), lines, nil
}

func checkRecordFile(w io.Writer, label, path string, schema store.Schema, load func(string) (int, []string, error), verbose bool) bool {
	fmt.Fprintf(w, "%s: %s\n", label, path)
	defer fmt.Fprintln(w)

	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		fmt.Fprintln(w, "  ⚠️  Not found (starts empty)")
		return true
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		return false
	case info.IsDir():
		fmt.Fprintln(w, "  ❌ Error: path is a directory")
		return false
	}

	n, lines, err := load(path)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Validation failed (%s): %v\n", schema.Name, err)
		return false
	}
	fmt.Fprintf(w, "  ✅ Valid (%d records)\n", n)
	if verbose {
		for i, l := range lines {
			fmt.Fprintf(w, "    %d. %s\n", i+1, l)
		}
	}
	return true
}

// configCommand prints an example config file, or the effective values.
func configCommand(e *env, args []string) error {
	fs := e.flagSet("config")
	show := fs.Bool("show", false, "Show effective values and where they came from")
	if err := noArgs(fs, args); err != nil {
		return err
	}

	w := e.io.Out
	if !*show {
		fmt.Fprint(w, config.ExampleConfig())
		return nil
	}

	file := e.sources.GetConfigFile()
	if file == "" {
		file = "(none)"
	}
	fmt.Fprintf(w, "config file: %s\n\n", file)

	values := map[string]string{
		"data_dir":       e.cfg.DataDir,
		"tasks_file":     e.cfg.TasksFile,
		"habits_file":    e.cfg.HabitsFile,
		"listen_addr":    e.cfg.ListenAddr,
		"api_persist":    fmt.Sprint(e.cfg.APIPersist),
		"log_level":      e.cfg.LogLevel,
		"log_format":     e.cfg.LogFormat,
		"log_timestamps": fmt.Sprint(e.cfg.LogTimestamps),
		"log_caller":     fmt.Sprint(e.cfg.LogCaller),
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%-15s %-40s (%s)\n", k, values[k], e.sources.Sources[k])
	}
	return nil
}

// versionCommand prints version information.
func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "tickoff version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "tickoff - to-do list and habit tracker")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tickoff [options] <command>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  todo          Interactive to-do menu")
	fmt.Fprintln(w, "  habits        Interactive habit menu")
	fmt.Fprintln(w, "  serve         Serve the task API over HTTP")
	fmt.Fprintln(w, "  tui           Launch terminal viewer")
	fmt.Fprintln(w, "  ls [tasks|habits]  List records")
	fmt.Fprintln(w, "  doctor        Check config and validate record files")
	fmt.Fprintln(w, "  config        Print an example config file")
	fmt.Fprintln(w, "  version       Show version information")
	fmt.Fprintln(w, "  help          Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tui Options (use with 'tui' command):")
	fmt.Fprintln(w, "  -view string")
	fmt.Fprintln(w, "        Initial view (tasks|habits|calendar) (default \"tasks\")")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Doctor Options (use with 'doctor' command):")
	fmt.Fprintln(w, "  -v    List every record")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options (use with 'config' command):")
	fmt.Fprintln(w, "  -show")
	fmt.Fprintln(w, "        Show effective values and where they came from")
}
