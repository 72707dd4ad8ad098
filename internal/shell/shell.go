// Package shell implements the numbered-menu prompts for tasks and habits.
//
// Each shell reads one line per prompt from an io.Reader and writes menu text
// to an io.Writer, so the loops can be driven from tests. A shell ends on its
// exit choice or when input runs out.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// Messages shared by both shells.
const (
	msgInvalidChoice = "Invalid choice, please try again!"
	msgInvalidNumber = "Please enter a valid number!"
	msgGoodbye       = "Goodbye!"
	promptChoice     = "Enter your choice: "
)

// Option configures a shell.
type Option func(*session)

// WithLogger sets the logger used for diagnostics. Menu text never goes
// through it.
func WithLogger(logger *log.Logger) Option {
	return func(s *session) {
		s.logger = logger
	}
}

// session is the line-oriented terminal both shells share.
type session struct {
	in     *bufio.Scanner
	out    io.Writer
	logger *log.Logger

	ctx     context.Context
	lines   chan string
	stop    chan struct{}
	readErr error // set before lines is closed
}

func newSession(in io.Reader, out io.Writer, opts []Option) *session {
	s := &session{
		in:  bufio.NewScanner(in),
		out: out,
		ctx: context.Background(),
	}
	// Titles have no length limit.
	s.in.Buffer(make([]byte, 0, 64*1024), math.MaxInt)
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	return s
}

// start feeds input lines to s.lines until input ends or stop is closed.
func (s *session) start(ctx context.Context) {
	s.ctx = ctx
	s.lines = make(chan string)
	s.stop = make(chan struct{})
	go func() {
		defer close(s.lines)
		for s.in.Scan() {
			select {
			case s.lines <- strings.TrimRight(s.in.Text(), "\r"):
			case <-s.stop:
				return
			}
		}
		s.readErr = s.in.Err()
	}()
}

// ask prints label and reads one line. ok is false once input is exhausted
// or the context is done.
func (s *session) ask(label string) (line string, ok bool) {
	fmt.Fprint(s.out, label)
	select {
	case line, ok = <-s.lines:
	case <-s.ctx.Done():
	}
	if !ok {
		fmt.Fprintln(s.out)
	}
	return line, ok
}

// askNumber reads an integer. valid is false when the line is not a number,
// in which case the invalid-number message has already been printed.
func (s *session) askNumber(label string) (n int, valid, ok bool) {
	line, ok := s.ask(label)
	if !ok {
		return 0, false, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		s.println(msgInvalidNumber)
		s.println()
		return 0, false, true
	}
	return n, true, true
}

func (s *session) println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

func (s *session) printf(format string, a ...any) {
	fmt.Fprintf(s.out, format, a...)
}

// reportError prints a storage failure and keeps the loop alive.
func (s *session) reportError(err error) {
	s.logger.Error("operation failed", "err", err)
	s.printf("Error: %v\n\n", err)
}

// menu is one numbered entry of a shell.
type menu struct {
	label  string
	action func() // nil marks the exit entry
}

// loop shows items until the exit entry is chosen, input ends or ctx is done.
func (s *session) loop(ctx context.Context, items []menu) error {
	s.start(ctx)
	defer close(s.stop)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		for i, item := range items {
			s.printf("%d. %s\n", i+1, item.label)
		}
		choice, ok := s.ask(promptChoice)
		if !ok {
			if err := ctx.Err(); err != nil {
				return err
			}
			return s.readErr
		}

		n, err := strconv.Atoi(strings.TrimSpace(choice))
		if err != nil || n < 1 || n > len(items) {
			s.println(msgInvalidChoice)
			s.println()
			continue
		}
		item := items[n-1]
		if item.action == nil {
			s.println(msgGoodbye)
			return nil
		}
		item.action()
	}
}
