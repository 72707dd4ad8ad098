package shell

import (
	"context"
	"io"
	"time"

	"github.com/nibzard/tickoff/internal/calendar"
	"github.com/nibzard/tickoff/internal/habit"
)

// Habits is the interactive habit menu.
type Habits struct {
	s      *session
	habits *habit.Manager
}

// NewHabits returns a habit shell reading from in and writing to out.
func NewHabits(habits *habit.Manager, in io.Reader, out io.Writer, opts ...Option) *Habits {
	return &Habits{s: newSession(in, out, opts), habits: habits}
}

// Run shows the menu until the user exits or input ends.
func (h *Habits) Run(ctx context.Context) error {
	return h.s.loop(ctx, []menu{
		{"Add Habit", h.add},
		{"View Habits", h.view},
		{"Mark Habit as Completed for Today", h.complete},
		{"View Calendar", h.calendar},
		{"Exit", nil},
	})
}

func (h *Habits) add() {
	title, ok := h.s.ask("Enter habit title: ")
	if !ok {
		return
	}
	raw, ok := h.s.ask("Enter habit regularity (daily, weekly, monthly): ")
	if !ok {
		return
	}
	r, err := habit.ParseRegularity(raw)
	if err != nil {
		h.s.println("Invalid regularity! Habit must be 'daily', 'weekly', or 'monthly'.")
		h.s.println()
		return
	}
	if _, err := h.habits.Add(title, r); err != nil {
		h.s.reportError(err)
		return
	}
	h.s.println("Habit added successfully!")
	h.s.println()
}

func (h *Habits) view() {
	habits := h.habits.List()
	if len(habits) == 0 {
		h.s.println("No habits to show!")
		h.s.println()
		return
	}

	h.s.println()
	h.s.println("Your Habits:")
	for i, hb := range habits {
		h.s.printf("%d. %s (Regularity: %s)\n", i+1, hb.Title, hb.Regularity)
	}
	h.s.println()
}

func (h *Habits) complete() {
	h.view()
	n, valid, ok := h.s.askNumber("Enter habit number to mark as completed for today: ")
	if !ok || !valid {
		return
	}
	done, err := h.habits.MarkCompletedToday(n)
	switch {
	case err != nil:
		h.s.reportError(err)
	case done:
		h.s.println("Habit marked as completed for today!")
		h.s.println()
	default:
		h.s.println("Invalid habit number or habit already completed today!")
		h.s.println()
	}
}

// calendar prints the month that contains the manager's today.
func (h *Habits) calendar() {
	today, err := time.ParseInLocation(habit.DateLayout, h.habits.Today(), time.Local)
	if err != nil {
		h.s.reportError(err)
		return
	}
	year, month := today.Year(), today.Month()

	h.s.println()
	if err := calendar.Render(h.s.out, year, month, h.habits.CompletedForMonth(year, month)); err != nil {
		h.s.reportError(err)
		return
	}
	h.s.println()
}
