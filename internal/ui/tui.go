// Package ui provides the optional terminal viewer.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/tickoff/internal/calendar"
	"github.com/nibzard/tickoff/internal/habit"
	"github.com/nibzard/tickoff/internal/todo"
)

// View is one tab of the viewer.
type View int

const (
	ViewTasks View = iota
	ViewHabits
	ViewCalendar
)

var viewNames = [...]string{"Tasks", "Habits", "Calendar"}

func (v View) String() string {
	if v < 0 || int(v) >= len(viewNames) {
		return fmt.Sprintf("View(%d)", int(v))
	}
	return viewNames[v]
}

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiModel)

// WithView selects the tab shown first.
func WithView(v View) TUIOption {
	return func(m *tuiModel) {
		m.view = v
	}
}

// WithStyles overrides the calendar styles.
func WithStyles(s calendar.Styles) TUIOption {
	return func(m *tuiModel) {
		m.styles = s
	}
}

// RunTUI starts the viewer over tasks and habits until the user quits or ctx
// is cancelled.
func RunTUI(ctx context.Context, tasks *todo.Manager, habits *habit.Manager, opts ...TUIOption) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(tasks, habits, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}

type tuiModel struct {
	tasks  *todo.Manager
	habits *habit.Manager
	styles calendar.Styles

	view     View
	cursor   [len(viewNames)]int
	month    time.Time // first day of the month shown in the calendar tab
	status   string
	showHelp bool
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	tabStyle      = lipgloss.NewStyle().Padding(0, 1)
	activeTab     = tabStyle.Reverse(true)
	selectedStyle = lipgloss.NewStyle().Bold(true)
	footerStyle   = lipgloss.NewStyle().Faint(true)
)

func newTUIModel(tasks *todo.Manager, habits *habit.Manager, opts ...TUIOption) *tuiModel {
	m := &tuiModel{
		tasks:  tasks,
		habits: habits,
		styles: calendar.DefaultStyles(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.month = m.currentMonth()
	return m
}

// currentMonth is the first day of the habit manager's current month.
func (m *tuiModel) currentMonth() time.Time {
	today, err := time.ParseInLocation(habit.DateLayout, m.habits.Today(), time.Local)
	if err != nil {
		today = time.Now()
	}
	return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.Local)
}

func (m *tuiModel) Init() tea.Cmd {
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "h", "?":
		m.showHelp = !m.showHelp
	case "tab", "right", "l":
		m.switchView(1)
	case "shift+tab", "left":
		m.switchView(-1)
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "enter", " ", "x":
		m.markSelected()
	case "[":
		if m.view == ViewCalendar {
			m.month = m.month.AddDate(0, -1, 0)
		}
	case "]":
		if m.view == ViewCalendar {
			m.month = m.month.AddDate(0, 1, 0)
		}
	case "t":
		m.month = m.currentMonth()
	}
	return m, nil
}

func (m *tuiModel) switchView(delta int) {
	n := len(viewNames)
	m.view = View((int(m.view) + delta + n) % n)
	m.status = ""
}

func (m *tuiModel) rows() int {
	switch m.view {
	case ViewTasks:
		return m.tasks.Len()
	case ViewHabits:
		return m.habits.Len()
	}
	return 0
}

func (m *tuiModel) move(delta int) {
	rows := m.rows()
	if rows == 0 {
		return
	}
	c := m.cursor[m.view] + delta
	if c < 0 {
		c = 0
	}
	if c >= rows {
		c = rows - 1
	}
	m.cursor[m.view] = c
}

// markSelected completes the highlighted row of the current tab.
func (m *tuiModel) markSelected() {
	position := m.cursor[m.view] + 1
	switch m.view {
	case ViewTasks:
		t, ok := m.tasks.Get(position)
		if !ok {
			return
		}
		if _, err := m.tasks.MarkComplete(position); err != nil {
			m.status = "Error: " + err.Error()
			return
		}
		m.status = fmt.Sprintf("Task %q marked as completed", t.Title)
	case ViewHabits:
		done, err := m.habits.MarkCompletedToday(position)
		switch {
		case err != nil:
			m.status = "Error: " + err.Error()
		case done:
			m.status = "Habit marked as completed for today"
		default:
			m.status = "Habit already completed today"
		}
	}
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b)
	writeTabs(&b, m.view)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b)
		return b.String()
	}

	switch m.view {
	case ViewTasks:
		m.writeTasks(&b)
	case ViewHabits:
		m.writeHabits(&b)
	case ViewCalendar:
		m.writeCalendar(&b)
	}

	if m.status != "" {
		b.WriteString(m.status + "\n\n")
	}
	writeFooter(&b)
	return b.String()
}

func writeTitle(b *strings.Builder) {
	title := "tickoff"
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeTabs(b *strings.Builder, current View) {
	tabs := make([]string, len(viewNames))
	for i, name := range viewNames {
		if View(i) == current {
			tabs[i] = activeTab.Render(name)
		} else {
			tabs[i] = tabStyle.Render(name)
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n\n")
}

func (m *tuiModel) writeTasks(b *strings.Builder) {
	tasks := m.tasks.List()
	if len(tasks) == 0 {
		b.WriteString("  No tasks to show!\n\n")
		return
	}
	for i, t := range tasks {
		b.WriteString(m.row(ViewTasks, i, formatTask(i+1, t)) + "\n")
	}
	b.WriteString("\n")
}

func (m *tuiModel) writeHabits(b *strings.Builder) {
	habits := m.habits.List()
	if len(habits) == 0 {
		b.WriteString("  No habits to show!\n\n")
		return
	}
	today := m.habits.Today()
	for i, h := range habits {
		b.WriteString(m.row(ViewHabits, i, formatHabit(i+1, h, today)) + "\n")
	}
	b.WriteString("\n")
}

func (m *tuiModel) writeCalendar(b *strings.Builder) {
	year, month := m.month.Year(), m.month.Month()
	today := 0
	if cur := m.currentMonth(); cur.Year() == year && cur.Month() == month {
		if t, err := time.Parse(habit.DateLayout, m.habits.Today()); err == nil {
			today = t.Day()
		}
	}
	b.WriteString(calendar.RenderStyled(year, month, m.habits.CompletedForMonth(year, month), today, m.styles))
	b.WriteString("\n")
}

func (m *tuiModel) row(v View, i int, line string) string {
	if m.cursor[v] == i {
		return selectedStyle.Render("> " + line)
	}
	return "  " + line
}

func formatTask(position int, t todo.Task) string {
	status := "[ ]"
	if t.Completed {
		status = "[X]"
	}
	line := fmt.Sprintf("%d. %s %s", position, status, t.Title)
	if t.HasDeadline() {
		line += " (Deadline: " + t.DeadlineOrEmpty() + ")"
	}
	return line
}

func formatHabit(position int, h habit.Habit, today string) string {
	mark := "[ ]"
	if h.CompletedOnDate(today) {
		mark = "[X]"
	}
	return fmt.Sprintf("%d. %s %s (Regularity: %s, done %d times)", position, mark, h.Title, h.Regularity, len(h.CompletedOn))
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c        Quit\n")
	b.WriteString("  tab, shift+tab   Switch view\n")
	b.WriteString("  up/k, down/j     Move selection\n")
	b.WriteString("  enter, space     Mark selected task or habit\n")
	b.WriteString("  [ ]              Previous / next month\n")
	b.WriteString("  t                Back to the current month\n")
	b.WriteString("  h, ?             Toggle this help screen\n\n")
}

func writeFooter(b *strings.Builder) {
	b.WriteString(footerStyle.Render("Press h for help | tab to switch | q to quit") + "\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
