// Package calendar lays out month grids and marks days with completed habits.
package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Marker is appended to days that have at least one completion.
const Marker = "(✓)"

// cellWidth fits a two-digit day plus Marker.
const cellWidth = 5

// Weekdays are the column headers, Monday first.
var Weekdays = [7]string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

// Week is one row of the grid. Zero means the cell belongs to another month.
type Week [7]int

// MonthGrid returns the weeks of a month, Monday first.
func MonthGrid(year int, month time.Month) []Week {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := DaysIn(year, month)
	offset := (int(first.Weekday()) + 6) % 7

	var weeks []Week
	var w Week
	col := offset
	for d := 1; d <= days; d++ {
		w[col] = d
		col++
		if col == 7 {
			weeks = append(weeks, w)
			w = Week{}
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, w)
	}
	return weeks
}

// DaysIn returns the number of days in a month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DateKey formats a day as YYYY-MM-DD.
func DateKey(year int, month time.Month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
}

// Title returns the heading line, e.g. "Calendar for March 2025".
func Title(year int, month time.Month) string {
	return fmt.Sprintf("Calendar for %s %d", month, year)
}

// Render writes a plain-text month view. Only the presence of an entry in
// completions matters; the titles are not shown.
func Render(w io.Writer, year int, month time.Month, completions map[string][]string) error {
	var b strings.Builder
	b.WriteString(Title(year, month) + "\n")
	for _, line := range lines(year, month, completions, nil) {
		b.WriteString(line + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Styles controls RenderStyled output.
type Styles struct {
	Title     lipgloss.Style
	Header    lipgloss.Style
	Day       lipgloss.Style
	Completed lipgloss.Style
	Today     lipgloss.Style
}

// DefaultStyles returns the styles used by the terminal viewer.
func DefaultStyles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true),
		Header:    lipgloss.NewStyle().Faint(true),
		Day:       lipgloss.NewStyle(),
		Completed: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Today:     lipgloss.NewStyle().Underline(true),
	}
}

// RenderStyled returns the month view with lipgloss styling. today is the day
// of month to highlight, or 0.
func RenderStyled(year int, month time.Month, completions map[string][]string, today int, s Styles) string {
	style := func(day int, done bool, cell string) string {
		st := s.Day
		if done {
			st = s.Completed
		}
		if day == today {
			st = st.Inherit(s.Today)
		}
		return st.Render(cell)
	}

	all := lines(year, month, completions, style)
	var b strings.Builder
	b.WriteString(s.Title.Render(Title(year, month)) + "\n")
	b.WriteString(s.Header.Render(all[0]) + "\n")
	for _, line := range all[1:] {
		b.WriteString(line + "\n")
	}
	return b.String()
}

type cellStyler func(day int, done bool, cell string) string

// lines returns the header row followed by one row per week.
func lines(year int, month time.Month, completions map[string][]string, style cellStyler) []string {
	header := make([]string, len(Weekdays))
	for i, name := range Weekdays {
		header[i] = pad(name)
	}
	out := []string{strings.TrimRight(strings.Join(header, " "), " ")}

	for _, week := range MonthGrid(year, month) {
		cells := make([]string, len(week))
		for i, d := range week {
			if d == 0 {
				cells[i] = strings.Repeat(" ", cellWidth)
				continue
			}
			_, done := completions[DateKey(year, month, d)]
			cell := fmt.Sprintf("%2d", d)
			if done {
				cell += Marker
			}
			cell = pad(cell)
			if style != nil {
				cell = style(d, done, cell)
			}
			cells[i] = cell
		}
		out = append(out, strings.TrimRight(strings.Join(cells, " "), " "))
	}
	return out
}

func pad(s string) string {
	if n := cellWidth - len([]rune(s)); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}
