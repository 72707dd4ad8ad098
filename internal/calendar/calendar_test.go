package calendar

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestMonthGrid(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     time.Month
		weeks     int
		firstWeek Week
		lastWeek  Week
	}{
		{
			name:      "starts on Wednesday",
			year:      2025,
			month:     time.January,
			weeks:     5,
			firstWeek: Week{0, 0, 1, 2, 3, 4, 5},
			lastWeek:  Week{27, 28, 29, 30, 31, 0, 0},
		},
		{
			name:      "starts on Monday",
			year:      2025,
			month:     time.September,
			weeks:     5,
			firstWeek: Week{1, 2, 3, 4, 5, 6, 7},
			lastWeek:  Week{29, 30, 0, 0, 0, 0, 0},
		},
		{
			name:      "starts on Sunday needs six rows",
			year:      2025,
			month:     time.June,
			weeks:     6,
			firstWeek: Week{0, 0, 0, 0, 0, 0, 1},
			lastWeek:  Week{30, 0, 0, 0, 0, 0, 0},
		},
		{
			name:      "february fitting four rows",
			year:      2021,
			month:     time.February,
			weeks:     4,
			firstWeek: Week{1, 2, 3, 4, 5, 6, 7},
			lastWeek:  Week{22, 23, 24, 25, 26, 27, 28},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := MonthGrid(tt.year, tt.month)
			if len(grid) != tt.weeks {
				t.Fatalf("weeks: got %d, want %d", len(grid), tt.weeks)
			}
			if diff := cmp.Diff(tt.firstWeek, grid[0]); diff != "" {
				t.Errorf("first week (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.lastWeek, grid[len(grid)-1]); diff != "" {
				t.Errorf("last week (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMonthGridCoversEveryDay(t *testing.T) {
	for year := 1999; year <= 2001; year++ {
		for month := time.January; month <= time.December; month++ {
			seen := 0
			for _, w := range MonthGrid(year, month) {
				for _, d := range w {
					if d != 0 {
						seen++
						if d != seen {
							t.Fatalf("%d-%02d: day %d out of order", year, month, d)
						}
					}
				}
			}
			if seen != DaysIn(year, month) {
				t.Errorf("%d-%02d: saw %d days, want %d", year, month, seen, DaysIn(year, month))
			}
		}
	}
}

func TestDaysIn(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 29},
		{2025, time.February, 28},
		{1900, time.February, 28},
		{2000, time.February, 29},
		{2025, time.April, 30},
		{2025, time.December, 31},
	}
	for _, tt := range tests {
		if got := DaysIn(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysIn(%d, %s): got %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestDateKey(t *testing.T) {
	if got := DateKey(2025, time.March, 5); got != "2025-03-05" {
		t.Errorf("DateKey: got %q", got)
	}
}

func TestRender(t *testing.T) {
	completions := map[string][]string{
		"2025-01-05": {"Run", "Read"},
		"2025-02-01": {"Run"},
	}

	var buf bytes.Buffer
	if err := Render(&buf, 2025, time.January, completions); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")

	if lines[0] != "Calendar for January 2025" {
		t.Errorf("title: got %q", lines[0])
	}
	if lines[1] != "Mo    Tu    We    Th    Fr    Sa    Su" {
		t.Errorf("header: got %q", lines[1])
	}
	wantFirst := "             1     2     3     4     5(✓)"
	if lines[2] != wantFirst {
		t.Errorf("first week:\n got %q\nwant %q", lines[2], wantFirst)
	}

	// Day 1 sits under the Wednesday column.
	if col, want := strings.Index(lines[2], " 1"), strings.Index(lines[1], "We"); col != want {
		t.Errorf("day 1 column: got %d, want %d", col, want)
	}

	if n := strings.Count(buf.String(), Marker); n != 1 {
		t.Errorf("markers: got %d, want 1", n)
	}
	if strings.Contains(buf.String(), "Run") {
		t.Error("habit titles should not be rendered")
	}
	if len(lines) != 2+5 {
		t.Errorf("lines: got %d, want 7", len(lines))
	}
}

func TestRenderStyled(t *testing.T) {
	completions := map[string][]string{"2025-01-05": {"Run"}}

	out := RenderStyled(2025, time.January, completions, 5, DefaultStyles())
	if !strings.Contains(out, "Calendar for January 2025") {
		t.Errorf("missing title:\n%s", out)
	}
	if !strings.Contains(out, " 5(✓)") {
		t.Errorf("missing marker:\n%s", out)
	}
	if !strings.Contains(out, "31") {
		t.Errorf("missing last day:\n%s", out)
	}
}
