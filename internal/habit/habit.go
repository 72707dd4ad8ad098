// Package habit tracks recurring habits and the days they were done.
package habit

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the format of completion dates.
const DateLayout = "2006-01-02"

// ParseDate reads a completion date. Hand-edited files may drop the zero
// padding, so 2025-3-5 is accepted as well.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err == nil {
		return d, nil
	}
	if d, lerr := time.Parse("2006-1-2", s); lerr == nil {
		return d, nil
	}
	return time.Time{}, err
}

// Regularity is a descriptive cadence tag. It is never used for scheduling.
type Regularity string

const (
	Daily   Regularity = "daily"
	Weekly  Regularity = "weekly"
	Monthly Regularity = "monthly"
)

// Regularities lists the accepted values in display order.
var Regularities = []Regularity{Daily, Weekly, Monthly}

// ErrInvalidRegularity is returned for cadences other than daily, weekly or monthly.
var ErrInvalidRegularity = errors.New("regularity must be 'daily', 'weekly', or 'monthly'")

// ParseRegularity normalizes user input (case and surrounding space).
func ParseRegularity(s string) (Regularity, error) {
	r := Regularity(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: got %q", ErrInvalidRegularity, s)
	}
	return r, nil
}

// Valid reports whether r is one of the known cadences.
func (r Regularity) Valid() bool {
	switch r {
	case Daily, Weekly, Monthly:
		return true
	}
	return false
}

// Habit is a tracked habit and its completion log.
type Habit struct {
	ID          string     `json:"id,omitempty"`
	Title       string     `json:"title"`
	Regularity  Regularity `json:"regularity"`
	CompletedOn []string   `json:"completed_on"`
}

// CompletedOnDate reports whether date (YYYY-MM-DD) is in the log.
func (h Habit) CompletedOnDate(date string) bool {
	for _, d := range h.CompletedOn {
		if d == date {
			return true
		}
	}
	return false
}

func (h Habit) clone() Habit {
	h.CompletedOn = append([]string{}, h.CompletedOn...)
	return h
}
