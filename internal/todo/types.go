package todo

import "time"

// TimestampLayout is the created_at format.
const TimestampLayout = "2006-01-02 15:04:05.000000"

// Task represents a single to-do item.
type Task struct {
	ID        string  `json:"id,omitempty"`
	Title     string  `json:"title"`
	Completed bool    `json:"completed"`
	CreatedAt string  `json:"created_at"`
	Deadline  *string `json:"deadline"`
}

// HasDeadline reports whether a non-empty deadline is set.
func (t Task) HasDeadline() bool {
	return t.Deadline != nil && *t.Deadline != ""
}

// DeadlineOrEmpty returns the deadline or "".
func (t Task) DeadlineOrEmpty() string {
	if t.Deadline == nil {
		return ""
	}
	return *t.Deadline
}

// Created parses CreatedAt. It accepts TimestampLayout and RFC 3339.
func (t Task) Created() (time.Time, bool) {
	for _, layout := range []string{TimestampLayout, time.RFC3339Nano} {
		if ts, err := time.ParseInLocation(layout, t.CreatedAt, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
