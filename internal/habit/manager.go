package habit

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/nibzard/tickoff/internal/store"
)

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source that decides "today".
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithIDGenerator overrides how new habit ids are produced.
func WithIDGenerator(gen func() string) Option {
	return func(m *Manager) {
		m.newID = gen
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// Manager owns the habit list. It is safe for concurrent use.
type Manager struct {
	mu      sync.Mutex
	backend store.Backend[Habit]
	habits  []Habit
	dirty   bool
	now     func() time.Time
	newID   func() string
	logger  *log.Logger
}

// NewManager loads habits from backend.
func NewManager(backend store.Backend[Habit], opts ...Option) (*Manager, error) {
	m := &Manager{
		backend: backend,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = log.New(io.Discard)
	}

	habits, err := backend.Load()
	if err != nil {
		return nil, fmt.Errorf("load habits: %w", err)
	}
	for i := range habits {
		if habits[i].ID == "" {
			habits[i].ID = m.newID()
			m.dirty = true
		}
		if habits[i].CompletedOn == nil {
			habits[i].CompletedOn = []string{}
		}
	}
	m.habits = habits
	m.logger.Debug("habits loaded", "count", len(habits), "backfilled_ids", m.dirty)
	return m, nil
}

// Add appends a new habit. Invalid regularities are rejected without mutation.
func (m *Manager) Add(title string, r Regularity) (Habit, error) {
	if !r.Valid() {
		return Habit{}, fmt.Errorf("%w: got %q", ErrInvalidRegularity, string(r))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	h := Habit{
		ID:          m.newID(),
		Title:       title,
		Regularity:  r,
		CompletedOn: []string{},
	}
	m.habits = append(m.habits, h)
	if err := m.saveLocked(); err != nil {
		m.habits = m.habits[:len(m.habits)-1]
		return Habit{}, err
	}

	m.logger.Debug("habit added", "id", h.ID, "regularity", r)
	return h.clone(), nil
}

// List returns all habits in creation order.
func (m *Manager) List() []Habit {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Habit, len(m.habits))
	for i, h := range m.habits {
		out[i] = h.clone()
	}
	return out
}

// Len returns the number of habits.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.habits)
}

// Today returns the manager's current local date as YYYY-MM-DD.
func (m *Manager) Today() string {
	return m.now().Local().Format(DateLayout)
}

// MarkCompletedToday records today's date on the habit at a 1-based position.
// It returns false when the position is out of range or today is already
// recorded; neither case writes the file.
func (m *Manager) MarkCompletedToday(position int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if position < 1 || position > len(m.habits) {
		return false, nil
	}
	return m.completeTodayLocked(position - 1)
}

// MarkCompletedTodayByID is MarkCompletedToday addressed by stable id.
func (m *Manager) MarkCompletedTodayByID(id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.habits {
		if m.habits[i].ID == id {
			return m.completeTodayLocked(i)
		}
	}
	return false, nil
}

func (m *Manager) completeTodayLocked(i int) (bool, error) {
	today := m.Today()
	h := &m.habits[i]
	if h.CompletedOnDate(today) {
		return false, nil
	}

	prev := h.CompletedOn
	h.CompletedOn = append(append([]string{}, prev...), today)
	if err := m.saveLocked(); err != nil {
		h.CompletedOn = prev
		return false, err
	}

	m.logger.Debug("habit completed", "id", h.ID, "date", today)
	return true, nil
}

// CompletedForMonth maps each date of the given month to the titles of the
// habits completed on it. Keys are normalised to DateLayout and dates that do
// not parse are skipped.
func (m *Manager) CompletedForMonth(year int, month time.Month) map[string][]string {
	m.mu.Lock()
	defer m.mu.Unlock()

	byDate := make(map[string][]string)
	for _, h := range m.habits {
		for _, raw := range h.CompletedOn {
			d, err := ParseDate(raw)
			if err != nil {
				m.logger.Debug("skipping unparsable completion date", "habit", h.Title, "date", raw)
				continue
			}
			if d.Year() != year || d.Month() != month {
				continue
			}
			key := d.Format(DateLayout)
			byDate[key] = append(byDate[key], h.Title)
		}
	}
	return byDate
}

// Close writes back ids assigned at load time. It is a no-op otherwise.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.dirty {
		return nil
	}
	return m.saveLocked()
}

func (m *Manager) saveLocked() error {
	if err := m.backend.Save(m.habits); err != nil {
		return fmt.Errorf("save habits: %w", err)
	}
	m.dirty = false
	return nil
}
