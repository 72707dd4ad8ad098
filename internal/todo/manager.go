package todo

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

// WithClock overrides the time source used for created_at.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithIDGenerator overrides how new task ids are produced.
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

// Manager owns the task list. It is safe for concurrent use.
type Manager struct {
	mu      sync.Mutex
	backend store.Backend[Task]
	tasks   []Task
	dirty   bool
	now     func() time.Time
	newID   func() string
	logger  *log.Logger
}

// NewManager loads tasks from backend.
func NewManager(backend store.Backend[Task], opts ...Option) (*Manager, error) {
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

	tasks, err := backend.Load()
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	for i := range tasks {
		if tasks[i].ID == "" {
			tasks[i].ID = m.newID()
			m.dirty = true
		}
	}
	m.tasks = tasks
	m.logger.Debug("tasks loaded", "count", len(tasks), "backfilled_ids", m.dirty)
	return m, nil
}

// Add appends a new incomplete task. An empty deadline is stored as null.
func (m *Manager) Add(title, deadline string) (Task, error) {
	return m.AddTask(Task{Title: title, Deadline: optionalString(deadline)})
}

// AddTask appends t, filling id and created_at. Completed is kept as given.
func (m *Manager) AddTask(t Task) (Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t.ID = m.newID()
	if t.CreatedAt == "" {
		t.CreatedAt = m.now().Format(TimestampLayout)
	}

	m.tasks = append(m.tasks, t)
	if err := m.saveLocked(); err != nil {
		m.tasks = m.tasks[:len(m.tasks)-1]
		return Task{}, err
	}

	m.logger.Debug("task added", "id", t.ID, "position", len(m.tasks))
	return t, nil
}

// List returns all tasks in creation order.
func (m *Manager) List() []Task {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Task, len(m.tasks))
	copy(out, m.tasks)
	return out
}

// Len returns the number of tasks.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// Get returns the task at a 1-based position.
func (m *Manager) Get(position int) (Task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if position < 1 || position > len(m.tasks) {
		return Task{}, false
	}
	return m.tasks[position-1], true
}

// MarkComplete marks the task at a 1-based position as completed.
// It returns false without touching anything when position is out of range.
// Marking an already completed task succeeds and rewrites the file.
func (m *Manager) MarkComplete(position int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if position < 1 || position > len(m.tasks) {
		return false, nil
	}
	return m.completeLocked(position - 1)
}

// MarkCompleteByID marks the task with the given id as completed.
func (m *Manager) MarkCompleteByID(id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.tasks {
		if m.tasks[i].ID == id {
			return m.completeLocked(i)
		}
	}
	return false, nil
}

func (m *Manager) completeLocked(i int) (bool, error) {
	prev := m.tasks[i].Completed
	m.tasks[i].Completed = true
	if err := m.saveLocked(); err != nil {
		m.tasks[i].Completed = prev
		return false, err
	}
	m.logger.Debug("task completed", "id", m.tasks[i].ID, "position", i+1)
	return true, nil
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
	if err := m.backend.Save(m.tasks); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	m.dirty = false
	return nil
}
