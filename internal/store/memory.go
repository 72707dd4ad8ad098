package store

import "sync"

// Memory is a Backend that lives only as long as the process.
// It stores an encoded snapshot so callers never share slices with it.
type Memory[T any] struct {
	mu   sync.Mutex
	data []byte
}

// NewMemory returns an empty in-memory backend.
func NewMemory[T any]() *Memory[T] {
	return &Memory[T]{}
}

// Load returns the last saved records, or an empty slice.
func (m *Memory[T]) Load() ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data == nil {
		return []T{}, nil
	}
	return decode[T](m.data, nil)
}

// Save replaces the snapshot.
func (m *Memory[T]) Save(records []T) error {
	data, err := encode(records)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.data = data
	m.mu.Unlock()
	return nil
}
