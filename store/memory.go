package store

import "sync"

// Memory is an in-process KeyValueStore for tests and dry runs.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte

	// FailNext, when set, makes the next operation return it and clears
	// the field. Lets tests exercise persistence-failure paths.
	FailNext error
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) fail() error {
	err := m.FailNext
	m.FailNext = nil
	return err
}

func (m *Memory) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailNext != nil {
		return nil, false, m.fail()
	}
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, true, nil
}

func (m *Memory) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailNext != nil {
		return m.fail()
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	m.data[key] = cp
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailNext != nil {
		return m.fail()
	}
	delete(m.data, key)
	return nil
}

func (m *Memory) Close() error { return nil }
