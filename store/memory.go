package store

import "sync"

// Memory is an in-memory store for tests.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
	locked map[string]bool
	reads  int
	writes int
}

func NewMemory() *Memory {
	return &Memory{
		values: make(map[string]string),
		locked: make(map[string]bool),
	}
}

// Set stores a value without counting it as a write.
func (m *Memory) Set(env, value string) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[env] = value
	return m
}

func (m *Memory) Read(env string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	v, ok := m.values[env]
	return v, ok, nil
}

func (m *Memory) Write(env, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	m.values[env] = value
	return nil
}

func (m *Memory) Lock(env string) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locked[env] {
		return nil, ErrLocked
	}
	m.locked[env] = true
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.locked, env)
	}, nil
}

func (m *Memory) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
