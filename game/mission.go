package game

import "sync"

// Mission holds puzzle progress read by sentinel gates. It is safe to set
// from outside the simulation goroutine.
type Mission struct {
	mu     sync.RWMutex
	solved bool
}

func (m *Mission) FirstObjectiveSolved() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.solved
}

func (m *Mission) SetFirstObjectiveSolved(v bool) {
	m.mu.Lock()
	m.solved = v
	m.mu.Unlock()
}
