package todo

import "sync"

// Store caches the task list most recently returned by the backend.
// It is replaced wholesale on every reload and never patched locally.
type Store struct {
	mu         sync.RWMutex
	tasks      []Task
	generation uint64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Set replaces the cached collection.
func (s *Store) Set(tasks []Task) {
	cp := make([]Task, len(tasks))
	copy(cp, tasks)

	s.mu.Lock()
	s.tasks = cp
	s.generation++
	s.mu.Unlock()
}

// Find returns the task with the given ID.
func (s *Store) Find(id ID) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return s.tasks[i], true
		}
	}
	return Task{}, false
}

// All returns a copy of the cached tasks in server order.
func (s *Store) All() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make([]Task, len(s.tasks))
	copy(cp, s.tasks)
	return cp
}

// Len returns the number of cached tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Generation counts how many times Set has been called.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}
