// Package memory is a process-local slot store, used for ephemeral runs and tests.
package memory

import (
	"context"
	"sync"

	"github.com/Rrens/legal-assistant/internal/domain"
)

type Store struct {
	mu     sync.RWMutex
	slots  map[string][]byte
	writes int
}

func NewStore() *Store {
	return &Store{slots: make(map[string][]byte)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.slots[key]
	if !ok {
		return nil, domain.ErrSlotNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[key] = append([]byte(nil), value...)
	s.writes++
	return nil
}

// Writes reports how many times Set was called
func (s *Store) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }
