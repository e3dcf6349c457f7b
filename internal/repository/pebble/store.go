package pebble

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rrens/legal-assistant/internal/domain"
	"github.com/cockroachdb/pebble"
	"github.com/rs/zerolog/log"
)

const slotPrefix = "slot:"

// Store keeps slots in an embedded Pebble database
type Store struct {
	db   *pebble.DB
	path string
}

// NewStore opens (or creates) a Pebble database at dir
func NewStore(dir string) (*Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble at %s: %w", dir, err)
	}
	log.Info().Str("path", dir).Msg("Pebble store opened")
	return &Store{db: db, path: dir}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	value, closer, err := s.db.Get([]byte(slotPrefix + key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, domain.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot %q: %w", key, err)
	}
	defer closer.Close()

	// value is only valid until closer is closed
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	if err := s.db.Set([]byte(slotPrefix+key), value, pebble.Sync); err != nil {
		return fmt.Errorf("failed to write slot %q: %w", key, err)
	}
	return nil
}

func (s *Store) Ping(_ context.Context) error {
	if s.db == nil {
		return errors.New("pebble store is closed")
	}
	return nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
