package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rrens/legal-assistant/internal/domain"
	"github.com/redis/go-redis/v9"
)

const slotPrefix = "legal-assistant:slot:"

// SlotStore keeps slots as plain Redis strings without expiry
type SlotStore struct {
	client *Client
}

// NewSlotStore creates a slot store on top of client
func NewSlotStore(client *Client) *SlotStore {
	return &SlotStore{client: client}
}

func (s *SlotStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.rdb.Get(ctx, slotPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot %q: %w", key, err)
	}
	return data, nil
}

func (s *SlotStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.rdb.Set(ctx, slotPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write slot %q: %w", key, err)
	}
	return nil
}

func (s *SlotStore) Ping(ctx context.Context) error {
	return s.client.rdb.Ping(ctx).Err()
}

func (s *SlotStore) Close() error {
	return s.client.Close()
}
