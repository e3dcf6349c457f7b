package domain

import (
	"context"
	"errors"
)

// ErrSlotNotFound is returned by a SlotStore when the key was never written
var ErrSlotNotFound = errors.New("slot not found")

// SlotStore is a key-value substrate holding whole serialized values under
// named slots. Every write replaces the previous value.
type SlotStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
	Close() error
}
