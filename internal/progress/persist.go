package progress

import (
	"context"
	"fmt"
	"log/slog"
)

// SlotKey is the storage slot holding the snapshot.
const SlotKey = "tuilees.progress"

// Backend is a flat key-value slot store.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Save writes the state's snapshot to the slot.
func Save(ctx context.Context, b Backend, s *State) error {
	data, err := Encode(s)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := b.Put(ctx, SlotKey, data); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Load reads the state from the slot. A missing slot yields defaults; read
// and decode failures are logged and also yield defaults.
func Load(ctx context.Context, b Backend, logger *slog.Logger) *State {
	if logger == nil {
		logger = slog.Default()
	}
	data, ok, err := b.Get(ctx, SlotKey)
	if err != nil {
		logger.Warn("failed to read snapshot, starting fresh", "key", SlotKey, "err", err)
		return NewState()
	}
	if !ok {
		return NewState()
	}
	s, err := Decode(data)
	if err != nil {
		logger.Warn("failed to parse snapshot, starting fresh", "key", SlotKey, "err", err)
		return NewState()
	}
	return s
}

// Reset clears the slot and returns the defaults.
func Reset(ctx context.Context, b Backend) (*State, error) {
	if err := b.Delete(ctx, SlotKey); err != nil {
		return nil, fmt.Errorf("failed to clear snapshot: %w", err)
	}
	return NewState(), nil
}
