package store

import (
	"context"
	"sync"

	"github.com/verte-zerg/tuilees/internal/model"
)

// Memory is an in-process slot store and history, used by tests.
type Memory struct {
	mu    sync.Mutex
	slots map[string][]byte
	runs  []model.BlockRun
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{slots: map[string][]byte{}}
}

// Get returns the value stored under key.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.slots[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Put replaces the value stored under key.
func (m *Memory) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes key.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, key)
	return nil
}

// InsertBlockRun appends a run.
func (m *Memory) InsertBlockRun(_ context.Context, run model.BlockRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return nil
}

// ClearBlockRuns forgets all runs.
func (m *Memory) ClearBlockRuns(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = nil
	return nil
}

// ListBlockRuns returns runs in insertion order, filtered like Store.ListBlockRuns.
func (m *Memory) ListBlockRuns(_ context.Context, cfg model.StatsConfig) ([]model.BlockRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.BlockRun
	for _, run := range m.runs {
		if cfg.Day > 0 && run.Day != cfg.Day-1 {
			continue
		}
		if cfg.Since != nil && run.EndedAt.Before(*cfg.Since) {
			continue
		}
		out = append(out, run)
	}
	if cfg.Last > 0 && len(out) > cfg.Last {
		out = out[len(out)-cfg.Last:]
	}
	return out, nil
}
