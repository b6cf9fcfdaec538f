// Package stats tracks the lifetime games-played counter consumed by the
// stat page. Sessions that finish on gameplay terms are recorded; pairing
// state itself is never persisted.
package stats

import (
	"context"
	"sync/atomic"
)

// Store is the counter's persistence interface.
type Store interface {
	IncrementGamesPlayed(ctx context.Context) error
	GamesPlayed(ctx context.Context) (int64, error)
}

// MemoryStore is the default Store when no database is configured. The
// count resets with the process.
type MemoryStore struct {
	games atomic.Int64
}

// NewMemoryStore returns an empty in-process counter.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) IncrementGamesPlayed(ctx context.Context) error {
	m.games.Add(1)
	return nil
}

func (m *MemoryStore) GamesPlayed(ctx context.Context) (int64, error) {
	return m.games.Load(), nil
}
