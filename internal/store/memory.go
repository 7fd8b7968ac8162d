// internal/store/memory.go
//
// In-memory implementation of the session Store.
// Sessions are ephemeral: state is lost when the process restarts.
//
// Characteristics:
//   - Stores game.GameState values keyed by ID; callers always get a copy.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Update runs a read-modify-write under the write lock so two guesses on the
//     same session cannot overwrite each other.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/hangman/apps/go-server/internal/game"
)

// ErrNotFound is returned for unknown session IDs.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for game sessions.
type Store interface {
	// Save persists or replaces a session.
	Save(ctx context.Context, s game.GameState) error

	// Get retrieves a session by ID.
	Get(ctx context.Context, id string) (game.GameState, error)

	// Update atomically replaces the session with fn's result.
	// If fn returns an error the stored session is left untouched.
	Update(ctx context.Context, id string, fn func(game.GameState) (game.GameState, error)) (game.GameState, error)

	// Len reports the number of stored sessions.
	Len() int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu    sync.RWMutex              // guards games map
	games map[string]game.GameState // keyed by GameState.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{games: make(map[string]game.GameState)}
}

func (m *memory) Save(ctx context.Context, s game.GameState) error {
	if s.ID == "" {
		return errors.New("store: session without id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[s.ID] = s
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (game.GameState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.games[id]; ok {
		return s, nil
	}
	return game.GameState{}, ErrNotFound
}

func (m *memory) Update(ctx context.Context, id string, fn func(game.GameState) (game.GameState, error)) (game.GameState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.games[id]
	if !ok {
		return game.GameState{}, ErrNotFound
	}
	next, err := fn(cur)
	if err != nil {
		return cur, err
	}
	m.games[id] = next
	return next, nil
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}
