// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Used when no database is configured, and in tests.
//
// Characteristics:
//   - Keeps completed-game results in insertion order.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned when a result id is unknown.
var ErrNotFound = errors.New("store: not found")

// Game names used in Result.Game.
const (
	GameNumber = "number"
	GameWord   = "word"
)

// Result is one completed game.
type Result struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"sessionId"`
	Game       string    `json:"game"`    // GameNumber | GameWord
	Outcome    string    `json:"outcome"` // number found or word guessed
	Turns      int       `json:"turns"`   // questions asked
	FinishedAt time.Time `json:"finishedAt"`
}

// Store records completed games. Implementations may be backed by memory
// (this file) or SQLite (sqlite.go).
type Store interface {
	// Save records a completed game.
	Save(ctx context.Context, r Result) error

	// Get retrieves a result by ID.
	Get(ctx context.Context, id string) (Result, error)

	// Recent returns up to limit results, newest first.
	Recent(ctx context.Context, limit int) ([]Result, error)

	// Totals returns the number of completed games per game name.
	Totals(ctx context.Context) (map[string]int, error)
}

const defaultLimit = 20

// memory is an in-memory slice-backed Store implementation.
type memory struct {
	mu      sync.RWMutex // guards results
	results []Result     // oldest first
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{}
}

// Save appends the result. Re-saving the same id is ignored.
func (m *memory) Save(ctx context.Context, r Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, have := range m.results {
		if have.ID == r.ID {
			return nil
		}
	}
	m.results = append(m.results, r)
	return nil
}

// Get looks up a result by ID.
func (m *memory) Get(ctx context.Context, id string) (Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.results {
		if r.ID == id {
			return r, nil
		}
	}
	return Result{}, ErrNotFound
}

// Recent walks the results backwards.
func (m *memory) Recent(ctx context.Context, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Result, 0, limit)
	for i := len(m.results) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.results[i])
	}
	return out, nil
}

// Totals counts results per game.
func (m *memory) Totals(ctx context.Context) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := map[string]int{GameNumber: 0, GameWord: 0}
	for _, r := range m.results {
		out[r.Game]++
	}
	return out, nil
}
