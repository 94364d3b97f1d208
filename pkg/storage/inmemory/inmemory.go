package inmemory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/quillardco/sensei/pkg/storage"
)

// sessionKey scopes turns to a (user, session) pair.
type sessionKey struct {
	userID    string
	sessionID string
}

// Driver implements storage.Driver using an in-memory map.
type Driver struct {
	// mu is a read write sync mutex for locking the turn map
	mu sync.RWMutex

	// turns maps each (user, session) pair to its turns in insertion order
	turns map[sessionKey][]*storage.Turn
}

// NewDriver creates a new in-memory storer.
func NewDriver() *Driver {
	return &Driver{
		turns: make(map[sessionKey][]*storage.Turn),
	}
}

// Append stores a new turn at the end of the session's sequence.
func (s *Driver) Append(_ context.Context, turn *storage.Turn) error {
	if turn == nil {
		return errors.New("cannot store nil turn")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionKey{userID: turn.UserID, sessionID: turn.SessionID}
	s.turns[key] = append(s.turns[key], turn)
	return nil
}

// FetchRecent returns up to limit turns for the session, newest first.
// Ordering is by CreatedAt with insertion order breaking ties, matching the
// append-only contract.
func (s *Driver) FetchRecent(_ context.Context, userID, sessionID string, limit int) ([]*storage.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := sessionKey{userID: userID, sessionID: sessionID}
	session := s.turns[key]

	ordered := make([]*storage.Turn, len(session))
	copy(ordered, session)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	if limit > 0 && len(ordered) > limit {
		ordered = ordered[len(ordered)-limit:]
	}

	// Reverse to newest-first, the store's native ordering.
	recent := make([]*storage.Turn, 0, len(ordered))
	for i := len(ordered) - 1; i >= 0; i-- {
		recent = append(recent, ordered[i])
	}

	return recent, nil
}

// Count returns the total number of turns in the in-memory store.
func (s *Driver) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, session := range s.turns {
		total += len(session)
	}
	return total
}

// Close is a no-op for the in-memory storer.
func (s *Driver) Close() error {
	return nil
}
