// Package storage
package storage

import (
	"context"
	"time"
)

// Turn is one persisted user/assistant exchange within a session.
// Turns are append-only: once written they are never updated or deleted.
// AssistantRaw holds the model output exactly as the provider returned it,
// so future context windows replay what the model actually said rather than
// a re-serialized classification of it.
type Turn struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	SessionID    string    `json:"sessionId"`
	UserInput    string    `json:"userInput"`
	AssistantRaw string    `json:"assistantRaw"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Driver defines the interface for persisting and retrieving conversation
// turns in a storage backend. Within a (user, session) pair turns are totally
// ordered by CreatedAt, ties broken by insertion order.
type Driver interface {
	// FetchRecent returns up to limit turns for the (user, session) pair,
	// newest first.
	FetchRecent(ctx context.Context, userID, sessionID string, limit int) ([]*Turn, error)

	// Append stores a new turn.
	Append(ctx context.Context, turn *Turn) error

	// Close closes the store and releases any resources.
	Close() error
}
