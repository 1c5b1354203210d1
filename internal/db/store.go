// Package db persists CV optimization sessions. Sessions are stored whole as
// JSON documents validated against the session schema; the last write wins.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/uzzielperez/ChamiNexT-sub000/internal/schemas"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/types"
	schemafiles "github.com/uzzielperez/ChamiNexT-sub000/schemas"
)

// ErrSessionNotFound is returned when no session has the requested id
var ErrSessionNotFound = errors.New("session not found")

// Store kinds accepted by Open
const (
	KindMemory   = "memory"
	KindPostgres = "postgres"
	KindRedis    = "redis"
)

// SessionStore saves and loads sessions
type SessionStore interface {
	Save(ctx context.Context, s *types.Session) error
	Get(ctx context.Context, id string) (*types.Session, error)
	ListByUser(ctx context.Context, userID string) ([]*types.Session, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// Open connects to the store of the given kind. dsn is ignored for the memory store.
func Open(ctx context.Context, kind, dsn string, ttl time.Duration) (SessionStore, error) {
	switch kind {
	case "", KindMemory:
		return NewMemoryStore(), nil
	case KindPostgres:
		return Connect(ctx, dsn)
	case KindRedis:
		return NewRedisStore(ctx, dsn, ttl)
	default:
		return nil, fmt.Errorf("unknown session store %q", kind)
	}
}

// encodeSession marshals s and checks it against the session schema
func encodeSession(s *types.Session) ([]byte, error) {
	if s == nil || s.ID == "" {
		return nil, fmt.Errorf("session must have an id")
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := schemas.Validate(schemafiles.Session, data); err != nil {
		return nil, fmt.Errorf("session %s is not valid: %w", s.ID, err)
	}
	return data, nil
}

// decodeSession validates a stored document and unmarshals it
func decodeSession(data []byte) (*types.Session, error) {
	if err := schemas.Validate(schemafiles.Session, data); err != nil {
		return nil, fmt.Errorf("stored session is not valid: %w", err)
	}
	var s types.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}
