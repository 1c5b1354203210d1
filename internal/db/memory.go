package db

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/uzzielperez/ChamiNexT-sub000/internal/types"
)

// MemoryStore keeps encoded sessions in process memory.
// Stored documents are copies, so callers cannot mutate what was saved.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
}

type memoryEntry struct {
	userID string
	data   []byte
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]memoryEntry)}
}

// Save stores s, replacing any previous session with the same id
func (m *MemoryStore) Save(_ context.Context, s *types.Session) error {
	data, err := encodeSession(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.sessions[s.ID] = memoryEntry{userID: s.UserID, data: data}
	m.mu.Unlock()
	return nil
}

// Get loads the session with the given id
func (m *MemoryStore) Get(_ context.Context, id string) (*types.Session, error) {
	m.mu.RLock()
	entry, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return decodeSession(entry.data)
}

// ListByUser returns the user's sessions, most recently updated first
func (m *MemoryStore) ListByUser(_ context.Context, userID string) ([]*types.Session, error) {
	m.mu.RLock()
	var docs [][]byte
	for _, entry := range m.sessions {
		if entry.userID == userID {
			docs = append(docs, entry.data)
		}
	}
	m.mu.RUnlock()

	out := make([]*types.Session, 0, len(docs))
	for _, data := range docs {
		s, err := decodeSession(data)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	sortByUpdated(out)
	return out, nil
}

// Delete removes the session with the given id
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(m.sessions, id)
	return nil
}

// Close is a no-op
func (m *MemoryStore) Close() error {
	return nil
}

func sortByUpdated(sessions []*types.Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		if sessions[i].UpdatedAt.Equal(sessions[j].UpdatedAt) {
			return sessions[i].ID < sessions[j].ID
		}
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
}
