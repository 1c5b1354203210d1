package db

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uzzielperez/ChamiNexT-sub000/internal/analysis"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/session"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/types"
)

const testJob = "Senior React Developer. Requirements: 5+ years experience with React, TypeScript, and Node.js."

var sessionSeq atomic.Int64

// newTestSession builds a session with a unique id prefix so integration runs do not collide
func newTestSession(t *testing.T, userID string, at time.Time) *types.Session {
	t.Helper()
	n := 0
	prefix := fmt.Sprintf("test-%d-%d", time.Now().UnixNano(), sessionSeq.Add(1))
	ids := func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
	m := session.NewManager(session.WithClock(func() time.Time { return at }), session.WithIDGenerator(ids))
	jd := analysis.NewAnalyzer(analysis.WithClock(func() time.Time { return at }), analysis.WithIDGenerator(ids)).Analyze(testJob)
	s := m.CreateSession(userID, jd, "I am a developer with some Java experience.")
	return m.ApplySuggestion(s, types.Suggestion{
		ID:            "sug-1",
		Type:          types.SuggestionKeyword,
		Section:       types.SectionSkills,
		SuggestedText: "React",
		Priority:      types.PriorityHigh,
		Confidence:    0.7,
	})
}

// exerciseStore runs the behavior every SessionStore must share
func exerciseStore(t *testing.T, store SessionStore) {
	ctx := context.Background()
	user := fmt.Sprintf("user-%d", time.Now().UnixNano())
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	older := newTestSession(t, user, base)
	newer := newTestSession(t, user, base.Add(time.Hour))

	t.Run("save and get", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, older))

		got, err := store.Get(ctx, older.ID)
		require.NoError(t, err)
		assert.Equal(t, older.ID, got.ID)
		assert.Equal(t, older.CurrentCV.Content, got.CurrentCV.Content)
		assert.Equal(t, 2, got.CurrentCV.Version)
		assert.Len(t, got.Versions, 2)
		assert.True(t, older.UpdatedAt.Equal(got.UpdatedAt))
	})

	t.Run("last write wins", func(t *testing.T) {
		updated := *older
		updated.Status = types.StatusPaused
		require.NoError(t, store.Save(ctx, &updated))

		got, err := store.Get(ctx, older.ID)
		require.NoError(t, err)
		assert.Equal(t, types.StatusPaused, got.Status)
	})

	t.Run("list by user newest first", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, newer))

		list, err := store.ListByUser(ctx, user)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, newer.ID, list[0].ID)
		assert.Equal(t, older.ID, list[1].ID)

		none, err := store.ListByUser(ctx, user+"-nobody")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := store.Get(ctx, "does-not-exist")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, older.ID))
		require.NoError(t, store.Delete(ctx, newer.ID))

		_, err := store.Get(ctx, older.ID)
		assert.ErrorIs(t, err, ErrSessionNotFound)
		assert.ErrorIs(t, store.Delete(ctx, older.ID), ErrSessionNotFound)

		list, err := store.ListByUser(ctx, user)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	s := newTestSession(t, "user-1", time.Now().UTC())
	require.NoError(t, store.Save(ctx, s))

	s.CurrentCV.Content = "mutated after save"
	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated after save", got.CurrentCV.Content)

	got.Versions[0].Content = "mutated after get"
	again, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated after get", again.Versions[0].Content)
}

func TestEncodeSession_Invalid(t *testing.T) {
	_, err := encodeSession(nil)
	assert.Error(t, err)

	s := newTestSession(t, "user-1", time.Now().UTC())
	s.Status = "archived"
	_, err = encodeSession(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid")

	s = newTestSession(t, "user-1", time.Now().UTC())
	s.Versions = nil
	_, err = encodeSession(s)
	assert.Error(t, err)
}

func TestDecodeSession_Invalid(t *testing.T) {
	_, err := decodeSession([]byte(`{"id": "x"}`))
	assert.Error(t, err)

	_, err = decodeSession([]byte(`not json`))
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	store, err := Open(context.Background(), KindMemory, "", 0)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)
	assert.NoError(t, store.Close())

	store, err = Open(context.Background(), "", "", 0)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	_, err = Open(context.Background(), "sqlite", "", 0)
	assert.Error(t, err)
}
