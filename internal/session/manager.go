// Package session owns the lifecycle of a CV optimization session: versions,
// suggestions, chat history and before/after comparisons.
//
// Every operation is an immutable update: it returns a new *types.Session and never
// modifies the session passed in. Callers serialize concurrent edits to the same session.
package session

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/editing"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/scoring"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/types"
)

// Manager builds and updates sessions
type Manager struct {
	now   func() time.Time
	newID func() string
}

// Option customizes a Manager
type Option func(*Manager)

// WithClock overrides the timestamp source
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator overrides the id source for sessions, versions and messages
func WithIDGenerator(newID func() string) Option {
	return func(m *Manager) { m.newID = newID }
}

// NewManager creates a Manager using the wall clock and random UUIDs
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreateSession starts an active session whose original and current CV are version 1
func (m *Manager) CreateSession(userID string, jd types.JobDescription, cvText string) *types.Session {
	now := m.now()
	original := types.CVVersion{
		ID:                 m.newID(),
		Version:            1,
		Content:            cvText,
		CreatedAt:          now,
		JobDescriptionID:   jd.ID,
		OptimizationScore:  scoring.CalculateBasicScore(cvText, &jd),
		AppliedSuggestions: []string{},
	}

	return &types.Session{
		ID:             m.newID(),
		UserID:         userID,
		JobDescription: jd,
		OriginalCV:     original,
		CurrentCV:      original,
		Versions:       []types.CVVersion{original},
		Suggestions:    []types.Suggestion{},
		ChatHistory:    []types.ChatMessage{},
		Status:         types.StatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// AddChatMessage appends a message to the chat history
func (m *Manager) AddChatMessage(s *types.Session, sender types.SenderType, content string, suggestions ...types.Suggestion) (*types.Session, error) {
	if !sender.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSender, sender)
	}

	next := m.clone(s)
	next.ChatHistory = append(next.ChatHistory, types.ChatMessage{
		ID:          m.newID(),
		Type:        sender,
		Content:     content,
		Timestamp:   next.UpdatedAt,
		Suggestions: slices.Clone(suggestions),
	})
	return next, nil
}

// RecordSuggestions appends generated suggestions to the session's suggestion log.
// A suggestion whose id is already logged is skipped, so ids stay unique.
func (m *Manager) RecordSuggestions(s *types.Session, suggestions []types.Suggestion) *types.Session {
	next := m.clone(s)
	seen := make(map[string]struct{}, len(next.Suggestions)+len(suggestions))
	for _, sug := range next.Suggestions {
		seen[sug.ID] = struct{}{}
	}
	for _, sug := range suggestions {
		if _, dup := seen[sug.ID]; dup && sug.ID != "" {
			continue
		}
		seen[sug.ID] = struct{}{}
		next.Suggestions = append(next.Suggestions, sug)
	}
	return next
}

// ApplySuggestion edits the current CV with the suggestion and records the result as a
// new current version. A system message referencing the suggestion is added to the chat.
func (m *Manager) ApplySuggestion(s *types.Session, suggestion types.Suggestion) *types.Session {
	next := m.clone(s)
	content := editing.ApplySuggestion(next.CurrentCV.Content, suggestion)

	version := types.CVVersion{
		ID:                 m.newID(),
		Version:            len(next.Versions) + 1,
		Content:            content,
		CreatedAt:          next.UpdatedAt,
		JobDescriptionID:   next.JobDescription.ID,
		OptimizationScore:  scoring.CalculateBasicScore(content, &next.JobDescription),
		AppliedSuggestions: append(slices.Clone(next.CurrentCV.AppliedSuggestions), suggestion.ID),
	}

	next.CurrentCV = version
	next.Versions = append(next.Versions, version)
	next.ChatHistory = append(next.ChatHistory, types.ChatMessage{
		ID:                  m.newID(),
		Type:                types.SenderSystem,
		Content:             fmt.Sprintf("Applied %s suggestion to %s (version %d)", suggestion.Type, suggestion.Section, version.Version),
		Timestamp:           next.UpdatedAt,
		AppliedSuggestionID: suggestion.ID,
	})
	return next
}

// ApplySuggestionByID applies a suggestion previously recorded in the session
func (m *Manager) ApplySuggestionByID(s *types.Session, suggestionID string) (*types.Session, error) {
	suggestion, ok := s.FindSuggestion(suggestionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSuggestionNotFound, suggestionID)
	}
	return m.ApplySuggestion(s, suggestion), nil
}

// ResetToOriginal makes the original CV current again. The version list is kept.
func (m *Manager) ResetToOriginal(s *types.Session) *types.Session {
	next := m.clone(s)
	next.CurrentCV = next.OriginalCV
	return next
}

// RevertToVersion makes an earlier version current again without removing later versions
func (m *Manager) RevertToVersion(s *types.Session, version int) (*types.Session, error) {
	v, ok := s.FindVersion(version)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrVersionNotFound, version)
	}
	next := m.clone(s)
	next.CurrentCV = v
	return next, nil
}

// SetStatus relabels the session. Any known status may follow any other.
func (m *Manager) SetStatus(s *types.Session, status types.SessionStatus) (*types.Session, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	next := m.clone(s)
	next.Status = status
	return next, nil
}

// clone copies the session's append-only slices and refreshes UpdatedAt
func (m *Manager) clone(s *types.Session) *types.Session {
	next := *s
	next.Versions = slices.Clone(s.Versions)
	next.Suggestions = slices.Clone(s.Suggestions)
	next.ChatHistory = slices.Clone(s.ChatHistory)
	next.UpdatedAt = m.now()
	return &next
}
