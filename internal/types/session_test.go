package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSession() Session {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	original := CVVersion{
		ID:                 "v1",
		Version:            1,
		Content:            "Original CV",
		CreatedAt:          created,
		JobDescriptionID:   "jd-1",
		OptimizationScore:  55,
		AppliedSuggestions: []string{},
	}
	current := CVVersion{
		ID:                 "v2",
		Version:            2,
		Content:            "Original CV\nkubernetes",
		CreatedAt:          created.Add(time.Minute),
		JobDescriptionID:   "jd-1",
		OptimizationScore:  60,
		AppliedSuggestions: []string{"s-1"},
	}
	sug := Suggestion{ID: "s-1", Type: SuggestionKeyword, Section: SectionSkills, SuggestedText: "kubernetes", Priority: PriorityHigh, Confidence: 0.7}

	return Session{
		ID:     "session-1",
		UserID: "user-1",
		JobDescription: JobDescription{
			ID:           "jd-1",
			Title:        "Platform Engineer",
			Company:      "Acme",
			Description:  "We need kubernetes",
			Requirements: []string{"experience with kubernetes"},
			Keywords:     []string{"kubernetes"},
			CreatedAt:    created,
		},
		OriginalCV:  original,
		CurrentCV:   current,
		Versions:    []CVVersion{original, current},
		Suggestions: []Suggestion{sug},
		ChatHistory: []ChatMessage{
			{ID: "m1", Type: SenderAI, Content: "Here are suggestions", Timestamp: created, Suggestions: []Suggestion{sug}},
			{ID: "m2", Type: SenderSystem, Content: "Applied", Timestamp: created, AppliedSuggestionID: "s-1"},
		},
		Status:    StatusActive,
		CreatedAt: created,
		UpdatedAt: created.Add(time.Minute),
	}
}

func TestSession_JSONRoundTrip(t *testing.T) {
	session := sampleSession()

	jsonBytes, err := json.Marshal(session)
	require.NoError(t, err)
	assert.Contains(t, string(jsonBytes), `"originalCV":`)
	assert.Contains(t, string(jsonBytes), `"chatHistory":`)
	assert.Contains(t, string(jsonBytes), `"appliedSuggestion":"s-1"`)
	assert.Contains(t, string(jsonBytes), `"createdAt":"2024-03-01T12:00:00Z"`)

	var decoded Session
	require.NoError(t, json.Unmarshal(jsonBytes, &decoded))
	assert.Equal(t, session, decoded)
}

func TestSession_FindSuggestion(t *testing.T) {
	session := sampleSession()

	sug, ok := session.FindSuggestion("s-1")
	assert.True(t, ok)
	assert.Equal(t, "kubernetes", sug.SuggestedText)

	_, ok = session.FindSuggestion("missing")
	assert.False(t, ok)
}

func TestSession_FindVersion(t *testing.T) {
	session := sampleSession()

	v, ok := session.FindVersion(2)
	assert.True(t, ok)
	assert.Equal(t, "v2", v.ID)

	_, ok = session.FindVersion(7)
	assert.False(t, ok)
}
