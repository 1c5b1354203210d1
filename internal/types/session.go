// Package types provides type definitions for structured data used throughout the CV optimization engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// CVVersion is an immutable snapshot of CV content within a session
type CVVersion struct {
	ID                 string    `json:"id"`
	Version            int       `json:"version"`
	Content            string    `json:"content"`
	CreatedAt          time.Time `json:"createdAt"`
	JobDescriptionID   string    `json:"jobDescriptionId,omitempty"`
	OptimizationScore  int       `json:"optimizationScore"`
	AppliedSuggestions []string  `json:"appliedSuggestions"`
}

// ChatMessage is one immutable entry in a session's chat transcript
type ChatMessage struct {
	ID                  string       `json:"id"`
	Type                SenderType   `json:"type"`
	Content             string       `json:"content"`
	Timestamp           time.Time    `json:"timestamp"`
	Suggestions         []Suggestion `json:"suggestions,omitempty"`
	AppliedSuggestionID string       `json:"appliedSuggestion,omitempty"`
}

// Session is the aggregate root of one CV optimization conversation.
// Versions, suggestions and chat history are append-only.
type Session struct {
	ID             string         `json:"id"`
	UserID         string         `json:"userId"`
	JobDescription JobDescription `json:"jobDescription"`
	OriginalCV     CVVersion      `json:"originalCV"`
	CurrentCV      CVVersion      `json:"currentCV"`
	Versions       []CVVersion    `json:"versions"`
	Suggestions    []Suggestion   `json:"suggestions"`
	ChatHistory    []ChatMessage  `json:"chatHistory"`
	Status         SessionStatus  `json:"status"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// FindSuggestion returns the suggestion with the given id, if the session has one
func (s *Session) FindSuggestion(id string) (Suggestion, bool) {
	for _, sug := range s.Suggestions {
		if sug.ID == id {
			return sug, true
		}
	}
	return Suggestion{}, false
}

// FindVersion returns the version with the given number, if present
func (s *Session) FindVersion(version int) (CVVersion, bool) {
	for _, v := range s.Versions {
		if v.Version == version {
			return v, true
		}
	}
	return CVVersion{}, false
}

// CVChanges is a coarse word-level diff between two CV versions
type CVChanges struct {
	Additions     []string       `json:"additions"`
	Deletions     []string       `json:"deletions"`
	Modifications []Modification `json:"modifications"`
}

// Modification describes a changed line within a section.
// The local comparison never fills it in.
type Modification struct {
	Section string `json:"section"`
	Before  string `json:"before"`
	After   string `json:"after"`
}

// CVComparison is the before/after summary between two versions
type CVComparison struct {
	Before             CVVersion `json:"before"`
	After              CVVersion `json:"after"`
	Changes            CVChanges `json:"changes"`
	ScoreIncrease      int       `json:"scoreIncrease"`
	KeywordsAdded      []string  `json:"keywordsAdded"`
	SuggestionsApplied int       `json:"suggestionsApplied"`
}
