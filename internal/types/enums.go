// Package types provides type definitions for structured data used throughout the CV optimization engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "fmt"

// SuggestionType classifies what kind of change a suggestion proposes
type SuggestionType string

// Suggestion types
const (
	SuggestionKeyword    SuggestionType = "keyword"
	SuggestionContent    SuggestionType = "content"
	SuggestionStructure  SuggestionType = "structure"
	SuggestionFormatting SuggestionType = "formatting"
)

// Valid reports whether t is one of the known suggestion types
func (t SuggestionType) Valid() bool {
	switch t {
	case SuggestionKeyword, SuggestionContent, SuggestionStructure, SuggestionFormatting:
		return true
	}
	return false
}

// UnmarshalText rejects values outside the closed set
func (t *SuggestionType) UnmarshalText(b []byte) error {
	return parseEnum(t, "suggestion type", b)
}

// Section identifies the CV section a suggestion targets
type Section string

// CV sections
const (
	SectionSummary    Section = "summary"
	SectionExperience Section = "experience"
	SectionSkills     Section = "skills"
	SectionEducation  Section = "education"
	SectionGeneral    Section = "general"
)

// Sections lists every section in display order
var Sections = []Section{SectionSummary, SectionExperience, SectionSkills, SectionEducation, SectionGeneral}

// Valid reports whether s is one of the known sections
func (s Section) Valid() bool {
	switch s {
	case SectionSummary, SectionExperience, SectionSkills, SectionEducation, SectionGeneral:
		return true
	}
	return false
}

// UnmarshalText rejects values outside the closed set
func (s *Section) UnmarshalText(b []byte) error {
	return parseEnum(s, "section", b)
}

// Priority ranks how important a suggestion is
type Priority string

// Priorities
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Valid reports whether p is one of the known priorities
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// UnmarshalText rejects values outside the closed set
func (p *Priority) UnmarshalText(b []byte) error {
	return parseEnum(p, "priority", b)
}

// SenderType identifies who wrote a chat message
type SenderType string

// Chat senders
const (
	SenderUser   SenderType = "user"
	SenderAI     SenderType = "ai"
	SenderSystem SenderType = "system"
)

// Valid reports whether s is one of the known senders
func (s SenderType) Valid() bool {
	switch s {
	case SenderUser, SenderAI, SenderSystem:
		return true
	}
	return false
}

// UnmarshalText rejects values outside the closed set
func (s *SenderType) UnmarshalText(b []byte) error {
	return parseEnum(s, "sender type", b)
}

// SessionStatus is a free-form lifecycle label for a session.
// No transition rules are enforced between statuses.
type SessionStatus string

// Session statuses
const (
	StatusActive    SessionStatus = "active"
	StatusCompleted SessionStatus = "completed"
	StatusPaused    SessionStatus = "paused"
)

// Valid reports whether s is one of the known statuses
func (s SessionStatus) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusPaused:
		return true
	}
	return false
}

// UnmarshalText rejects values outside the closed set
func (s *SessionStatus) UnmarshalText(b []byte) error {
	return parseEnum(s, "session status", b)
}

// OptimizationLevel controls how aggressively the CV may be rewritten
type OptimizationLevel string

// Optimization levels
const (
	LevelConservative OptimizationLevel = "conservative"
	LevelModerate     OptimizationLevel = "moderate"
	LevelAggressive   OptimizationLevel = "aggressive"
)

// Valid reports whether l is one of the known levels
func (l OptimizationLevel) Valid() bool {
	switch l {
	case LevelConservative, LevelModerate, LevelAggressive:
		return true
	}
	return false
}

// UnmarshalText rejects values outside the closed set
func (l *OptimizationLevel) UnmarshalText(b []byte) error {
	return parseEnum(l, "optimization level", b)
}

type enum interface {
	~string
	Valid() bool
}

func parseEnum[T enum](dst *T, kind string, b []byte) error {
	v := T(b)
	if !v.Valid() {
		return fmt.Errorf("invalid %s %q", kind, string(b))
	}
	*dst = v
	return nil
}
