// Package types provides type definitions for structured data used throughout the CV optimization engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Suggestion proposes one atomic change to CV content.
// An empty OriginalText means "insert new" rather than "replace".
type Suggestion struct {
	ID            string         `json:"id"`
	Type          SuggestionType `json:"type"`
	Section       Section        `json:"section"`
	OriginalText  string         `json:"originalText"`
	SuggestedText string         `json:"suggestedText"`
	Reasoning     string         `json:"reasoning"`
	Priority      Priority       `json:"priority"`
	Confidence    float64        `json:"confidence"`
}

// IsInsertion reports whether the suggestion adds new text instead of replacing existing text
func (s Suggestion) IsInsertion() bool {
	return s.OriginalText == ""
}

// OptimizationAnalysis is a computed, non-persisted summary of how well a CV fits a job
type OptimizationAnalysis struct {
	OverallScore       int      `json:"overallScore"`
	KeywordMatch       int      `json:"keywordMatch"`
	ContentRelevance   int      `json:"contentRelevance"`
	StructureScore     int      `json:"structureScore"`
	ImprovementAreas   []string `json:"improvementAreas"`
	Strengths          []string `json:"strengths"`
	MissingKeywords    []string `json:"missingKeywords"`
	RecommendedChanges int      `json:"recommendedChanges"`
}

// OptimizationRequest is the payload sent to the AI suggestion service
type OptimizationRequest struct {
	CVContent           string            `json:"cvContent"`
	JobDescription      JobDescription    `json:"jobDescription"`
	OptimizationLevel   OptimizationLevel `json:"optimizationLevel"`
	PreservePersonality bool              `json:"preservePersonality"`
	FocusAreas          []string          `json:"focusAreas,omitempty"`
}

// OptimizationResponse is returned by the AI suggestion service or the local fallback
type OptimizationResponse struct {
	Suggestions      []Suggestion         `json:"suggestions"`
	Analysis         OptimizationAnalysis `json:"analysis"`
	OptimizedContent string               `json:"optimizedContent,omitempty"`
	SessionID        string               `json:"sessionId"`
}
