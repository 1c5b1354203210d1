// Package validation checks CV content before optimization and guards text sent to language models.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// CV content limits
const (
	MinCVCharacters = 50
	MaxCVCharacters = 10000
	MinCVWords      = 20
)

// Error messages reported by ValidateCVContent
var (
	MsgTooShort    = fmt.Sprintf("CV content is too short: minimum %d characters", MinCVCharacters)
	MsgTooLong     = fmt.Sprintf("CV content is too long: maximum %d characters", MaxCVCharacters)
	MsgTooFewWords = fmt.Sprintf("CV content has too few words: minimum %d words", MinCVWords)
)

// CVValidationResult reports whether CV content can start an optimization session
type CVValidationResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// ValidateCVContent checks length and word-count constraints.
// All failing checks are reported, not just the first.
func ValidateCVContent(text string) CVValidationResult {
	trimmed := strings.TrimSpace(text)
	errs := make([]string, 0)

	if utf8.RuneCountInString(trimmed) < MinCVCharacters {
		errs = append(errs, MsgTooShort)
	}
	if utf8.RuneCountInString(text) > MaxCVCharacters {
		errs = append(errs, MsgTooLong)
	}
	if len(strings.Fields(trimmed)) < MinCVWords {
		errs = append(errs, MsgTooFewWords)
	}

	return CVValidationResult{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}

// CVContentError is returned by callers that refuse to start a session on invalid CV content
type CVContentError struct {
	Errors []string
}

func (e *CVContentError) Error() string {
	return fmt.Sprintf("invalid CV content: %s", strings.Join(e.Errors, "; "))
}
