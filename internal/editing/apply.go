// Package editing applies optimization suggestions to plain-text CV content.
package editing

import (
	"strings"

	"github.com/uzzielperez/ChamiNexT-sub000/internal/types"
)

// sectionHeadings maps each section to the heading words that identify it in a CV.
// The general section has no heading and always appends.
var sectionHeadings = map[types.Section][]string{
	types.SectionSummary:    {"summary", "profile", "objective"},
	types.SectionExperience: {"experience", "work history", "employment"},
	types.SectionSkills:     {"skills", "technical skills", "competencies"},
	types.SectionEducation:  {"education", "qualifications", "academic"},
	types.SectionGeneral:    nil,
}

// HeadingWords returns the heading words recognized for a section
func HeadingWords(section types.Section) []string {
	return append([]string(nil), sectionHeadings[section]...)
}

// ApplySuggestion returns the CV text with the suggestion applied.
//
// Replacement suggestions substitute the first occurrence of OriginalText and leave the
// CV unchanged when it is absent. Insertion suggestions go on a new line below the first
// heading line of the target section, or at the end of the document as a new paragraph.
func ApplySuggestion(cvText string, suggestion types.Suggestion) string {
	if !suggestion.IsInsertion() {
		return strings.Replace(cvText, suggestion.OriginalText, suggestion.SuggestedText, 1)
	}

	newline := lineEnding(cvText)
	lines := strings.Split(cvText, newline)
	if idx := FindHeadingLine(lines, suggestion.Section); idx >= 0 {
		out := make([]string, 0, len(lines)+1)
		out = append(out, lines[:idx+1]...)
		out = append(out, suggestion.SuggestedText)
		out = append(out, lines[idx+1:]...)
		return strings.Join(out, newline)
	}

	return appendParagraph(cvText, suggestion.SuggestedText, newline)
}

// lineEnding returns "\r\n" when the text uses Windows line endings, else "\n"
func lineEnding(text string) string {
	if strings.Contains(text, "\r\n") {
		return "\r\n"
	}
	return "\n"
}

// FindHeadingLine returns the index of the first line containing a heading word
// for the section, or -1.
func FindHeadingLine(lines []string, section types.Section) int {
	headings := sectionHeadings[section]
	if len(headings) == 0 {
		return -1
	}

	for i, line := range lines {
		lower := strings.ToLower(line)
		for _, heading := range headings {
			if strings.Contains(lower, heading) {
				return i
			}
		}
	}
	return -1
}

func appendParagraph(cvText, text, newline string) string {
	trimmed := strings.TrimRight(cvText, " \t\r\n")
	if trimmed == "" {
		return text
	}
	return trimmed + newline + newline + text
}
