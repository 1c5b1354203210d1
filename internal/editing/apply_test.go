package editing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/types"
)

const sampleCV = `Jane Doe
Professional Summary
Backend engineer.

Work Experience
Acme Corp - built APIs

Technical Skills
Go, PostgreSQL

Education
BSc Computer Science`

func TestApplySuggestion_ReplacesFirstOccurrence(t *testing.T) {
	sug := types.Suggestion{OriginalText: "Go", SuggestedText: "Go (Golang)", Section: types.SectionSkills}

	got := ApplySuggestion("Go, Go, Go", sug)

	assert.Equal(t, "Go (Golang), Go, Go", got)
}

func TestApplySuggestion_MissingOriginalLeavesCVUnchanged(t *testing.T) {
	sug := types.Suggestion{OriginalText: "Rust expert", SuggestedText: "Rust guru", Section: types.SectionSkills}

	assert.Equal(t, sampleCV, ApplySuggestion(sampleCV, sug))
}

func TestApplySuggestion_InsertsBelowSectionHeading(t *testing.T) {
	tests := []struct {
		name    string
		section types.Section
		want    string
	}{
		{
			name:    "skills",
			section: types.SectionSkills,
			want:    "Jane Doe\nProfessional Summary\nBackend engineer.\n\nWork Experience\nAcme Corp - built APIs\n\nTechnical Skills\nNEW LINE\nGo, PostgreSQL\n\nEducation\nBSc Computer Science",
		},
		{
			name:    "summary",
			section: types.SectionSummary,
			want:    "Jane Doe\nProfessional Summary\nNEW LINE\nBackend engineer.\n\nWork Experience\nAcme Corp - built APIs\n\nTechnical Skills\nGo, PostgreSQL\n\nEducation\nBSc Computer Science",
		},
		{
			name:    "experience",
			section: types.SectionExperience,
			want:    "Jane Doe\nProfessional Summary\nBackend engineer.\n\nWork Experience\nNEW LINE\nAcme Corp - built APIs\n\nTechnical Skills\nGo, PostgreSQL\n\nEducation\nBSc Computer Science",
		},
		{
			name:    "education",
			section: types.SectionEducation,
			want:    "Jane Doe\nProfessional Summary\nBackend engineer.\n\nWork Experience\nAcme Corp - built APIs\n\nTechnical Skills\nGo, PostgreSQL\n\nEducation\nNEW LINE\nBSc Computer Science",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sug := types.Suggestion{SuggestedText: "NEW LINE", Section: tt.section}
			assert.Equal(t, tt.want, ApplySuggestion(sampleCV, sug))
		})
	}
}

func TestApplySuggestion_KeepsCRLFLineEndings(t *testing.T) {
	cv := "Summary\r\nBackend engineer.\r\n\r\nSkills\r\nGo, PostgreSQL"

	got := ApplySuggestion(cv, types.Suggestion{Section: types.SectionSkills, SuggestedText: "Kubernetes"})
	assert.Equal(t, "Summary\r\nBackend engineer.\r\n\r\nSkills\r\nKubernetes\r\nGo, PostgreSQL", got)

	got = ApplySuggestion(cv, types.Suggestion{Section: types.SectionGeneral, SuggestedText: "Open to relocation"})
	assert.Equal(t, "Summary\r\nBackend engineer.\r\n\r\nSkills\r\nGo, PostgreSQL\r\n\r\nOpen to relocation", got)
}

func TestApplySuggestion_AppendsWhenNoHeading(t *testing.T) {
	sug := types.Suggestion{SuggestedText: "kubernetes", Section: types.SectionSkills}

	got := ApplySuggestion("Jane Doe\nBackend engineer\n\n", sug)

	assert.Equal(t, "Jane Doe\nBackend engineer\n\nkubernetes", got)
}

func TestApplySuggestion_GeneralAlwaysAppends(t *testing.T) {
	sug := types.Suggestion{SuggestedText: "References available on request", Section: types.SectionGeneral}

	got := ApplySuggestion(sampleCV, sug)

	assert.Equal(t, sampleCV+"\n\nReferences available on request", got)
}

func TestApplySuggestion_EmptyCV(t *testing.T) {
	sug := types.Suggestion{SuggestedText: "Summary: engineer", Section: types.SectionSummary}

	assert.Equal(t, "Summary: engineer", ApplySuggestion("", sug))
}

func TestFindHeadingLine_CaseInsensitive(t *testing.T) {
	lines := []string{"JANE", "CORE COMPETENCIES", "Go"}

	assert.Equal(t, 1, FindHeadingLine(lines, types.SectionSkills))
	assert.Equal(t, -1, FindHeadingLine(lines, types.SectionEducation))
	assert.Equal(t, -1, FindHeadingLine(lines, types.SectionGeneral))
}

func TestHeadingWords_ReturnsCopy(t *testing.T) {
	words := HeadingWords(types.SectionSkills)
	words[0] = "mutated"

	assert.Equal(t, "skills", HeadingWords(types.SectionSkills)[0])
	assert.Empty(t, HeadingWords(types.SectionGeneral))
}
