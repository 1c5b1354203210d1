package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/types"
)

func TestPrintJobDescription(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintJobDescription(&types.JobDescription{
		Title:        "Senior React Developer",
		Company:      "Acme Corp",
		Keywords:     []string{"react", "typescript"},
		Requirements: []string{"5+ years experience with React"},
	})
	output := buf.String()

	assert.Contains(t, output, "JOB DESCRIPTION")
	assert.Contains(t, output, "Senior React Developer")
	assert.Contains(t, output, "Acme Corp")
	assert.Contains(t, output, "react, typescript")
	assert.Contains(t, output, "5+ years experience with React")
}

func TestPrintJobDescription_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintJobDescription(nil)
	assert.Empty(t, buf.String())
}

func TestPrintJobDescription_TruncatesRequirements(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintJobDescription(&types.JobDescription{
		Title:        "Engineer",
		Company:      "Company",
		Requirements: []string{"one requirement", "two requirement", "three requirement", "four requirement", "five requirement", "six requirement", "seven requirement"},
	})

	assert.Contains(t, buf.String(), "... and 2 more")
	assert.NotContains(t, buf.String(), "six requirement")
}

func TestPrintAnalysis(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintAnalysis(&types.OptimizationAnalysis{
		OverallScore:     62,
		KeywordMatch:     30,
		ContentRelevance: 70,
		StructureScore:   75,
		MissingKeywords:  []string{"react"},
		Strengths:        []string{"Professional formatting"},
		ImprovementAreas: []string{"Keyword optimization"},
	})
	output := buf.String()

	assert.Contains(t, output, "CV ANALYSIS")
	assert.Contains(t, output, "62")
	assert.Contains(t, output, "30%")
	assert.Contains(t, output, "react")
	assert.Contains(t, output, "Professional formatting")
	assert.Contains(t, output, "Keyword optimization")
}

func TestPrintSuggestions(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintSuggestions([]types.Suggestion{
		{Type: types.SuggestionKeyword, Section: types.SectionSkills, SuggestedText: "react", Priority: types.PriorityHigh},
		{Type: types.SuggestionContent, Section: types.SectionExperience, OriginalText: "did stuff", SuggestedText: "shipped features", Priority: types.PriorityLow},
	}, "fallback")
	output := buf.String()

	assert.Contains(t, output, "SUGGESTIONS (fallback)")
	assert.Contains(t, output, "2 suggestions")
	assert.Contains(t, output, "+ react")
	assert.Contains(t, output, "- did stuff")
}

func TestPrintSuggestions_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintSuggestions(nil, "remote")
	assert.Empty(t, buf.String())
}

func TestPrintComparison(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintComparison(&types.CVComparison{
		ScoreIncrease:      4,
		SuggestionsApplied: 1,
		KeywordsAdded:      []string{"react"},
		Changes:            types.CVChanges{Additions: []string{"react"}},
	})
	output := buf.String()

	assert.Contains(t, output, "VERSION COMPARISON")
	assert.Contains(t, output, "+4")
	assert.Contains(t, output, "react")
}

func TestPrintValidation(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintValidation(false, []string{"too short"})
	assert.Contains(t, buf.String(), "invalid")
	assert.Contains(t, buf.String(), "too short")

	buf.Reset()
	p.PrintValidation(true, nil)
	assert.Contains(t, buf.String(), "valid")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", "this line is definitely much longer than the box is wide and must be cut")
	assert.Contains(t, buf.String(), "...")
}

func TestPrintScores(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintScores([]ScoreLine{
		{Source: "/tmp/TestScoreCommand123/003/a.txt", Title: "Backend Engineer", Score: 81, KeywordMatch: 71, Missing: []string{"backend"}},
		{Source: "b.txt", Title: "Senior React Developer", Score: 58, KeywordMatch: 10,
			Missing: []string{"react", "senior", "typescript", "node", "years", "developer", "acme"}},
	})
	output := buf.String()

	assert.Contains(t, output, "JOB SCORES")
	assert.Contains(t, output, "│ Backend Engineer ")
	assert.Contains(t, output, "Source: a.txt")
	assert.Contains(t, output, "Source: b.txt")
	assert.NotContains(t, output, "...")
	assert.Contains(t, output, "Score: 81   Keywords: 71%")
	assert.Contains(t, output, "Missing: react, senior, typescript, node, years +2")
}

func TestPrintScores_KeepsURLSource(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintScores([]ScoreLine{{Source: "https://jobs.example.com/1", Title: "SRE", Score: 50}})

	assert.Contains(t, buf.String(), "Source: https://jobs.example.com/1")
}

func TestPrintScores_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintScores(nil)
	assert.Empty(t, buf.String())
}
