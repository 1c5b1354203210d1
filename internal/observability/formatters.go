// Package observability provides structured logging, Prometheus metrics and
// formatted output for the CLI.
package observability

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/uzzielperez/ChamiNexT-sub000/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit-3] + "..."
}

// PrintJobDescription outputs the structured extraction of a job posting.
func (p *Printer) PrintJobDescription(jd *types.JobDescription) {
	if jd == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title:    %s\n", jd.Title))
	sb.WriteString(fmt.Sprintf("Company:  %s\n", jd.Company))

	if len(jd.Keywords) > 0 {
		sb.WriteString("\nKeywords:\n")
		sb.WriteString("  " + strings.Join(jd.Keywords, ", ") + "\n")
	}

	if len(jd.Requirements) > 0 {
		sb.WriteString("\nRequirements:\n")
		count := min(len(jd.Requirements), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", jd.Requirements[i]))
		}
		if len(jd.Requirements) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(jd.Requirements)-maxItemsToShow))
		}
	}

	p.printBox("JOB DESCRIPTION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAnalysis outputs scores and keyword gaps.
func (p *Printer) PrintAnalysis(analysis *types.OptimizationAnalysis) {
	if analysis == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall score:      %d\n", analysis.OverallScore))
	sb.WriteString(fmt.Sprintf("Keyword match:      %d%%\n", analysis.KeywordMatch))
	sb.WriteString(fmt.Sprintf("Content relevance:  %d\n", analysis.ContentRelevance))
	sb.WriteString(fmt.Sprintf("Structure score:    %d\n", analysis.StructureScore))

	if len(analysis.MissingKeywords) > 0 {
		sb.WriteString("\nMissing keywords:\n")
		sb.WriteString("  " + strings.Join(analysis.MissingKeywords, ", ") + "\n")
	}
	if len(analysis.Strengths) > 0 {
		sb.WriteString("\nStrengths:\n")
		for _, s := range analysis.Strengths {
			sb.WriteString(fmt.Sprintf("  ✓ %s\n", s))
		}
	}
	if len(analysis.ImprovementAreas) > 0 {
		sb.WriteString("\nImprove:\n")
		for _, s := range analysis.ImprovementAreas {
			sb.WriteString(fmt.Sprintf("  • %s\n", s))
		}
	}

	p.printBox("CV ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSuggestions outputs the suggestions with their priority and target section.
// source is shown in the title, e.g. "remote" or "fallback".
func (p *Printer) PrintSuggestions(suggestions []types.Suggestion, source string) {
	if len(suggestions) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d suggestions:\n\n", len(suggestions)))

	count := min(len(suggestions), maxItemsToShow)
	for i := 0; i < count; i++ {
		s := suggestions[i]
		sb.WriteString(fmt.Sprintf("[%s] %s → %s\n", s.Priority, s.Type, s.Section))
		if s.OriginalText != "" {
			sb.WriteString(fmt.Sprintf("  - %s\n", s.OriginalText))
		}
		sb.WriteString(fmt.Sprintf("  + %s\n", s.SuggestedText))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(suggestions) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more", len(suggestions)-maxItemsToShow))
	}

	title := "SUGGESTIONS"
	if source != "" {
		title = fmt.Sprintf("SUGGESTIONS (%s)", source)
	}
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintComparison outputs the difference between two CV versions.
func (p *Printer) PrintComparison(cmp *types.CVComparison) {
	if cmp == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score change:         %+d\n", cmp.ScoreIncrease))
	sb.WriteString(fmt.Sprintf("Suggestions applied:  %d\n", cmp.SuggestionsApplied))
	sb.WriteString(fmt.Sprintf("Words added:          %d\n", len(cmp.Changes.Additions)))
	sb.WriteString(fmt.Sprintf("Words removed:        %d\n", len(cmp.Changes.Deletions)))
	if len(cmp.KeywordsAdded) > 0 {
		sb.WriteString("\nNew words:\n")
		sb.WriteString("  " + strings.Join(cmp.KeywordsAdded, ", ") + "\n")
	}

	p.printBox("VERSION COMPARISON", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintValidation outputs the result of CV content validation.
func (p *Printer) PrintValidation(valid bool, errs []string) {
	var sb strings.Builder
	if valid {
		sb.WriteString("✓ CV content is valid")
	} else {
		sb.WriteString("✗ CV content is invalid\n")
		for _, e := range errs {
			sb.WriteString(fmt.Sprintf("  • %s\n", e))
		}
	}
	p.printBox("CV VALIDATION", strings.TrimSuffix(sb.String(), "\n"))
}

// ScoreLine is one row of PrintScores
type ScoreLine struct {
	Source       string
	Title        string
	Score        int
	KeywordMatch int
	Missing      []string
}

// displaySource shortens a file path to its base name so it fits in a box line.
// URLs are kept whole.
func displaySource(source string) string {
	if strings.Contains(source, "://") {
		return source
	}
	return filepath.Base(source)
}

// PrintScores outputs how one CV scores against several job postings, in the given order.
func (p *Printer) PrintScores(lines []ScoreLine) {
	if len(lines) == 0 {
		return
	}

	var sb strings.Builder
	for i, l := range lines {
		sb.WriteString(l.Title + "\n")
		sb.WriteString("  Source: " + displaySource(l.Source) + "\n")
		sb.WriteString(fmt.Sprintf("  Score: %d   Keywords: %d%%\n", l.Score, l.KeywordMatch))
		if len(l.Missing) > 0 {
			count := min(len(l.Missing), maxItemsToShow)
			sb.WriteString("  Missing: " + strings.Join(l.Missing[:count], ", "))
			if len(l.Missing) > maxItemsToShow {
				sb.WriteString(fmt.Sprintf(" +%d", len(l.Missing)-maxItemsToShow))
			}
			sb.WriteString("\n")
		}
		if i < len(lines)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("JOB SCORES", strings.TrimSuffix(sb.String(), "\n"))
}
