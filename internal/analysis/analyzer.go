// Package analysis extracts structured signal (keywords, requirements, title, company)
// from raw job description text using deterministic heuristics.
package analysis

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/types"
)

const (
	// MaxKeywords is the number of frequency-ranked keywords kept
	MaxKeywords = 20
	// MaxRequirements is the number of requirement strings kept
	MaxRequirements = 10

	minKeywordLength     = 3
	minRequirementLength = 10
	maxTitleLength       = 100

	// FallbackTitle is returned when no title can be extracted
	FallbackTitle = "Job Position"
	// FallbackCompany is returned when no company can be extracted
	FallbackCompany = "Company"
)

// defaultStopWords are articles, conjunctions, prepositions and auxiliary verbs
// that never count as keywords.
var defaultStopWords = []string{
	"the", "and", "or", "but", "in", "on", "at", "to", "for", "of",
	"with", "by", "a", "an", "is", "are", "was", "were", "be", "been",
	"have", "has", "had", "do", "does", "did", "will", "would", "could", "should",
}

// Analyzer holds the fixed stop-word table and compiled patterns used for extraction.
// It has no mutable state and is safe for concurrent use.
type Analyzer struct {
	stopWords map[string]struct{}

	punctuation *regexp.Regexp

	requirementHeading   *regexp.Regexp
	requirementBlockEnd  *regexp.Regexp
	requirementPhrase    *regexp.Regexp
	requirementYears     *regexp.Regexp
	requirementTrimEdges *regexp.Regexp

	titlePatterns   []*regexp.Regexp
	companyPatterns []*regexp.Regexp

	now   func() time.Time
	newID func() string
}

// Option customizes an Analyzer
type Option func(*Analyzer)

// WithClock overrides the timestamp source used for CreatedAt
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// WithIDGenerator overrides the id source used for JobDescription.ID
func WithIDGenerator(newID func() string) Option {
	return func(a *Analyzer) { a.newID = newID }
}

// NewAnalyzer compiles the extraction tables
func NewAnalyzer(opts ...Option) *Analyzer {
	stop := make(map[string]struct{}, len(defaultStopWords))
	for _, w := range defaultStopWords {
		stop[w] = struct{}{}
	}

	a := &Analyzer{
		stopWords:   stop,
		punctuation: regexp.MustCompile(`[^\w\s]`),

		requirementHeading:   regexp.MustCompile(`(?i)\b(?:requirements?|qualifications?|must have|required|essential)\b[:\s]*`),
		requirementBlockEnd:  regexp.MustCompile(`\n[ \t]*\n|\n[A-Z]`),
		requirementPhrase:    regexp.MustCompile(`(?i)(?:experience with|proficient in|knowledge of)\s+[^\n.,]+`),
		requirementYears:     regexp.MustCompile(`(?i)\d+\+?\s*years?[^\n.,]*`),
		requirementTrimEdges: regexp.MustCompile(`^\W+|\W+$`),

		titlePatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)^\s*(?:job title|position|role)\s*:\s*(.+)`),
			regexp.MustCompile(`^(.+?)\s+[-–|]\s+`),
			regexp.MustCompile(`^(.+?)\s+(?:at|@)\s+`),
		},
		companyPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:company|organization)\s*:\s*([^\n]+)`),
			regexp.MustCompile(`(?:\bat|@)\s+([A-Z][\w&.\-]*(?:[ \t]+[A-Z][\w&.\-]*)*)`),
			regexp.MustCompile(`([A-Z][\w&.\-]*(?:[ \t]+[A-Z][\w&.\-]*)*)\s+is\s+(?:looking|seeking|hiring)`),
		},

		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}

	for _, opt := range opts {
		opt(a)
	}
	return a
}

var defaultAnalyzer = NewAnalyzer()

// AnalyzeJobDescription analyzes raw job text with the default analyzer
func AnalyzeJobDescription(rawText string) types.JobDescription {
	return defaultAnalyzer.Analyze(rawText)
}

// Analyze builds a JobDescription from raw posting text.
// Absence of matches degrades to fallback literals; it never fails.
func (a *Analyzer) Analyze(rawText string) types.JobDescription {
	return types.JobDescription{
		ID:           a.newID(),
		Title:        a.ExtractTitle(rawText),
		Company:      a.ExtractCompany(rawText),
		Description:  rawText,
		Requirements: a.ExtractRequirements(rawText),
		Keywords:     a.ExtractKeywords(rawText),
		CreatedAt:    a.now(),
	}
}

// ExtractKeywords returns up to MaxKeywords tokens ranked by frequency.
// Ties keep first-occurrence order.
func (a *Analyzer) ExtractKeywords(text string) []string {
	cleaned := a.punctuation.ReplaceAllString(strings.ToLower(text), " ")

	counts := make(map[string]int)
	order := make([]string, 0)
	for _, token := range strings.Fields(cleaned) {
		if len(token) < minKeywordLength {
			continue
		}
		if _, stop := a.stopWords[token]; stop {
			continue
		}
		if _, seen := counts[token]; !seen {
			order = append(order, token)
		}
		counts[token]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > MaxKeywords {
		order = order[:MaxKeywords]
	}
	return order
}

// ExtractRequirements applies the heading-block, skill-phrase and years-of-experience
// patterns in that order and returns up to MaxRequirements cleaned matches.
// Overlapping matches are kept as-is.
func (a *Analyzer) ExtractRequirements(text string) []string {
	var matches []string
	matches = append(matches, a.headingBlocks(text)...)
	matches = append(matches, a.requirementPhrase.FindAllString(text, -1)...)
	matches = append(matches, a.requirementYears.FindAllString(text, -1)...)

	requirements := make([]string, 0, MaxRequirements)
	for _, m := range matches {
		cleaned := a.requirementTrimEdges.ReplaceAllString(strings.TrimSpace(m), "")
		if len(cleaned) < minRequirementLength {
			continue
		}
		requirements = append(requirements, cleaned)
		if len(requirements) == MaxRequirements {
			break
		}
	}
	return requirements
}

// headingBlocks returns each requirement heading together with the block it introduces.
// A block ends at the next blank line or the next line starting with a capital letter.
func (a *Analyzer) headingBlocks(text string) []string {
	var blocks []string
	pos := 0
	for pos < len(text) {
		loc := a.requirementHeading.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start := pos + loc[0]
		bodyStart := pos + loc[1]

		end := len(text)
		if stop := a.requirementBlockEnd.FindStringIndex(text[bodyStart:]); stop != nil {
			end = bodyStart + stop[0]
		}
		blocks = append(blocks, text[start:end])

		pos = end
	}
	return blocks
}

// ExtractTitle finds the job title on the first non-blank line
func (a *Analyzer) ExtractTitle(text string) string {
	line := firstNonBlankLine(text)
	for _, pattern := range a.titlePatterns {
		if m := pattern.FindStringSubmatch(line); m != nil {
			if title := strings.TrimSpace(m[1]); title != "" {
				return title
			}
		}
	}
	if line != "" && len(line) < maxTitleLength {
		return line
	}
	return FallbackTitle
}

// ExtractCompany finds the hiring company anywhere in the text
func (a *Analyzer) ExtractCompany(text string) string {
	for _, pattern := range a.companyPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			if company := strings.TrimRight(strings.TrimSpace(m[1]), ".,;:"); company != "" {
				return company
			}
		}
	}
	return FallbackCompany
}

func firstNonBlankLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
