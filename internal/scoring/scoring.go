// Package scoring computes keyword-match percentages and optimization scores
// between CV content and a job description.
package scoring

import (
	"math"
	"strings"

	"github.com/uzzielperez/ChamiNexT-sub000/internal/types"
)

// Score components
const (
	baseScore           = 50.0
	keywordMatchWeight  = 0.4
	idealLengthBonus    = 10.0
	adequateLengthBonus = 5.0
	maxScore            = 100.0
)

// Word-count bands for the length bonus
const (
	idealMinWords    = 300
	idealMaxWords    = 800
	adequateMinWords = 200
	adequateMaxWords = 1000
)

// CalculateKeywordMatch returns the percentage (0-100) of keywords found in the CV.
// Matching is case-insensitive substring matching. An empty keyword list scores 100.
func CalculateKeywordMatch(cvText string, keywords []string) int {
	if len(keywords) == 0 {
		return 100
	}

	found := len(keywords) - len(MissingKeywords(cvText, keywords))
	return int(math.Round(float64(found) / float64(len(keywords)) * 100))
}

// CalculateBasicScore returns a 0-100 optimization score: a base of 50, up to 40 points
// for keyword coverage and up to 10 points for CV length.
func CalculateBasicScore(cvText string, jd *types.JobDescription) int {
	var keywords []string
	if jd != nil {
		keywords = jd.Keywords
	}

	score := baseScore + float64(CalculateKeywordMatch(cvText, keywords))*keywordMatchWeight
	score += lengthBonus(WordCount(cvText))

	return int(math.Round(math.Min(score, maxScore)))
}

// MissingKeywords returns the keywords that do not appear in the CV, in their original order
func MissingKeywords(cvText string, keywords []string) []string {
	cvLower := strings.ToLower(cvText)

	missing := make([]string, 0)
	for _, keyword := range keywords {
		if !strings.Contains(cvLower, strings.ToLower(keyword)) {
			missing = append(missing, keyword)
		}
	}
	return missing
}

// WordCount counts whitespace-separated words
func WordCount(text string) int {
	return len(strings.Fields(text))
}

func lengthBonus(words int) float64 {
	switch {
	case words >= idealMinWords && words <= idealMaxWords:
		return idealLengthBonus
	case words >= adequateMinWords && words <= adequateMaxWords:
		return adequateLengthBonus
	default:
		return 0
	}
}
