package suggestions

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/analysis"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/scoring"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/types"
)

// Fallback scoring constants
const (
	highPriorityKeywords = 5
	keywordConfidence    = 0.7
	summaryConfidence    = 0.8
	contentRelevance     = 70
	structureScore       = 75
	summaryKeywordCount  = 3
)

var (
	fallbackImprovementAreas = []string{"Keyword optimization", "Content relevance"}
	fallbackStrengths        = []string{"Professional formatting"}

	// fallbackNamespace seeds the name-based ids so identical inputs produce identical output
	fallbackNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("cv-optimizer/fallback-suggestions"))
)

// Fallback builds suggestions and analysis locally from keyword coverage.
// The output is a pure function of the CV text and job description.
func Fallback(req *types.OptimizationRequest) *types.OptimizationResponse {
	if req == nil {
		req = &types.OptimizationRequest{}
	}
	cv := req.CVContent
	jd := req.JobDescription
	seed := fallbackSeed(cv, &jd)

	missing := scoring.MissingKeywords(cv, jd.Keywords)
	suggestions := make([]types.Suggestion, 0, len(missing)+1)

	for i, keyword := range missing {
		priority := types.PriorityMedium
		if i < highPriorityKeywords {
			priority = types.PriorityHigh
		}
		suggestions = append(suggestions, types.Suggestion{
			ID:            deterministicID(seed, "keyword", keyword),
			Type:          types.SuggestionKeyword,
			Section:       types.SectionSkills,
			SuggestedText: keyword,
			Reasoning:     fmt.Sprintf("The job description mentions %q but your CV does not.", keyword),
			Priority:      priority,
			Confidence:    keywordConfidence,
		})
	}

	if !hasSummary(cv) {
		suggestions = append(suggestions, types.Suggestion{
			ID:            deterministicID(seed, "structure", "summary"),
			Type:          types.SuggestionStructure,
			Section:       types.SectionSummary,
			SuggestedText: summaryText(&jd),
			Reasoning:     "A professional summary at the top of your CV tells recruiters quickly why you fit the role.",
			Priority:      types.PriorityHigh,
			Confidence:    summaryConfidence,
		})
	}

	return &types.OptimizationResponse{
		Suggestions: suggestions,
		Analysis: types.OptimizationAnalysis{
			OverallScore:       scoring.CalculateBasicScore(cv, &jd),
			KeywordMatch:       scoring.CalculateKeywordMatch(cv, jd.Keywords),
			ContentRelevance:   contentRelevance,
			StructureScore:     structureScore,
			ImprovementAreas:   append([]string(nil), fallbackImprovementAreas...),
			Strengths:          append([]string(nil), fallbackStrengths...),
			MissingKeywords:    missing,
			RecommendedChanges: len(suggestions),
		},
		SessionID: uuid.NewSHA1(fallbackNamespace, []byte(seed)).String(),
	}
}

// Analyze returns the fallback analysis for cv against jd without suggestions
func Analyze(cv string, jd *types.JobDescription) types.OptimizationAnalysis {
	req := &types.OptimizationRequest{CVContent: cv}
	if jd != nil {
		req.JobDescription = *jd
	}
	return Fallback(req).Analysis
}

func hasSummary(cv string) bool {
	lower := strings.ToLower(cv)
	return strings.Contains(lower, "summary") || strings.Contains(lower, "objective")
}

func summaryText(jd *types.JobDescription) string {
	text := "Professional Summary: Results-driven professional"
	if jd.Title != "" && jd.Title != analysis.FallbackTitle {
		text += " targeting the " + jd.Title + " role"
	}
	if n := min(len(jd.Keywords), summaryKeywordCount); n > 0 {
		text += " with strengths in " + strings.Join(jd.Keywords[:n], ", ")
	}
	return text + "."
}

func fallbackSeed(cv string, jd *types.JobDescription) string {
	return strings.Join([]string{cv, jd.Title, jd.Company, jd.Description, strings.Join(jd.Keywords, ",")}, "\x00")
}

func deterministicID(seed, kind, name string) string {
	return uuid.NewSHA1(fallbackNamespace, []byte(seed+"\x00"+kind+"\x00"+name)).String()
}
