package optimizer

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/uzzielperez/ChamiNexT-sub000/internal/scoring"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/types"
)

// maxConcurrentJobs bounds the goroutines used by ScoreJobs
const maxConcurrentJobs = 4

// JobScore is the result of scoring one CV against one job posting
type JobScore struct {
	Source          string               `json:"source"`
	JobDescription  types.JobDescription `json:"jobDescription"`
	Score           int                  `json:"score"`
	KeywordMatch    int                  `json:"keywordMatch"`
	MissingKeywords []string             `json:"missingKeywords"`
}

// JobText is a raw job posting and where it came from (file path or URL)
type JobText struct {
	Source string
	Text   string
}

// ScoreJobs analyzes every posting and scores cv against each concurrently.
// Results keep the order of jobs.
func (e *Engine) ScoreJobs(ctx context.Context, cv string, jobs []JobText) ([]JobScore, error) {
	results := make([]JobScore, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentJobs)

	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("scoring %s: %w", job.Source, err)
			}
			jd := e.analyzer.Analyze(job.Text)
			results[i] = JobScore{
				Source:          job.Source,
				JobDescription:  jd,
				Score:           scoring.CalculateBasicScore(cv, &jd),
				KeywordMatch:    scoring.CalculateKeywordMatch(cv, jd.Keywords),
				MissingKeywords: scoring.MissingKeywords(cv, jd.Keywords),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
