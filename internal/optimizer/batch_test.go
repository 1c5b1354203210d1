package optimizer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreJobs(t *testing.T) {
	e := New()
	jobs := []JobText{
		{Source: "react.txt", Text: reactJob},
		{Source: "java.txt", Text: "Java Engineer. Requirements: experience with Java and Spring."},
		{Source: "go.txt", Text: "Go Developer - Acme\nRequirements: 3+ years writing Go services."},
	}

	results, err := e.ScoreJobs(context.Background(), "I am a Java developer with Spring experience.", jobs)

	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, jobs[i].Source, r.Source)
		assert.NotEmpty(t, r.JobDescription.Keywords)
	}
	assert.Greater(t, results[1].KeywordMatch, results[0].KeywordMatch)
	assert.Contains(t, results[0].MissingKeywords, "react")
}

func TestScoreJobs_Empty(t *testing.T) {
	results, err := New().ScoreJobs(context.Background(), "cv", nil)

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestScoreJobs_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().ScoreJobs(ctx, "cv", []JobText{{Source: "a", Text: reactJob}})
	assert.ErrorIs(t, err, context.Canceled)
}
