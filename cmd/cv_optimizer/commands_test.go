package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uzzielperez/ChamiNexT-sub000/internal/config"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/optimizer"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/suggestions"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/types"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/validation"
)

const testJob = "Senior React Developer\nAcme Corp\nRequirements: 5+ years experience with React, TypeScript, and Node.js."

const testCV = `Experience
Built Java services for payments at scale with a small team of engineers.
Skills
Java, SQL, Docker, Kubernetes and cloud infrastructure tooling.`

const serviceResponse = `{
  "suggestions": [{
    "id": "s-1",
    "type": "keyword",
    "section": "skills",
    "originalText": "",
    "suggestedText": "React",
    "reasoning": "Listed in the job posting",
    "priority": "high",
    "confidence": 0.9
  }],
  "analysis": {
    "overallScore": 64,
    "keywordMatch": 40,
    "contentRelevance": 60,
    "structureScore": 80,
    "improvementAreas": ["Keywords"],
    "strengths": ["Clear layout"],
    "missingKeywords": ["react"],
    "recommendedChanges": 1
  },
  "sessionId": "remote-session"
}`

// runCLI executes the root command in process with env as the only environment
func runCLI(t *testing.T, env map[string]string, args ...string) (string, error) {
	t.Helper()
	getenv := func(key string) string { return env[key] }

	root := newRootCmd(getenv)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestValidateCVCommand(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		out, err := runCLI(t, nil, "validate-cv", writeFile(t, "cv.txt", testCV))

		require.NoError(t, err)
		assert.Contains(t, out, "CV VALIDATION")
		assert.Contains(t, out, "CV content is valid")
	})

	t.Run("too short", func(t *testing.T) {
		out, err := runCLI(t, nil, "validate-cv", writeFile(t, "cv.txt", "too short"))

		var contentErr *validation.CVContentError
		require.ErrorAs(t, err, &contentErr)
		assert.Contains(t, out, validation.MsgTooShort)
		assert.Contains(t, out, validation.MsgTooFewWords)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := runCLI(t, nil, "validate-cv", filepath.Join(t.TempDir(), "missing.txt"))
		assert.ErrorContains(t, err, "failed to read")
	})

	t.Run("no argument", func(t *testing.T) {
		_, err := runCLI(t, nil, "validate-cv")
		assert.Error(t, err)
	})
}

func TestAnalyzeJobCommand_JSON(t *testing.T) {
	out, err := runCLI(t, nil, "analyze-job", "--json", writeFile(t, "job.txt", testJob))
	require.NoError(t, err)

	var jd types.JobDescription
	require.NoError(t, json.Unmarshal([]byte(out), &jd), out)
	assert.Equal(t, "Senior React Developer", jd.Title)
	assert.Contains(t, jd.Keywords, "react")
}

func TestAnalyzeJobCommand_URL(t *testing.T) {
	posting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><body><main><h1>Senior React Developer</h1>
<p>Requirements: 5+ years experience with React, TypeScript, and Node.js.</p></main></body></html>`)
	}))
	defer posting.Close()

	out, err := runCLI(t, nil, "analyze-job", "--url", posting.URL)

	require.NoError(t, err)
	assert.Contains(t, out, "JOB DESCRIPTION")
	assert.Contains(t, out, "Senior React Developer")
}

func TestAnalyzeJobCommand_InputErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no input", []string{"analyze-job"}, "job description file or URL is required"},
		{"file and url", []string{"analyze-job", "job.txt", "--url", "https://example.com"}, "not both"},
		{"too many files", []string{"analyze-job", "a.txt", "b.txt"}, "accepts at most 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, nil, tt.args...)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestScoreCommand(t *testing.T) {
	cv := writeFile(t, "cv.txt", testCV)
	react := writeFile(t, "react.txt", testJob)
	backend := writeFile(t, "backend.txt", "Backend Engineer\nRequirements: Java, SQL, Docker and Kubernetes.")

	t.Run("summary", func(t *testing.T) {
		out, err := runCLI(t, nil, "score", "--cv", cv, react, backend)

		require.NoError(t, err)
		assert.Contains(t, out, "JOB SCORES")
		assert.Contains(t, out, "Senior React Developer")
		assert.Contains(t, out, "Backend Engineer")
		assert.Contains(t, out, "Source: react.txt")
		assert.Contains(t, out, "Source: backend.txt")
	})

	t.Run("json keeps order", func(t *testing.T) {
		out, err := runCLI(t, nil, "score", "--json", "--cv", cv, react, backend)
		require.NoError(t, err)

		var scores []optimizer.JobScore
		require.NoError(t, json.Unmarshal([]byte(out), &scores), out)
		require.Len(t, scores, 2)
		assert.Equal(t, react, scores[0].Source)
		assert.Equal(t, backend, scores[1].Source)
		assert.Greater(t, scores[1].KeywordMatch, scores[0].KeywordMatch)
	})

	t.Run("no jobs", func(t *testing.T) {
		_, err := runCLI(t, nil, "score", "--cv", cv)
		assert.ErrorContains(t, err, "at least one job")
	})

	t.Run("missing cv flag", func(t *testing.T) {
		_, err := runCLI(t, nil, "score", react)
		assert.ErrorContains(t, err, `required flag(s) "cv" not set`)
	})
}

func TestSuggestCommand_Fallback(t *testing.T) {
	cv := writeFile(t, "cv.txt", testCV)
	job := writeFile(t, "job.txt", testJob)

	out, err := runCLI(t, nil, "suggest", "--cv", cv, "--job", job, "--level", "aggressive", "--focus", "skills")

	require.NoError(t, err)
	assert.Contains(t, out, "CV ANALYSIS")
	assert.Contains(t, out, "SUGGESTIONS (fallback)")
}

func TestSuggestCommand_JSON(t *testing.T) {
	cv := writeFile(t, "cv.txt", testCV)
	job := writeFile(t, "job.txt", testJob)

	out, err := runCLI(t, nil, "suggest", "--json", "--cv", cv, "--job", job)
	require.NoError(t, err)

	var result suggestOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result), out)
	assert.Equal(t, suggestions.SourceFallback, result.Source)
	require.NotNil(t, result.Response)
	assert.NotEmpty(t, result.Response.Suggestions)
	assert.Contains(t, result.Response.Analysis.MissingKeywords, "react")
}

func TestSuggestCommand_InvalidInput(t *testing.T) {
	job := writeFile(t, "job.txt", testJob)

	t.Run("short cv", func(t *testing.T) {
		_, err := runCLI(t, nil, "suggest", "--cv", writeFile(t, "cv.txt", "too short"), "--job", job)
		var contentErr *validation.CVContentError
		assert.ErrorAs(t, err, &contentErr)
	})

	t.Run("bad level", func(t *testing.T) {
		_, err := runCLI(t, nil, "suggest", "--cv", writeFile(t, "cv.txt", testCV), "--job", job, "--level", "extreme")
		assert.ErrorContains(t, err, "extreme")
	})
}

func TestSuggestCommand_ServiceFromConfigFile(t *testing.T) {
	var received types.OptimizationRequest
	service := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&received)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(serviceResponse))
	}))
	defer service.Close()

	configPath := writeFile(t, "config.yaml", fmt.Sprintf("ai_provider: service\nai_service_url: %s\n", service.URL))
	env := map[string]string{
		"CV_AI_PROVIDER":        "none",
		"CV_OPTIMIZATION_LEVEL": "conservative",
	}

	out, err := runCLI(t, env, "suggest", "--config", configPath,
		"--cv", writeFile(t, "cv.txt", testCV), "--job", writeFile(t, "job.txt", testJob))

	require.NoError(t, err)
	assert.Contains(t, out, "SUGGESTIONS (remote)")
	assert.Contains(t, out, "+ React")
	assert.Equal(t, types.LevelConservative, received.OptimizationLevel)
}

func TestSuggestCommand_ServiceDownFallsBack(t *testing.T) {
	service := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer service.Close()

	env := map[string]string{
		"CV_AI_PROVIDER":    "service",
		"CV_AI_SERVICE_URL": service.URL,
	}

	out, err := runCLI(t, env, "suggest",
		"--cv", writeFile(t, "cv.txt", testCV), "--job", writeFile(t, "job.txt", testJob))

	require.NoError(t, err)
	assert.Contains(t, out, "SUGGESTIONS (fallback)")
}

func TestConfigErrors(t *testing.T) {
	cv := writeFile(t, "cv.txt", testCV)

	tests := []struct {
		name    string
		env     map[string]string
		args    []string
		wantErr string
	}{
		{
			name:    "unknown provider",
			env:     map[string]string{"CV_AI_PROVIDER": "bogus"},
			args:    []string{"validate-cv", cv},
			wantErr: "unknown 'ai_provider'",
		},
		{
			name:    "service without url",
			env:     map[string]string{"CV_AI_PROVIDER": "service"},
			args:    []string{"validate-cv", cv},
			wantErr: "'ai_service_url' is required",
		},
		{
			name:    "gemini without key",
			env:     map[string]string{"CV_AI_PROVIDER": "gemini"},
			args:    []string{"analyze-job", writeFile(t, "job.txt", testJob)},
			wantErr: "API key is required",
		},
		{
			name:    "bad log level flag",
			args:    []string{"--log-level", "loud", "validate-cv", cv},
			wantErr: "invalid log level",
		},
		{
			name:    "missing config file",
			args:    []string{"--config", filepath.Join(t.TempDir(), "nope.yaml"), "validate-cv", cv},
			wantErr: "nope.yaml",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.env, tt.args...)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"skills", "summary"}, splitList(" skills, ,summary "))
	assert.Nil(t, splitList(""))
}

func TestStoreDSN(t *testing.T) {
	cfg := config.Config{Store: config.StorePostgres, DatabaseURL: "postgres://db", RedisURL: "redis://cache"}
	assert.Equal(t, "postgres://db", storeDSN(cfg))
	cfg.Store = config.StoreRedis
	assert.Equal(t, "redis://cache", storeDSN(cfg))
	cfg.Store = config.StoreMemory
	assert.Empty(t, storeDSN(cfg))
}
