package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/uzzielperez/ChamiNexT-sub000/internal/analysis"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/observability"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/optimizer"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/server/middleware"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/server/ratelimit"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/session"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/types"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/validation"
)

const testJob = "Senior React Developer\nAcme Corp\nRequirements: 5+ years experience with React, TypeScript, and Node.js."

const testCV = `Experience
Built Java services for payments at scale with a small team of engineers.
Skills
Java, SQL, Docker, Kubernetes and cloud infrastructure tooling.`

type testServer struct {
	*Server
	metrics *observability.Collector
	logs    *observer.ObservedLogs
}

func newTestServer(t *testing.T, rl *ratelimit.Config) *testServer {
	t.Helper()
	if rl == nil {
		rl = &ratelimit.Config{Enabled: false}
	}

	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	metrics := observability.NewCollector("cvtest")

	n := 0
	ids := func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	fixed := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	engine := optimizer.New(
		optimizer.WithAnalyzer(analysis.NewAnalyzer(analysis.WithClock(func() time.Time { return fixed }), analysis.WithIDGenerator(ids))),
		optimizer.WithSessionManager(session.NewManager(session.WithClock(func() time.Time { return fixed }), session.WithIDGenerator(ids))),
		optimizer.WithLogger(logger),
		optimizer.WithMetrics(metrics),
	)

	s := New(Config{Port: 0, RateLimit: rl}, engine, WithLogger(logger), WithMetrics(metrics))
	t.Cleanup(s.Close)
	return &testServer{Server: s, metrics: metrics, logs: logs}
}

// do sends a request through the full middleware chain
func (s *testServer) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (s *testServer) createSession(t *testing.T, userID string) *types.Session {
	t.Helper()
	w := s.do(t, http.MethodPost, "/sessions", CreateSessionRequest{UserID: userID, JobDescription: testJob, CV: testCV})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody[*types.Session](t, w)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{"status": "ok"}, decodeBody[map[string]string](t, w))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	s.do(t, http.MethodGet, "/health", nil)

	w := s.do(t, http.MethodGet, "/metrics", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `cvtest_http_requests_total{method="GET",route="GET /health",status="200"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodOptions, "/sessions", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), middleware.UserHeader)
}

func TestRequestLogging(t *testing.T) {
	s := newTestServer(t, nil)
	s.createSession(t, "u1")

	entries := s.logs.FilterMessage("request completed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "POST /sessions", fields["route"])
	assert.Equal(t, int64(http.StatusCreated), fields["status"])
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/nope", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	entries := s.logs.FilterMessage("request completed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "unmatched", entries[0].ContextMap()["route"])
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, &ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []ratelimit.EndpointConfig{
			{Path: "/cv/validate", Method: "POST", Limit: 1, Window: time.Hour, Burst: 1},
		},
	})

	first := s.do(t, http.MethodPost, "/cv/validate", CVRequest{CV: testCV})
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

	second := s.do(t, http.MethodPost, "/cv/validate", CVRequest{CV: testCV})
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	body := decodeBody[map[string]any](t, second)
	assert.Equal(t, "rate_limit_exceeded", body["error"])

	health := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, health.Code)
}

func TestAnalyzeJob_Text(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/jobs/analyze", AnalyzeJobRequest{Text: testJob})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	jd := decodeBody[types.JobDescription](t, w)
	assert.Equal(t, "Senior React Developer", jd.Title)
	assert.NotEmpty(t, jd.Keywords)
}

func TestAnalyzeJob_URL(t *testing.T) {
	posting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><body><nav>Home Jobs</nav><main><h1>Senior React Developer</h1>
<p>Requirements: 5+ years experience with React, TypeScript, and Node.js.</p></main></body></html>`)
	}))
	defer posting.Close()

	s := newTestServer(t, nil)
	w := s.do(t, http.MethodPost, "/jobs/analyze", AnalyzeJobRequest{URL: posting.URL + "/jobs/1"})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	jd := decodeBody[types.JobDescription](t, w)
	assert.Equal(t, "Senior React Developer", jd.Title)
	assert.Contains(t, jd.Description, "TypeScript")
}

func TestAnalyzeJob_UpstreamFailure(t *testing.T) {
	posting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer posting.Close()

	s := newTestServer(t, nil)
	w := s.do(t, http.MethodPost, "/jobs/analyze", AnalyzeJobRequest{URL: posting.URL})

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestAnalyzeJob_Invalid(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name string
		body any
	}{
		{"neither text nor url", AnalyzeJobRequest{}},
		{"bad url", AnalyzeJobRequest{URL: "not a url"}},
		{"malformed json", "{"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/jobs/analyze", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, decodeBody[map[string]any](t, w)["error"], "validation error")
		})
	}
}

func TestValidateCV(t *testing.T) {
	s := newTestServer(t, nil)

	ok := s.do(t, http.MethodPost, "/cv/validate", CVRequest{CV: testCV})
	require.Equal(t, http.StatusOK, ok.Code)
	assert.True(t, decodeBody[validation.CVValidationResult](t, ok).IsValid)

	short := s.do(t, http.MethodPost, "/cv/validate", CVRequest{CV: "too short"})
	require.Equal(t, http.StatusOK, short.Code)
	result := decodeBody[validation.CVValidationResult](t, short)
	assert.False(t, result.IsValid)
	assert.Equal(t, []string{validation.MsgTooShort, validation.MsgTooFewWords}, result.Errors)
}

func TestScoreCV(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/cv/score", ScoreRequest{
		CV:   testCV,
		Jobs: []string{testJob, "Backend Engineer\nRequirements: Java, SQL, Docker and Kubernetes."},
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeBody[ScoreResponse](t, w)
	require.Len(t, resp.Scores, 2)
	assert.Equal(t, "job-1", resp.Scores[0].Source)
	assert.Equal(t, "job-2", resp.Scores[1].Source)
	assert.Greater(t, resp.Scores[1].KeywordMatch, resp.Scores[0].KeywordMatch)

	empty := s.do(t, http.MethodPost, "/cv/score", ScoreRequest{CV: testCV})
	assert.Equal(t, http.StatusBadRequest, empty.Code)
}

func TestAnalyzeCV(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/cv/analyze", AnalyzeCVRequest{CV: testCV, JobDescription: testJob})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	analysis := decodeBody[types.OptimizationAnalysis](t, w)
	assert.NotEmpty(t, analysis.MissingKeywords)
	assert.Contains(t, analysis.MissingKeywords, "react")
}
