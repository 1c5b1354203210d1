package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/uzzielperez/ChamiNexT-sub000/internal/optimizer"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/validation"
	"go.uber.org/zap"
)

// AnalyzeJobRequest is the body of POST /jobs/analyze
type AnalyzeJobRequest struct {
	Text string `json:"text" validate:"required_without=URL"`
	URL  string `json:"url" validate:"omitempty,url"`
}

// CVRequest is the body of POST /cv/validate
type CVRequest struct {
	CV string `json:"cv"`
}

// ScoreRequest is the body of POST /cv/score
type ScoreRequest struct {
	CV   string   `json:"cv" validate:"required"`
	Jobs []string `json:"jobs" validate:"required,min=1,max=20,dive,required"`
}

// ScoreResponse lists one score per job, in request order
type ScoreResponse struct {
	Scores []optimizer.JobScore `json:"scores"`
}

// AnalyzeCVRequest is the body of POST /cv/analyze
type AnalyzeCVRequest struct {
	CV             string `json:"cv" validate:"required"`
	JobDescription string `json:"jobDescription" validate:"required"`
}

// handleAnalyzeJob extracts a structured job description from text or a posting URL
func (s *Server) handleAnalyzeJob(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeJobRequest
	if err := s.decode(r, &req, false); err != nil {
		s.failure(w, r, err)
		return
	}

	text, err := s.jobText(r.Context(), req.Text, req.URL)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.engine.AnalyzeJob(text))
}

// handleValidateCV reports every length and word-count problem of a CV
func (s *Server) handleValidateCV(w http.ResponseWriter, r *http.Request) {
	var req CVRequest
	if err := s.decode(r, &req, false); err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, validation.ValidateCVContent(req.CV))
}

// handleScoreCV scores one CV against several job postings
func (s *Server) handleScoreCV(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := s.decode(r, &req, false); err != nil {
		s.failure(w, r, err)
		return
	}

	jobs := make([]optimizer.JobText, len(req.Jobs))
	for i, text := range req.Jobs {
		jobs[i] = optimizer.JobText{Source: fmt.Sprintf("job-%d", i+1), Text: text}
	}

	scores, err := s.engine.ScoreJobs(r.Context(), req.CV, jobs)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ScoreResponse{Scores: scores})
}

// handleAnalyzeCV computes the local optimization analysis of a CV for one job
func (s *Server) handleAnalyzeCV(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeCVRequest
	if err := s.decode(r, &req, false); err != nil {
		s.failure(w, r, err)
		return
	}

	jd := s.engine.AnalyzeJob(req.JobDescription)
	s.jsonResponse(w, http.StatusOK, s.engine.Analyze(req.CV, &jd))
}

// jobText returns text as is, or the posting text behind url when text is blank
func (s *Server) jobText(ctx context.Context, text, url string) (string, error) {
	if strings.TrimSpace(text) != "" || url == "" {
		return text, nil
	}

	posting, err := s.fetcher.JobPosting(ctx, url)
	if err != nil {
		s.logger.Warn("job posting fetch failed", zap.String("url", url), zap.Error(err))
		return "", err
	}
	return posting, nil
}

// contentErrors returns the individual CV problems carried by err, if any
func contentErrors(err error) []string {
	var content *validation.CVContentError
	if errors.As(err, &content) {
		return content.Errors
	}
	return nil
}
