package server

import (
	"net/http"
	"strconv"

	"github.com/uzzielperez/ChamiNexT-sub000/internal/db"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/optimizer"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/server/middleware"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/session"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/suggestions"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/types"
	"go.uber.org/zap"
)

// CreateSessionRequest is the body of POST /sessions.
// The job is given either as text or as a posting URL.
type CreateSessionRequest struct {
	UserID         string `json:"userId" validate:"max=128"`
	JobDescription string `json:"jobDescription" validate:"required_without=JobURL"`
	JobURL         string `json:"jobUrl" validate:"omitempty,url"`
	CV             string `json:"cv" validate:"required"`
}

// SuggestionsRequest is the optional body of POST /sessions/{id}/suggestions
type SuggestionsRequest struct {
	OptimizationLevel   types.OptimizationLevel `json:"optimizationLevel"`
	PreservePersonality *bool                   `json:"preservePersonality"`
	FocusAreas          []string                `json:"focusAreas" validate:"max=5,dive,oneof=summary experience skills education general"`
}

// SuggestionsResponse returns the updated session with the generated suggestions
type SuggestionsResponse struct {
	Session     *types.Session             `json:"session"`
	Suggestions []types.Suggestion         `json:"suggestions"`
	Analysis    types.OptimizationAnalysis `json:"analysis"`
	Source      suggestions.Source         `json:"source"`
}

// ChatRequest is the body of POST /sessions/{id}/chat
type ChatRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

// ChatResponse returns the updated session and the ai reply
type ChatResponse struct {
	Session     *types.Session     `json:"session"`
	Reply       types.ChatMessage  `json:"reply"`
	Suggestions []types.Suggestion `json:"suggestions"`
	Source      suggestions.Source `json:"source"`
}

// ApplyRequest is the body of POST /sessions/{id}/apply
type ApplyRequest struct {
	SuggestionID string `json:"suggestionId" validate:"required"`
}

// RevertRequest is the body of POST /sessions/{id}/revert
type RevertRequest struct {
	Version int `json:"version" validate:"required,min=1"`
}

// StatusRequest is the body of POST /sessions/{id}/status
type StatusRequest struct {
	Status types.SessionStatus `json:"status" validate:"required"`
}

// SessionListResponse lists a user's sessions, most recently updated first
type SessionListResponse struct {
	Sessions []*types.Session `json:"sessions"`
}

// handleCreateSession validates the CV, analyzes the job and stores a new session
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := s.decode(r, &req, false); err != nil {
		s.failure(w, r, err)
		return
	}

	userID := req.UserID
	if caller, ok := middleware.UserID(r.Context()); ok {
		if userID != "" && userID != caller {
			s.failure(w, r, &ErrForbidden{UserID: userID})
			return
		}
		userID = caller
	}

	jobText, err := s.jobText(r.Context(), req.JobDescription, req.JobURL)
	if err != nil {
		s.failure(w, r, err)
		return
	}

	sess, err := s.engine.StartSession(userID, jobText, req.CV)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, sess)
}

// handleGetSession returns one session
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.loadSession(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, sess)
}

// handleDeleteSession removes a session
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.loadSession(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	if err := s.store.Delete(r.Context(), sess.ID); err != nil {
		s.failure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListUserSessions lists the sessions owned by a user
func (s *Server) handleListUserSessions(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if caller, ok := middleware.UserID(r.Context()); ok && caller != userID {
		s.failure(w, r, &ErrForbidden{UserID: userID})
		return
	}

	sessions, err := s.store.ListByUser(r.Context(), userID)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	if sessions == nil {
		sessions = []*types.Session{}
	}
	s.jsonResponse(w, http.StatusOK, SessionListResponse{Sessions: sessions})
}

// handleRequestSuggestions generates suggestions for the session's current CV
func (s *Server) handleRequestSuggestions(w http.ResponseWriter, r *http.Request) {
	var req SuggestionsRequest
	if err := s.decode(r, &req, true); err != nil {
		s.failure(w, r, err)
		return
	}
	sess, err := s.loadSession(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}

	opts := optimizer.DefaultOptions()
	opts.Level = req.OptimizationLevel
	opts.FocusAreas = req.FocusAreas
	if req.PreservePersonality != nil {
		opts.PreservePersonality = *req.PreservePersonality
	}

	next, result := s.engine.RequestSuggestions(r.Context(), sess, opts)
	if err := s.store.Save(r.Context(), next); err != nil {
		s.failure(w, r, err)
		return
	}

	resp := result.Response()
	s.jsonResponse(w, http.StatusOK, SuggestionsResponse{
		Session:     next,
		Suggestions: nonNil(resp.Suggestions),
		Analysis:    resp.Analysis,
		Source:      result.Source(),
	})
}

// handleChat posts a user message and answers it with suggestions and an ai reply
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := s.decode(r, &req, false); err != nil {
		s.failure(w, r, err)
		return
	}
	sess, err := s.loadSession(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}

	next, result := s.engine.Chat(r.Context(), sess, req.Message)
	if err := s.store.Save(r.Context(), next); err != nil {
		s.failure(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ChatResponse{
		Session:     next,
		Reply:       lastMessage(next),
		Suggestions: nonNil(result.Response().Suggestions),
		Source:      result.Source(),
	})
}

// handleChatStream runs the same exchange as handleChat but streams it as server-sent events:
// the ai message, the suggestions, then a completion event.
func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := s.decode(r, &req, false); err != nil {
		s.failure(w, r, err)
		return
	}
	sess, err := s.loadSession(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	next, result := s.engine.Chat(r.Context(), sess, req.Message)
	if err := s.store.Save(r.Context(), next); err != nil {
		s.logger.Error("failed to save session", zap.String("sessionID", next.ID), zap.Error(err))
		s.writeEvents(sse, func() error { return sse.WriteError("failed to save session") })
		return
	}

	s.writeEvents(sse,
		func() error { return sse.WriteEvent(eventMessage, lastMessage(next)) },
		func() error { return sse.WriteEvent(eventSuggestions, nonNil(result.Response().Suggestions)) },
		func() error { return sse.WriteComplete(next.ID, string(result.Source()), next.CurrentCV.Version) },
	)
}

func (s *Server) writeEvents(sse *SSEWriter, writes ...func() error) {
	for _, write := range writes {
		if err := write(); err != nil {
			s.logger.Debug("event stream closed", zap.Error(err))
			return
		}
	}
}

// handleApplySuggestion applies a recorded suggestion, creating a new CV version
func (s *Server) handleApplySuggestion(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if err := s.decode(r, &req, false); err != nil {
		s.failure(w, r, err)
		return
	}
	s.updateSession(w, r, func(sess *types.Session) (*types.Session, error) {
		return s.engine.Apply(sess, req.SuggestionID)
	})
}

// handleResetSession makes the original CV current again
func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	s.updateSession(w, r, func(sess *types.Session) (*types.Session, error) {
		return s.engine.Sessions().ResetToOriginal(sess), nil
	})
}

// handleRevertSession makes an earlier version current again
func (s *Server) handleRevertSession(w http.ResponseWriter, r *http.Request) {
	var req RevertRequest
	if err := s.decode(r, &req, false); err != nil {
		s.failure(w, r, err)
		return
	}
	s.updateSession(w, r, func(sess *types.Session) (*types.Session, error) {
		return s.engine.Sessions().RevertToVersion(sess, req.Version)
	})
}

// handleSetStatus relabels the session
func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := s.decode(r, &req, false); err != nil {
		s.failure(w, r, err)
		return
	}
	s.updateSession(w, r, func(sess *types.Session) (*types.Session, error) {
		return s.engine.Sessions().SetStatus(sess, req.Status)
	})
}

// handleCompareVersions compares two versions, by default the original and the current one
func (s *Server) handleCompareVersions(w http.ResponseWriter, r *http.Request) {
	sess, err := s.loadSession(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}

	before, err := versionParam(r, "from", sess, sess.OriginalCV)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	after, err := versionParam(r, "to", sess, sess.CurrentCV)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, session.CompareVersions(before, after))
}

// updateSession loads the session, applies fn and saves the result
func (s *Server) updateSession(w http.ResponseWriter, r *http.Request, fn func(*types.Session) (*types.Session, error)) {
	sess, err := s.loadSession(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	next, err := fn(sess)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	if err := s.store.Save(r.Context(), next); err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, next)
}

// loadSession fetches the session named by the {id} path value.
// A caller identified by header only sees its own sessions.
func (s *Server) loadSession(r *http.Request) (*types.Session, error) {
	sess, err := s.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		return nil, err
	}
	if caller, ok := middleware.UserID(r.Context()); ok && sess.UserID != caller {
		return nil, db.ErrSessionNotFound
	}
	return sess, nil
}

func versionParam(r *http.Request, name string, sess *types.Session, def types.CVVersion) (types.CVVersion, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return types.CVVersion{}, &ErrValidation{Field: name, Message: "must be a positive version number"}
	}
	v, ok := sess.FindVersion(n)
	if !ok {
		return types.CVVersion{}, session.ErrVersionNotFound
	}
	return v, nil
}

func lastMessage(sess *types.Session) types.ChatMessage {
	if len(sess.ChatHistory) == 0 {
		return types.ChatMessage{}
	}
	return sess.ChatHistory[len(sess.ChatHistory)-1]
}

func nonNil(list []types.Suggestion) []types.Suggestion {
	if list == nil {
		return []types.Suggestion{}
	}
	return list
}
