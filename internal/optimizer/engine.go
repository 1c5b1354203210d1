// Package optimizer ties analysis, scoring, suggestion generation and session
// management into the operations a caller drives a CV optimization with.
package optimizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/uzzielperez/ChamiNexT-sub000/internal/analysis"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/editing"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/observability"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/session"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/suggestions"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/types"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/validation"
)

// ErrEmptyJobDescription is returned when a session is started without job text
var ErrEmptyJobDescription = errors.New("job description is empty")

// defaultReplyTimeout bounds the conversational reply after suggestions are generated
const defaultReplyTimeout = 5 * time.Second

// Options controls how suggestions are requested
type Options struct {
	Level               types.OptimizationLevel
	PreservePersonality bool
	FocusAreas          []string
}

// DefaultOptions returns moderate optimization that keeps the candidate's voice
func DefaultOptions() Options {
	return Options{Level: types.LevelModerate, PreservePersonality: true}
}

// Engine runs CV optimization sessions
type Engine struct {
	analyzer     *analysis.Analyzer
	sessions     *session.Manager
	generator    *suggestions.Generator
	logger       *zap.Logger
	metrics      *observability.Collector
	defaults     Options
	replyTimeout time.Duration
}

// Option configures an Engine
type Option func(*Engine)

// WithAnalyzer overrides the job description analyzer
func WithAnalyzer(a *analysis.Analyzer) Option {
	return func(e *Engine) { e.analyzer = a }
}

// WithSessionManager overrides the session manager
func WithSessionManager(m *session.Manager) Option {
	return func(e *Engine) { e.sessions = m }
}

// WithGenerator overrides the suggestion generator
func WithGenerator(g *suggestions.Generator) Option {
	return func(e *Engine) { e.generator = g }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = observability.OrNop(l) }
}

// WithMetrics sets the metrics collector
func WithMetrics(c *observability.Collector) Option {
	return func(e *Engine) { e.metrics = c }
}

// WithDefaults sets the options used when a request leaves fields empty
func WithDefaults(o Options) Option {
	return func(e *Engine) { e.defaults = o }
}

// New creates an Engine. Without a generator option, suggestions come from the local fallback.
func New(opts ...Option) *Engine {
	e := &Engine{
		analyzer:     analysis.NewAnalyzer(),
		sessions:     session.NewManager(),
		logger:       zap.NewNop(),
		defaults:     DefaultOptions(),
		replyTimeout: defaultReplyTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.generator == nil {
		e.generator = suggestions.NewGenerator(suggestions.WithLogger(e.logger), suggestions.WithMetrics(e.metrics))
	}
	return e
}

// Sessions returns the session manager used by the engine
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}

// AnalyzeJob extracts a structured job description from raw posting text
func (e *Engine) AnalyzeJob(jobText string) types.JobDescription {
	return e.analyzer.Analyze(jobText)
}

// StartSession validates the CV, analyzes the job text and opens a session
func (e *Engine) StartSession(userID, jobText, cvText string) (*types.Session, error) {
	if result := validation.ValidateCVContent(cvText); !result.IsValid {
		return nil, &validation.CVContentError{Errors: result.Errors}
	}
	if strings.TrimSpace(jobText) == "" {
		return nil, ErrEmptyJobDescription
	}

	jd := e.analyzer.Analyze(jobText)
	s := e.sessions.CreateSession(userID, jd, cvText)

	e.metrics.RecordSessionCreated()
	e.logger.Info("session started",
		zap.String("sessionID", s.ID),
		zap.String("jobTitle", jd.Title),
		zap.Int("score", s.CurrentCV.OptimizationScore))
	return s, nil
}

// RequestSuggestions generates suggestions for the current CV, records them and
// posts them to the chat as an ai message
func (e *Engine) RequestSuggestions(ctx context.Context, s *types.Session, opts Options) (*types.Session, suggestions.Result) {
	result := e.generator.Generate(ctx, e.request(s, opts))
	next := e.sessions.RecordSuggestions(s, result.Response().Suggestions)
	return e.reply(next, describeResult(result, opts.FocusAreas), result), result
}

// Chat records the user's message, generates suggestions focused on the
// sections it mentions and answers with an ai message
func (e *Engine) Chat(ctx context.Context, s *types.Session, message string) (*types.Session, suggestions.Result) {
	next := e.post(s, types.SenderUser, message)

	opts := e.defaults
	opts.FocusAreas = FocusAreas(message)

	result := e.generator.Generate(ctx, e.request(next, opts))
	resp := result.Response()
	next = e.sessions.RecordSuggestions(next, resp.Suggestions)

	text := describeResult(result, opts.FocusAreas)
	if replier, ok := e.generator.Remote().(suggestions.Replier); ok && result.Source() == suggestions.SourceRemote {
		replyCtx, cancel := context.WithTimeout(ctx, e.replyTimeout)
		defer cancel()
		if reply, err := replier.Reply(replyCtx, message, resp.Suggestions); err == nil && reply != "" {
			text = reply
		} else if err != nil {
			e.logger.Warn("chat reply failed, using summary", zap.Error(err))
		}
	}

	return e.reply(next, text, result), result
}

// Apply applies a recorded suggestion to the session's current CV
func (e *Engine) Apply(s *types.Session, suggestionID string) (*types.Session, error) {
	next, err := e.sessions.ApplySuggestionByID(s, suggestionID)
	if err != nil {
		return nil, err
	}
	e.metrics.RecordSuggestionApplied()
	e.logger.Debug("suggestion applied",
		zap.String("sessionID", next.ID),
		zap.String("suggestionID", suggestionID),
		zap.Int("version", next.CurrentCV.Version))
	return next, nil
}

// Analyze scores cv against jd locally
func (e *Engine) Analyze(cv string, jd *types.JobDescription) types.OptimizationAnalysis {
	return suggestions.Analyze(cv, jd)
}

// Suggest generates suggestions for a CV without a session
func (e *Engine) Suggest(ctx context.Context, cv string, jd types.JobDescription, opts Options) suggestions.Result {
	opts = e.withDefaults(opts)
	return e.generator.Generate(ctx, &types.OptimizationRequest{
		CVContent:           cv,
		JobDescription:      jd,
		OptimizationLevel:   opts.Level,
		PreservePersonality: opts.PreservePersonality,
		FocusAreas:          opts.FocusAreas,
	})
}

func (e *Engine) request(s *types.Session, opts Options) *types.OptimizationRequest {
	opts = e.withDefaults(opts)
	return &types.OptimizationRequest{
		CVContent:           s.CurrentCV.Content,
		JobDescription:      s.JobDescription,
		OptimizationLevel:   opts.Level,
		PreservePersonality: opts.PreservePersonality,
		FocusAreas:          opts.FocusAreas,
	}
}

func (e *Engine) withDefaults(opts Options) Options {
	if opts.Level == "" {
		opts.Level = e.defaults.Level
	}
	if opts.Level == "" {
		opts.Level = types.LevelModerate
	}
	return opts
}

func (e *Engine) reply(s *types.Session, text string, result suggestions.Result) *types.Session {
	return e.post(s, types.SenderAI, text, result.Response().Suggestions...)
}

// post appends a chat message from a sender known to be valid
func (e *Engine) post(s *types.Session, sender types.SenderType, text string, attached ...types.Suggestion) *types.Session {
	next, err := e.sessions.AddChatMessage(s, sender, text, attached...)
	if err != nil {
		e.logger.Error("failed to record chat message", zap.String("sender", string(sender)), zap.Error(err))
		return s
	}
	return next
}

// FocusAreas returns the CV sections named in a chat message, in section order
func FocusAreas(message string) []string {
	lower := strings.ToLower(message)
	var areas []string
	for _, section := range types.Sections {
		if section == types.SectionGeneral {
			continue
		}
		words := append([]string{string(section)}, editing.HeadingWords(section)...)
		for _, w := range words {
			if strings.Contains(lower, w) {
				areas = append(areas, string(section))
				break
			}
		}
	}
	return areas
}

func describeResult(result suggestions.Result, focus []string) string {
	n := len(result.Response().Suggestions)
	if n == 0 {
		return "Your CV already covers the key points of this job description."
	}

	var sb strings.Builder
	noun := "suggestions"
	if n == 1 {
		noun = "suggestion"
	}
	fmt.Fprintf(&sb, "I found %d %s to improve your CV", n, noun)
	if len(focus) > 0 {
		fmt.Fprintf(&sb, " focusing on %s", strings.Join(focus, ", "))
	}
	sb.WriteString(".")
	if result.Source() == suggestions.SourceFallback {
		sb.WriteString(" These are based on keyword coverage while the AI service is unavailable.")
	}
	return sb.String()
}
