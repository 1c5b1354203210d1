package suggestions

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/uzzielperez/ChamiNexT-sub000/internal/llm"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/prompts"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/types"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/validation"
)

const promptFile = "suggestions.json"

// LLMRemote asks a generative model for suggestions directly instead of
// going through a suggestion service
type LLMRemote struct {
	client llm.Client
	logger *zap.Logger
}

// LLMRemoteOption configures an LLMRemote
type LLMRemoteOption func(*LLMRemote)

// WithRemoteLogger sets the logger that receives prompt injection warnings
func WithRemoteLogger(l *zap.Logger) LLMRemoteOption {
	return func(r *LLMRemote) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewLLMRemote creates a Remote backed by client
func NewLLMRemote(client llm.Client, opts ...LLMRemoteOption) *LLMRemote {
	r := &LLMRemote{client: client, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Suggest renders the optimization prompt and validates the model's JSON output
func (r *LLMRemote) Suggest(ctx context.Context, req *types.OptimizationRequest) (*types.OptimizationResponse, error) {
	validation.LogInjection(r.logger, validation.CheckInjection("job posting", req.JobDescription.Description))
	validation.LogInjection(r.logger, validation.CheckInjection("cv", req.CVContent))

	prompt, err := BuildPrompt(req)
	if err != nil {
		return nil, err
	}

	text, err := r.client.GenerateJSON(ctx, prompt, llm.TierForLevel(string(req.OptimizationLevel)))
	if err != nil {
		return nil, &APICallError{Message: "model call failed", Cause: err}
	}

	resp, err := DecodeResponse([]byte(llm.CleanJSONBlock(text)))
	if err != nil {
		return nil, err
	}
	if resp.SessionID == "" {
		resp.SessionID = uuid.NewString()
	}
	return resp, nil
}

// Reply writes a short conversational answer to message that explains suggestions
func (r *LLMRemote) Reply(ctx context.Context, message string, suggestions []types.Suggestion) (string, error) {
	lines := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		lines = append(lines, fmt.Sprintf("- [%s/%s] %s", s.Type, s.Section, s.SuggestedText))
	}

	validation.LogInjection(r.logger, validation.CheckInjection("chat message", message))

	prompt, err := prompts.Render(promptFile, "chat-reply", map[string]string{
		"Message":     validation.Quote("candidate question", validation.StripInjection(message)),
		"Suggestions": strings.Join(lines, "\n"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render chat prompt: %w", err)
	}

	text, err := r.client.GenerateText(ctx, prompt, llm.TierLite)
	if err != nil {
		return "", &APICallError{Message: "model call failed", Cause: err}
	}
	return strings.TrimSpace(text), nil
}

// BuildPrompt renders the optimization prompt for req. The posting and the CV
// are quoted; instruction-like phrases are removed from the posting only.
func BuildPrompt(req *types.OptimizationRequest) (string, error) {
	level := req.OptimizationLevel
	if level == "" {
		level = types.LevelModerate
	}
	focus := "all sections"
	if len(req.FocusAreas) > 0 {
		focus = strings.Join(req.FocusAreas, ", ")
	}

	requirements := make([]string, 0, len(req.JobDescription.Requirements))
	for _, r := range req.JobDescription.Requirements {
		requirements = append(requirements, "- "+r)
	}

	prompt, err := prompts.Render(promptFile, "optimize-cv", map[string]string{
		"OptimizationLevel":   string(level),
		"PreservePersonality": strconv.FormatBool(req.PreservePersonality),
		"FocusAreas":          focus,
		"JobTitle":            req.JobDescription.Title,
		"Company":             req.JobDescription.Company,
		"Keywords":            strings.Join(req.JobDescription.Keywords, ", "),
		"Requirements":        strings.Join(requirements, "\n"),
		"JobDescription":      validation.Quote("job posting", validation.StripInjection(req.JobDescription.Description)),
		"CVContent":           validation.Quote("cv", req.CVContent),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render optimization prompt: %w", err)
	}
	return prompt, nil
}

// Replier writes conversational replies to chat messages
type Replier interface {
	Reply(ctx context.Context, message string, suggestions []types.Suggestion) (string, error)
}
