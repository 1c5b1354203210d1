// Package llm wraps the generative model used to produce CV suggestions.
// Model names are grouped into tiers so callers ask for capability rather than a specific model.
package llm

// ModelTier represents the capability level of a model
type ModelTier string

const (
	// TierLite is for short replies such as chat acknowledgements
	TierLite ModelTier = "lite"
	// TierStandard is for structured suggestion output
	TierStandard ModelTier = "standard"
	// TierAdvanced is for aggressive rewrites that need more reasoning
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the only provider currently wired.
const ProviderGemini Provider = "gemini"

// DefaultTemperature keeps suggestion output stable between runs.
const DefaultTemperature float32 = 0.2

// Config holds the model configuration for suggestion generation
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	Temperature float32
}

// DefaultConfig returns the default Gemini configuration
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature: DefaultTemperature,
	}
}

// GetModel returns the model name for a given tier.
// Unknown tiers fall back to standard, then lite.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a copy of the config using model for tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	next := &Config{
		Provider:    c.Provider,
		Models:      make(map[ModelTier]string, len(c.Models)+1),
		Temperature: c.Temperature,
	}
	for k, v := range c.Models {
		next.Models[k] = v
	}
	next.Models[tier] = model
	return next
}

// TierForLevel maps an optimization level name onto a model tier.
func TierForLevel(level string) ModelTier {
	switch level {
	case "conservative":
		return TierLite
	case "aggressive":
		return TierAdvanced
	default:
		return TierStandard
	}
}
