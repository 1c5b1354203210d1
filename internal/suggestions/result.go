package suggestions

import "github.com/uzzielperez/ChamiNexT-sub000/internal/types"

// Source names the path that produced a set of suggestions
type Source string

// Suggestion sources
const (
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

// Result is either RemoteSuggestions or FallbackSuggestions
type Result interface {
	Response() *types.OptimizationResponse
	Source() Source
	isResult()
}

// RemoteSuggestions holds a response produced by the remote service
type RemoteSuggestions struct {
	Payload *types.OptimizationResponse
}

// Response returns the suggestions and analysis
func (r RemoteSuggestions) Response() *types.OptimizationResponse { return r.Payload }

// Source returns SourceRemote
func (RemoteSuggestions) Source() Source { return SourceRemote }

func (RemoteSuggestions) isResult() {}

// FallbackSuggestions holds the locally computed response and the error
// that caused the remote path to be skipped
type FallbackSuggestions struct {
	Payload *types.OptimizationResponse
	Cause   error
}

// Response returns the suggestions and analysis
func (r FallbackSuggestions) Response() *types.OptimizationResponse { return r.Payload }

// Source returns SourceFallback
func (FallbackSuggestions) Source() Source { return SourceFallback }

func (FallbackSuggestions) isResult() {}
