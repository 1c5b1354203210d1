// Package suggestions produces CV improvement suggestions. A Generator asks a
// Remote first and falls back to a deterministic local heuristic whenever the
// remote is missing, slow, broken or returns something unusable.
package suggestions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/uzzielperez/ChamiNexT-sub000/internal/observability"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/types"
)

// DefaultTimeout bounds a single remote call
const DefaultTimeout = 10 * time.Second

// BreakerConfig holds circuit breaker settings for the remote call
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig trips after 60% of at least 5 calls fail and retries after 30s
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "suggestion-remote",
		MaxRequests:      1,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// Generator produces suggestions, preferring the remote and degrading to Fallback
type Generator struct {
	remote        Remote
	timeout       time.Duration
	breakerConfig BreakerConfig
	breaker       *gobreaker.CircuitBreaker
	logger        *zap.Logger
	metrics       *observability.Collector
}

// GeneratorOption configures a Generator
type GeneratorOption func(*Generator)

// WithRemote sets the remote suggestion source. Without one every call falls back.
func WithRemote(r Remote) GeneratorOption {
	return func(g *Generator) {
		g.remote = r
	}
}

// WithTimeout bounds each remote call
func WithTimeout(d time.Duration) GeneratorOption {
	return func(g *Generator) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithBreaker overrides the circuit breaker settings
func WithBreaker(cfg BreakerConfig) GeneratorOption {
	return func(g *Generator) {
		g.breakerConfig = cfg
	}
}

// WithLogger sets the logger used for fallback warnings
func WithLogger(l *zap.Logger) GeneratorOption {
	return func(g *Generator) {
		g.logger = observability.OrNop(l)
	}
}

// WithMetrics records suggestion sources and remote latency
func WithMetrics(c *observability.Collector) GeneratorOption {
	return func(g *Generator) {
		g.metrics = c
	}
}

// NewGenerator creates a Generator
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{
		timeout:       DefaultTimeout,
		breakerConfig: DefaultBreakerConfig(),
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}

	cfg := g.breakerConfig
	g.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			g.logger.Info("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return g
}

// HasRemote reports whether a remote source is configured
func (g *Generator) HasRemote() bool {
	return g.remote != nil
}

// Remote returns the configured remote, or nil
func (g *Generator) Remote() Remote {
	return g.remote
}

// Generate returns suggestions for req. It never returns an error: any remote
// failure produces a FallbackSuggestions carrying the cause.
func (g *Generator) Generate(ctx context.Context, req *types.OptimizationRequest) Result {
	if req == nil {
		req = &types.OptimizationRequest{}
	}
	if g.remote == nil {
		return g.fallback(req, ErrNoRemote)
	}

	resp, err := g.callRemote(ctx, req)
	if err != nil {
		return g.fallback(req, err)
	}

	g.metrics.RecordSuggestionSource(string(SourceRemote))
	return RemoteSuggestions{Payload: resp}
}

type remoteOutcome struct {
	resp *types.OptimizationResponse
	err  error
}

// callRemote runs the remote call in its own goroutine so a remote that
// ignores ctx still cannot hold the caller past the timeout.
func (g *Generator) callRemote(ctx context.Context, req *types.OptimizationRequest) (*types.OptimizationResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	done := make(chan remoteOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- remoteOutcome{err: fmt.Errorf("remote suggestion call panicked: %v", r)}
			}
		}()

		out, err := g.breaker.Execute(func() (interface{}, error) {
			resp, err := g.remote.Suggest(ctx, req)
			if err == nil && resp == nil {
				err = &ParseError{Message: "remote returned an empty response"}
			}
			return resp, err
		})
		if err != nil {
			done <- remoteOutcome{err: err}
			return
		}
		done <- remoteOutcome{resp: out.(*types.OptimizationResponse)}
	}()

	select {
	case o := <-done:
		g.metrics.ObserveRemoteDuration(time.Since(start))
		return o.resp, o.err
	case <-ctx.Done():
		g.metrics.ObserveRemoteDuration(time.Since(start))
		return nil, fmt.Errorf("remote suggestion call abandoned: %w", ctx.Err())
	}
}

func (g *Generator) fallback(req *types.OptimizationRequest, cause error) Result {
	g.logger.Warn("using local fallback suggestions",
		zap.Error(cause),
		zap.Bool("breakerOpen", errors.Is(cause, gobreaker.ErrOpenState)),
		zap.String("jobTitle", req.JobDescription.Title))
	g.metrics.RecordSuggestionSource(string(SourceFallback))
	return FallbackSuggestions{Payload: Fallback(req), Cause: cause}
}
