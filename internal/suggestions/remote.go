package suggestions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/uzzielperez/ChamiNexT-sub000/internal/schemas"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/types"
	schemafiles "github.com/uzzielperez/ChamiNexT-sub000/schemas"
)

// maxResponseBytes caps how much of a remote response is read
const maxResponseBytes = 2 << 20

// Remote produces suggestions from an AI backend
type Remote interface {
	Suggest(ctx context.Context, req *types.OptimizationRequest) (*types.OptimizationResponse, error)
}

// ServiceClient calls an HTTP suggestion service that accepts an
// OptimizationRequest body and returns an OptimizationResponse.
type ServiceClient struct {
	endpoint   string
	httpClient *http.Client
}

// ServiceOption configures a ServiceClient
type ServiceOption func(*ServiceClient)

// WithHTTPClient overrides the HTTP client used for requests
func WithHTTPClient(c *http.Client) ServiceOption {
	return func(s *ServiceClient) {
		s.httpClient = c
	}
}

// NewServiceClient creates a client for the suggestion service at endpoint
func NewServiceClient(endpoint string, opts ...ServiceOption) *ServiceClient {
	s := &ServiceClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Suggest posts req to the service and decodes the validated response
func (s *ServiceClient) Suggest(ctx context.Context, req *types.OptimizationRequest) (*types.OptimizationResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode optimization request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &APICallError{Message: "failed to build request", Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, &APICallError{Message: "suggestion service request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &APICallError{Message: "failed to read suggestion service response", StatusCode: resp.StatusCode, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APICallError{Message: "suggestion service returned an error", StatusCode: resp.StatusCode}
	}

	return DecodeResponse(payload)
}

// DecodeResponse validates payload against the response schema and decodes it
func DecodeResponse(payload []byte) (*types.OptimizationResponse, error) {
	if err := schemas.Validate(schemafiles.OptimizationResponse, payload); err != nil {
		return nil, &ParseError{Message: "suggestion response failed schema validation", Cause: err}
	}

	var out types.OptimizationResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, &ParseError{Message: "failed to decode suggestion response", Cause: err}
	}
	return &out, nil
}
