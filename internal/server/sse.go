package server

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// SSE event names emitted by the streaming chat endpoint
const (
	eventMessage     = "message"
	eventSuggestions = "suggestions"
	eventError       = "error"
	eventComplete    = "complete"
)

// SSEWriter helps write Server-Sent Events
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter creates a new SSE writer
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteEvent sends an SSE event with a JSON payload
func (s *SSEWriter) WriteEvent(event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, jsonData); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteError sends an error event
func (s *SSEWriter) WriteError(message string) error {
	return s.WriteEvent(eventError, map[string]string{"error": message})
}

// WriteComplete sends the final event of a chat exchange
func (s *SSEWriter) WriteComplete(sessionID, source string, version int) error {
	return s.WriteEvent(eventComplete, map[string]any{
		"sessionId": sessionID,
		"source":    source,
		"version":   version,
	})
}
