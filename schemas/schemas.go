// Package schemas embeds the JSON Schema documents for artifacts exchanged with
// the AI suggestion service and the session store.
package schemas

import "embed"

//go:embed *.schema.json
var Files embed.FS

// Schema file names
const (
	OptimizationResponse = "optimization_response.schema.json"
	Session              = "session.schema.json"
)

// Names lists every embedded schema file
var Names = []string{OptimizationResponse, Session}
