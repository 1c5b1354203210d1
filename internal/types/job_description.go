// Package types provides type definitions for structured data used throughout the CV optimization engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// JobDescription is the structured extraction of a pasted job posting.
// It is immutable once created.
type JobDescription struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Description  string    `json:"description"`
	Requirements []string  `json:"requirements"`
	Keywords     []string  `json:"keywords"`
	CreatedAt    time.Time `json:"createdAt"`
}
