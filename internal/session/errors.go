package session

import "errors"

// Lookup and argument errors returned by Manager operations
var (
	ErrSuggestionNotFound = errors.New("suggestion not found in session")
	ErrVersionNotFound    = errors.New("version not found in session")
	ErrInvalidStatus      = errors.New("invalid session status")
	ErrInvalidSender      = errors.New("invalid chat sender")
)
