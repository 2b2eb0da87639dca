// Package memory stores and recalls long-term conversation memory for a
// caller across sessions. Two hosted backends are supported: OpenMemory is
// searched first and Mem0 is the fallback. Writes go to both.
package memory

import (
	"context"
	"errors"
)

// DefaultUserID is used when the caller never gave an email.
const DefaultUserID = "default_user"

// DefaultQuery is searched when the caller has no specific question.
const DefaultQuery = "user information and conversation history"

// ErrNotConfigured is returned by a backend without credentials.
var ErrNotConfigured = errors.New("memory backend not configured")

// Memory is one recalled memory.
type Memory struct {
	ID       string         `json:"id,omitempty"`
	Text     string         `json:"memory"`
	UserID   string         `json:"user_id,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
	// Source names the backend that returned it.
	Source string `json:"source"`
}

// Turn is one conversation turn handed to a backend.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Backend is a long-term memory provider.
type Backend interface {
	Name() string
	// Search returns memories for userID relevant to query. Empty results are not an error.
	Search(ctx context.Context, userID, query string, limit int) ([]Memory, error)
	// Add stores a conversation for userID.
	Add(ctx context.Context, userID string, turns []Turn) error
}
