// Package tools exposes booking operations as agent tools. Every tool call
// produces text for the conversation, even when the operation fails.
package tools

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"

	apperrors "github.com/Chriskfigures777/Niceone/internal/errors"
	"github.com/Chriskfigures777/Niceone/server/service/booking"
)

// Tool defines the interface for executable tools.
type Tool interface {
	Name() string
	// Description is shown to the model when it chooses a tool.
	Description() string
	InputSchema() *jsonschema.Schema
	// Run executes the tool with JSON input. An error means the input could
	// not be used; operation failures come back in the Result.
	Run(ctx context.Context, input string) (*Result, error)
}

// Result represents the output of a tool execution.
type Result struct {
	Output  string              `json:"output"`
	Success bool                `json:"success"`
	Code    apperrors.ErrorCode `json:"code"`
}

// GenerateSchema derives the input schema of a tool from its input struct.
func GenerateSchema[T any]() *jsonschema.Schema {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return r.Reflect(v)
}

// decodeInput reads JSON into T. Blank input is an empty object.
func decodeInput[T any](input string) (T, error) {
	var v T
	if strings.TrimSpace(input) == "" {
		return v, nil
	}
	err := json.Unmarshal([]byte(input), &v)
	return v, err
}

type sessionKey struct{}

// WithSession attaches the conversation session to ctx for tool calls.
func WithSession(ctx context.Context, sess booking.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

// SessionFrom returns the session attached to ctx, or nil.
func SessionFrom(ctx context.Context) booking.Session {
	sess, _ := ctx.Value(sessionKey{}).(booking.Session)
	return sess
}

// Registry looks tools up by name.
type Registry struct {
	tools map[string]Tool
}

// NewRegistry indexes tools by name. Later duplicates win.
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		r.tools[t.Name()] = t
	}
	return r
}

func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// List returns all tools sorted by name.
func (r *Registry) List() []Tool {
	list := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}
