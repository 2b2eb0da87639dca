package memory

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const DefaultOpenMemoryURL = "https://api.openmemory.dev"

var (
	openMemorySearchTypes = []string{"implementation", "component", "user_preference"}
	openMemoryNamespace   = "conversations"
)

// OpenMemoryConfig configures the OpenMemory backend.
type OpenMemoryConfig struct {
	Token      string
	BaseURL    string
	ProjectID  string
	HTTPClient *http.Client
}

// OpenMemory stores conversations as titled memories in one project.
type OpenMemory struct {
	api       apiClient
	projectID string
}

// NewOpenMemory creates the OpenMemory backend.
func NewOpenMemory(cfg OpenMemoryConfig) *OpenMemory {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOpenMemoryURL
	}
	return &OpenMemory{
		api:       newAPIClient("openmemory", cfg.BaseURL, cfg.Token, cfg.HTTPClient),
		projectID: cfg.ProjectID,
	}
}

func (o *OpenMemory) Name() string {
	return "openmemory"
}

func (o *OpenMemory) Search(ctx context.Context, userID, query string, limit int) ([]Memory, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("project_id", o.projectID)
	q.Set("user_id", userID)
	q.Set("memory_types", strings.Join(openMemorySearchTypes, ","))
	q.Set("namespaces", openMemoryNamespace)

	res, err := o.api.do(ctx, http.MethodGet, "/memories/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var list []Memory
	for _, r := range resultList(res) {
		m := parseMemory(r, o.Name())
		if m.UserID == "" {
			m.UserID = userID
		}
		list = append(list, m)
	}
	return list, nil
}

func (o *OpenMemory) Add(ctx context.Context, userID string, turns []Turn) error {
	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		lines = append(lines, t.Role+": "+t.Content)
	}

	body := map[string]any{
		"title":   "Conversation - " + userID,
		"content": strings.Join(lines, "\n"),
		"metadata": map[string]any{
			"project_id":   o.projectID,
			"user_id":      userID,
			"memory_types": []string{"implementation"},
			"namespace":    openMemoryNamespace,
		},
	}
	_, err := o.api.do(ctx, http.MethodPost, "/memories", body)
	return err
}
