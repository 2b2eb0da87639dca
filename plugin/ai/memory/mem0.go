package memory

import (
	"context"
	"net/http"
)

const DefaultMem0URL = "https://api.mem0.ai"

// Mem0Config configures the Mem0 backend.
type Mem0Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Mem0 is the hosted Mem0 platform API.
type Mem0 struct {
	api apiClient
}

// NewMem0 creates the Mem0 backend.
func NewMem0(cfg Mem0Config) *Mem0 {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultMem0URL
	}
	return &Mem0{api: newAPIClient("mem0", cfg.BaseURL, cfg.APIKey, cfg.HTTPClient)}
}

func (m *Mem0) Name() string {
	return "mem0"
}

// Search uses the v2 search endpoint with a strict user_id filter.
func (m *Mem0) Search(ctx context.Context, userID, query string, limit int) ([]Memory, error) {
	body := map[string]any{
		"query":   query,
		"filters": map[string]any{"user_id": userID},
		"limit":   limit,
	}
	res, err := m.api.do(ctx, http.MethodPost, "/v2/memories/search/", body)
	if err != nil {
		return nil, err
	}

	var list []Memory
	for _, r := range resultList(res) {
		list = append(list, parseMemory(r, m.Name()))
	}
	return list, nil
}

func (m *Mem0) Add(ctx context.Context, userID string, turns []Turn) error {
	body := map[string]any{
		"messages": turns,
		"user_id":  userID,
	}
	_, err := m.api.do(ctx, http.MethodPost, "/v1/memories/", body)
	return err
}
