package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/Chriskfigures777/Niceone/plugin/ai/timeout"
)

const maxResponseBody = 1 << 20

// apiClient is the transport shared by the hosted backends. Both use
// "Authorization: Token <key>".
type apiClient struct {
	name       string
	baseURL    string
	token      string
	httpClient *http.Client
}

func newAPIClient(name, baseURL, token string, httpClient *http.Client) apiClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout.MemoryRequestTimeout}
	}
	return apiClient{
		name:       name,
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
	}
}

func (c apiClient) do(ctx context.Context, method, path string, body any) (gjson.Result, error) {
	if c.token == "" {
		return gjson.Result{}, ErrNotConfigured
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return gjson.Result{}, errors.Wrapf(err, "%s: failed to encode request", c.name)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return gjson.Result{}, errors.Wrapf(err, "%s: failed to build request", c.name)
	}
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return gjson.Result{}, errors.Wrapf(err, "%s: %s %s", c.name, method, path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return gjson.Result{}, errors.Wrapf(err, "%s: failed to read response", c.name)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return gjson.Result{}, fmt.Errorf("%s: API error (%d): %s", c.name, resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return gjson.ParseBytes(data), nil
}

// resultList accepts either a bare array or {"results": [...]}.
func resultList(r gjson.Result) []gjson.Result {
	if r.IsArray() {
		return r.Array()
	}
	return r.Get("results").Array()
}

// parseMemory reads one memory from either backend's shape.
func parseMemory(r gjson.Result, source string) Memory {
	m := Memory{
		ID:     r.Get("id").String(),
		Text:   r.Get("memory").String(),
		UserID: r.Get("user_id").String(),
		Source: source,
	}
	if m.Text == "" {
		m.Text = r.Get("content").String()
	}
	if m.UserID == "" {
		m.UserID = r.Get("metadata.user_id").String()
	}
	if meta, ok := r.Get("metadata").Value().(map[string]any); ok {
		m.Metadata = meta
	}
	return m
}
