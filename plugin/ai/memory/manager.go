package memory

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"
)

const (
	defaultSearchLimit = 10
	maxPromptMemories  = 20
	maxAttempts        = 3
)

var errEmpty = errors.New("no memories returned")

var promptKeywords = []string{"user", "said", "asked", "mentioned", "discussed", "talked", "conversation"}

// RetryConfig sets the linear backoff between search attempts. An empty
// result waits EmptyBase*n before attempt n+1, an error waits ErrorBase*n.
type RetryConfig struct {
	EmptyBase time.Duration
	ErrorBase time.Duration
}

// DefaultRetryConfig waits 3s/6s after empty results and 2s/4s after errors.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{EmptyBase: 3 * time.Second, ErrorBase: 2 * time.Second}
}

// Manager queries backends in order and writes to all of them.
type Manager struct {
	backends []Backend
	retry    RetryConfig
}

// NewManager creates a manager. Backends are searched in the given order.
func NewManager(cfg RetryConfig, backends ...Backend) *Manager {
	return &Manager{backends: backends, retry: cfg}
}

// Enabled reports whether any backend is attached.
func (m *Manager) Enabled() bool {
	return m != nil && len(m.backends) > 0
}

// Search returns memories belonging to userID. The first backend that yields
// anything wins. Memories tagged with a different user are dropped.
func (m *Manager) Search(ctx context.Context, userID, query string, limit int) ([]Memory, error) {
	if userID == "" {
		userID = DefaultUserID
	}
	if query == "" {
		query = DefaultQuery
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	var errs []error
	for _, b := range m.backends {
		list, err := m.searchWithRetry(ctx, b, userID, query, limit)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.Warn("memory search failed", "backend", b.Name(), "user", userID, "error", err)
			errs = append(errs, err)
			continue
		}
		if list = ownedBy(list, userID); len(list) > 0 {
			slog.Debug("memory search", "backend", b.Name(), "user", userID, "count", len(list))
			return list, nil
		}
	}
	if len(errs) == len(m.backends) && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return nil, nil
}

func (m *Manager) searchWithRetry(ctx context.Context, b Backend, userID, query string, limit int) ([]Memory, error) {
	var attempt int
	var lastEmpty bool
	backoff := retry.WithMaxRetries(maxAttempts-1, retry.BackoffFunc(func() (time.Duration, bool) {
		if lastEmpty {
			return m.retry.EmptyBase * time.Duration(attempt), false
		}
		return m.retry.ErrorBase * time.Duration(attempt), false
	}))

	list, err := retry.DoValue(ctx, backoff, func(ctx context.Context) ([]Memory, error) {
		attempt++
		list, err := b.Search(ctx, userID, query, limit)
		switch {
		case errors.Is(err, ErrNotConfigured):
			return nil, err
		case err != nil:
			lastEmpty = false
			return nil, retry.RetryableError(err)
		case len(list) == 0:
			lastEmpty = true
			return nil, retry.RetryableError(errEmpty)
		}
		return list, nil
	})
	if errors.Is(err, errEmpty) {
		return nil, nil
	}
	return list, err
}

// Store writes the conversation to every backend concurrently. It succeeds
// when at least one backend accepted it.
func (m *Manager) Store(ctx context.Context, userID string, turns []Turn) error {
	if len(turns) == 0 || len(m.backends) == 0 {
		return nil
	}
	if userID == "" {
		userID = DefaultUserID
	}

	errs := make([]error, len(m.backends))
	var g errgroup.Group
	for i, b := range m.backends {
		g.Go(func() error {
			if err := b.Add(ctx, userID, turns); err != nil {
				slog.Warn("memory store failed", "backend", b.Name(), "user", userID, "error", err)
				errs[i] = err
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		if err == nil {
			return nil
		}
	}
	return errors.Join(errs...)
}

// FormatForPrompt renders conversational memories as a context block for the
// model. It returns "" when nothing qualifies.
func FormatForPrompt(memories []Memory) string {
	var lines []string
	for _, mem := range memories {
		text := strings.TrimSpace(mem.Text)
		if len(text) <= 10 || !conversational(text) {
			continue
		}
		lines = append(lines, "- "+text)
		if len(lines) == maxPromptMemories {
			break
		}
	}
	if len(lines) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Previous conversation context (ONLY reference what is explicitly stated below):\n")
	sb.WriteString(strings.Join(lines, "\n"))
	sb.WriteString("\n\nIMPORTANT: Only reference these memories if they are explicitly stated above. ")
	sb.WriteString("Do not invent or assume any previous conversations.")
	return sb.String()
}

func conversational(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range promptKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ownedBy keeps memories with no owner or owned by userID.
func ownedBy(list []Memory, userID string) []Memory {
	out := list[:0]
	for _, mem := range list {
		if mem.UserID == "" || mem.UserID == userID {
			out = append(out, mem)
		}
	}
	return out
}
