package server

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/Chriskfigures777/Niceone/internal/observability"
	"github.com/Chriskfigures777/Niceone/internal/profile"
	"github.com/Chriskfigures777/Niceone/plugin/ai/agent/tools"
	"github.com/Chriskfigures777/Niceone/plugin/ai/memory"
	"github.com/Chriskfigures777/Niceone/plugin/ai/session"
	"github.com/Chriskfigures777/Niceone/plugin/ai/timeout"
	"github.com/Chriskfigures777/Niceone/plugin/calcom"
	"github.com/Chriskfigures777/Niceone/server/service/booking"
	"github.com/Chriskfigures777/Niceone/store"
	"github.com/Chriskfigures777/Niceone/store/cache"
)

// Components are the booking agent's parts, shared by the HTTP server and
// the one-shot CLI commands.
type Components struct {
	Booking  booking.Service
	Memory   *memory.Manager
	Sessions *session.Manager
	Tools    *tools.Registry
	Executor *tools.Executor
	Metrics  *observability.Metrics

	redis *redis.Client
}

// NewComponents wires the agent from profile. The store records the audit
// trail and may be nil.
func NewComponents(ctx context.Context, profile *profile.Profile, st *store.Store) (*Components, error) {
	client, err := calcom.NewClient(calcom.Config{
		APIKey:     profile.CalcomAPIKey,
		BaseURL:    profile.CalcomBaseURL,
		APIVersion: profile.CalcomAPIVersion,
		EventTypes: map[booking.MeetingKind]int64{
			booking.KindConnect:  profile.ConnectEventTypeID,
			booking.KindDiscover: profile.DiscoverEventTypeID,
		},
	})
	if err != nil {
		return nil, err
	}

	c := &Components{Metrics: observability.NewMetrics(0)}

	opts := []booking.Option{booking.WithDefaultEmail(profile.DefaultEmail)}
	if st != nil {
		opts = append(opts, booking.WithRecorder(st))
	}
	if profile.IsRedisEnabled() {
		cfg := cache.DefaultRedisConfig()
		cfg.Addr = profile.RedisAddr
		cfg.Password = profile.RedisPassword
		cfg.DB = profile.RedisDB
		rdb, err := cache.NewRedisClient(ctx, cfg)
		if err != nil {
			return nil, errors.Wrap(err, "failed to connect to redis")
		}
		c.redis = rdb
		opts = append(opts, booking.WithGuard(cache.NewRedisLocker(rdb, cfg.KeyPrefix)))
		slog.Info("booking mutations guarded through redis", "addr", cfg.Addr)
	}
	c.Booking = booking.NewService(client, opts...)

	c.Memory = newMemoryManager(profile)
	c.Sessions = session.NewManager(session.Config{
		IdleTimeout:     timeout.SessionIdleTimeout,
		CleanupInterval: timeout.SessionCleanupInterval,
		MaxMessages:     session.DefaultMaxMessages,
		DefaultEmail:    profile.DefaultEmail,
	})
	c.Sessions.OnEnd(c.flushToMemory)

	c.Tools = tools.NewRegistry(tools.BookingTools(c.Booking)...)
	c.Executor = tools.NewExecutor(tools.WithMetrics(c.Metrics))
	return c, nil
}

func newMemoryManager(profile *profile.Profile) *memory.Manager {
	if !profile.IsMemoryEnabled() {
		slog.Info("long-term memory disabled")
		return memory.NewManager(memory.DefaultRetryConfig())
	}

	var backends []memory.Backend
	if profile.OpenMemoryToken != "" {
		backends = append(backends, memory.NewOpenMemory(memory.OpenMemoryConfig{
			Token:     profile.OpenMemoryToken,
			BaseURL:   profile.OpenMemoryURL,
			ProjectID: profile.OpenMemoryProjectID,
		}))
	}
	if profile.Mem0APIKey != "" {
		backends = append(backends, memory.NewMem0(memory.Mem0Config{
			APIKey:  profile.Mem0APIKey,
			BaseURL: profile.Mem0BaseURL,
		}))
	}
	return memory.NewManager(memory.DefaultRetryConfig(), backends...)
}

// flushToMemory hands an ended conversation to long-term memory.
func (c *Components) flushToMemory(ctx context.Context, s *session.Session) {
	if !c.Memory.Enabled() {
		return
	}

	messages := s.Messages()
	turns := make([]memory.Turn, 0, len(messages))
	for _, m := range messages {
		text := strings.TrimSpace(m.Text())
		if text == "" {
			continue
		}
		turns = append(turns, memory.Turn{Role: string(m.Role), Content: text})
	}
	if len(turns) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout.MemoryRequestTimeout)
	defer cancel()
	if err := c.Memory.Store(ctx, s.Email(), turns); err != nil {
		slog.Warn("failed to store conversation memory",
			observability.LogFieldSessionID, s.ID(),
			"turns", len(turns),
			"error", err,
		)
		return
	}
	slog.Info("conversation stored in memory", observability.LogFieldSessionID, s.ID(), "turns", len(turns))
}

// Close releases external connections.
func (c *Components) Close() error {
	if c.redis != nil {
		return c.redis.Close()
	}
	return nil
}
