package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Chriskfigures777/Niceone/plugin/ai/timeout"
)

// ErrNotFound is returned for unknown or expired session IDs.
var ErrNotFound = errors.New("session not found")

// EndHook runs when a session ends, either explicitly or by idling out.
type EndHook func(ctx context.Context, s *Session)

// Config configures a Manager.
type Config struct {
	IdleTimeout     time.Duration // sessions untouched this long are ended (default: 1h)
	CleanupInterval time.Duration // interval between sweeps (default: 10m)
	MaxMessages     int           // transcript window per session (default: 200)
	DefaultEmail    string        // email new sessions start with
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		IdleTimeout:     timeout.SessionIdleTimeout,
		CleanupInterval: timeout.SessionCleanupInterval,
		MaxMessages:     DefaultMaxMessages,
	}
}

// Manager is the registry of live sessions.
type Manager struct {
	config Config
	now    func() time.Time
	onEnd  []EndHook

	mu       sync.Mutex
	sessions map[string]*Session

	jobMu    sync.Mutex
	running  bool
	stopChan chan struct{}
	done     chan struct{}
}

// NewManager creates a session registry. Zero config fields take defaults.
func NewManager(config Config) *Manager {
	defaults := DefaultConfig()
	if config.IdleTimeout <= 0 {
		config.IdleTimeout = defaults.IdleTimeout
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = defaults.CleanupInterval
	}
	if config.MaxMessages <= 0 {
		config.MaxMessages = defaults.MaxMessages
	}

	return &Manager{
		config:   config,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// OnEnd registers a hook run for every ended session.
func (m *Manager) OnEnd(hook EndHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onEnd = append(m.onEnd, hook)
}

// Create starts a session. An empty email falls back to the configured default.
func (m *Manager) Create(email string) *Session {
	if email == "" {
		email = m.config.DefaultEmail
	}
	s := newSession(email, m.now(), m.config.MaxMessages)

	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()

	slog.Info("session created", "session_id", s.ID())
	return s
}

// Get returns a live session and marks it active.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	s.touch(m.now())
	return s, nil
}

// Append records a turn on a live session.
func (m *Manager) Append(id string, msg Message) (*Session, error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	if s.Append(msg, m.now()) {
		slog.Info("session email updated from message", "session_id", id)
	}
	return s, nil
}

// End removes a session and runs the end hooks.
func (m *Manager) End(ctx context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	hooks := append([]EndHook(nil), m.onEnd...)
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}

	for _, hook := range hooks {
		hook(ctx, s)
	}
	slog.Info("session ended", "session_id", id, "messages", len(s.Messages()), "age", m.now().Sub(s.CreatedAt()))
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep ends every session idle longer than the idle timeout.
func (m *Manager) Sweep(ctx context.Context) int {
	cutoff := m.now().Add(-m.config.IdleTimeout)

	m.mu.Lock()
	var expired []string
	for id, s := range m.sessions {
		if s.LastActive().Before(cutoff) {
			expired = append(expired, id)
		}
	}
	m.mu.Unlock()

	ended := 0
	for _, id := range expired {
		if err := m.End(ctx, id); err == nil {
			ended++
		}
	}
	return ended
}

// EndAll ends every live session, as on shutdown.
func (m *Manager) EndAll(ctx context.Context) int {
	m.mu.Lock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	ended := 0
	for _, id := range ids {
		if err := m.End(ctx, id); err == nil {
			ended++
		}
	}
	return ended
}

// Start begins the periodic sweep. It is non-blocking.
func (m *Manager) Start(ctx context.Context) {
	m.jobMu.Lock()
	defer m.jobMu.Unlock()
	if m.running {
		return
	}
	m.running = true
	m.stopChan = make(chan struct{})
	m.done = make(chan struct{})

	go m.run(ctx, m.stopChan, m.done)

	slog.Info("session cleanup job started",
		"idle_timeout", m.config.IdleTimeout,
		"interval", m.config.CleanupInterval)
}

// Stop stops the periodic sweep and waits for it to exit.
func (m *Manager) Stop() {
	m.jobMu.Lock()
	defer m.jobMu.Unlock()
	if !m.running {
		return
	}
	close(m.stopChan)
	<-m.done
	m.running = false

	slog.Info("session cleanup job stopped")
}

func (m *Manager) run(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(m.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			if ended := m.Sweep(ctx); ended > 0 {
				slog.Info("session cleanup completed", "ended", ended)
			}
		}
	}
}
