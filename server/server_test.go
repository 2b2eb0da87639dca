package server

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chriskfigures777/Niceone/internal/profile"
	"github.com/Chriskfigures777/Niceone/plugin/ai/memory"
	"github.com/Chriskfigures777/Niceone/plugin/ai/session"
)

type recordingBackend struct {
	mu     sync.Mutex
	userID string
	turns  []memory.Turn
}

func (b *recordingBackend) Name() string { return "recording" }

func (b *recordingBackend) Search(context.Context, string, string, int) ([]memory.Memory, error) {
	return nil, nil
}

func (b *recordingBackend) Add(_ context.Context, userID string, turns []memory.Turn) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.userID = userID
	b.turns = turns
	return nil
}

func testProfile() *profile.Profile {
	p := &profile.Profile{
		Mode:                "dev",
		CalcomAPIKey:        "cal_test",
		ConnectEventTypeID:  1,
		DiscoverEventTypeID: 2,
		JWTSecret:           "secret",
	}
	return p
}

func TestNewComponents(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a scheduling key", func(t *testing.T) {
		p := testProfile()
		p.CalcomAPIKey = ""
		_, err := NewComponents(ctx, p, nil)
		assert.Error(t, err)
	})

	t.Run("wires tools", func(t *testing.T) {
		c, err := NewComponents(ctx, testProfile(), nil)
		require.NoError(t, err)
		defer c.Close()

		assert.Len(t, c.Tools.List(), 8)
		assert.False(t, c.Memory.Enabled())
	})

	t.Run("memory backends", func(t *testing.T) {
		p := testProfile()
		p.MemoryEnabled = true
		p.Mem0APIKey = "m0"
		c, err := NewComponents(ctx, p, nil)
		require.NoError(t, err)
		assert.True(t, c.Memory.Enabled())
	})
}

func TestFlushToMemory(t *testing.T) {
	backend := &recordingBackend{}
	c := &Components{
		Memory:   memory.NewManager(memory.RetryConfig{}, backend),
		Sessions: session.NewManager(session.DefaultConfig()),
	}
	c.Sessions.OnEnd(c.flushToMemory)

	sess := c.Sessions.Create("sam@example.com")
	_, err := c.Sessions.Append(sess.ID(), session.TextMessage(session.RoleUser, "Book me a Connect call"))
	require.NoError(t, err)
	_, err = c.Sessions.Append(sess.ID(), session.TextMessage(session.RoleAssistant, "  "))
	require.NoError(t, err)
	_, err = c.Sessions.Append(sess.ID(), session.TextMessage(session.RoleAssistant, "Done."))
	require.NoError(t, err)

	require.NoError(t, c.Sessions.End(context.Background(), sess.ID()))

	backend.mu.Lock()
	defer backend.mu.Unlock()
	assert.Equal(t, "sam@example.com", backend.userID)
	assert.Equal(t, []memory.Turn{
		{Role: "user", Content: "Book me a Connect call"},
		{Role: "assistant", Content: "Done."},
	}, backend.turns)
}

func TestNewServerRequiresSecret(t *testing.T) {
	c, err := NewComponents(context.Background(), testProfile(), nil)
	require.NoError(t, err)

	p := testProfile()
	p.JWTSecret = ""
	_, err = NewServer(p, nil, c)
	assert.Error(t, err)

	s, err := NewServer(testProfile(), nil, c)
	require.NoError(t, err)
	require.NoError(t, s.Shutdown(context.Background()))
}
