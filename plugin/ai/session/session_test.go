package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Chriskfigures777/Niceone/server/service/booking"
)

var _ booking.Session = (*Session)(nil)

func TestExtractEmail(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"my email is sam.lee+work@example.co.uk thanks", "sam.lee+work@example.co.uk"},
		{"first a@b.io then c@d.com", "a@b.io"},
		{"no address here", ""},
		{"broken@host", ""},
	}
	for _, tt := range tests {
		if got := ExtractEmail(tt.text); got != tt.want {
			t.Errorf("ExtractEmail(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestMessageText(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want string
	}{
		{"text", TextMessage(RoleUser, "hello"), "hello"},
		{"image only", Message{Parts: []Part{{Kind: PartImage, URL: "https://x/y.png"}}}, "[Image shared]"},
		{"text and image", Message{Parts: []Part{{Kind: PartText, Text: "look"}, {Kind: PartImage}}}, "look"},
		{"other described", Message{Parts: []Part{{Kind: PartOther, Text: "shared a file"}}}, "shared a file"},
		{"empty", Message{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.msg.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSessionAppend(t *testing.T) {
	now := time.Date(2026, 7, 1, 16, 0, 0, 0, time.UTC)
	s := newSession("", now, 3)

	if s.Append(TextMessage(RoleAssistant, "reach me at bot@example.com"), now) {
		t.Error("assistant text must not set the session email")
	}
	if !s.Append(TextMessage(RoleUser, "I'm sam@example.com"), now) {
		t.Error("user email should be captured")
	}
	if s.Email() != "sam@example.com" {
		t.Errorf("Email() = %q", s.Email())
	}
	if s.Append(Message{Role: RoleUser, Parts: []Part{{Kind: PartOther, Text: "x@y.com"}}}, now) {
		t.Error("only typed text is scanned for an email")
	}

	s.Append(TextMessage(RoleUser, "four"), now)
	msgs := s.Messages()
	if len(msgs) != 3 {
		t.Fatalf("window should keep 3 messages, got %d", len(msgs))
	}
	if msgs[0].Text() != "I'm sam@example.com" {
		t.Errorf("oldest kept message = %q", msgs[0].Text())
	}
	if !msgs[2].Timestamp.Equal(now) {
		t.Error("zero timestamps are stamped on append")
	}
}

func TestSessionTranscript(t *testing.T) {
	now := time.Now()
	s := newSession("", now, DefaultMaxMessages)
	if s.Transcript() != "" {
		t.Error("empty session has no transcript")
	}

	s.Append(TextMessage(RoleUser, "Book me Tuesday"), now)
	s.Append(TextMessage(RoleAssistant, "Done."), now)
	s.Append(Message{Role: RoleUser, Parts: []Part{{Kind: PartImage}}}, now)

	want := "=== Conversation History ===\n\nUser: Book me Tuesday\n\nAssistant: Done.\n\nUser: [Image shared]"
	if got := s.Transcript(); got != want {
		t.Errorf("Transcript() =\n%q\nwant\n%q", got, want)
	}
}

func TestManager(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 7, 1, 16, 0, 0, 0, time.UTC)

	m := NewManager(Config{IdleTimeout: time.Hour, DefaultEmail: "owner@example.com"})
	m.now = func() time.Time { return now }

	var mu sync.Mutex
	var ended []string
	m.OnEnd(func(_ context.Context, s *Session) {
		mu.Lock()
		defer mu.Unlock()
		ended = append(ended, s.ID())
	})

	t.Run("create uses default email", func(t *testing.T) {
		s := m.Create("")
		if s.Email() != "owner@example.com" {
			t.Errorf("Email() = %q", s.Email())
		}
		if got, err := m.Get(s.ID()); err != nil || got != s {
			t.Errorf("Get() = %v, %v", got, err)
		}
	})

	t.Run("append captures email", func(t *testing.T) {
		s := m.Create("")
		if _, err := m.Append(s.ID(), TextMessage(RoleUser, "use pat@example.com")); err != nil {
			t.Fatal(err)
		}
		if s.Email() != "pat@example.com" {
			t.Errorf("Email() = %q", s.Email())
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		if _, err := m.Get("missing"); err != ErrNotFound {
			t.Errorf("Get() error = %v", err)
		}
		if err := m.End(ctx, "missing"); err != ErrNotFound {
			t.Errorf("End() error = %v", err)
		}
	})

	t.Run("end runs hooks", func(t *testing.T) {
		s := m.Create("a@example.com")
		if err := m.End(ctx, s.ID()); err != nil {
			t.Fatal(err)
		}
		mu.Lock()
		defer mu.Unlock()
		if len(ended) == 0 || ended[len(ended)-1] != s.ID() {
			t.Errorf("hook did not see session %s", s.ID())
		}
	})

	t.Run("sweep ends idle sessions", func(t *testing.T) {
		idle := m.Create("")
		now = now.Add(45 * time.Minute)
		fresh := m.Create("")
		now = now.Add(30 * time.Minute)

		before := m.Len()
		if n := m.Sweep(ctx); n != before-1 {
			t.Errorf("Sweep() = %d, want %d", n, before-1)
		}
		if _, err := m.Get(idle.ID()); err != ErrNotFound {
			t.Error("idle session should be gone")
		}
		if _, err := m.Get(fresh.ID()); err != nil {
			t.Error("fresh session should survive")
		}
	})

	t.Run("end all", func(t *testing.T) {
		m.Create("")
		live := m.Len()
		if n := m.EndAll(ctx); n != live {
			t.Errorf("EndAll() = %d, want %d", n, live)
		}
		if m.Len() != 0 {
			t.Errorf("Len() = %d after EndAll", m.Len())
		}
	})
}

func TestManagerStartStop(t *testing.T) {
	m := NewManager(Config{CleanupInterval: time.Millisecond, IdleTimeout: time.Nanosecond})
	m.Create("")

	m.Start(context.Background())
	m.Start(context.Background())
	deadline := time.Now().Add(2 * time.Second)
	for m.Len() > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	m.Stop()
	m.Stop()

	if m.Len() != 0 {
		t.Errorf("Len() = %d after sweeping", m.Len())
	}
}
