// Package session keeps per-conversation state for the booking agent:
// the email the caller gave, and a sliding window of the conversation.
package session

import (
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/lithammer/shortuuid/v4"
)

// DefaultMaxMessages bounds the transcript kept for one session.
const DefaultMaxMessages = 200

const transcriptHeader = "=== Conversation History ==="

var emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)

// ExtractEmail returns the first email address in text, or "".
func ExtractEmail(text string) string {
	return emailPattern.FindString(text)
}

// Session is one conversation. It is safe for concurrent use.
type Session struct {
	id          string
	createdAt   time.Time
	maxMessages int

	mu         sync.RWMutex
	email      string
	messages   []Message
	lastActive time.Time
}

func newSession(email string, now time.Time, maxMessages int) *Session {
	return &Session{
		id:          shortuuid.New(),
		createdAt:   now,
		maxMessages: maxMessages,
		email:       strings.TrimSpace(email),
		lastActive:  now,
	}
}

func (s *Session) ID() string {
	return s.id
}

// Email returns the most recent address the caller gave.
func (s *Session) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.email
}

// Append records a turn. An email address typed by the user becomes the
// session email; it reports whether that happened.
func (s *Session) Append(msg Message, now time.Time) bool {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = now
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, msg)
	if over := len(s.messages) - s.maxMessages; over > 0 {
		s.messages = append([]Message(nil), s.messages[over:]...)
	}
	s.lastActive = now

	if msg.Role != RoleUser {
		return false
	}
	if email := ExtractEmail(msg.userText()); email != "" && email != s.email {
		s.email = email
		return true
	}
	return false
}

// Messages returns a copy of the kept turns, oldest first.
func (s *Session) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Message(nil), s.messages...)
}

// Transcript renders the conversation as meeting notes. It is empty when
// nothing has been said yet.
func (s *Session) Transcript() string {
	messages := s.Messages()
	if len(messages) == 0 {
		return ""
	}

	lines := make([]string, 0, len(messages)+1)
	lines = append(lines, transcriptHeader)
	for _, m := range messages {
		label := "Assistant"
		if m.Role == RoleUser {
			label = "User"
		}
		lines = append(lines, "\n"+label+": "+m.Text())
	}
	return strings.Join(lines, "\n")
}

func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Session) LastActive() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActive
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastActive = now
	s.mu.Unlock()
}
