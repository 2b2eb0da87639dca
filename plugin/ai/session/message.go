package session

import (
	"strings"
	"time"
)

// Role is who produced a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// PartKind tags one piece of message content. It is decided when the message
// is ingested and never re-inspected.
type PartKind string

const (
	PartText  PartKind = "text"
	PartImage PartKind = "image"
	PartOther PartKind = "other"
)

// Part is one piece of message content.
type Part struct {
	Kind PartKind `json:"kind"`
	// Text is the text of a text part, or a description of an other part.
	Text string `json:"text,omitempty"`
	// URL locates image data.
	URL string `json:"url,omitempty"`
}

// Message is one conversation turn.
type Message struct {
	Role      Role      `json:"role"`
	Parts     []Part    `json:"parts"`
	Timestamp time.Time `json:"timestamp"`
}

// TextMessage builds a message holding a single text part.
func TextMessage(role Role, text string) Message {
	return Message{Role: role, Parts: []Part{{Kind: PartText, Text: text}}}
}

const imagePlaceholder = "[Image shared]"

// Text renders the message for transcripts and memory. Images are skipped;
// a message made only of images renders as a placeholder.
func (m Message) Text() string {
	texts := make([]string, 0, len(m.Parts))
	images := 0
	for _, p := range m.Parts {
		switch p.Kind {
		case PartImage:
			images++
		default:
			if t := strings.TrimSpace(p.Text); t != "" {
				texts = append(texts, t)
			}
		}
	}
	if len(texts) == 0 && images > 0 {
		return imagePlaceholder
	}
	return strings.Join(texts, " ")
}

// userText returns only the typed text of the message.
func (m Message) userText() string {
	var sb strings.Builder
	for _, p := range m.Parts {
		if p.Kind == PartText {
			sb.WriteString(p.Text)
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}
