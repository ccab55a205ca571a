package app

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message roles. RoleError marks the inline failure bubble appended when an
// agent call fails; it renders like an assistant message.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleError     = "error"
)

// PlaceholderTitle is the title of a session that has not received a user
// message or an explicit rename yet. Sessions still carrying it are hidden
// from the history list.
const PlaceholderTitle = "New chat"

const titleMaxRunes = 48

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatSession is one conversation thread with the agent. ID and CreatedAt
// are set at creation and never change; Messages is append-only.
type ChatSession struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt time.Time     `json:"created_at"`
}

func newChatSession(now time.Time) ChatSession {
	return ChatSession{
		ID:        uuid.NewString(),
		Title:     PlaceholderTitle,
		Messages:  []ChatMessage{},
		CreatedAt: now,
	}
}

// HasUserMessage reports whether the session contains at least one
// user-authored message.
func (s ChatSession) HasUserMessage() bool {
	for _, m := range s.Messages {
		if m.Role == RoleUser {
			return true
		}
	}
	return false
}

// TitleFromPrompt derives a session title from the first user message.
func TitleFromPrompt(prompt string) string {
	t := strings.TrimSpace(prompt)
	if t == "" {
		return PlaceholderTitle
	}
	if line, _, ok := strings.Cut(t, "\n"); ok {
		t = strings.TrimSpace(line)
	}
	runes := []rune(t)
	if len(runes) > titleMaxRunes {
		t = strings.TrimSpace(string(runes[:titleMaxRunes])) + "…"
	}
	return t
}
