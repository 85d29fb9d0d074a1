package models

import "time"

// DefaultTitlePrefix marks a conversation whose title has not yet been
// derived from a user message.
const DefaultTitlePrefix = "New Chat"

// Conversation is a titled, ordered thread of messages.
type Conversation struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
}
