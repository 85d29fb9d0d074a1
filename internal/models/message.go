package models

import "time"

// Reference is a citation attached to a bot message.
type Reference struct {
	Content string `json:"content"`
	Page    int    `json:"page"`
	Score   string `json:"score"` // formatted by the answering service, e.g. "87.2%"
}

// Message represents a single chat turn. Messages are append-only: once
// added to a conversation they are never mutated or removed.
type Message struct {
	ID         string      `json:"id"` // ULID
	Text       string      `json:"text"`
	IsBot      bool        `json:"isBot"`
	Timestamp  time.Time   `json:"timestamp"`
	References []Reference `json:"references,omitempty"`
}
