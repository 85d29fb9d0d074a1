// Package store owns the in-memory conversation state for a session:
// which conversations exist, which one is active, and how titles are
// derived from the first user message.
package store

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Vishal25102002/planify/internal/metrics"
	"github.com/Vishal25102002/planify/internal/models"
)

// titleLimit is the number of characters kept when a title is derived
// from a user message.
const titleLimit = 30

// ConversationStore holds all conversations in memory and tracks the
// active one. Conversations are never deleted. Mutations are guarded by
// a mutex because handlers and the controller's completion goroutine
// both touch the store.
type ConversationStore struct {
	mu            sync.Mutex
	conversations []*models.Conversation // insertion order
	activeID      int
	hasActive     bool
}

// New creates an empty ConversationStore with no active conversation.
func New() *ConversationStore {
	return &ConversationStore{}
}

// Create allocates the next conversation ID, inserts an empty
// conversation with the default title and marks it active.
func (s *ConversationStore) Create() models.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextIDLocked()
	conv := &models.Conversation{
		ID:        id,
		Title:     fmt.Sprintf("%s %d", models.DefaultTitlePrefix, id),
		Messages:  []models.Message{},
		CreatedAt: time.Now(),
	}
	s.conversations = append(s.conversations, conv)
	s.activeID = id
	s.hasActive = true
	metrics.ConversationsCreated.Inc()
	return *conv
}

// nextIDLocked returns one more than the highest existing ID, or 1 for
// an empty store.
func (s *ConversationStore) nextIDLocked() int {
	max := 0
	for _, c := range s.conversations {
		if c.ID > max {
			max = c.ID
		}
	}
	return max + 1
}

// Select makes the conversation with the given ID active. Unknown IDs
// are ignored: the UI only passes IDs it has been shown, so a miss is an
// ignored request, not an error.
func (s *ConversationStore) Select(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findLocked(id) == nil {
		return
	}
	s.activeID = id
	s.hasActive = true
}

// Append adds msg to the active conversation and returns the ID of the
// conversation that received it. A message never gets dropped for lack
// of an active conversation: an empty store gets conversation 1 created
// around the message, and a store with conversations but no active ID
// falls back to the first conversation in insertion order.
func (s *ConversationStore) Append(msg models.Message) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasActive {
		if len(s.conversations) == 0 {
			conv := &models.Conversation{
				ID:        1,
				Title:     bootstrapTitle(msg),
				Messages:  []models.Message{msg},
				CreatedAt: time.Now(),
			}
			s.conversations = append(s.conversations, conv)
			s.activeID = 1
			s.hasActive = true
			metrics.ConversationsCreated.Inc()
			return 1
		}
		first := s.conversations[0]
		s.activeID = first.ID
		s.hasActive = true
		appendLocked(first, msg)
		return first.ID
	}

	conv := s.findLocked(s.activeID)
	appendLocked(conv, msg)
	return conv.ID
}

// AppendTo adds msg to a specific conversation regardless of which one
// is active. The controller uses this to finish a turn whose
// conversation was captured at submission time, so an answer arriving
// after the user switched conversations still lands in the right
// thread. Unknown IDs are ignored.
func (s *ConversationStore) AppendTo(id int, msg models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if conv := s.findLocked(id); conv != nil {
		appendLocked(conv, msg)
	}
}

// List returns a snapshot of all conversations ordered by creation time,
// newest first. The underlying insertion order is left untouched.
func (s *ConversationStore) List() []models.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Conversation, len(s.conversations))
	for i, c := range s.conversations {
		out[i] = *c
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Get returns a snapshot of the conversation with the given ID.
func (s *ConversationStore) Get(id int) (models.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.findLocked(id)
	if conv == nil {
		return models.Conversation{}, false
	}
	return *conv, true
}

// Active returns a snapshot of the active conversation, if any.
func (s *ConversationStore) Active() (models.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasActive {
		return models.Conversation{}, false
	}
	conv := s.findLocked(s.activeID)
	if conv == nil {
		return models.Conversation{}, false
	}
	return *conv, true
}

// ActiveID returns the identifier of the active conversation.
func (s *ConversationStore) ActiveID() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID, s.hasActive
}

// Counts returns the number of conversations and the total number of
// messages across all of them.
func (s *ConversationStore) Counts() (conversations, messages int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.conversations {
		messages += len(c.Messages)
	}
	return len(s.conversations), messages
}

func (s *ConversationStore) findLocked(id int) *models.Conversation {
	for _, c := range s.conversations {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// appendLocked adds msg to conv and applies the one-shot title rule: a
// title still carrying the default prefix is rewritten by the first user
// message. Bot messages never rename a conversation here.
func appendLocked(conv *models.Conversation, msg models.Message) {
	conv.Messages = append(conv.Messages, msg)
	if !msg.IsBot && strings.HasPrefix(conv.Title, models.DefaultTitlePrefix) {
		conv.Title = DeriveTitle(msg.Text)
	}
}

// DeriveTitle derives a conversation title from a user message: the
// first 30 characters, with "..." appended when truncated.
func DeriveTitle(text string) string {
	runes := []rune(text)
	if len(runes) > titleLimit {
		return string(runes[:titleLimit]) + "..."
	}
	return text
}

// bootstrapTitle titles an implicitly created conversation: the literal
// "Bot" when the first message came from the bot, otherwise derived
// from the user text.
func bootstrapTitle(msg models.Message) string {
	if msg.IsBot {
		return "Bot"
	}
	return DeriveTitle(msg.Text)
}
