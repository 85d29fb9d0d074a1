package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// ConversationSummary is what the sidebar needs: metadata without the
// full message list.
type ConversationSummary struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"createdAt"`
	MessageCount int       `json:"messageCount"`
	Active       bool      `json:"active"`
}

// ConversationsResponse is the response for listing conversations.
type ConversationsResponse struct {
	Conversations []ConversationSummary `json:"conversations"`
	Total         int                   `json:"total"`
}

// CreateConversation handles creating a new, empty conversation. The new
// conversation becomes the active one.
func (h *Handler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	conv := h.store.Create()
	h.JSON(w, http.StatusCreated, conv)
}

// ListConversations returns all conversations, newest first.
func (h *Handler) ListConversations(w http.ResponseWriter, r *http.Request) {
	activeID, hasActive := h.store.ActiveID()

	list := h.store.List()
	summaries := make([]ConversationSummary, len(list))
	for i, conv := range list {
		summaries[i] = ConversationSummary{
			ID:           conv.ID,
			Title:        conv.Title,
			CreatedAt:    conv.CreatedAt,
			MessageCount: len(conv.Messages),
			Active:       hasActive && conv.ID == activeID,
		}
	}

	h.JSON(w, http.StatusOK, ConversationsResponse{
		Conversations: summaries,
		Total:         len(summaries),
	})
}

// GetConversation returns one conversation with its full message list.
func (h *Handler) GetConversation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.Error(w, http.StatusBadRequest, "invalid conversation ID")
		return
	}

	conv, ok := h.store.Get(id)
	if !ok {
		h.Error(w, http.StatusNotFound, "conversation not found")
		return
	}

	h.JSON(w, http.StatusOK, conv)
}

// ActiveConversation returns the active conversation, or 204 when none
// has been created or selected yet.
func (h *Handler) ActiveConversation(w http.ResponseWriter, r *http.Request) {
	conv, ok := h.store.Active()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.JSON(w, http.StatusOK, conv)
}

// SelectConversation makes a conversation the active one. Selecting an
// unknown ID is an ignored request, not an error, so this still answers
// 204: the UI only sends IDs it has been shown.
func (h *Handler) SelectConversation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.Error(w, http.StatusBadRequest, "invalid conversation ID")
		return
	}

	h.store.Select(id)
	w.WriteHeader(http.StatusNoContent)
}
