package handlers

import "net/http"

// StatsResponse represents aggregate usage statistics.
type StatsResponse struct {
	Conversations int  `json:"conversations"`
	Messages      int  `json:"messages"`
	Loading       bool `json:"loading"`
	ActiveID      int  `json:"activeId,omitempty"`
}

// Stats returns aggregate counters for the current session.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	conversations, messages := h.store.Counts()
	activeID, hasActive := h.store.ActiveID()

	resp := StatsResponse{
		Conversations: conversations,
		Messages:      messages,
		Loading:       h.controller.Loading(),
	}
	if hasActive {
		resp.ActiveID = activeID
	}

	h.JSON(w, http.StatusOK, resp)
}
