package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Vishal25102002/planify/internal/chat"
)

// SubmitRequest represents the chat submission request.
type SubmitRequest struct {
	Text string `json:"text"`
}

// SubmitResponse represents the chat submission response.
type SubmitResponse struct {
	Status       string `json:"status"`
	Conversation int    `json:"conversation"`
}

// StatusResponse reports whether a turn is in flight.
type StatusResponse struct {
	Loading bool `json:"loading"`
}

// Submit accepts a chat message and starts a turn. The answer arrives
// asynchronously; clients poll the conversation (or /chat/status) to see
// the bot's reply.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	target, err := h.controller.Submit(req.Text)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyMessage):
			h.Error(w, http.StatusUnprocessableEntity, "message text is required")
		case errors.Is(err, chat.ErrBusy):
			h.Error(w, http.StatusConflict, "a message is already being processed")
		default:
			h.Error(w, http.StatusInternalServerError, "failed to submit message")
		}
		return
	}

	h.JSON(w, http.StatusAccepted, SubmitResponse{
		Status:       "accepted",
		Conversation: target, // captured at submission, not re-read from active state
	})
}

// Status reports the loading flag for the presentation layer.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	h.JSON(w, http.StatusOK, StatusResponse{Loading: h.controller.Loading()})
}
