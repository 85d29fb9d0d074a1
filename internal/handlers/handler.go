package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Vishal25102002/planify/internal/answer"
	"github.com/Vishal25102002/planify/internal/chat"
	"github.com/Vishal25102002/planify/internal/store"
)

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	store      *store.ConversationStore
	controller *chat.Controller
	answers    *answer.Client
}

// NewHandler creates a new Handler with the given dependencies.
func NewHandler(st *store.ConversationStore, controller *chat.Controller, answers *answer.Client) *Handler {
	return &Handler{store: st, controller: controller, answers: answers}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}
