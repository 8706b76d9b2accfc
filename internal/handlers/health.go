package handlers

import (
	"net/http"
	"time"

	"aichat-backend/internal/models"
)

// HealthHandler reports connectivity without ever failing: the flags carry
// the signal, the status code is always 200.
type HealthHandler struct {
	store  messageStore
	gemini completionClient
}

func NewHealthHandler(store messageStore, gemini completionClient) *HealthHandler {
	return &HealthHandler{store: store, gemini: gemini}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{
		Status:            "healthy",
		Timestamp:         time.Now().UTC(),
		DatabaseConnected: h.store.Ping(r.Context()),
		AIAvailable:       h.gemini.Available(),
	})
}
