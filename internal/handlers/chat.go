package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"aichat-backend/internal/models"
	"aichat-backend/internal/repository"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

type messageStore interface {
	Save(ctx context.Context, userMessage, aiResponse string) (*models.Message, error)
	Recent(ctx context.Context, limit int) ([]models.Message, error)
	Ping(ctx context.Context) bool
}

type completionClient interface {
	Complete(ctx context.Context, message string) string
	Available() bool
}

type ChatHandler struct {
	store  messageStore
	gemini completionClient
}

func NewChatHandler(store messageStore, gemini completionClient) *ChatHandler {
	return &ChatHandler{store: store, gemini: gemini}
}

// SendMessage handles one chat exchange: validate, call Gemini, persist,
// reply. A persistence failure is logged and does not change the response.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Message cannot be empty", r))
		return
	}

	reply := h.gemini.Complete(r.Context(), message)

	if _, err := h.store.Save(r.Context(), message, reply); err != nil {
		log.Printf("failed to save message: %v", err)
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{
		UserMessage: message,
		AIResponse:  reply,
		Timestamp:   time.Now().UTC(),
	})
}

// History returns the most recent exchanges, newest first. An offline store
// yields an empty list rather than an error.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "limit must be a positive integer", r))
			return
		}
		limit = n
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	messages, err := h.store.Recent(r.Context(), limit)
	if err != nil {
		if errors.Is(err, repository.ErrNotConnected) {
			writeJSON(w, http.StatusOK, models.HistoryResponse{Messages: []models.Message{}})
			return
		}
		log.Printf("failed to fetch history: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch chat history", r))
		return
	}

	if messages == nil {
		messages = []models.Message{}
	}
	writeJSON(w, http.StatusOK, models.HistoryResponse{Messages: messages})
}

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}
