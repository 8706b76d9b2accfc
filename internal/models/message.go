package models

import "time"

// Message is one stored user/AI exchange. id and timestamp are assigned by
// the database; records are never updated or deleted.
type Message struct {
	ID          int64     `json:"id"`
	UserMessage string    `json:"user_message"`
	AIResponse  string    `json:"ai_response"`
	Timestamp   time.Time `json:"timestamp"`
}

// ChatRequest is the payload sent to the chat endpoint.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the reply returned for a chat exchange.
type ChatResponse struct {
	UserMessage string    `json:"user_message"`
	AIResponse  string    `json:"ai_response"`
	Timestamp   time.Time `json:"timestamp"`
}

type HistoryResponse struct {
	Messages []Message `json:"messages"`
}

type HealthResponse struct {
	Status            string    `json:"status"`
	Timestamp         time.Time `json:"timestamp"`
	DatabaseConnected bool      `json:"database_connected"`
	AIAvailable       bool      `json:"ai_available"`
}

// API error response
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
