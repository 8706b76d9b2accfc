package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"google.golang.org/api/googleapi"
)

func TestNewGeminiService_NoAPIKey(t *testing.T) {
	svc, err := NewGeminiService("", "gemini-2.0-flash", 30*time.Second)
	if err != nil {
		t.Fatalf("Expected no error without API key, got %v", err)
	}

	if svc.Available() {
		t.Error("Expected Available() false without API key")
	}
}

func TestComplete_Unavailable(t *testing.T) {
	svc, _ := NewGeminiService("", "gemini-2.0-flash", 30*time.Second)

	reply := svc.Complete(context.Background(), "Hello")
	if reply != FallbackUnavailable {
		t.Errorf("Expected unavailable fallback, got %q", reply)
	}
}

func TestListModels_Unavailable(t *testing.T) {
	svc, _ := NewGeminiService("", "gemini-2.0-flash", 30*time.Second)

	if _, err := svc.ListModels(context.Background()); err == nil {
		t.Error("Expected error listing models without a client")
	}
}

func TestFallbackFor(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"unconfigured client", errUnavailable, FallbackUnavailable},
		{"empty response", errEmptyResponse, FallbackAPIError},
		{"quota exceeded", &googleapi.Error{Code: http.StatusTooManyRequests}, FallbackQuota},
		{"server error", &googleapi.Error{Code: http.StatusInternalServerError}, FallbackAPIError},
		{"auth error", &googleapi.Error{Code: http.StatusUnauthorized}, FallbackAPIError},
		{"timeout", context.DeadlineExceeded, FallbackConnection},
		{"unknown error", errors.New("boom"), FallbackGeneric},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := fallbackFor(tc.err)
			if got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestFallbackFor_WrappedError(t *testing.T) {
	wrapped := fmt.Errorf("gemini API error: %w", &googleapi.Error{Code: http.StatusTooManyRequests})
	if got := fallbackFor(wrapped); got != FallbackQuota {
		t.Errorf("Expected quota fallback for wrapped 429, got %q", got)
	}
}

func TestBuildChatPrompt(t *testing.T) {
	prompt := buildChatPrompt("What is Go?")

	if !strings.Contains(prompt, "User: What is Go?") {
		t.Errorf("Prompt does not contain the user message: %q", prompt)
	}
	if !strings.HasPrefix(prompt, "You are a helpful AI assistant.") {
		t.Errorf("Prompt missing the assistant preamble: %q", prompt)
	}
}
