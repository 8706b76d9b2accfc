package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Fixed user-facing strings returned in place of a genuine AI reply.
// Which one is picked depends on why the call failed, but the caller never
// branches on it.
const (
	FallbackUnavailable = "AI service is not available. Please check the API key configuration."
	FallbackQuota       = "I'm sorry, I've reached my daily limit. Please try again later."
	FallbackConnection  = "I'm sorry, I'm having trouble connecting to the AI service."
	FallbackAPIError    = "I'm sorry, I'm having trouble processing your request right now."
	FallbackGeneric     = "I'm sorry, something went wrong. Please try again."
)

var (
	errUnavailable   = errors.New("gemini client is not configured")
	errEmptyResponse = errors.New("gemini returned no text")
)

// GeminiService wraps the outbound Gemini call. A service constructed
// without an API key stays usable: Available reports false and Complete
// returns FallbackUnavailable.
type GeminiService struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	timeout time.Duration
}

func NewGeminiService(apiKey, modelName string, timeout time.Duration) (*GeminiService, error) {
	if apiKey == "" {
		return &GeminiService{timeout: timeout}, nil
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.7)
	model.SetTopP(0.95)

	return &GeminiService{
		client:  client,
		model:   model,
		timeout: timeout,
	}, nil
}

func (s *GeminiService) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

// Available reports whether a client was configured. It never makes a live
// call; the health endpoint relies on that.
func (s *GeminiService) Available() bool {
	return s.client != nil
}

// Complete sends the user message to Gemini and returns the reply, or a
// fallback string when the call failed for any reason. The real failure is
// logged; the returned string is never empty.
func (s *GeminiService) Complete(ctx context.Context, message string) string {
	reply, err := s.generate(ctx, message)
	if err != nil {
		log.Printf("gemini completion failed: %v", err)
		return fallbackFor(err)
	}
	return reply
}

func (s *GeminiService) generate(ctx context.Context, message string) (string, error) {
	if s.client == nil {
		return "", errUnavailable
	}

	// A slow provider must not hold the worker indefinitely.
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.model.GenerateContent(ctx, genai.Text(buildChatPrompt(message)))
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}

	text := strings.TrimSpace(extractText(resp))
	if text == "" {
		return "", errEmptyResponse
	}
	return text, nil
}

// ListModels returns the names of the models available to the configured
// API key. Diagnostic use only.
func (s *GeminiService) ListModels(ctx context.Context) ([]string, error) {
	if s.client == nil {
		return nil, errUnavailable
	}

	var names []string
	it := s.client.ListModels(ctx)
	for {
		m, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list models: %w", err)
		}
		names = append(names, m.Name)
	}
	return names, nil
}

func fallbackFor(err error) string {
	if errors.Is(err, errUnavailable) {
		return FallbackUnavailable
	}
	if errors.Is(err, errEmptyResponse) {
		return FallbackAPIError
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		if gerr.Code == http.StatusTooManyRequests {
			return FallbackQuota
		}
		return FallbackAPIError
	}

	var nerr net.Error
	if errors.As(err, &nerr) || errors.Is(err, context.DeadlineExceeded) {
		return FallbackConnection
	}

	return FallbackGeneric
}

func buildChatPrompt(message string) string {
	var b strings.Builder

	b.WriteString("You are a helpful AI assistant. Please respond to the following message in a friendly and informative way:\n\n")
	b.WriteString("User: ")
	b.WriteString(message)
	b.WriteString("\n\nPlease keep your response concise and helpful.")

	return b.String()
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
