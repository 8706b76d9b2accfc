package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"aichat-backend/internal/config"
	"aichat-backend/internal/services"
)

// Lists the Gemini models available to the configured API key. Handy when
// picking a value for GEMINI_MODEL.
func main() {
	cfg := config.Load()
	if cfg.GeminiAPIKey == "" {
		log.Fatal("GEMINI_API_KEY not found in environment variables")
	}

	svc, err := services.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel, time.Duration(cfg.GeminiTimeoutSecs)*time.Second)
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	names, err := svc.ListModels(ctx)
	if err != nil {
		log.Fatalf("Failed to list models: %v", err)
	}

	fmt.Println("Available models:")
	for _, name := range names {
		fmt.Printf("  - %s\n", name)
	}
}
