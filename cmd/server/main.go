package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aichat-backend/internal/config"
	"aichat-backend/internal/database"
	"aichat-backend/internal/handlers"
	"aichat-backend/internal/repository"
	"aichat-backend/internal/router"
	"aichat-backend/internal/services"
)

func main() {
	log.Println("🤖 Starting AI Chat Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	// An unreachable database is a degradation, not a startup failure:
	// chat keeps working, history just isn't saved.
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Printf("⚠ PostgreSQL unavailable: %v (chat history will not be saved)", err)
		pool = nil
	} else {
		defer pool.Close()
		if err := database.RunMigrations(pool, "migrations"); err != nil {
			log.Fatalf("✗ Database migration failed: %v", err)
		}
		log.Println("✓ PostgreSQL connected, migrations applied")
	}

	messageRepo := repository.NewMessageRepo(pool)
	if pool != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if n, err := messageRepo.Count(ctx); err == nil {
			log.Printf("✓ Message store ready (%d messages)", n)
		}
		cancel()
	}

	// ──── Step 3: Initialize Gemini Client ────
	geminiService, err := services.NewGeminiService(
		cfg.GeminiAPIKey,
		cfg.GeminiModel,
		time.Duration(cfg.GeminiTimeoutSecs)*time.Second,
	)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer geminiService.Close()
	if geminiService.Available() {
		log.Printf("✓ Gemini client initialized (%s)", cfg.GeminiModel)
	} else {
		log.Println("⚠ GEMINI_API_KEY not set. AI replies will use the fallback text.")
	}

	// ──── Step 4: Initialize Handlers ────
	chatHandler := handlers.NewChatHandler(messageRepo, geminiService)
	healthHandler := handlers.NewHealthHandler(messageRepo, geminiService)

	// ──── Step 5: Start HTTP Server ────
	r := router.New(chatHandler, healthHandler, cfg.FrontendURL, cfg.StaticDir, cfg.ChatRequestsPerMin)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
		messageRepo.Close()
	}()

	log.Printf("✓ AI Chat Backend ready on http://%s:%s", cfg.Host, cfg.Port)
	log.Printf("  API: http://%s:%s/api", cfg.Host, cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
