package router

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"aichat-backend/internal/handlers"
	"aichat-backend/internal/middleware"
)

func New(
	chatHandler *handlers.ChatHandler,
	healthHandler *handlers.HealthHandler,
	frontendURL string,
	staticDir string,
	chatRequestsPerMin int,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))
	r.Use(middleware.Recoverer)

	// Chat rate limiter, per IP
	chatLimiter := middleware.NewRateLimiter(chatRequestsPerMin, time.Minute)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Check)
		r.With(chatLimiter.Middleware).Post("/chat", chatHandler.SendMessage)
		r.Get("/history", chatHandler.History)
	})

	// Presentation page
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
	})
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErrorJSON(w, http.StatusNotFound, "NOT_FOUND", "Endpoint not found", r)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErrorJSON(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", r)
	})

	return r
}

func writeErrorJSON(w http.ResponseWriter, status int, code, message string, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{
			"code":       code,
			"message":    message,
			"request_id": r.Header.Get("X-Request-ID"),
		},
	})
}
