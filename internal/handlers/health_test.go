package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"aichat-backend/internal/models"
)

func TestHealthCheck_AllUp(t *testing.T) {
	h := NewHealthHandler(&fakeStore{connected: true}, &fakeGemini{available: true})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rr := httptest.NewRecorder()
	h.Check(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var resp models.HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.Status != "healthy" {
		t.Errorf("Expected status 'healthy', got %q", resp.Status)
	}
	if !resp.DatabaseConnected {
		t.Error("Expected database_connected true")
	}
	if !resp.AIAvailable {
		t.Error("Expected ai_available true")
	}
	if resp.Timestamp.IsZero() {
		t.Error("Expected timestamp to be set")
	}
}

func TestHealthCheck_DegradedStillReturns200(t *testing.T) {
	tests := []struct {
		name      string
		dbUp      bool
		aiUp      bool
	}{
		{"database offline", false, true},
		{"ai unconfigured", true, false},
		{"everything down", false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHealthHandler(&fakeStore{connected: tc.dbUp}, &fakeGemini{available: tc.aiUp})

			req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
			rr := httptest.NewRecorder()
			h.Check(rr, req)

			if rr.Code != http.StatusOK {
				t.Fatalf("Health must always return 200, got %d", rr.Code)
			}

			var resp models.HealthResponse
			json.NewDecoder(rr.Body).Decode(&resp)
			if resp.DatabaseConnected != tc.dbUp {
				t.Errorf("Expected database_connected=%v, got %v", tc.dbUp, resp.DatabaseConnected)
			}
			if resp.AIAvailable != tc.aiUp {
				t.Errorf("Expected ai_available=%v, got %v", tc.aiUp, resp.AIAvailable)
			}
		})
	}
}
