package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brunosouza-justauto/eng-sub005/internal/config"
)

func TestHealthz(t *testing.T) {
	cfg := &config.Config{Port: 8080}
	srv := New(cfg)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp["status"] != "ok" {
		t.Errorf("expected status=ok, got %s", resp["status"])
	}
}

func TestHealthzMethodNotAllowed(t *testing.T) {
	cfg := &config.Config{Port: 8080}
	srv := New(cfg)

	req := httptest.NewRequest(http.MethodPost, "/healthz", nil)
	w := httptest.NewRecorder()

	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func TestDailyLogRoute(t *testing.T) {
	cfg := &config.Config{Port: 8080}
	srv := New(cfg)

	req := httptest.NewRequest(http.MethodGet, "/v1/logs/daily?date=2024-01-01", nil)
	w := httptest.NewRecorder()

	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Date        string        `json:"date"`
		LoggedMeals []interface{} `json:"logged_meals"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Date != "2024-01-01" {
		t.Errorf("date = %q, want 2024-01-01", resp.Date)
	}
	if len(resp.LoggedMeals) != 0 {
		t.Errorf("expected no logged meals, got %d", len(resp.LoggedMeals))
	}
}

func TestDevAuthRoute(t *testing.T) {
	cfg := &config.Config{
		Port:          8080,
		AuthMode:      "dev",
		JWTSecret:     "test-secret",
		JWTIssuer:     "nutrition-engine",
		JWTTTLMinutes: 60,
	}
	srv := New(cfg)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/dev", nil)
	w := httptest.NewRecorder()

	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.AccessToken == "" || resp.TokenType != "Bearer" {
		t.Errorf("unexpected auth response: %+v", resp)
	}
}
