package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brunosouza-justauto/eng-sub005/internal/config"
	"github.com/brunosouza-justauto/eng-sub005/internal/userctx"
)

func testConfig(required bool) *config.Config {
	return &config.Config{
		AuthMode:      "dev",
		AuthRequired:  required,
		JWTSecret:     "test-secret",
		JWTIssuer:     "nutrition-engine",
		JWTTTLMinutes: 60,
	}
}

func TestSignInDevAndVerify(t *testing.T) {
	svc := NewService(testConfig(true))

	resp, err := svc.SignInDev(&DevAuthRequest{UserID: "coach-1"})
	if err != nil {
		t.Fatalf("SignInDev: %v", err)
	}
	if resp.TokenType != "Bearer" || resp.UserID != "coach-1" {
		t.Errorf("unexpected response: %+v", resp)
	}

	sub, err := svc.VerifyJWT(resp.AccessToken)
	if err != nil {
		t.Fatalf("VerifyJWT: %v", err)
	}
	if sub != "coach-1" {
		t.Errorf("sub = %q, want coach-1", sub)
	}
}

func TestSignInDevDefaultUser(t *testing.T) {
	svc := NewService(testConfig(true))

	resp, err := svc.SignInDev(&DevAuthRequest{})
	if err != nil {
		t.Fatalf("SignInDev: %v", err)
	}
	if resp.UserID != "dev-user" {
		t.Errorf("UserID = %q, want dev-user", resp.UserID)
	}
}

func TestVerifyJWTRejectsGarbage(t *testing.T) {
	svc := NewService(testConfig(true))

	if _, err := svc.VerifyJWT("not-a-token"); err != ErrInvalidToken {
		t.Errorf("VerifyJWT error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyJWTRejectsWrongSecret(t *testing.T) {
	issuer := NewService(testConfig(true))
	resp, err := issuer.SignInDev(nil)
	if err != nil {
		t.Fatalf("SignInDev: %v", err)
	}

	other := testConfig(true)
	other.JWTSecret = "different-secret"
	verifier := NewService(other)

	if _, err := verifier.VerifyJWT(resp.AccessToken); err != ErrInvalidToken {
		t.Errorf("VerifyJWT error = %v, want ErrInvalidToken", err)
	}
}

func TestRequireAuth(t *testing.T) {
	cfg := testConfig(true)
	svc := NewService(cfg)
	mw := NewMiddleware(cfg, svc)

	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = userctx.GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := mw.RequireAuth(next)

	t.Run("no token rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/logs/daily", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("valid token passes", func(t *testing.T) {
		resp, err := svc.SignInDev(&DevAuthRequest{UserID: "u42"})
		if err != nil {
			t.Fatalf("SignInDev: %v", err)
		}

		req := httptest.NewRequest("GET", "/v1/logs/daily", nil)
		req.Header.Set("Authorization", "Bearer "+resp.AccessToken)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
		if gotUserID != "u42" {
			t.Errorf("user id in context = %q, want u42", gotUserID)
		}
	})

	t.Run("public path passes without token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("auth disabled passes everything", func(t *testing.T) {
		offCfg := testConfig(false)
		offMw := NewMiddleware(offCfg, NewService(offCfg))
		rec := httptest.NewRecorder()
		offMw.RequireAuth(next).ServeHTTP(rec, httptest.NewRequest("GET", "/v1/logs/daily", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}
