package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/scsmith60/messhall/internal/config"
	"github.com/scsmith60/messhall/internal/model"
)

func newTestProvider(t *testing.T) *DeviceTokenProvider {
	t.Helper()
	p, err := NewDeviceTokenProvider("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewDeviceTokenProvider() error = %v", err)
	}
	return p
}

func TestNewDeviceTokenProviderRequiresSecret(t *testing.T) {
	if _, err := NewDeviceTokenProvider("", time.Hour); err == nil {
		t.Error("expected error for empty secret")
	}
}

func TestMintAndVerify(t *testing.T) {
	p := newTestProvider(t)

	token, err := p.Mint("user_123")
	if err != nil {
		t.Fatalf("Mint() error = %v", err)
	}

	userID, err := p.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if userID != "user_123" {
		t.Errorf("Verify() = %q, want %q", userID, "user_123")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	p := newTestProvider(t)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := p.Verify(token); err == nil {
			t.Errorf("Verify(%q) expected error", token)
		}
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	p := newTestProvider(t)
	other, err := NewDeviceTokenProvider("other-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewDeviceTokenProvider() error = %v", err)
	}

	token, err := other.Mint("user_123")
	if err != nil {
		t.Fatalf("Mint() error = %v", err)
	}

	if _, err := p.Verify(token); err == nil {
		t.Error("expected error verifying token from a different secret")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	p := newTestProvider(t)
	p.validity = -time.Hour

	token, err := p.Mint("user_123")
	if err != nil {
		t.Fatalf("Mint() error = %v", err)
	}

	if _, err := p.Verify(token); err == nil {
		t.Error("expected error verifying expired token")
	}
}

func TestWithHeaderAuthorization(t *testing.T) {
	p := newTestProvider(t)
	token, err := p.Mint("user_123")
	if err != nil {
		t.Fatalf("Mint() error = %v", err)
	}

	var gotUser model.UserID
	var gotOK bool
	handler := p.WithHeaderAuthorization()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotOK = UserIDFromContext(r.Context())
	}))

	t.Run("bearer header", func(t *testing.T) {
		gotUser, gotOK = "", false
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if !gotOK || gotUser != "user_123" {
			t.Errorf("context user = %q, %v; want user_123, true", gotUser, gotOK)
		}
	})

	t.Run("cookie", func(t *testing.T) {
		gotUser, gotOK = "", false
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: config.CookieDeviceToken, Value: token})
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if !gotOK || gotUser != "user_123" {
			t.Errorf("context user = %q, %v; want user_123, true", gotUser, gotOK)
		}
	})

	t.Run("anonymous", func(t *testing.T) {
		gotUser, gotOK = "", false
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if gotOK {
			t.Errorf("expected anonymous request, got user %q", gotUser)
		}
	})

	t.Run("invalid token proceeds anonymously", func(t *testing.T) {
		gotUser, gotOK = "", false
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer bogus")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if gotOK {
			t.Errorf("expected anonymous request, got user %q", gotUser)
		}
	})
}

func TestEnforceUserAndGetID(t *testing.T) {
	p := newTestProvider(t)

	t.Run("authenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(ContextWithUserID(req.Context(), "user_123"))
		rec := httptest.NewRecorder()

		userID, err := p.EnforceUserAndGetID(rec, req)
		if err != nil {
			t.Fatalf("EnforceUserAndGetID() error = %v", err)
		}
		if userID != "user_123" {
			t.Errorf("userID = %q, want user_123", userID)
		}
	})

	t.Run("anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		if _, err := p.EnforceUserAndGetID(rec, req); err == nil {
			t.Fatal("expected error for anonymous request")
		}
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
		if body := strings.TrimSpace(rec.Body.String()); body != config.ErrAuthHeaderRequired {
			t.Errorf("body = %q, want %q", body, config.ErrAuthHeaderRequired)
		}
	})
}

func TestDeviceTokenHandlerMint(t *testing.T) {
	p := newTestProvider(t)
	h := NewDeviceTokenHandler(p, p)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/device-token", nil)
	req = req.WithContext(ContextWithUserID(req.Context(), "user_123"))
	rec := httptest.NewRecorder()

	h.HandleMint(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	// response is {"token": "..."}, verify it round-trips
	body := rec.Body.String()
	if len(body) == 0 {
		t.Fatal("empty response body")
	}
}
