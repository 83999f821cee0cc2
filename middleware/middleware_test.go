package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agrisetu/globals"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

func signTestToken(t *testing.T, userID, role string) string {
	t.Helper()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	called := false
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		called = true
	})

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if called {
		t.Error("handler ran without a token")
	}
}

func TestRequireRoleForbidsOtherRoles(t *testing.T) {
	handler := RequireRole("aggregator", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Error("handler ran for wrong role")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "USR-1", "farmer"))
	w := httptest.NewRecorder()
	handler(w, req, nil)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
}

func TestOptionalAuthWithoutToken(t *testing.T) {
	handler := OptionalAuth(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if id, ok := r.Context().Value(globals.UserIDKey).(string); ok && id != "" {
			t.Errorf("unexpected identity %q on anonymous request", id)
		}
		w.WriteHeader(http.StatusOK)
	})

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestOptionalAuthWithToken(t *testing.T) {
	handler := OptionalAuth(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if id, _ := r.Context().Value(globals.UserIDKey).(string); id != "USR-2" {
			t.Errorf("userId in context = %q, want %q", id, "USR-2")
		}
		if role, _ := r.Context().Value(globals.RoleKey).(string); role != "consumer" {
			t.Errorf("role in context = %q, want %q", role, "consumer")
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "USR-2", "consumer"))
	w := httptest.NewRecorder()
	handler(w, req, nil)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}
