package middleware

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"postdesk/internal/domain"
	"postdesk/internal/domain/models"
	"postdesk/internal/httputil"

	"github.com/golang-jwt/jwt/v5"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockVerifier struct {
	token string
}

func (m *mockVerifier) VerifyToken(tokenString string) (*models.EditorClaims, error) {
	if tokenString != m.token {
		return nil, domain.ErrUnauthorized
	}
	return &models.EditorClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "editor-1"},
		Role:             "authenticated",
	}, nil
}

func (m *mockVerifier) Close() error { return nil }

func TestAuth(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantEditor string
	}{
		{"valid token", "Bearer good", http.StatusOK, "editor-1"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, ""},
		{"bad token", "Bearer bad", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotEditor string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotEditor = httputil.GetEditorID(r)
				w.WriteHeader(http.StatusOK)
			})

			h := Auth(&mockVerifier{token: "good"}, testLogger())(next)
			r := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if gotEditor != tt.wantEditor {
				t.Errorf("editor = %q, want %q", gotEditor, tt.wantEditor)
			}
		})
	}
}

func TestPrefix(t *testing.T) {
	blocked := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})
	}
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := Prefix("/api/", blocked)(ok)

	for path, want := range map[string]int{"/api/posts": http.StatusTeapot, "/health": http.StatusOK} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != want {
			t.Errorf("%s: status = %d, want %d", path, w.Code, want)
		}
	}
}

func TestRecovery(t *testing.T) {
	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(errors.New("boom"))
	})

	w := httptest.NewRecorder()
	Recovery(testLogger())(panicky).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/posts", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}
