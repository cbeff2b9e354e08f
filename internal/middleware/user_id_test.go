package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestUserIDStoresHeaderInContext(t *testing.T) {
	var got string
	handler := UserID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetUserID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderUserID, "u1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got != "u1" {
		t.Fatalf("expected u1 in context, got %q", got)
	}
}

func TestUserIDTrimsWhitespace(t *testing.T) {
	var got string
	handler := UserID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetUserID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderUserID, "  u1  ")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got != "u1" {
		t.Fatalf("expected trimmed id, got %q", got)
	}
}

func TestRequireUserRejectsAnonymous(t *testing.T) {
	handler := RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a user")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireUserPassesThrough(t *testing.T) {
	called := false
	handler := RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUserID(req.Context(), "u1"))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !called {
		t.Fatal("authenticated request should reach the handler")
	}
}

func TestCorrelationIDGeneratedWhenMissing(t *testing.T) {
	var got string
	handler := CorrelationID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetCorrelationID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if got == "" {
		t.Fatal("a correlation id should be generated")
	}
	if rec.Header().Get(HeaderCorrelationID) != got {
		t.Fatal("correlation id must be echoed to the client")
	}
}

func TestCorrelationIDPreserved(t *testing.T) {
	var got string
	handler := CorrelationID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetCorrelationID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderCorrelationID, "cid-123")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got != "cid-123" {
		t.Fatalf("incoming correlation id must be kept, got %q", got)
	}
}
