package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hourbank/internal/domain/auth"
)

func TestAuthMiddlewareSetsPrincipal(t *testing.T) {
	secret := "test-secret"
	token, _, err := auth.GenerateToken(secret, auth.Claims{UserID: "u1", Role: auth.RoleSupervisor, EmployeeID: "e1"}, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	called := false
	handler := Auth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		p := GetPrincipal(r.Context())
		if p == nil {
			t.Fatal("expected principal in context")
		}
		if p.UserID != "u1" || p.Role != auth.RoleSupervisor || p.EmployeeID != "e1" {
			t.Fatalf("unexpected principal: %+v", p)
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if !called {
		t.Fatal("handler not called")
	}
}

func TestAuthMiddlewareMissingOrInvalidToken(t *testing.T) {
	handler := Auth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p := GetPrincipal(r.Context()); p != nil {
			t.Fatal("did not expect principal in context")
		}
	}))

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer not-a-jwt"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
}

func TestRequirePermission(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	guarded := RequirePermission(auth.PermEmployeesWrite)(ok)

	rec := httptest.NewRecorder()
	guarded.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req = req.WithContext(WithPrincipal(req.Context(), &auth.Principal{UserID: "u", Role: auth.RoleSupervisor}))
	rec = httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req = req.WithContext(WithPrincipal(req.Context(), &auth.Principal{UserID: "u", Role: auth.RoleAdmin}))
	rec = httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}
