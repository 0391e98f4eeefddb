package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DekuWorks/241RunnersAwareness-sub005/internal/auth"
	"github.com/DekuWorks/241RunnersAwareness-sub005/internal/contextkeys"
)

func roleRequest(t *testing.T, role string) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil)
	if role == "" {
		return r
	}
	claims := &auth.Claims{UserID: "42", Role: role}
	return r.WithContext(context.WithValue(r.Context(), contextkeys.ClaimsKey, claims))
}

func TestRequireRoleAllowsMatchingRole(t *testing.T) {
	called := false
	h := RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, roleRequest(t, "Admin"))

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleRejectsWithJSONBody(t *testing.T) {
	h := RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, roleRequest(t, "user"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"forbidden: insufficient role"}`, rec.Body.String())
}

func TestRequireRoleWithoutClaimsIsUnauthorized(t *testing.T) {
	h := RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, roleRequest(t, ""))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
