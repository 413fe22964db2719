package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func identityRequest(scopes ...string) *http.Request {
	r := httptest.NewRequest("POST", "/api/v1/tenants/abc/approve", nil)
	identity := &APIKeyIdentity{ID: "key-1", Scopes: scopes}
	return r.WithContext(context.WithValue(r.Context(), APIKeyIdentityKey, identity))
}

func TestHasScope(t *testing.T) {
	tests := []struct {
		name   string
		scopes []string
		scope  string
		want   bool
	}{
		{"exact match", []string{"admin"}, "admin", true},
		{"wildcard", []string{"*"}, "admin", true},
		{"other scope only", []string{"tenant"}, "admin", false},
		{"empty scopes", nil, "admin", false},
		{"one of several", []string{"tenant", "admin"}, "admin", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity := &APIKeyIdentity{ID: "key-1", Scopes: tt.scopes}
			assert.Equal(t, tt.want, HasScope(identity, tt.scope))
		})
	}
}

func TestHasScope_NilIdentity(t *testing.T) {
	assert.False(t, HasScope(nil, "admin"))
}

func TestRequireScope_Allowed(t *testing.T) {
	called := false
	handler := RequireScope("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, identityRequest("admin"))

	assert.True(t, called)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireScope_Forbidden(t *testing.T) {
	handler := RequireScope("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, identityRequest("tenant"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireScope_NoIdentity(t *testing.T) {
	handler := RequireScope("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/api/v1/tenants/abc/approve", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
