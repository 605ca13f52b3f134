package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"lawbridge-platform/internal/auth"

	"github.com/gin-gonic/gin"
)

func doRequest(t *testing.T, role string, allowed ...string) int {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if role != "" {
			c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), "acct-1", role))
		}
		c.Next()
	})
	r.GET("/x", RequireAnyRole(allowed...), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRequireAnyRole_AllowsListedRole(t *testing.T) {
	if got := doRequest(t, RoleClient, RoleClient); got != http.StatusOK {
		t.Fatalf("expected 200, got %d", got)
	}
}

func TestRequireAnyRole_RejectsOtherRole(t *testing.T) {
	if got := doRequest(t, RoleAdvocate, RoleClient); got != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", got)
	}
}

func TestRequireAnyRole_AdminDoesNotBypass(t *testing.T) {
	if got := doRequest(t, RoleAdmin, RoleClient); got != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", got)
	}
}

func TestRequireAnyRole_RejectsMissingIdentity(t *testing.T) {
	if got := doRequest(t, "", RoleClient); got != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", got)
	}
}
