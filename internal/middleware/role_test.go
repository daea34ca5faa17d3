package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tour-booking-api/internal/model"
)

// withRole plants a role in the context the way Protect does after a
// successful token check.
func withRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if role != "" {
				c.Set("role", role)
			}
			return next(c)
		}
	}
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		role string
		want int
	}{
		{"admin allowed", model.RoleAdmin, http.StatusOK},
		{"plain user forbidden", model.RoleUser, http.StatusForbidden},
		{"guide forbidden", model.RoleGuide, http.StatusForbidden},
		{"missing role forbidden", "", http.StatusForbidden},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			e := echo.New()
			reached := false
			e.GET("/admin", func(c echo.Context) error {
				reached = true
				return c.NoContent(http.StatusOK)
			}, withRole(tc.role), RequireRole(model.RoleAdmin))

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Fatalf("role %q got %d, want %d", tc.role, rec.Code, tc.want)
			}
			if reached != (tc.want == http.StatusOK) {
				t.Fatalf("role %q: handler reached = %v", tc.role, reached)
			}
		})
	}
}

func TestRequireRole_MultipleRoles(t *testing.T) {
	t.Parallel()

	e := echo.New()
	e.GET("/staff", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, withRole(model.RoleLeadGuide), RequireRole(model.RoleAdmin, model.RoleLeadGuide))

	req := httptest.NewRequest(http.MethodGet, "/staff", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("lead guide should pass a multi-role gate, got %d", rec.Code)
	}
}
