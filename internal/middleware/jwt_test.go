package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// These cover the rejection paths that fail before any store lookup; the
// freshness comparison itself is unit-tested next to the guard in the
// utils package.

func protectRequest(t *testing.T, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.Use(Protect("secret", nil))
	e.GET("/x", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestProtect_MissingBearer(t *testing.T) {
	t.Parallel()

	if rec := protectRequest(t, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing header got %d, want 401", rec.Code)
	}
	if rec := protectRequest(t, "Basic abc"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("non-bearer header got %d, want 401", rec.Code)
	}
}

func TestProtect_MalformedToken(t *testing.T) {
	t.Parallel()

	if rec := protectRequest(t, "Bearer not.a.jwt"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("malformed token got %d, want 401", rec.Code)
	}
}

func TestProtect_WrongSecret(t *testing.T) {
	t.Parallel()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": 1, "iat": time.Now().Unix(), "exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if rec := protectRequest(t, "Bearer "+signed); rec.Code != http.StatusUnauthorized {
		t.Fatalf("token under wrong secret got %d, want 401", rec.Code)
	}
}

func TestProtect_ExpiredToken(t *testing.T) {
	t.Parallel()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": 1, "iat": time.Now().Add(-2 * time.Hour).Unix(), "exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if rec := protectRequest(t, "Bearer "+signed); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expired token got %d, want 401", rec.Code)
	}
}

func TestProtect_MissingSubjectClaim(t *testing.T) {
	t.Parallel()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iat": time.Now().Unix(), "exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if rec := protectRequest(t, "Bearer "+signed); rec.Code != http.StatusUnauthorized {
		t.Fatalf("token without sub got %d, want 401", rec.Code)
	}
}
