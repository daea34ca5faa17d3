package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "context"                // context with timeout for the credential lookup
    "net/http"               // HTTP status codes for responses
    "strings"                // string utilities for prefix checking and trimming
    "time"                   // timeout durations

    "github.com/golang-jwt/jwt/v5" // JWT library for parsing and validating tokens
    "github.com/labstack/echo/v4"  // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/tour-booking-api/internal/repository" // credential store lookups
    "github.com/iliyamo/tour-booking-api/internal/utils"       // token freshness guard
)

// Protect returns an Echo middleware that validates a Bearer access token,
// confirms the account behind it still exists and is active, and rejects
// tokens minted before the account's last password change.  The provided
// secret must match the one used when issuing tokens.  On success the
// user's ID and role are injected into the request context so handlers can
// read them via `c.Get("user_id")` and `c.Get("role")`.
func Protect(secret string, users *repository.UserRepo) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // Read the Authorization header.  A valid header starts with
            // "Bearer " followed by the JWT.
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            // Parse the token, pinning the signing method to HMAC so a
            // token signed with a different algorithm is rejected.
            tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
                if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
                    return nil, echo.ErrUnauthorized
                }
                return []byte(secret), nil
            })
            if err != nil || !tok.Valid {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            claims, ok := tok.Claims.(jwt.MapClaims)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
            }

            // The subject carries the user ID; iat the whole-second mint
            // time the freshness guard compares against.
            sub, ok := claims["sub"].(float64)
            if !ok || sub <= 0 {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
            }
            iat, ok := claims["iat"].(float64)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
            }

            // Confirm the account is still there and active.  A soft-deleted
            // user's tokens die with the account.
            ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
            defer cancel()
            u, err := users.FindActiveByID(ctx, uint64(sub))
            if err != nil {
                if err == repository.ErrNotFound {
                    return c.JSON(http.StatusUnauthorized, echo.Map{"error": "user no longer exists"})
                }
                return c.JSON(http.StatusInternalServerError, echo.Map{"error": "auth lookup failed"})
            }

            // A token minted before the last password change is stale and
            // must be re-acquired by logging in again.
            if utils.TokenIssuedBeforeChange(int64(iat), u.PasswordChangedAt) {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "password changed recently, please log in again"})
            }

            c.Set("user_id", u.ID)
            c.Set("role", u.Role)
            return next(c)
        }
    }
}
