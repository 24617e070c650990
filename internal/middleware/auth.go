package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-ticketing/internal/token"
)

// TokenAuth returns an Echo middleware that validates the auth token
// carried in the Authorization header and injects the resolved user ID
// into the request context under "user_id". Clients send the bare token
// value; no "Bearer " scheme prefix is part of the contract. All four
// rejection kinds (malformed, bad signature, expired, revoked) map to
// 401; only a revocation-store failure is a 500.
func TokenAuth(svc *token.Service) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw := strings.TrimSpace(c.Request().Header.Get("Authorization"))
            if raw == "" {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing auth token"})
            }
            userID, err := svc.Verify(c.Request().Context(), raw, time.Now().UTC())
            if err != nil {
                switch {
                case errors.Is(err, token.ErrMalformed):
                    return c.JSON(http.StatusUnauthorized, echo.Map{"error": "malformed token"})
                case errors.Is(err, token.ErrInvalidSignature):
                    return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token signature"})
                case errors.Is(err, token.ErrExpired):
                    return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token expired"})
                case errors.Is(err, token.ErrRevoked):
                    return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token revoked"})
                default:
                    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token verification failed"})
                }
            }
            // Store the resolved identity and the raw token. Handlers
            // that need the caller (event creation) read "user_id";
            // logout reads "auth_token" to revoke the exact value.
            c.Set("user_id", userID)
            c.Set("auth_token", raw)
            return next(c)
        }
    }
}

// UserID extracts the authenticated user's ID stored by TokenAuth. It
// returns 0 when the request is unauthenticated, which only happens on
// routes that do not apply the middleware.
func UserID(c echo.Context) uint64 {
    if v, ok := c.Get("user_id").(uint64); ok {
        return v
    }
    return 0
}
