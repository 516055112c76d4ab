package middleware // package middleware holds the echo middleware shared by all routes

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurante/internal/utils"
)

// Context keys set by JWTAuth.
const (
	ctxUserID   = "user_id"
	ctxUsername = "username"
	ctxClaims   = "claims"
)

// RevocationChecker answers whether a token id was logged out.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and stores its claims in the request context. Tokens whose jti appears
// in revoked are rejected. A nil revoked skips that check.
func JWTAuth(secret string, revoked RevocationChecker, log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearer(c.Request())
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			if revoked != nil && claims.JTI != "" {
				gone, err := revoked.IsRevoked(c.Request().Context(), claims.JTI)
				if err != nil {
					log.Error("token revocation lookup failed", "error", err)
					return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
				}
				if gone {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token revoked"})
				}
			}
			c.Set(ctxUserID, claims.UserID)
			c.Set(ctxUsername, claims.Username)
			c.Set(ctxClaims, claims)
			return next(c)
		}
	}
}

func bearer(r *http.Request) (string, bool) {
	auth := r.Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	return raw, raw != ""
}
