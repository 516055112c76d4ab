package middleware

// Helpers for reading the identity JWTAuth stored in the echo context.

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurante/internal/utils"
)

// UserID returns the authenticated user's id.
func UserID(c echo.Context) (int64, bool) {
	id, ok := c.Get(ctxUserID).(int64)
	return id, ok
}

// Claims returns the verified token claims of the request.
func Claims(c echo.Context) (utils.Claims, bool) {
	cl, ok := c.Get(ctxClaims).(utils.Claims)
	return cl, ok
}

// userKey is the rate limit identity: the user id, or "anon".
func userKey(c echo.Context) string {
	if id, ok := UserID(c); ok {
		return strconv.FormatInt(id, 10)
	}
	return "anon"
}
