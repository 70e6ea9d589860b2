package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"p2p-lending-backend/pkg/id"
)

const (
	HeaderUserID = "Ax-User-Id"
	// CtxUserID is the echo context key holding the authenticated caller.
	CtxUserID = "user_id"
)

// CallerIdentity trusts the Ax-User-Id header set by the upstream auth
// gateway and rejects requests without a well-formed id.
func CallerIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid := strings.TrimSpace(c.Request().Header.Get(HeaderUserID))
			if uid == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing " + HeaderUserID})
			}
			if !id.Valid(uid) {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid " + HeaderUserID})
			}
			c.Set(CtxUserID, uid)
			return next(c)
		}
	}
}

// UserID returns the caller set by CallerIdentity, or "".
func UserID(c echo.Context) string {
	uid, _ := c.Get(CtxUserID).(string)
	return uid
}
