package middleware

// identity.go holds the context keys written by JWTAuth and the
// accessors handlers use to read them back.

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

const (
	ctxUserID    = "user_id"
	ctxRole      = "role"
	ctxSessionID = "sid"
)

// UserID returns the authenticated user's id.  ok is false when the
// request did not pass through JWTAuth.
func UserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(ctxUserID).(uint64)
	return id, ok && id != 0
}

// Role returns the authenticated user's role, or "" when absent.
func Role(c echo.Context) model.Role {
	r, _ := c.Get(ctxRole).(model.Role)
	return r
}

// SessionID returns the login session id carried by the access token.
func SessionID(c echo.Context) string {
	s, _ := c.Get(ctxSessionID).(string)
	return s
}

// userKey identifies the caller for rate limiting and logging.  It
// returns "anon" when no user is authenticated.
func userKey(c echo.Context) string {
	if id, ok := UserID(c); ok {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}
