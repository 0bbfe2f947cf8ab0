package middleware

// identity.go defines helper functions shared across middleware files.
// Currently it provides user ID extraction for rate-limit key building.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// currentUserID returns the authenticated user's ID as a string.
// JWTAuth stores the token's subject claim under "user_id"; numeric
// claims decode as float64, string claims pass through unchanged.
// "anon" is returned when no user is authenticated.
func currentUserID(c echo.Context) string {
	switch t := c.Get("user_id").(type) {
	case string:
		if t != "" {
			return t
		}
	case float64:
		return strconv.FormatUint(uint64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case int64:
		return strconv.FormatInt(t, 10)
	}
	return "anon"
}
