package middleware

import "github.com/labstack/echo/v4"

// Subject returns the token subject stored by JWTAuth, or "anonymous" for
// requests that did not pass through it.
func Subject(c echo.Context) string {
    if s, ok := c.Get(ctxUserID).(string); ok && s != "" {
        return s
    }
    return "anonymous"
}
