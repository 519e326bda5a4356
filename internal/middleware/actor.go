package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireActor aborts with 403 unless the authenticated actor type, stored
// in context by JWTAuth, matches one of the allowed values. It separates
// the staff admin surface from the company portal.
func RequireActor(actors ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(actors))
	for _, a := range actors {
		allowed[a] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := c.Get("actor").(string)
			if !ok || !allowed[actor] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
