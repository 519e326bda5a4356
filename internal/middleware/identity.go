package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// rateIdentity returns a stable key fragment for the caller: actor plus
// user ID when JWTAuth has run, otherwise "anon". The rate limiter uses it
// for per-user buckets and the response cache for per-account entries.
func rateIdentity(c echo.Context) string {
	if id, ok := c.Get("user_id").(uint64); ok && id > 0 {
		actor, _ := c.Get("actor").(string)
		if actor != "" {
			return actor + ":" + strconv.FormatUint(id, 10)
		}
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}
