package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nivaan/health-booking-admin/internal/utils"
)

// PermissionSource resolves the set of route names a staff user may call.
// Satisfied by repository.RoleRepo.
type PermissionSource interface {
	PermissionsForUser(ctx context.Context, userID uint64) (map[string]bool, error)
}

// RequirePermission gates staff routes by the permission rows attached to
// the user's active roles. A route name is "<METHOD> <path pattern>", e.g.
// "POST /v1/admin/companies". Company actors bypass the check because their
// surface is scoped by RequireActor and ownership checks in the handlers.
func RequirePermission(src PermissionSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, _ := c.Get("actor").(string)
			if actor != utils.ActorStaff {
				return next(c)
			}
			userID, ok := c.Get("user_id").(uint64)
			if !ok || userID == 0 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
			}

			perms, err := src.PermissionsForUser(c.Request().Context(), userID)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load permissions"})
			}
			route := c.Request().Method + " " + c.Path()
			if !perms[route] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "permission denied", "route": route})
			}
			return next(c)
		}
	}
}
