// Package router wires the HTTP surface: the open auth endpoints, the
// company portal and the staff admin API, each with its own middleware
// chain.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/nivaan/health-booking-admin/internal/handler"
)

// RegisterRoutes registers the routes that need no authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the login and token endpoints under /v1/auth.
// Staff and company accounts log in through separate endpoints; refresh
// and logout are shared because the token row remembers the actor type.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	g.POST("/staff/login", a.StaffLogin)
	g.POST("/company/login", a.CompanyLogin)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)
}
