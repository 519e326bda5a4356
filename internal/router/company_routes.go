package router

import (
	"github.com/labstack/echo/v4"

	"github.com/nivaan/health-booking-admin/internal/handler"
	"github.com/nivaan/health-booking-admin/internal/middleware"
	"github.com/nivaan/health-booking-admin/internal/utils"
)

// RegisterCompany registers the company portal endpoints under /v1.
// Every route requires a valid token with the company actor; ownership
// of the touched booking or ticket is enforced by the handlers.  cache is
// mounted on the FAQ list only: it runs after auth and its key includes
// the caller, and no per-tenant endpoint is ever cached.
func RegisterCompany(e *echo.Echo, jwtSecret string, cache echo.MiddlewareFunc,
	b *handler.BookingHandler, f *handler.FAQHandler, s *handler.SupportHandler) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireActor(utils.ActorCompany),
	)

	// ---- Bookings ----
	g.POST("/bookings", b.Create)
	g.GET("/bookings", b.List)
	g.GET("/bookings/:id", b.Get)
	g.GET("/bookings/:id/export", b.Export)
	g.POST("/bookings/:id/cancel", b.Cancel)
	g.DELETE("/bookings/:id/cancel", b.Cancel)

	// ---- FAQs ----
	g.GET("/faqs", f.List, cache)

	// ---- Support ----
	g.POST("/support/tickets", s.CreateTicket)
	g.GET("/support/tickets", s.ListTickets)
	g.GET("/support/tickets/:id", s.GetTicket)
	g.POST("/support/tickets/:id/chats", s.AddChat)
}
