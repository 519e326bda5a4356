package router

import (
	"github.com/labstack/echo/v4"

	"github.com/nivaan/health-booking-admin/internal/handler"
	"github.com/nivaan/health-booking-admin/internal/middleware"
	"github.com/nivaan/health-booking-admin/internal/utils"
)

// RegisterAdmin registers the staff backoffice endpoints under /v1/admin.
// Every route requires the staff actor and passes the per-route permission
// gate; permissions are managed through the role endpoints below and match
// on "<METHOD> <path pattern>".
func RegisterAdmin(e *echo.Echo, jwtSecret string, perms middleware.PermissionSource, cache echo.MiddlewareFunc,
	b *handler.BookingHandler, d *handler.DetailHandler,
	co *handler.CompanyHandler, of *handler.OfficeHandler, cu *handler.CompanyUserHandler,
	r *handler.RoleHandler, f *handler.FAQHandler, s *handler.SupportHandler) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireActor(utils.ActorStaff),
		middleware.RequirePermission(perms),
	)

	// ---- Companies ----
	g.POST("/companies", co.Create)
	g.GET("/companies", co.List)
	g.GET("/companies/:id", co.Get)
	g.PUT("/companies/:id", co.Update)
	g.DELETE("/companies/:id", co.Delete)

	// ---- Offices ----
	g.POST("/companies/:companyID/offices", of.Create)
	g.GET("/companies/:companyID/offices", of.ListByCompany)
	g.PUT("/companies/:companyID/offices/:id", of.Update)
	g.DELETE("/companies/:companyID/offices/:id", of.Delete)

	// ---- Company users ----
	g.POST("/companies/:companyID/users", cu.Create)
	g.GET("/companies/:companyID/users", cu.ListByCompany)
	g.PUT("/companies/:companyID/users/:id", cu.Update)
	g.DELETE("/companies/:companyID/users/:id", cu.Delete)

	// ---- Bookings ----
	g.GET("/bookings", b.List)
	g.GET("/bookings/:id", b.Get)
	g.GET("/bookings/:id/export", b.Export)
	g.PATCH("/bookings/:id/status", b.UpdateStatus)
	g.POST("/bookings/:id/cancel", b.Cancel)

	// ---- Booking details ----
	g.PATCH("/bookings/:id/details/:detailID/status", d.UpdateStatus)
	g.PATCH("/bookings/:id/details/:detailID/report-status", d.UpdateReportStatus)
	g.POST("/bookings/:id/details/:detailID/bill", d.UploadBill)
	g.POST("/bookings/:id/details/:detailID/report", d.UploadReport)
	g.POST("/bookings/:id/details/:detailID/report-items", d.AddReportItem)
	g.GET("/bookings/:id/details/:detailID/report-items", d.ListReportItems)

	// ---- Roles and permissions ----
	g.POST("/roles", r.Create)
	g.GET("/roles", r.List)
	g.GET("/roles/:id", r.Get)
	g.PUT("/roles/:id", r.Update)
	g.DELETE("/roles/:id", r.Delete)
	g.POST("/users/:userID/roles/:id", r.Assign)
	g.DELETE("/users/:userID/roles/:id", r.Unassign)

	// ---- FAQs ----
	g.POST("/faqs", f.Create)
	g.GET("/faqs", f.List, cache)
	g.PUT("/faqs/:id", f.Update)
	g.DELETE("/faqs/:id", f.Delete)

	// ---- Support ----
	g.GET("/support/tickets", s.ListTickets)
	g.GET("/support/tickets/:id", s.GetTicket)
	g.POST("/support/tickets/:id/chats", s.AddChat)
	g.PATCH("/support/tickets/:id/status", s.UpdateTicketStatus)
}
