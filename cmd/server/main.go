package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/nivaan/health-booking-admin/internal/config"
	"github.com/nivaan/health-booking-admin/internal/database"
	"github.com/nivaan/health-booking-admin/internal/handler"
	"github.com/nivaan/health-booking-admin/internal/mailer"
	"github.com/nivaan/health-booking-admin/internal/middleware"
	"github.com/nivaan/health-booking-admin/internal/queue"
	"github.com/nivaan/health-booking-admin/internal/refcode"
	"github.com/nivaan/health-booking-admin/internal/repository"
	"github.com/nivaan/health-booking-admin/internal/router"
	"github.com/nivaan/health-booking-admin/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()

	// Repositories.
	bookings := repository.NewBookingRepo(db)
	details := repository.NewBookingDetailRepo(db)
	reportItems := repository.NewReportItemRepo(db)
	companies := repository.NewCompanyRepo(db)
	offices := repository.NewOfficeRepo(db)
	companyUsers := repository.NewCompanyUserRepo(db)
	users := repository.NewUserRepo(db)
	roles := repository.NewRoleRepo(db)
	tokens := repository.NewTokenRepo(db)
	support := repository.NewSupportRepo(db)
	faqs := repository.NewFAQRepo(db)
	media := repository.NewMediaRepo(db)

	store := storage.New(cfg.MediaDir, cfg.MediaURL)

	// Background notification consumer.
	m := mailer.New(cfg.SMTP, cfg.MediaDir)
	consumer := queue.NewConsumer(m, cfg.Mail, rdb)
	go func() {
		if err := consumer.Start(); err != nil {
			log.Printf("[consumer] stopped: %v", err)
		}
	}()

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users, companyUsers, tokens)
	bookingH := &handler.BookingHandler{
		Cfg:          cfg,
		Bookings:     bookings,
		Details:      details,
		Companies:    companies,
		Offices:      offices,
		CompanyUsers: companyUsers,
		Media:        media,
		Store:        store,
		Codes:        refcode.New(),
	}
	detailH := &handler.DetailHandler{
		Bookings:    bookings,
		Details:     details,
		ReportItems: reportItems,
		Media:       media,
		Store:       store,
	}
	companyH := &handler.CompanyHandler{Companies: companies}
	officeH := &handler.OfficeHandler{Companies: companies, Offices: offices}
	companyUserH := &handler.CompanyUserHandler{Cfg: cfg, CompanyUsers: companyUsers, Offices: offices}
	roleH := &handler.RoleHandler{Roles: roles}
	faqH := &handler.FAQHandler{FAQs: faqs}
	supportH := &handler.SupportHandler{Support: support, CompanyUsers: companyUsers, Media: media, Store: store}

	e := echo.New()
	e.Validator = handler.NewRequestValidator()

	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	// The response cache is never installed globally: it is handed to the
	// routers, which mount it after auth on the FAQ list only.
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	// Stored files (bills, reports, exports, support attachments).
	e.Static(cfg.MediaURL, cfg.MediaDir)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH)
	router.RegisterCompany(e, cfg.JWTSecret, cacheMW, bookingH, faqH, supportH)
	router.RegisterAdmin(e, cfg.JWTSecret, roles, cacheMW,
		bookingH, detailH, companyH, officeH, companyUserH, roleH, faqH, supportH)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
