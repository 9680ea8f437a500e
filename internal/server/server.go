// Package server contains the HTTP handlers for the verification API.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"accessly/internal/cache"
	"accessly/internal/config"
	"accessly/internal/database"
	"accessly/internal/middleware"
	"accessly/internal/models"
	"accessly/internal/notifications"
	"accessly/internal/payments"
	"accessly/internal/repository"
	"accessly/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo         repository.UserRepository
	businessRepo     repository.BusinessRepository
	catalogRepo      repository.CatalogRepository
	applicationRepo  repository.ApplicationRepository
	verificationRepo repository.VerificationRepository

	notifier *notifications.Notifier
	gateway  payments.Gateway

	requestGate         *service.RequestGateService
	applicationService  *service.ApplicationService
	verificationService *service.VerificationService
	reportService       *service.ReportService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDeps(cfg, db, redisClient, payments.NewMemoryGateway())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Used in tests and when a bootstrap layer establishes DB/Redis itself.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, gateway payments.Gateway) (*Server, error) {
	server := &Server{
		config:           cfg,
		db:               db,
		redis:            redisClient,
		promMiddleware:   middleware.InitMetrics("accessly-api"),
		userRepo:         repository.NewUserRepository(db),
		businessRepo:     repository.NewBusinessRepository(db),
		catalogRepo:      repository.NewCatalogRepository(db),
		applicationRepo:  repository.NewApplicationRepository(db),
		verificationRepo: repository.NewVerificationRepository(db),
		notifier:         notifications.NewNotifier(redisClient),
		gateway:          gateway,
	}

	server.requestGate = service.NewRequestGateService(server.businessRepo, gateway, cfg.PaymentCurrency)
	server.applicationService = service.NewApplicationService(
		server.applicationRepo, server.verificationRepo, server.businessRepo, server.notifier)
	server.verificationService = service.NewVerificationService(
		server.verificationRepo, server.businessRepo, server.catalogRepo, server.notifier, cfg.ApprovalThreshold)
	server.reportService = service.NewReportService(server.verificationRepo, server.businessRepo)

	return server, nil
}

// DB exposes the underlying GORM handle for bootstrap tasks (migrations,
// seeding) that run before the server starts listening.
func (s *Server) DB() *gorm.DB {
	return s.db
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Public catalog routes
	catalog := api.Group("/catalog")
	catalog.Get("/features", s.ListAccessibilityFeatures)
	catalog.Get("/devices", s.ListMobilityDevices)

	// Public verification history backing the "verified by N Wheelers" badge
	api.Get("/businesses/:id/verifications", s.ListBusinessVerifications)

	// Protected routes
	protected := api.Group("", middleware.AuthRequired)

	// Business routes: owner-side verification request, Wheeler-side
	// application and submission.
	businesses := protected.Group("/businesses")
	businesses.Post("/:id/verification-request", middleware.RateLimit(
		s.redis, 5, time.Minute, "verification_request"), s.RequestVerification)
	businesses.Post("/:id/applications", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_application"), s.CreateApplication)
	businesses.Delete("/:id/applications", s.CancelApplication)
	businesses.Post("/:id/verifications", middleware.RateLimit(
		s.redis, 5, time.Minute, "submit_verification"), s.SubmitVerification)

	// Application review routes (admin checks happen in the service layer)
	applications := protected.Group("/applications")
	applications.Get("/pending", s.ListPendingApplications)
	applications.Post("/:id/approve", s.ApproveApplication)

	// Verification report and admin override routes
	verifications := protected.Group("/verifications")
	verifications.Get("/:id/report", s.GetVerificationReport)
	verifications.Post("/:id/approve", s.ApproveVerification)

	// Payment gateway callback
	paymentRoutes := protected.Group("/payments")
	paymentRoutes.Post("/verification/callback", s.ConfirmVerificationPayment)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis only carries notification jobs; its absence degrades email
	// delivery but does not block readiness.
	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// NewApp builds the Fiber app with middleware, routes, and the error handler
// that turns unhandled handler errors into the standardized error body. The
// app is retained for graceful shutdown.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "Accessly API",
		BodyLimit: 10 * 1024 * 1024, // 10MB limit
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return models.RespondWithError(c, fe.Code, fe)
			}
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	return app
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
