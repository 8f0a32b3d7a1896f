package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/grupoterra/cotizador-api/docs" // Swagger docs
	"github.com/grupoterra/cotizador-api/internal/config"
	"github.com/grupoterra/cotizador-api/internal/database"
	"github.com/grupoterra/cotizador-api/internal/handlers"
	"github.com/grupoterra/cotizador-api/internal/jobs"
	"github.com/grupoterra/cotizador-api/internal/middleware"
	"github.com/grupoterra/cotizador-api/internal/models"
	"github.com/grupoterra/cotizador-api/internal/repository"
	"github.com/grupoterra/cotizador-api/internal/services"
	"github.com/grupoterra/cotizador-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title Cotizador API
// @version 1.0
// @description REST API del cotizador de lotes de Grupo Terra

// @contact.name API Support

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Warn if Resend email is not configured
	if cfg.ResendAPIKey == "" || cfg.FromEmail == "" {
		logger.Warn("Resend email disabled: RESEND_API_KEY or FROM_EMAIL not set")
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, worker, cfg)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs)

	// Initialize handlers
	h := handlers.NewHandlers(svcs)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Shutdown background worker
	worker.Shutdown()
	logger.Info("Background worker stopped")

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// Redirect root to swagger
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Authentication (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Admin-only routes
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				// User management
				admin.GET("/users", h.User.Index)
				admin.POST("/users", h.User.Create)
				admin.PUT("/users/:user_id", h.User.Update)
				admin.DELETE("/users/:user_id", h.User.Delete)
				admin.POST("/users/:user_id/restore", h.User.Restore)

				// Catalog management
				admin.POST("/projects", h.Project.Create)
				admin.PUT("/projects/:project_id", h.Project.Update)
				admin.DELETE("/projects/:project_id", h.Project.Delete)
				admin.POST("/blocks", h.Block.Create)
				admin.PUT("/blocks/:block_id", h.Block.Update)
				admin.DELETE("/blocks/:block_id", h.Block.Delete)
				admin.POST("/lots", h.Lot.Create)
				admin.PUT("/lots/:lot_id", h.Lot.Update)
				admin.DELETE("/lots/:lot_id", h.Lot.Delete)

				admin.DELETE("/quotations/:quotation_id", h.Quotation.Delete)
			}

			// Admin + Supervisor routes
			supervision := protected.Group("")
			supervision.Use(middleware.RequireRole(models.RoleAdmin, models.RoleSupervisor))
			{
				supervision.GET("/users/:user_id", h.User.Show)
				supervision.PATCH("/lots/:lot_id/status", h.Lot.UpdateStatus)
				supervision.PATCH("/quotations/:quotation_id/status", h.Quotation.UpdateStatus)
			}

			// Supervisor picker for discount authorization (any advisor)
			protected.GET("/users/supervisors", h.User.Supervisors)

			// Leads
			protected.GET("/leads", h.Lead.Index)
			protected.POST("/leads", h.Lead.Create)
			protected.GET("/leads/:lead_id", h.Lead.Show)
			protected.PUT("/leads/:lead_id", h.Lead.Update)
			protected.DELETE("/leads/:lead_id", h.Lead.Delete)
			protected.GET("/leads/:lead_id/quotations", h.Lead.Quotations)

			// Catalog browsing
			protected.GET("/projects", h.Project.Index)
			protected.GET("/projects/active", h.Project.Active)
			protected.GET("/projects/:project_id", h.Project.Show)
			protected.GET("/projects/:project_id/blocks", h.Project.Blocks)
			protected.GET("/blocks/:block_id", h.Block.Show)
			protected.GET("/blocks/:block_id/lots", h.Block.Lots)
			protected.GET("/lots/:lot_id", h.Lot.Show)

			// Persisted quotations
			protected.GET("/quotations", h.Quotation.Index)
			protected.GET("/quotations/export/csv", h.Quotation.ExportCSV)
			protected.GET("/quotations/export/xlsx", h.Quotation.ExportXLSX)
			protected.GET("/quotations/:quotation_id", h.Quotation.Show)
			protected.GET("/quotations/:quotation_id/export", h.Quotation.ExportOne)

			// Exchange rate
			protected.GET("/exchange_rate", h.Rate.Current)

			// Quotation editing sessions
			sessions := protected.Group("/sessions")
			{
				sessions.POST("", h.Session.Create)
				sessions.GET("/:token", h.Session.Show)
				sessions.DELETE("/:token", h.Session.Discard)
				sessions.PUT("/:token/lead", h.Session.SetLead)
				sessions.PUT("/:token/project", h.Session.SetProject)
				sessions.PUT("/:token/block", h.Session.SetBlock)
				sessions.PUT("/:token/lot", h.Session.SetLot)
				sessions.PATCH("/:token/fields", h.Session.SetFields)
				sessions.POST("/:token/rate/refresh", h.Session.RefreshRate)
				sessions.PUT("/:token/supervisor", h.Session.SelectSupervisor)
				sessions.POST("/:token/otp/send", h.Session.SendOtp)
				sessions.POST("/:token/otp/validate", h.Session.ValidateOtp)
				sessions.POST("/:token/submit", h.Session.Submit)
			}

			// Notifications
			// Static routes first so "read_all" is not matched as :notification_id
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", h.Notification.Index)
				notifications.GET("/unread_count", h.Notification.UnreadCount)
				notifications.PATCH("/read_all", h.Notification.MarkAllAsRead)
				notifications.PATCH("/:notification_id/read", h.Notification.MarkAsRead)
			}
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services) {
	// Sweep idle quotation sessions every 15 minutes
	worker.ScheduleEvery(15*time.Minute, func(ctx context.Context) error {
		logger.Info("[Job] Sweeping stale quotation sessions...")
		return svcs.Draft.SweepStale(ctx)
	})

	// Purge expired refresh tokens daily
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Deleting expired refresh tokens...")
		return svcs.Auth.DeleteExpiredTokens(ctx)
	})

	logger.Info("Scheduled recurring jobs")
}
