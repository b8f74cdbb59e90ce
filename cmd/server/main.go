package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"dormitory-be-svc/docs"
	"dormitory-be-svc/internal/config"
	"dormitory-be-svc/internal/database"
	"dormitory-be-svc/internal/handler"
	"dormitory-be-svc/internal/middleware"
	"dormitory-be-svc/internal/repository"
	"dormitory-be-svc/internal/scheduler"
	"dormitory-be-svc/internal/service"
	"dormitory-be-svc/pkg/logger"
)

// @title Dormitory Billing Service API
// @version 1.0
// @description RESTful API for dormitory metering, billing and payment processing
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Swagger documentation
	docs.SwaggerInfo.Title = "Dormitory Billing Service API"
	docs.SwaggerInfo.Description = "RESTful API for dormitory metering, billing and payment processing"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%s", cfg.Server.Port)
	docs.SwaggerInfo.BasePath = ""
	docs.SwaggerInfo.Schemes = []string{"http"}

	// Initialize logger
	appLogger := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	appLogger.Info("Starting Dormitory Billing Service...")

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Initialize database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		appLogger.WithField("error", err).Fatal("Failed to connect to database")
	}
	appLogger.Info("Database connected successfully")

	// Run auto migration
	if err := db.AutoMigrate(); err != nil {
		appLogger.WithField("error", err).Fatal("Failed to run database migrations")
	}
	appLogger.Info("Database migrations completed successfully")

	// Initialize repositories
	rateConfigRepo := repository.NewRateConfigRepository(db.DB)
	roomRepo := repository.NewRoomRepository(db.DB)
	tenantRepo := repository.NewTenantRepository(db.DB)
	meterReadingRepo := repository.NewMeterReadingRepository(db.DB)
	billRepo := repository.NewBillRepository(db.DB)
	paymentRepo := repository.NewPaymentRepository(db.DB)
	schedulerLogRepo := repository.NewSchedulerLogRepository(db.DB)
	dashboardRepo := repository.NewDashboardRepository(db.DB)

	// Initialize services
	rateConfigService := service.NewRateConfigService(rateConfigRepo, appLogger)
	billingService := service.NewBillingService(rateConfigService, roomRepo, tenantRepo, meterReadingRepo, billRepo, cfg.Billing, appLogger)
	paymentPublisher := service.NewLogPaymentEventPublisher(appLogger)
	paymentService := service.NewPaymentService(billRepo, paymentRepo, paymentPublisher, appLogger)
	meterService := service.NewMeterService(roomRepo, meterReadingRepo, cfg.Billing, appLogger)
	dashboardService := service.NewDashboardService(dashboardRepo, appLogger)

	// Start overdue bill scheduler
	overdueScheduler := scheduler.NewOverdueScheduler(billingService, schedulerLogRepo, appLogger, cfg.Scheduler.OverdueCronExpression)
	if err := overdueScheduler.Start(); err != nil {
		appLogger.WithField("error", err).Fatal("Failed to start overdue scheduler")
	}
	defer overdueScheduler.Stop()

	// Initialize Gin router
	router := gin.New()

	// Add middleware
	router.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	router.Use(middleware.LoggerMiddleware(appLogger))
	router.Use(middleware.ErrorHandler())
	router.NoRoute(middleware.NoRouteHandler())
	router.NoMethod(middleware.NoMethodHandler())

	// Setup routes
	handler.SetupRoutes(router, billingService, paymentService, meterService, rateConfigService, dashboardService, appLogger)

	// Create HTTP server
	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		appLogger.WithField("port", cfg.Server.Port).Info("Server starting...")
		appLogger.WithField("swagger", fmt.Sprintf("http://localhost:%s/swagger/index.html", cfg.Server.Port)).Info("Swagger documentation available")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithField("error", err).Fatal("Failed to start server")
		}
	}()

	appLogger.WithField("port", cfg.Server.Port).Info("Server started successfully")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown server
	if err := server.Shutdown(ctx); err != nil {
		appLogger.WithField("error", err).Fatal("Server forced to shutdown")
	}

	// Close database connection
	if err := db.Close(); err != nil {
		appLogger.WithField("error", err).Error("Failed to close database connection")
	}

	appLogger.Info("Server exited successfully")
}
