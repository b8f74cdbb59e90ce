package handler

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"dormitory-be-svc/internal/service"
	"dormitory-be-svc/pkg/logger"
)

// Routes sets up all API routes
func SetupRoutes(
	router *gin.Engine,
	billingService service.BillingService,
	paymentService service.PaymentService,
	meterService service.MeterService,
	rateConfigService service.RateConfigService,
	dashboardService service.DashboardService,
	logger *logger.Logger,
) {
	// Initialize handlers
	billingHandler := NewBillingHandler(billingService, logger)
	paymentHandler := NewPaymentHandler(paymentService, logger)
	meterHandler := NewMeterHandler(meterService, logger)
	rateConfigHandler := NewRateConfigHandler(rateConfigService, logger)
	dashboardHandler := NewDashboardHandler(dashboardService, logger)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", HealthCheck)

		// Billing routes
		billings := v1.Group("/billings")
		{
			billings.POST("", billingHandler.CreateBill)
			billings.GET("", billingHandler.ListBills)
			billings.POST("/compute", billingHandler.ComputeCharges)
			billings.POST("/bulk-monthly", billingHandler.CreateMonthlyBills)
			billings.GET("/export", billingHandler.ExportBills)
			billings.GET("/:id", billingHandler.GetBill)
			billings.POST("/:id/overdue-check", billingHandler.MarkOverdue)
			billings.GET("/:id/payments", paymentHandler.ListPaymentsByBill)
		}

		// Payment routes
		payments := v1.Group("/payments")
		{
			payments.POST("", paymentHandler.ApplyPayment)
		}

		// Meter reading routes
		meterReadings := v1.Group("/meter-readings")
		{
			meterReadings.POST("", meterHandler.RecordReading)
			meterReadings.GET("/room/:room_id", meterHandler.ListReadingsByRoom)
		}

		// Rate configuration routes
		rateConfigs := v1.Group("/rate-configs")
		{
			rateConfigs.GET("/:dormitory_id", rateConfigHandler.GetRateConfig)
		}

		// Dashboard routes
		dashboard := v1.Group("/dashboard")
		{
			dashboard.GET("/statistics", dashboardHandler.GetBillingStatistics)
		}
	}
}

func HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "ok",
		"message": "Server is running",
		"service": "Dormitory Billing Service",
	})
}
