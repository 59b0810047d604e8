package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/dukaanly/dukaanly-api/internal/application/service"
	"github.com/dukaanly/dukaanly-api/internal/config"
	"github.com/dukaanly/dukaanly-api/internal/infrastructure/database"
	"github.com/dukaanly/dukaanly-api/internal/infrastructure/repository"
	"github.com/dukaanly/dukaanly-api/internal/presentation/http/handler"
	"github.com/dukaanly/dukaanly-api/internal/presentation/http/routes"
	"github.com/dukaanly/dukaanly-api/pkg/notify"
	"github.com/dukaanly/dukaanly-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Token verification only; tokens are issued by the auth service
	verifier := utils.NewJWTVerifier(cfg.JWT.Secret, cfg.JWT.Leeway)

	// Initialize repositories
	billRepo := repository.NewBillRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize WhatsApp notifier, falling back to a no-op when unconfigured
	var notifier notify.Notifier
	if cfg.Notify.WhatsAppGatewayURL != "" {
		notifier = notify.NewWhatsAppNotifier(notify.WhatsAppConfig{
			GatewayURL: cfg.Notify.WhatsAppGatewayURL,
			Token:      cfg.Notify.WhatsAppToken,
			SenderID:   cfg.Notify.WhatsAppSenderID,
		})
	} else {
		log.Println("Warning: WhatsApp gateway not configured, notifications disabled")
		notifier = notify.NewNoopNotifier()
	}

	// Initialize services
	billingService := service.NewBillingService(billRepo, txRepo, customerRepo, notifier)
	customerService := service.NewCustomerService(customerRepo)
	dashboardService := service.NewDashboardService(billRepo)
	attendanceService := service.NewAttendanceService(attendanceRepo, service.ShopLocation{
		Lat:          cfg.Geofence.Lat,
		Lng:          cfg.Geofence.Lng,
		RadiusMeters: cfg.Geofence.RadiusMeters,
	})
	expenseService := service.NewExpenseService(expenseRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Bill:       handler.NewBillHandler(billingService),
		Customer:   handler.NewCustomerHandler(customerService),
		Dashboard:  handler.NewDashboardHandler(dashboardService),
		Attendance: handler.NewAttendanceHandler(attendanceService),
		Expense:    handler.NewExpenseHandler(expenseService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Verifier:        verifier,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
