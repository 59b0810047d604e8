package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/dukaanly/dukaanly-api/internal/config"
	domainRepo "github.com/dukaanly/dukaanly-api/internal/domain/repository"
	"github.com/dukaanly/dukaanly-api/internal/presentation/http/handler"
	"github.com/dukaanly/dukaanly-api/internal/presentation/http/middleware"
	"github.com/dukaanly/dukaanly-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Bill       *handler.BillHandler
	Customer   *handler.CustomerHandler
	Dashboard  *handler.DashboardHandler
	Attendance *handler.AttendanceHandler
	Expense    *handler.ExpenseHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Verifier        *utils.JWTVerifier
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// All routes require a token from the auth service
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.Verifier))

		// Per-user rate limiter
		limiterCfg := middleware.DefaultRateLimiterConfig()
		limiterCfg.RequestsPerSecond = float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration)
		limiterCfg.BurstSize = deps.Cfg.RateLimit.Requests
		rateLimiter := middleware.NewUserRateLimiter(limiterCfg)
		protected.Use(rateLimiter.Middleware())

		registerBillRoutes(protected, h, deps)
		registerCustomerRoutes(protected, h, deps)
		registerDashboardRoutes(protected, h)
		registerAttendanceRoutes(protected, h)
		registerExpenseRoutes(protected, h, deps)
	}

	return router
}

func registerBillRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotency := middleware.IdempotencyRequired(middleware.IdempotencyConfig{
		Repo: deps.IdempotencyRepo,
	})

	bills := protected.Group("/bills")
	{
		bills.GET("", h.Bill.List)
		// Bill creation and payments use idempotency middleware to prevent
		// duplicates from retried requests
		bills.POST("", idempotency, h.Bill.Create)
		bills.GET("/due", h.Bill.GetDueBills)
		bills.GET("/:id", h.Bill.Get)
		bills.POST("/:id/payments", idempotency, h.Bill.RecordPayment)
	}

	// Rewriting history on a settled ledger is an owner-only operation
	protected.PUT("/payments/:id", middleware.RequireRole("owner"), h.Bill.EditPayment)
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Optional idempotency: honored when the client supplies a key
	idempotency := middleware.Idempotency(middleware.IdempotencyConfig{
		Repo: deps.IdempotencyRepo,
	})

	customers := protected.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", idempotency, h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
	}
}

func registerDashboardRoutes(protected *gin.RouterGroup, h *Handlers) {
	protected.GET("/dashboard", h.Dashboard.GetSummary)
}

func registerAttendanceRoutes(protected *gin.RouterGroup, h *Handlers) {
	attendance := protected.Group("/attendance")
	{
		attendance.POST("/check-in", h.Attendance.CheckIn)
		attendance.POST("/check-out", h.Attendance.CheckOut)
		attendance.GET("", h.Attendance.List)
	}
}

func registerExpenseRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotency := middleware.Idempotency(middleware.IdempotencyConfig{
		Repo: deps.IdempotencyRepo,
	})

	expenses := protected.Group("/expenses")
	{
		expenses.GET("", h.Expense.List)
		expenses.POST("", idempotency, h.Expense.Create)
		// The monthly rollup is for the shop owner's eyes
		expenses.GET("/summary", middleware.RequireRole("owner"), h.Expense.MonthlySummary)
	}
}
