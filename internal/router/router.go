package router

import (
	"time"

	"tillpos/internal/config"
	"tillpos/internal/handler"
	"tillpos/internal/middleware"
	"tillpos/internal/repository"
	"tillpos/internal/service"
	"tillpos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler <- Service <- Repository <- DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	shiftRepo := repository.NewShiftRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	returnRepo := repository.NewReturnRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	productSvc := service.NewProductService(productRepo, rdb)
	customerSvc := service.NewCustomerService(customerRepo)
	categorySvc := service.NewCategoryService(categoryRepo)
	shiftSvc := service.NewShiftService(shiftRepo)

	// Worker dispatcher, injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	transactionSvc := service.NewTransactionService(transactionRepo, productRepo, customerRepo, shiftRepo, cfg.TaxRateDecimal(), dispatcher)
	returnSvc := service.NewReturnService(returnRepo, transactionRepo, productRepo)
	analyticsSvc := service.NewAnalyticsService(analyticsRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc)
	shiftsH := handler.NewShiftsHandler(shiftSvc)
	transactionsH := handler.NewTransactionsHandler(transactionSvc)
	returnsH := handler.NewReturnsHandler(returnSvc)
	analyticsH := handler.NewAnalyticsHandler(analyticsSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/api/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	api := r.Group("/api", jwtMW)
	{
		api.GET("/auth/session", authH.Session)

		// Roles: cashier, admin. Declared per endpoint.
		api.POST("/transactions", middleware.RequireRole("cashier", "admin"), transactionsH.Commit)
		api.GET("/transactions", middleware.RequireRole("cashier", "admin"), transactionsH.List)
		api.GET("/transactions/:id", middleware.RequireRole("cashier", "admin"), transactionsH.Get)
		api.GET("/transactions/receipt/:receiptNumber", middleware.RequireRole("cashier", "admin"), transactionsH.GetByReceiptNumber)
		api.DELETE("/transactions/:id", middleware.RequireRole("admin"), transactionsH.Void)

		api.POST("/returns", middleware.RequireRole("cashier", "admin"), returnsH.Create)
		api.GET("/returns", middleware.RequireRole("cashier", "admin"), returnsH.List)

		// Catalog reads for the till; writes are admin only
		api.GET("/products", middleware.RequireRole("cashier", "admin"), productsH.List)
		api.GET("/products/expiring", middleware.RequireRole("cashier", "admin"), productsH.Expiring)
		api.GET("/products/sku/:sku", middleware.RequireRole("cashier", "admin"), productsH.GetBySKU)
		api.GET("/products/:id", middleware.RequireRole("cashier", "admin"), productsH.Get)
		api.PATCH("/products/:id/stock", middleware.RequireRole("admin"), productsH.AdjustStock)
		products := api.Group("/products", middleware.RequireRole("admin"))
		{
			products.POST("", productsH.Create)
			products.PUT("/:id", productsH.Update)
			products.DELETE("/:id", productsH.Deactivate)
		}

		shifts := api.Group("/shifts", middleware.RequireRole("cashier", "admin"))
		{
			shifts.POST("", shiftsH.Open)
			shifts.PUT("/:id/close", shiftsH.Close)
			shifts.GET("/current/:userId", shiftsH.Current)
			shifts.GET("/:id/summary", shiftsH.Summary)
		}

		customers := api.Group("/customers", middleware.RequireRole("cashier", "admin"))
		{
			customers.POST("", customersH.Create)
			customers.GET("", customersH.List)
			customers.GET("/phone/:phone", customersH.GetByPhone)
			customers.GET("/:id", customersH.Get)
		}

		api.GET("/categories", middleware.RequireRole("cashier", "admin"), categoriesH.List)
		categories := api.Group("/categories", middleware.RequireRole("admin"))
		{
			categories.POST("", categoriesH.Create)
			categories.DELETE("/:id", categoriesH.Deactivate)
		}

		analytics := api.Group("/analytics", middleware.RequireRole("admin"))
		{
			analytics.GET("/daily/:date", analyticsH.DailySales)
			analytics.GET("/top-products", analyticsH.TopProducts)
		}

		users := api.Group("/users", middleware.RequireRole("admin"))
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
		}
	}

	// Swagger UI, only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
