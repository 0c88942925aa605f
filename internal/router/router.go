package router

import (
	"time"

	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/config"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/handler"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/infra"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/middleware"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/model"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/repository"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/service"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
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
	accountReqRepo := repository.NewAccountRequestRepository(db)
	clientRepo := repository.NewClientRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	wishlistRepo := repository.NewWishlistRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	repairRepo := repository.NewRepairRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)
	serialCache := infra.NewRedisSerialCache(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	notificationSvc := service.NewNotificationService(notificationRepo, userRepo, dispatcher)
	authSvc := service.NewAuthService(userRepo, accountReqRepo, dispatcher, notificationSvc, cfg)
	statsSvc := service.NewStatsService(txRepo, clientRepo)
	txSvc := service.NewTransactionService(txRepo, clientRepo, inventoryRepo, statsSvc, serialCache)
	importSvc := service.NewImportService(txSvc, clientRepo, inventoryRepo, serialCache)
	receiptSvc := service.NewReceiptService(txRepo, cfg.StoreName, cfg.ReceiptStoragePath)
	clientSvc := service.NewClientService(clientRepo, txRepo)
	wishlistSvc := service.NewWishlistService(wishlistRepo, clientRepo, notificationSvc)
	inventorySvc := service.NewInventoryService(inventoryRepo, wishlistSvc, serialCache)
	leadSvc := service.NewLeadService(leadRepo, clientRepo)
	repairSvc := service.NewRepairService(repairRepo, clientRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	accountReqH := handler.NewAccountRequestsHandler(authSvc)
	clientsH := handler.NewClientsHandler(clientSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc)
	transactionsH := handler.NewTransactionsHandler(txSvc, receiptSvc)
	importsH := handler.NewImportsHandler(importSvc)
	wishlistH := handler.NewWishlistHandler(wishlistSvc)
	leadsH := handler.NewLeadsHandler(leadSvc)
	repairsH := handler.NewRepairsHandler(repairSvc)
	notificationsH := handler.NewNotificationsHandler(notificationSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
		auth.POST("/request-account", middleware.LoginRateLimiter(), authH.RequestAccount)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	allStaff := middleware.RequireRole(model.RoleSales, model.RoleManager, model.RoleAdmin)
	managers := middleware.RequireRole(model.RoleManager, model.RoleAdmin)
	admins := middleware.RequireRole(model.RoleAdmin)

	v1 := r.Group("/v1", jwtMW)
	{
		// Transactions — the reconciliation core
		v1.POST("/transactions", allStaff, transactionsH.Create)
		v1.GET("/transactions", allStaff, transactionsH.List)
		v1.GET("/transactions/:id", allStaff, transactionsH.Get)
		v1.PATCH("/transactions/:id", managers, transactionsH.Update)
		v1.DELETE("/transactions/:id", admins, transactionsH.Delete)
		v1.POST("/transactions/:id/credit", managers, transactionsH.CreateCredit)
		v1.GET("/transactions/:id/receipt", allStaff, transactionsH.Receipt)
		v1.POST("/transactions/import", managers, importsH.Import)
		v1.POST("/transactions/import/preview", managers, importsH.Preview)

		// Clients
		v1.POST("/clients", allStaff, clientsH.Create)
		v1.GET("/clients", allStaff, clientsH.List)
		v1.GET("/clients/:id", allStaff, clientsH.Get)
		v1.PATCH("/clients/:id", allStaff, clientsH.Update)
		v1.DELETE("/clients/:id", managers, clientsH.Deactivate)
		v1.PATCH("/clients/:id/reactivate", managers, clientsH.Reactivate)
		v1.GET("/clients/:id/transactions", allStaff, clientsH.Transactions)
		v1.GET("/clients/:id/wishlist", allStaff, wishlistH.ListByClient)

		// Inventory
		v1.GET("/inventory", allStaff, inventoryH.List)
		v1.GET("/inventory/:id", allStaff, inventoryH.Get)
		v1.GET("/inventory/serial/:serial", allStaff, inventoryH.GetBySerial)
		inv := v1.Group("/inventory", managers)
		{
			inv.POST("", inventoryH.Create)
			inv.PUT("/:id", inventoryH.Update)
			inv.PATCH("/:id/status", inventoryH.AdjustStatus)
			inv.DELETE("/:id", inventoryH.Deactivate)
		}

		// Wishlist
		v1.POST("/wishlist", allStaff, wishlistH.Create)
		v1.PATCH("/wishlist/:id/close", allStaff, wishlistH.Close)
		v1.DELETE("/wishlist/:id", managers, wishlistH.Delete)

		// Leads
		v1.POST("/leads", allStaff, leadsH.Create)
		v1.GET("/leads", allStaff, leadsH.List)
		v1.GET("/leads/:id", allStaff, leadsH.Get)
		v1.PATCH("/leads/:id", allStaff, leadsH.Update)
		v1.DELETE("/leads/:id", managers, leadsH.Delete)

		// Repairs
		v1.POST("/repairs", allStaff, repairsH.Create)
		v1.GET("/repairs", allStaff, repairsH.List)
		v1.GET("/repairs/:id", allStaff, repairsH.Get)
		v1.PATCH("/repairs/:id/status", allStaff, repairsH.AdvanceStatus)

		// Notifications — always scoped to the authenticated user
		v1.GET("/notifications", notificationsH.List)
		v1.PATCH("/notifications/:id/read", notificationsH.MarkRead)

		// Users and account approval — admin only
		users := v1.Group("/users", admins)
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
			users.PATCH("/:id/reactivate", usersH.Reactivate)
		}
		reqs := v1.Group("/account-requests", admins)
		{
			reqs.GET("", accountReqH.ListPending)
			reqs.POST("/:id/approve", accountReqH.Approve)
			reqs.POST("/:id/deny", accountReqH.Deny)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
