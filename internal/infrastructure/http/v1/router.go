// Package v1 provides HTTP API version 1.
package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"atithi/internal/core/numerator"
	"atithi/internal/domain/accounting"
	"atithi/internal/domain/assets"
	"atithi/internal/domain/catalogs/category"
	"atithi/internal/domain/catalogs/item"
	"atithi/internal/domain/catalogs/location"
	"atithi/internal/domain/catalogs/vendor"
	"atithi/internal/domain/documents/purchase"
	"atithi/internal/domain/movement"
	"atithi/internal/domain/registers/stockledger"
	"atithi/internal/domain/reports"
	"atithi/internal/infrastructure/http/v1/handlers"
	"atithi/internal/infrastructure/http/v1/middleware"
	"atithi/internal/infrastructure/storage/postgres"
	"atithi/internal/infrastructure/storage/postgres/accounting_repo"
	"atithi/internal/infrastructure/storage/postgres/asset_repo"
	"atithi/internal/infrastructure/storage/postgres/catalog_repo"
	"atithi/internal/infrastructure/storage/postgres/document_repo"
	"atithi/internal/infrastructure/storage/postgres/register_repo"
	"atithi/internal/infrastructure/storage/postgres/report_repo"
	"atithi/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection pool
	Pool *pgxpool.Pool

	// Logger for request logging
	Logger *logger.Logger

	// Numerator for document number generation
	Numerator numerator.Generator

	// TxManager drives transactions; repos pick it up from context
	TxManager *postgres.TxManager

	// IdempotencyEnabled enables idempotency middleware
	IdempotencyEnabled bool

	// IdempotencyTTL bounds replay retention (default 10m)
	IdempotencyTTL time.Duration

	// ResortStateCode drives the intra/inter-state GST split
	ResortStateCode string
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no database context required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	v1 := router.Group("/api/v1")
	{
		v1.Use(middleware.Database(cfg.TxManager)) // 1. TxManager into context
		v1.Use(middleware.UserContext())           // 2. Actor from headers for audit fields

		if cfg.IdempotencyEnabled {
			ttl := cfg.IdempotencyTTL
			if ttl == 0 {
				ttl = 10 * time.Minute
			}
			store := postgres.NewIdempotencyStoreFromRawPool(cfg.Pool, cfg.TxManager, ttl)
			v1.Use(middleware.Idempotency(store))
		}

		auditService, err := postgres.NewAuditService(cfg.TxManager)
		if err != nil {
			cfg.Logger.Fatalw("failed to initialize audit service", "error", err)
		}
		v1.Use(middleware.Audit(auditService))

		deps := buildDependencies(cfg)
		deps.audit = auditService

		registerCatalogRoutes(v1, deps)
		registerInventoryRoutes(v1, deps)
		registerAccountingRoutes(v1, deps)
		registerAuditRoutes(v1, deps)
	}

	return router
}

// dependencies wires repositories and services once at startup.
// Everything is stateless; per-request state rides on the context.
type dependencies struct {
	base *handlers.BaseHandler

	categories *category.Service
	items      *item.Service
	locations  *location.Service
	vendors    *vendor.Service

	purchases  *purchase.Service
	ledger     *stockledger.Service
	assets     *assets.Service
	accounting *accounting.Service
	movement   *movement.Service
	reports    *reports.Service

	issueRepo  *document_repo.StockIssueRepo
	wasteRepo  *document_repo.WasteLogRepo
	ledgerRepo *accounting_repo.LedgerRepo

	audit     *postgres.AuditService
	txManager *postgres.TxManager
}

func buildDependencies(cfg RouterConfig) *dependencies {
	categoryRepo := catalog_repo.NewCategoryRepo()
	itemRepo := catalog_repo.NewItemRepo()
	locationRepo := catalog_repo.NewLocationRepo()
	vendorRepo := catalog_repo.NewVendorRepo()

	purchaseRepo := document_repo.NewPurchaseOrderRepo()
	issueRepo := document_repo.NewStockIssueRepo()
	wasteRepo := document_repo.NewWasteLogRepo()

	stockRepo := register_repo.NewStockLedgerRepo()
	assetRepo := asset_repo.NewAssetRepo()

	ledgerRepo := accounting_repo.NewLedgerRepo()
	journalRepo := accounting_repo.NewJournalRepo()

	ledgerService := stockledger.NewService(stockRepo)
	assetService := assets.NewService(assetRepo, cfg.Numerator)
	accountingService := accounting.NewService(ledgerRepo, journalRepo, cfg.Numerator, cfg.TxManager)

	categoryService := category.NewService(categoryRepo, cfg.TxManager, cfg.Numerator)
	itemService := item.NewService(itemRepo, categoryRepo, ledgerService, assetService, cfg.TxManager, cfg.Numerator)
	locationService := location.NewService(locationRepo, cfg.TxManager, cfg.Numerator)
	vendorService := vendor.NewService(vendorRepo, cfg.TxManager, cfg.Numerator)

	purchaseService := purchase.NewService(purchaseRepo, cfg.Numerator, cfg.TxManager)

	movementService := movement.NewService(movement.ServiceConfig{
		ResortStateCode: cfg.ResortStateCode,
		TxManager:       cfg.TxManager,
		Numerator:       cfg.Numerator,
		Items:           itemRepo,
		Locations:       locationRepo,
		Vendors:         vendorRepo,
		Purchases:       purchaseRepo,
		Issues:          issueRepo,
		Wastes:          wasteRepo,
		Assets:          assetService,
		Ledger:          ledgerService,
		Accounting:      accountingService,
	})

	reportService := reports.NewService(report_repo.NewReportRepo())

	return &dependencies{
		base:       handlers.NewBaseHandler(),
		categories: categoryService,
		items:      itemService,
		locations:  locationService,
		vendors:    vendorService,
		purchases:  purchaseService,
		ledger:     ledgerService,
		assets:     assetService,
		accounting: accountingService,
		movement:   movementService,
		reports:    reportService,
		issueRepo:  issueRepo,
		wasteRepo:  wasteRepo,
		ledgerRepo: ledgerRepo,
		txManager:  cfg.TxManager,
	}
}

// registerCatalogRoutes registers catalog endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, deps *dependencies) {
	catalogs := rg.Group("/catalog")

	RegisterCatalogRoutes(catalogs.Group("/categories"), handlers.NewCategoryHandler(deps.base, deps.categories))
	RegisterCatalogRoutes(catalogs.Group("/items"), handlers.NewItemHandler(deps.base, deps.items))
	RegisterCatalogRoutes(catalogs.Group("/locations"), handlers.NewLocationHandler(deps.base, deps.locations))
	RegisterCatalogRoutes(catalogs.Group("/vendors"), handlers.NewVendorHandler(deps.base, deps.vendors))
}

// registerInventoryRoutes registers document, stock and asset endpoints.
func registerInventoryRoutes(rg *gin.RouterGroup, deps *dependencies) {
	inventory := rg.Group("/inventory")

	// Purchase orders
	{
		handler := handlers.NewPurchaseHandler(deps.base, deps.purchases, deps.movement)
		purchases := inventory.Group("/purchases")
		purchases.GET("", handler.List)
		purchases.POST("", handler.Create)
		purchases.GET("/:id", handler.Get)
		purchases.PUT("/:id", handler.Update)
		purchases.POST("/:id/confirm", handler.Confirm)
		purchases.POST("/:id/receive", handler.Receive)
		purchases.POST("/:id/cancel", handler.Cancel)
	}

	// Stock issues (allocations, transfers, sales, rentals)
	{
		handler := handlers.NewIssueHandler(deps.base, deps.issueRepo, deps.movement)
		issues := inventory.Group("/issues")
		issues.GET("", handler.List)
		issues.POST("", handler.Create)
		issues.GET("/:id", handler.Get)
	}

	// Waste log
	{
		handler := handlers.NewWasteHandler(deps.base, deps.wasteRepo, deps.movement)
		waste := inventory.Group("/waste")
		waste.GET("", handler.List)
		waste.POST("", handler.Create)
		waste.GET("/:id", handler.Get)
	}

	// Room returns and checkout billing
	{
		handler := handlers.NewCheckoutHandler(deps.base, deps.movement)
		inventory.POST("/returns", handler.Return)
		inventory.POST("/checkout/:stayId/bill-payables", handler.BillPayables)
	}

	// Asset registry
	{
		handler := handlers.NewAssetHandler(deps.base, deps.assets, deps.movement)
		assetsGroup := inventory.Group("/assets")
		assetsGroup.GET("", handler.List)
		assetsGroup.POST("", handler.Create)
		assetsGroup.GET("/:id", handler.Get)
		assetsGroup.POST("/:id/move", handler.Move)
		assetsGroup.POST("/:id/retire", handler.Retire)
		assetsGroup.POST("/:id/laundry-out", handler.LaundryOut)
		assetsGroup.POST("/:id/laundry-in", handler.LaundryIn)
		assetsGroup.POST("/:id/repair", handler.MarkUnderRepair)
		assetsGroup.POST("/:id/repaired", handler.MarkRepaired)
	}

	// Stock ledger reads and maintenance
	{
		handler := handlers.NewStockHandler(deps.base, deps.ledger, deps.txManager)
		inventory.GET("/stock", handler.Levels)
		inventory.GET("/stock/level", handler.Level)
		inventory.GET("/stock/turnover", handler.Turnover)
		inventory.POST("/stock/rebuild/:itemId", handler.Rebuild)
		inventory.GET("/transactions", handler.Transactions)
	}

	// Cross-document reports
	{
		handler := handlers.NewReportsHandler(deps.base, deps.reports)
		reportsGroup := inventory.Group("/reports")
		reportsGroup.GET("/valuation", handler.Valuation)
		reportsGroup.GET("/documents", handler.Documents)
		reportsGroup.GET("/documents/summary", handler.DocumentSummary)
	}
}

// registerAccountingRoutes registers journal and fiscal report endpoints.
func registerAccountingRoutes(rg *gin.RouterGroup, deps *dependencies) {
	handler := handlers.NewAccountingHandler(deps.base, deps.accounting, deps.ledgerRepo)

	acc := rg.Group("/accounting")
	acc.GET("/ledgers", handler.ListLedgers)
	acc.GET("/journal-entries", handler.ListEntries)
	acc.GET("/journal-entries/:id", handler.GetEntry)
	acc.POST("/rcm-expenses", handler.PostRCMExpense)
	acc.GET("/trial-balance", handler.TrialBalance)
	acc.GET("/gst-summary", handler.GSTSummary)
}

// registerAuditRoutes registers the audit trail read endpoint.
func registerAuditRoutes(rg *gin.RouterGroup, deps *dependencies) {
	handler := handlers.NewAuditHandler(deps.base, deps.audit)
	rg.GET("/audit/:entityType/:entityId", handler.History)
}
