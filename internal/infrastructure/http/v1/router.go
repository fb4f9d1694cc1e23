package v1

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"mercatus/internal/core/numerator"
	"mercatus/internal/core/security"
	"mercatus/internal/domain/audit"
	"mercatus/internal/domain/auth"
	"mercatus/internal/domain/catalogs/connection"
	"mercatus/internal/domain/catalogs/marketplaceproduct"
	"mercatus/internal/domain/catalogs/nomenclature"
	"mercatus/internal/domain/catalogs/organization"
	"mercatus/internal/domain/documents/mpsale"
	"mercatus/internal/domain/documents/mptransaction"
	"mercatus/internal/domain/documents/production"
	"mercatus/internal/domain/posting"
	"mercatus/internal/domain/projections/prices"
	"mercatus/internal/domain/projections/salesdata"
	"mercatus/internal/domain/projections/salesregister"
	"mercatus/internal/domain/reports"
	"mercatus/internal/domain/resolve"
	"mercatus/internal/infrastructure/http/v1/handlers"
	"mercatus/internal/infrastructure/http/v1/middleware"
	"mercatus/internal/infrastructure/rawstore"
	"mercatus/internal/infrastructure/storage/postgres"
	"mercatus/internal/infrastructure/storage/postgres/catalog_repo"
	"mercatus/internal/infrastructure/storage/postgres/document_repo"
	"mercatus/internal/infrastructure/storage/postgres/projection_repo"
	"mercatus/internal/infrastructure/storage/postgres/report_repo"
	"mercatus/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *postgres.Pool

	// TxManager manages database transactions
	TxManager *postgres.TxManager

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// AuthService for authentication endpoints
	AuthService *auth.Service

	// Numerator for document number generation
	Numerator numerator.Generator

	// RawStore archives raw marketplace payloads (optional)
	RawStore *rawstore.Store

	// Audit records entity change history (optional)
	Audit *postgres.AuditService

	// IdempotencyTTL enables replay protection on mutating endpoints when
	// non-zero.
	IdempotencyTTL time.Duration

	// ClosedPeriod blocks posting into dates before it. Zero keeps all
	// periods open.
	ClosedPeriod time.Time
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

	// Health endpoints (no auth required)
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
		registerAuthRoutes(v1, cfg)

		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))
		protected.Use(middleware.UserContext())

		// Replay protection for retried imports
		if cfg.IdempotencyTTL > 0 {
			store := postgres.NewIdempotencyStore(cfg.Pool, cfg.TxManager, cfg.IdempotencyTTL)
			protected.Use(middleware.Idempotency(store))
		}

		registerCatalogRoutes(protected, cfg)
		registerDocumentRoutes(protected, cfg)
		registerProjectionRoutes(protected, cfg)
		registerPriceRoutes(protected, cfg)
		registerReportRoutes(protected, cfg)
		registerAuditRoutes(protected, cfg)
	}

	return router
}

// registerAuthRoutes registers authentication endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.AuthService == nil {
		return
	}

	baseHandler := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)

	publicAuth := rg.Group("/auth")

	protectedAuth := rg.Group("/auth")
	protectedAuth.Use(middleware.Auth(cfg.JWTValidator))

	authHandler.RegisterRoutes(publicAuth, protectedAuth)
}

// registerCatalogRoutes registers catalog (справочник) endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	catalogs := rg.Group("/catalog")
	baseHandler := handlers.NewBaseHandler()

	// --- ORGANIZATIONS ---
	{
		repo := catalog_repo.NewOrganizationRepo(cfg.TxManager)
		service := organization.NewService(repo, cfg.TxManager, cfg.Numerator)
		handler := handlers.NewOrganizationHandler(baseHandler, service)
		RegisterCatalogRoutes(catalogs.Group("/organizations"), handler, "catalog:organization")
	}

	// --- NOMENCLATURE ---
	{
		repo := catalog_repo.NewNomenclatureRepo(cfg.TxManager)
		service := nomenclature.NewService(repo, cfg.TxManager, cfg.Numerator)
		handler := handlers.NewNomenclatureHandler(baseHandler, service)
		RegisterCatalogRoutes(catalogs.Group("/nomenclature"), handler, "catalog:nomenclature")
	}

	// --- CONNECTIONS ---
	{
		repo := catalog_repo.NewConnectionRepo(cfg.TxManager)
		service := connection.NewService(repo, cfg.TxManager, cfg.Numerator)
		handler := handlers.NewConnectionHandler(baseHandler, service)
		group := catalogs.Group("/connections")
		RegisterCatalogRoutes(group, handler, "catalog:connection")
		group.GET("/by-marketplace/:marketplace",
			middleware.RequirePermission("catalog:connection:read"), handler.ByMarketplace)
	}

	// --- MARKETPLACE PRODUCTS ---
	{
		repo := catalog_repo.NewMarketplaceProductRepo(cfg.TxManager)
		service := marketplaceproduct.NewService(repo, cfg.TxManager, cfg.Numerator)
		handler := handlers.NewMarketplaceProductHandler(baseHandler, service)
		group := catalogs.Group("/marketplace-products")
		RegisterCatalogRoutes(group, handler, "catalog:marketplace_product")
		group.GET("/unmatched",
			middleware.RequirePermission("catalog:marketplace_product:read"), handler.Unmatched)
		group.POST("/:id/match",
			middleware.RequirePermission("catalog:marketplace_product:update"), handler.Match)
	}
}

// registerDocumentRoutes registers document endpoints.
func registerDocumentRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	docsGroup := rg.Group("/document")
	baseHandler := handlers.NewBaseHandler()

	// Projection writers shared by the posting engine
	salesRegisterService := salesregister.NewService(projection_repo.NewSalesRegisterRepo(cfg.TxManager))
	salesDataService := salesdata.NewService(projection_repo.NewSalesDataRepo(cfg.TxManager))

	postingEngine := posting.NewEngine(cfg.TxManager, salesRegisterService, salesDataService)
	postingEngine.SetEventPublisher(postgres.NewPostingEvents(cfg.TxManager))
	if !cfg.ClosedPeriod.IsZero() {
		postingEngine.SetPolicy(security.NewStrictPolicy(cfg.ClosedPeriod))
	}
	postingEngine.RegisterDocumentType("MarketplaceSale", posting.TargetSalesRegister, posting.TargetSalesData)
	postingEngine.RegisterDocumentType("MarketplaceTransaction", posting.TargetSalesData)
	postingEngine.RegisterDocumentType("ProductionOutput")

	// Shared resolver over master data
	connectionRepo := catalog_repo.NewConnectionRepo(cfg.TxManager)
	organizationRepo := catalog_repo.NewOrganizationRepo(cfg.TxManager)
	nomenclatureRepo := catalog_repo.NewNomenclatureRepo(cfg.TxManager)
	productRepo := catalog_repo.NewMarketplaceProductRepo(cfg.TxManager)
	productService := marketplaceproduct.NewService(productRepo, cfg.TxManager, cfg.Numerator)
	priceService := prices.NewService(projection_repo.NewPriceRepo(cfg.TxManager))

	resolver := resolve.NewResolver(connectionRepo, organizationRepo, nomenclatureRepo, productService, priceService)

	saleRepo := document_repo.NewMPSaleRepo(cfg.TxManager)

	// --- MARKETPLACE SALES ---
	{
		service := mpsale.NewService(saleRepo, postingEngine, resolver, cfg.TxManager)

		service.Hooks().OnBeforeCreate(func(ctx context.Context, doc *mpsale.MarketplaceSale) error {
			audit.EnrichCreatedByDirect(ctx, &doc.CreatedBy, &doc.UpdatedBy)
			return nil
		})
		service.Hooks().OnBeforeUpdate(func(ctx context.Context, doc *mpsale.MarketplaceSale) error {
			audit.EnrichUpdatedByDirect(ctx, &doc.UpdatedBy)
			return nil
		})

		if cfg.Audit != nil {
			service.Hooks().OnAfterCreate(func(ctx context.Context, doc *mpsale.MarketplaceSale) error {
				return cfg.Audit.LogChange(ctx, "doc_mp_sales", doc.ID, postgres.AuditActionCreate, map[string]any{
					"number":      doc.Number,
					"marketplace": doc.Marketplace,
					"lines":       len(doc.Lines),
				})
			})
			service.Hooks().OnAfterUpdate(func(ctx context.Context, doc *mpsale.MarketplaceSale) error {
				return cfg.Audit.LogChange(ctx, "doc_mp_sales", doc.ID, postgres.AuditActionUpdate, map[string]any{
					"number":  doc.Number,
					"version": doc.Version,
					"lines":   len(doc.Lines),
				})
			})
		}

		handler := handlers.NewMarketplaceSaleHandler(baseHandler, service, cfg.RawStore)
		group := docsGroup.Group("/mp-sale")
		RegisterDocumentRoutes(group, handler, "document:mp_sale")
		group.GET("/:id/raw", middleware.RequirePermission("document:mp_sale:read"), handler.Raw)
	}

	// --- MARKETPLACE TRANSACTIONS ---
	{
		repo := document_repo.NewMPTransactionRepo(cfg.TxManager)
		service := mptransaction.NewService(repo, saleRepo, postingEngine, cfg.TxManager)

		handler := handlers.NewMarketplaceTransactionHandler(baseHandler, service)
		RegisterDocumentRoutes(docsGroup.Group("/mp-transaction"), handler, "document:mp_transaction")
	}

	// --- PRODUCTION OUTPUTS ---
	{
		repo := document_repo.NewProductionRepo(cfg.TxManager)
		service := production.NewService(repo, postingEngine, resolver, cfg.Numerator, cfg.TxManager)

		handler := handlers.NewProductionOutputHandler(baseHandler, service)
		RegisterDocumentRoutes(docsGroup.Group("/production-output"), handler, "document:production_output")
	}
}

// registerProjectionRoutes registers projection read endpoints.
func registerProjectionRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	salesRegisterService := salesregister.NewService(projection_repo.NewSalesRegisterRepo(cfg.TxManager))
	salesDataService := salesdata.NewService(projection_repo.NewSalesDataRepo(cfg.TxManager))

	handler := handlers.NewProjectionsHandler(baseHandler, salesRegisterService, salesDataService)

	group := rg.Group("/projection")
	group.Use(middleware.RequirePermission("projection:read"))
	handler.RegisterRoutes(group)
}

// registerReportRoutes registers aggregated report endpoints.
func registerReportRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	service := reports.NewService(report_repo.NewReportRepo(cfg.TxManager))
	handler := handlers.NewReportsHandler(handlers.NewBaseHandler(), service)

	group := rg.Group("/reports")
	group.Use(middleware.RequirePermission("reports:read"))
	handler.RegisterRoutes(group)
}

// registerAuditRoutes registers entity change history endpoints.
func registerAuditRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.Audit == nil {
		return
	}

	handler := handlers.NewAuditHandler(handlers.NewBaseHandler(), cfg.Audit)

	group := rg.Group("/audit")
	group.GET("/:entityType/:id", middleware.RequirePermission("audit:read"), handler.History)
}

// registerPriceRoutes registers dealer price endpoints.
func registerPriceRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	service := prices.NewService(projection_repo.NewPriceRepo(cfg.TxManager))
	handler := handlers.NewPricesHandler(baseHandler, service)

	group := rg.Group("/prices")
	group.POST("/import", middleware.RequirePermission("prices:import"), handler.Import)
	group.GET("/:nomenclatureId", middleware.RequirePermission("prices:read"), handler.History)
}
