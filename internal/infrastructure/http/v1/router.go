// Package v1 provides HTTP API version 1.
package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"

	"stockbook/internal/domain/catalogs/product"
	"stockbook/internal/domain/catalogs/supplier"
	"stockbook/internal/infrastructure/http/v1/handlers"
	"stockbook/internal/infrastructure/http/v1/middleware"
	"stockbook/pkg/logger"
)

// RouterConfig holds the services exposed over HTTP.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// DB answers the readiness probe
	DB handlers.ReadinessChecker

	// Metrics records request latency and serves /metrics; nil disables both
	Metrics Metrics

	Products     handlers.CatalogService[*product.Product]
	Stock        handlers.StockReader
	Suppliers    handlers.CatalogService[*supplier.Supplier]
	Receipts     handlers.ReceiptService
	Sales        handlers.SaleService
	Reservations handlers.ReservationService
	Reports      handlers.ReportService
}

// Metrics is implemented by *metrics.Metrics.
type Metrics interface {
	middleware.RequestObserver
	Handler() http.Handler
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	if cfg.Metrics != nil {
		router.Use(middleware.Metrics(cfg.Metrics))
	}
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.DB)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	base := handlers.NewBaseHandler()
	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		RegisterCatalogRoutes(products, handlers.NewProductHandler(base, cfg.Products))
		products.GET("/:id/stock", handlers.NewStockHandler(base, cfg.Stock).Level)
		RegisterCatalogRoutes(v1.Group("/suppliers"), handlers.NewSupplierHandler(base, cfg.Suppliers))

		RegisterDocumentRoutes(v1.Group("/receipts"), handlers.NewReceiptHandler(base, cfg.Receipts))
		RegisterDocumentRoutes(v1.Group("/sales"), handlers.NewSaleHandler(base, cfg.Sales))

		registerReservationRoutes(v1.Group("/reservations"), handlers.NewReservationHandler(base, cfg.Reservations))
		registerReportRoutes(v1.Group("/reports"), handlers.NewReportsHandler(base, cfg.Reports))
	}

	return router
}

// NewHandler wraps the router with gzip compression for clients that accept it.
func NewHandler(cfg RouterConfig) http.Handler {
	return gzhttp.GzipHandler(NewRouter(cfg))
}

func registerReservationRoutes(rg *gin.RouterGroup, h *handlers.ReservationHandler) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.POST("/:id/complete", h.Complete)
	rg.POST("/:id/cancel", h.Cancel)
}

func registerReportRoutes(rg *gin.RouterGroup, h *handlers.ReportsHandler) {
	rg.GET("/stock", h.Stock)
	rg.GET("/low-stock", h.LowStock)
	rg.GET("/movements", h.Movements)
	rg.GET("/sales", h.Sales)
}
