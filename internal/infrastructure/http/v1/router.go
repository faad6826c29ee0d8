// Package v1 provides HTTP API version 1.
package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"alcosklad/internal/cache"
	"alcosklad/internal/domain/catalogs/product"
	"alcosklad/internal/domain/catalogs/supplier"
	"alcosklad/internal/domain/documents/order"
	"alcosklad/internal/domain/documents/reception"
	"alcosklad/internal/domain/documents/writeoff"
	"alcosklad/internal/domain/registers/stock"
	"alcosklad/internal/domain/reports/dashboard"
	"alcosklad/internal/domain/reports/reconcile"
	"alcosklad/internal/infrastructure/http/v1/handlers"
	"alcosklad/internal/infrastructure/http/v1/middleware"
	"alcosklad/internal/infrastructure/store"
	"alcosklad/internal/recordstore"
	"alcosklad/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Client talks to the record store backend.
	Client *recordstore.Client

	// Cache is the shared read cache all services run through.
	Cache *cache.Cache

	// Logger for request logging.
	Logger *logger.Logger

	// Redis backs the durable cache layer; nil disables it, health then
	// reports the layer as absent.
	Redis *redis.Client

	// Location anchors day boundaries for the stock trend report.
	Location *time.Location
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.Metrics())
	router.Use(middleware.ErrorHandler())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(cfg.Client, cfg.Redis)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Repositories and services are created once; every request shares
	// the same cache, so a mutation on one route invalidates reads on
	// the others.
	supplierSvc := supplier.NewService(store.NewSupplierRepo(cfg.Client), cfg.Cache)
	productSvc := product.NewService(store.NewProductRepo(cfg.Client), cfg.Cache)
	stockSvc := stock.NewService(store.NewStockRepo(cfg.Client), cfg.Cache)
	receptionSvc := reception.NewService(store.NewReceptionRepo(cfg.Client), stockSvc, cfg.Cache)
	orderSvc := order.NewService(store.NewOrderRepo(cfg.Client), stockSvc, supplierSvc, cfg.Cache)
	writeOffSvc := writeoff.NewService(store.NewWriteOffRepo(cfg.Client), stockSvc, cfg.Cache)
	dashboardSvc := dashboard.NewService(productSvc, stockSvc, orderSvc, receptionSvc, cfg.Cache)
	reconcileSvc := reconcile.NewService(stockSvc, receptionSvc, orderSvc, writeOffSvc, supplierSvc, cfg.Location)

	base := handlers.NewBaseHandler()

	// API v1
	v1 := router.Group("/api/v1")
	{
		// --- SUPPLIERS (cities) ---
		{
			h := handlers.NewSupplierHandler(base, supplierSvc)
			g := v1.Group("/suppliers")
			g.GET("", h.List)
			g.POST("", h.Create)
			g.GET("/:id", h.Get)
			g.PATCH("/:id", h.Update)
			g.DELETE("/:id", h.Delete)
		}

		// --- PRODUCTS ---
		{
			h := handlers.NewProductHandler(base, productSvc)
			g := v1.Group("/products")
			g.GET("", h.List)
			g.POST("", h.Create)
			g.POST("/merge", h.Merge)
			g.GET("/:id", h.Get)
			g.PATCH("/:id", h.Update)
			g.DELETE("/:id", h.Delete)
		}

		// --- STOCKS ---
		{
			h := handlers.NewStockHandler(base, stockSvc)
			g := v1.Group("/stocks")
			g.GET("", h.List)
			g.GET("/aggregated", h.Aggregated)
			g.PUT("/quantity", h.SetQuantity)
			g.GET("/availability/:productId", h.Availability)
		}

		// --- RECEPTIONS ---
		{
			h := handlers.NewReceptionHandler(base, receptionSvc)
			g := v1.Group("/receptions")
			g.GET("", h.List)
			g.POST("", h.Create)
			g.GET("/:id", h.Get)
			g.PATCH("/:id", h.Update)
			g.DELETE("/:id", h.Delete)
		}

		// --- ORDERS ---
		{
			h := handlers.NewOrderHandler(base, orderSvc)
			g := v1.Group("/orders")
			g.GET("", h.List)
			g.POST("", h.Create)
			g.GET("/:id", h.Get)
			g.POST("/:id/refund", h.Refund)
			g.DELETE("/:id", h.Delete)
		}

		// --- WRITE-OFFS ---
		{
			h := handlers.NewWriteOffHandler(base, writeOffSvc)
			g := v1.Group("/writeoffs")
			g.GET("", h.List)
			g.POST("", h.Create)
			g.POST("/batch", h.CreateBatch)
			g.POST("/:id/cancel", h.Cancel)
		}

		// --- REPORTS ---
		{
			h := handlers.NewReportsHandler(base, dashboardSvc, reconcileSvc)
			g := v1.Group("/reports")
			g.GET("/dashboard", h.Dashboard)
			g.GET("/stock-trend", h.StockTrend)
		}
	}

	return router
}
