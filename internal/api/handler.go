package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"farm-order-service/internal/auth"
	"farm-order-service/internal/service"
	"farm-order-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler contains HTTP handlers
type Handler struct {
	orders          *service.OrderService
	catalog         *service.CatalogService
	lands           *service.LandService
	accounts        *service.AccountService
	tokens          *auth.TokenManager
	defaultPageSize int
}

// NewHandler creates a new HTTP handler
func NewHandler(
	orders *service.OrderService,
	catalog *service.CatalogService,
	lands *service.LandService,
	accounts *service.AccountService,
	tokens *auth.TokenManager,
	defaultPageSize int,
) *Handler {
	return &Handler{
		orders:          orders,
		catalog:         catalog,
		lands:           lands,
		accounts:        accounts,
		tokens:          tokens,
		defaultPageSize: defaultPageSize,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")

	farmers := v1.Group("/farmers")
	{
		farmers.POST("", h.registerFarmer)
		farmers.POST("/login", h.loginFarmer)
	}

	v1.GET("/seeds", h.listSeeds)
	v1.GET("/seeds/:id", h.getSeed)
	v1.GET("/fertilizers", h.listFertilizers)
	v1.GET("/fertilizers/:id", h.getFertilizer)

	land := v1.Group("/land", auth.Middleware(h.tokens, auth.RoleFarmer))
	{
		land.GET("", h.listLands)
		land.POST("", h.registerLand)
		land.PUT("/:id", h.updateLand)
		land.DELETE("/:id", h.deleteLand)
	}

	orders := v1.Group("/orders", auth.Middleware(h.tokens, auth.RoleFarmer))
	{
		orders.POST("", h.createOrder)
		orders.GET("", h.getFarmerOrders)
		orders.GET("/:id", h.getOrder)
	}

	admin := v1.Group("/admin")
	{
		admin.POST("/login", h.loginAdmin)

		protected := admin.Group("", auth.Middleware(h.tokens, auth.RoleAdmin))
		{
			protected.GET("/farmers", h.listFarmers)

			protected.POST("/seeds", h.createSeed)
			protected.PUT("/seeds/:id", h.updateSeed)
			protected.DELETE("/seeds/:id", h.deleteSeed)

			protected.POST("/fertilizers", h.createFertilizer)
			protected.PUT("/fertilizers/:id", h.updateFertilizer)
			protected.DELETE("/fertilizers/:id", h.deleteFertilizer)

			protected.GET("/orders/pending", h.getPendingOrders)
			protected.PATCH("/orders/:id/status", h.updateOrderStatus)
		}
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// respondError maps service error kinds to transport status codes.
// Server faults get a generic message; detail stays in the logs.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidReference),
		errors.Is(err, service.ErrIncompatibleProducts),
		errors.Is(err, service.ErrNoProductSelected),
		errors.Is(err, service.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		util.GetLogger().Error("Request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request body",
		"details": err.Error(),
	})
}

// parsePagination reads page/limit query params with defaults.
func (h *Handler) parsePagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(h.defaultPageSize)))
	if limit < 1 {
		limit = h.defaultPageSize
	}
	return page, limit
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return 0, false
	}
	return id, true
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
