package api

import (
	"net/http"
	"strconv"
	"time"

	"pos-service/internal/media"
	"pos-service/internal/repo"
	"pos-service/internal/service"
	"pos-service/internal/session"
	"pos-service/internal/util"
	"pos-service/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	catalog   *repo.Catalog
	customers *repo.Customers
	orders    *repo.Orders
	sessions  *session.Manager
	cart      *service.CartService
	checkout  *service.CheckoutService
	lifecycle *service.LifecycleService
	stats     *service.StatsService
	stock     *service.StockService
	media     *media.Store
	hub       *ws.Hub
}

// NewHandler creates a new HTTP handler
func NewHandler(
	catalog *repo.Catalog,
	customers *repo.Customers,
	orders *repo.Orders,
	sessions *session.Manager,
	cart *service.CartService,
	checkout *service.CheckoutService,
	lifecycle *service.LifecycleService,
	stats *service.StatsService,
	stock *service.StockService,
	mediaStore *media.Store,
	hub *ws.Hub,
) *Handler {
	return &Handler{
		catalog:   catalog,
		customers: customers,
		orders:    orders,
		sessions:  sessions,
		cart:      cart,
		checkout:  checkout,
		lifecycle: lifecycle,
		stats:     stats,
		stock:     stock,
		media:     mediaStore,
		hub:       hub,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(rateLimitMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/ws", func(c *gin.Context) {
		h.hub.Handle(c.Writer, c.Request)
	})

	v1 := router.Group("/api/v1")
	{
		v1.GET("/products", h.listProducts)
		v1.POST("/products", h.createProduct)
		v1.PUT("/products/:id", h.updateProduct)
		v1.DELETE("/products/:id", h.deleteProduct)
		v1.PUT("/products/:id/stock", h.setProductStock)
		v1.POST("/products/:id/image", h.uploadProductImage)
		v1.GET("/media/:name", h.serveMedia)

		v1.GET("/categories", h.listCategories)
		v1.POST("/categories", h.createCategory)
		v1.PUT("/categories/:id", h.updateCategory)
		v1.DELETE("/categories/:id", h.deleteCategory)

		v1.GET("/customers", h.listCustomers)
		v1.POST("/customers", h.createCustomer)
		v1.PUT("/customers/:id", h.updateCustomer)
		v1.DELETE("/customers/:id", h.deleteCustomer)

		v1.POST("/sessions", h.startSession)
		v1.GET("/sessions/:id", h.getSession)
		v1.DELETE("/sessions/:id", h.endSession)
		v1.PUT("/sessions/:id/customer", h.setSessionCustomer)
		v1.PUT("/sessions/:id/discount", h.setSessionDiscount)
		v1.POST("/sessions/:id/cart", h.addToCart)
		v1.PUT("/sessions/:id/cart/:productId", h.updateCartQuantity)
		v1.DELETE("/sessions/:id/cart/:productId", h.removeFromCart)
		v1.DELETE("/sessions/:id/cart", h.clearCart)
		v1.GET("/sessions/:id/shortages", h.cartShortages)
		v1.POST("/sessions/:id/checkout", h.submitOrder)

		v1.GET("/orders", h.listOrders)
		v1.GET("/orders/pending", h.listPendingOrders)
		v1.GET("/orders/:id", h.getOrder)
		v1.PUT("/orders/:id/status", h.updateOrderStatus)
		v1.DELETE("/orders/:id", h.deleteOrder)

		v1.GET("/stats", h.getStats)
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
		"status":  "ready",
		"time":    time.Now().Unix(),
		"clients": h.hub.Count(),
	})
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

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + name,
		})
		return 0, false
	}
	return id, true
}
