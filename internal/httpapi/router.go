// Package httpapi wires the HTTP surface: routing, the identity middleware
// fed by the external auth gateway, and the mapping from domain errors to
// status codes.
package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RishithaRamesh/wolfcafeplus/internal/cart"
	"github.com/RishithaRamesh/wolfcafeplus/internal/catalog"
	"github.com/RishithaRamesh/wolfcafeplus/internal/domain"
	"github.com/RishithaRamesh/wolfcafeplus/internal/notify"
	"github.com/RishithaRamesh/wolfcafeplus/internal/order"
	"github.com/RishithaRamesh/wolfcafeplus/pkg/metrics"
)

type Deps struct {
	Catalog *catalog.Service
	Cart    *cart.Service
	Orders  *order.Service
	Hub     *notify.Hub
	Metrics *metrics.ServerMetrics
	Ping    func(ctx context.Context) error
}

func NewRouter(d Deps) *gin.Engine {
	h := &handlers{deps: d}

	r := gin.New()
	r.Use(gin.Recovery(), Identity())
	if d.Metrics != nil {
		r.Use(Observe(d.Metrics))
	}

	r.GET("/health", h.health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.GET("/menu", h.listMenu)
	admin := r.Group("/menu", RequireRole(domain.RoleAdmin))
	admin.POST("", h.createMenuItem)
	admin.PUT("/:id", h.updateMenuItem)
	admin.PATCH("/:id/archive", h.archiveMenuItem)
	admin.PATCH("/:id/restore", h.restoreMenuItem)
	admin.DELETE("/:id", h.deleteMenuItem)

	auth := RequireUser()
	r.GET("/cart", auth, h.getCart)
	r.POST("/cart", auth, h.addToCart)
	r.DELETE("/cart/:menuItemId", auth, h.removeFromCart)

	r.POST("/orders", auth, h.createOrder)
	r.GET("/orders", auth, h.listOrders)
	r.PATCH("/orders/:id", auth, RequireRole(domain.RoleStaff, domain.RoleAdmin), h.transitionOrder)

	r.GET("/ws", auth, h.serveWS)

	return r
}

type handlers struct {
	deps Deps
}

func (h *handlers) health(c *gin.Context) {
	if h.deps.Ping != nil {
		if err := h.deps.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db_error"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
