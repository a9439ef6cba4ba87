package http

import (
	"errors"
	"io"
	"net/http"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra"
	"storefront-service/internal/notify"
	"storefront-service/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service  *services.OrderService
	hub      *notify.Hub
	settings infra.SettingsSource
	logger   *zap.Logger
}

func NewHandler(service *services.OrderService, hub *notify.Hub, settings infra.SettingsSource, logger *zap.Logger) *Handler {
	return &Handler{service: service, hub: hub, settings: settings, logger: logger}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, users infra.UserDirectory) {
	r.GET("/api/settings", h.GetSettings)

	auth := r.Group("/api", AuthMiddleware(users))
	auth.POST("/orders", h.CreateOrder)
	auth.GET("/orders", h.ListOrders)
	auth.GET("/orders/:id", h.GetOrder)
	auth.POST("/orders/:id/confirm-payment", h.ConfirmPayment)
	auth.GET("/events", h.Events)

	admin := auth.Group("/admin", AdminMiddleware())
	admin.GET("/orders", h.AdminListOrders)
	admin.GET("/orders/:id", h.AdminGetOrder)
	admin.PUT("/orders/:id", h.AdminUpdateStatus)
	admin.DELETE("/orders/:id", h.AdminArchiveOrder)
	admin.GET("/orders-history", h.AdminOrderHistory)
	admin.GET("/stats", h.AdminStats)
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lines := make([]services.CartLine, len(req.Items))
	for i, item := range req.Items {
		lines[i] = services.CartLine{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	order, err := h.service.CreateOrder(c.Request.Context(), CurrentUser(c), services.CreateOrderInput{
		Lines:          lines,
		PaymentMethod:  domain.PaymentMethod(req.PaymentMethod),
		Address:        req.Address,
		MapCoordinates: req.MapCoordinates,
		MapAddress:     req.MapAddress,
		Currency:       req.Currency,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.service.ListOrders(c.Request.Context(), CurrentUser(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.service.GetOrder(c.Request.Context(), c.Param("id"), CurrentUser(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) ConfirmPayment(c *gin.Context) {
	order, err := h.service.ConfirmPayment(c.Request.Context(), c.Param("id"), CurrentUser(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Events holds the SSE connection open until the client disconnects. Only
// one live connection per user: a newer one silently replaces this one in
// the hub.
func (h *Handler) Events(c *gin.Context) {
	user := CurrentUser(c)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	ch := h.hub.Register(user.ID)
	defer h.hub.Unregister(user.ID, ch)

	c.SSEvent(domain.EventConnected, gin.H{})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(ev.Name, ev.Data)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func (h *Handler) GetSettings(c *gin.Context) {
	settings, err := h.settings.GetSettings(c.Request.Context())
	if err != nil {
		h.logger.Warn("settings unavailable", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "settings unavailable"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *Handler) AdminListOrders(c *gin.Context) {
	status := c.Query("status")
	if status == "all" {
		status = ""
	}
	orders, err := h.service.ListAllOrders(c.Request.Context(), domain.OrderStatus(status))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) AdminGetOrder(c *gin.Context) {
	order, err := h.service.GetOrder(c.Request.Context(), c.Param("id"), CurrentUser(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) AdminUpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.service.SetStatus(c.Request.Context(), c.Param("id"), domain.OrderStatus(req.Status), req.Comment)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) AdminArchiveOrder(c *gin.Context) {
	if err := h.service.ArchiveOrder(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) AdminOrderHistory(c *gin.Context) {
	orders, err := h.service.ListArchived(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) AdminStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), time.Now())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrMissingAddress),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
