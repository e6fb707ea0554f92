package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/biogeles/internal/service/orders"
)

// OrdersHandler exposes the order list screen.
type OrdersHandler struct {
	svc    *orders.Service
	logger *zap.Logger
}

// NewOrdersHandler constructs the orders HTTP adapter.
func NewOrdersHandler(svc *orders.Service, logger *zap.Logger) *OrdersHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrdersHandler{svc: svc, logger: logger}
}

// Register mounts the order routes.
func (h *OrdersHandler) Register(g *gin.RouterGroup) {
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

func (h *OrdersHandler) ensureLoaded(c *gin.Context) bool {
	if h.svc.Loaded() && !wantsRefresh(c) {
		return true
	}
	if err := h.svc.Load(c.Request.Context()); err != nil {
		respondError(c, h.logger, err)
		return false
	}
	return true
}

// List returns the orders matching ?estado= (todos by default).
func (h *OrdersHandler) List(c *gin.Context) {
	if !h.ensureLoaded(c) {
		return
	}
	list, err := h.svc.List(c.DefaultQuery("estado", orders.FilterAll))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Get returns one order.
func (h *OrdersHandler) Get(c *gin.Context) {
	if !h.ensureLoaded(c) {
		return
	}
	o, err := h.svc.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// Create stores a new order.
func (h *OrdersHandler) Create(c *gin.Context) {
	var form orders.Form
	if !bindJSON(c, h.logger, &form) {
		return
	}
	if !h.ensureLoaded(c) {
		return
	}
	o, err := h.svc.Create(c.Request.Context(), form)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

// Update edits an order.
func (h *OrdersHandler) Update(c *gin.Context) {
	var form orders.Form
	if !bindJSON(c, h.logger, &form) {
		return
	}
	if !h.ensureLoaded(c) {
		return
	}
	o, err := h.svc.Update(c.Request.Context(), c.Param("id"), form)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// Delete removes an order.
func (h *OrdersHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
