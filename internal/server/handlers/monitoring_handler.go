package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/biogeles/internal/service/monitoring"
)

// MonitoringHandler exposes the sector monitoring screen.
type MonitoringHandler struct {
	svc    *monitoring.Service
	logger *zap.Logger
}

func NewMonitoringHandler(svc *monitoring.Service, logger *zap.Logger) *MonitoringHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MonitoringHandler{svc: svc, logger: logger}
}

// Register mounts the monitoring routes.
func (h *MonitoringHandler) Register(g *gin.RouterGroup) {
	g.GET("", h.Overview)
	g.POST("/sectors", h.CreateSector)
	g.POST("/sectors/:id/select", h.Select)
	g.GET("/sectors/:id/readings", h.Readings)
}

func (h *MonitoringHandler) ensureLoaded(c *gin.Context) bool {
	if h.svc.Loaded() && !wantsRefresh(c) {
		return true
	}
	if err := h.svc.Load(c.Request.Context()); err != nil {
		respondError(c, h.logger, err)
		return false
	}
	return true
}

// Overview returns the sector cards, the selected sector and the alert feed.
func (h *MonitoringHandler) Overview(c *gin.Context) {
	if !h.ensureLoaded(c) {
		return
	}
	c.JSON(http.StatusOK, h.svc.Overview())
}

func (h *MonitoringHandler) CreateSector(c *gin.Context) {
	var form monitoring.SectorForm
	if !bindJSON(c, h.logger, &form) {
		return
	}
	if !h.ensureLoaded(c) {
		return
	}
	sec, err := h.svc.CreateSector(c.Request.Context(), form)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, sec)
}

func (h *MonitoringHandler) Select(c *gin.Context) {
	if !h.ensureLoaded(c) {
		return
	}
	sec, err := h.svc.Select(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sec)
}

// Readings returns the temperature trend for ?rango= (24h by default).
func (h *MonitoringHandler) Readings(c *gin.Context) {
	rng := c.Query("rango")
	readings, err := h.svc.Readings(c.Request.Context(), c.Param("id"), rng)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if rng == "" {
		rng = monitoring.DefaultRange
	}
	c.JSON(http.StatusOK, gin.H{"rango": rng, "rangos": monitoring.Ranges, "lecturas": readings})
}
