package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	cal "github.com/mamadbah2/biogeles/internal/calendar"
	"github.com/mamadbah2/biogeles/internal/service/calendar"
)

// CalendarHandler exposes the production calendar screen.
type CalendarHandler struct {
	screen *calendar.Screen
	logger *zap.Logger
}

// NewCalendarHandler constructs the calendar HTTP adapter.
func NewCalendarHandler(screen *calendar.Screen, logger *zap.Logger) *CalendarHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarHandler{screen: screen, logger: logger}
}

// Register mounts the calendar routes.
func (h *CalendarHandler) Register(g *gin.RouterGroup) {
	g.GET("", h.View)
	g.POST("/navigate", h.Navigate)
	g.POST("/months/:mes", h.SelectMonth)
	g.GET("/events/:id", h.Select)
	g.DELETE("/selection", h.CloseDetail)
	g.POST("/events", h.Create)
	g.PUT("/events/:id", h.Update)
	g.DELETE("/events/:id", h.Delete)
}

type navigateRequest struct {
	Accion cal.Action `json:"accion"`
}

func (h *CalendarHandler) ensureLoaded(c *gin.Context) bool {
	if h.screen.Loaded() && !wantsRefresh(c) {
		return true
	}
	if err := h.screen.Load(c.Request.Context()); err != nil {
		respondError(c, h.logger, err)
		return false
	}
	return true
}

// View renders the month or year view, fetching events on first use.
func (h *CalendarHandler) View(c *gin.Context) {
	if !h.ensureLoaded(c) {
		return
	}
	c.JSON(http.StatusOK, h.screen.View())
}

// Navigate applies a navigation action.
func (h *CalendarHandler) Navigate(c *gin.Context) {
	var req navigateRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	if !h.ensureLoaded(c) {
		return
	}
	view, err := h.screen.Navigate(req.Accion)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SelectMonth jumps from the year view into one month.
func (h *CalendarHandler) SelectMonth(c *gin.Context) {
	month, err := strconv.Atoi(c.Param("mes"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}
	if !h.ensureLoaded(c) {
		return
	}
	view, err := h.screen.SelectMonth(month)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Select opens the detail view of an event.
func (h *CalendarHandler) Select(c *gin.Context) {
	if !h.ensureLoaded(c) {
		return
	}
	detail, err := h.screen.Select(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// CloseDetail closes the detail view.
func (h *CalendarHandler) CloseDetail(c *gin.Context) {
	h.screen.CloseDetail()
	c.Status(http.StatusNoContent)
}

// Create stores a new event.
func (h *CalendarHandler) Create(c *gin.Context) {
	var form calendar.Form
	if !bindJSON(c, h.logger, &form) {
		return
	}
	if !h.ensureLoaded(c) {
		return
	}
	ev, err := h.screen.Create(c.Request.Context(), form)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, ev)
}

// Update edits an existing event.
func (h *CalendarHandler) Update(c *gin.Context) {
	var form calendar.Form
	if !bindJSON(c, h.logger, &form) {
		return
	}
	if !h.ensureLoaded(c) {
		return
	}
	ev, err := h.screen.Update(c.Request.Context(), c.Param("id"), form)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

// Delete removes an event.
func (h *CalendarHandler) Delete(c *gin.Context) {
	if err := h.screen.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
