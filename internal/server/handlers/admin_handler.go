package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/biogeles/internal/service/admin"
)

// AdminHandler exposes the administration tabs: species, formulas, users and settings.
type AdminHandler struct {
	svc    *admin.Service
	logger *zap.Logger
}

func NewAdminHandler(svc *admin.Service, logger *zap.Logger) *AdminHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandler{svc: svc, logger: logger}
}

// Register mounts the admin routes.
func (h *AdminHandler) Register(g *gin.RouterGroup) {
	g.Use(h.loadOnce)

	g.GET("/summary", h.Summary)

	g.GET("/species", h.ListSpecies)
	g.GET("/species/:id", h.GetSpecies)
	g.POST("/species", create(h, h.svc.CreateSpecies))
	g.PUT("/species/:id", update(h, h.svc.UpdateSpecies))
	g.DELETE("/species/:id", h.remove(h.svc.DeleteSpecies))

	g.GET("/formulas", func(c *gin.Context) { c.JSON(http.StatusOK, h.svc.Formulas()) })
	g.POST("/formulas", create(h, h.svc.CreateFormula))
	g.PUT("/formulas/:id", update(h, h.svc.UpdateFormula))
	g.DELETE("/formulas/:id", h.remove(h.svc.DeleteFormula))

	g.GET("/users", func(c *gin.Context) { c.JSON(http.StatusOK, h.svc.Users()) })
	g.POST("/users", create(h, h.svc.CreateUser))
	g.PUT("/users/:id", update(h, h.svc.UpdateUser))
	g.DELETE("/users/:id", h.remove(h.svc.DeleteUser))

	g.GET("/settings", func(c *gin.Context) { c.JSON(http.StatusOK, h.svc.Settings()) })
	g.PUT("/settings", h.SaveSettings)
}

// loadOnce fetches every tab the first time the admin screen is opened, or on ?refresh=1.
func (h *AdminHandler) loadOnce(c *gin.Context) {
	if h.svc.Loaded() && !wantsRefresh(c) {
		c.Next()
		return
	}
	if err := h.svc.Load(c.Request.Context()); err != nil {
		respondError(c, h.logger, err)
		c.Abort()
		return
	}
	c.Next()
}

func (h *AdminHandler) Summary(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Summary())
}

// ListSpecies filters by ?q= on common or scientific name.
func (h *AdminHandler) ListSpecies(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Species(c.Query("q")))
}

func (h *AdminHandler) GetSpecies(c *gin.Context) {
	a, err := h.svc.SpeciesByID(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *AdminHandler) SaveSettings(c *gin.Context) {
	var cfg admin.Configuracion
	if !bindJSON(c, h.logger, &cfg) {
		return
	}
	saved, err := h.svc.SaveSettings(c.Request.Context(), cfg)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (h *AdminHandler) remove(fn func(context.Context, string) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := fn(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func create[T any](h *AdminHandler, fn func(context.Context, T) (T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form T
		if !bindJSON(c, h.logger, &form) {
			return
		}
		out, err := fn(c.Request.Context(), form)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusCreated, out)
	}
}

func update[T any](h *AdminHandler, fn func(context.Context, string, T) (T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form T
		if !bindJSON(c, h.logger, &form) {
			return
		}
		out, err := fn(c.Request.Context(), c.Param("id"), form)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}
