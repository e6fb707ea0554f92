package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/biogeles/internal/service/auth"
	"github.com/mamadbah2/biogeles/pkg/clients/backend"
)

// Invalidator drops screen state cached for the previous operator.
type Invalidator interface {
	Invalidate()
}

// AuthHandler exposes login, logout and the profile.
type AuthHandler struct {
	svc     *auth.Service
	screens []Invalidator
	logger  *zap.Logger
}

// NewAuthHandler constructs the auth adapter. Screens are invalidated on every login and logout.
func NewAuthHandler(svc *auth.Service, screens []Invalidator, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{svc: svc, screens: screens, logger: logger}
}

// RegisterPublic mounts the routes reachable without a session.
func (h *AuthHandler) RegisterPublic(g *gin.RouterGroup) {
	g.GET("/login", h.Prefill)
	g.POST("/login", h.Login)
	g.GET("/status", h.Status)
}

// RegisterPrivate mounts the routes that need a session.
func (h *AuthHandler) RegisterPrivate(g *gin.RouterGroup) {
	g.POST("/logout", h.Logout)
	g.GET("/me", h.Profile)
}

// Prefill returns the remembered email for the login form.
func (h *AuthHandler) Prefill(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Prefill())
}

func (h *AuthHandler) Login(c *gin.Context) {
	var form auth.Form
	if !bindJSON(c, h.logger, &form) {
		return
	}
	status, err := h.svc.Login(c.Request.Context(), form)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Correo o contraseña incorrectos"})
			return
		}
		respondError(c, h.logger, err)
		return
	}
	h.invalidate()
	c.JSON(http.StatusOK, status)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.svc.Logout()
	h.invalidate()
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Status())
}

// Profile fetches the signed-in operator from the backend.
func (h *AuthHandler) Profile(c *gin.Context) {
	u, err := h.svc.Profile(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *AuthHandler) invalidate() {
	for _, s := range h.screens {
		s.Invalidate()
	}
}
