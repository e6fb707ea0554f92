package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	cal "github.com/mamadbah2/biogeles/internal/calendar"
	"github.com/mamadbah2/biogeles/internal/repository/mongodb"
	"github.com/mamadbah2/biogeles/internal/service/admin"
	"github.com/mamadbah2/biogeles/internal/service/auth"
	"github.com/mamadbah2/biogeles/internal/service/calendar"
	"github.com/mamadbah2/biogeles/internal/service/monitoring"
	"github.com/mamadbah2/biogeles/internal/service/notify"
	"github.com/mamadbah2/biogeles/internal/service/orders"
	"github.com/mamadbah2/biogeles/internal/service/reporting"
	"github.com/mamadbah2/biogeles/pkg/clients/backend"
	"github.com/mamadbah2/biogeles/pkg/clients/whatsapp"
)

const (
	msgSessionExpired = "Sesión expirada, inicie sesión nuevamente"
	msgIncompleteForm = "Por favor completa todos los campos"
	msgInvalidBody    = "Solicitud inválida"
)

var badRequest = []error{
	calendar.ErrValidation,
	cal.ErrUnknownAction,
	cal.ErrMonthOutOfRange,
	orders.ErrValidation,
	orders.ErrUnknownFilter,
	admin.ErrValidation,
	monitoring.ErrUnknownRange,
}

var notFound = []error{
	calendar.ErrEventNotFound,
	orders.ErrOrderNotFound,
	admin.ErrNotFound,
	monitoring.ErrSectorNotFound,
	mongodb.ErrNoSnapshot,
	backend.ErrNotFound,
}

// respondError maps service and client errors to a status and a short message.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	_ = c.Error(err)

	var validation *auth.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgIncompleteForm, "errores": validation.Fields})
		return
	}

	switch {
	case errors.Is(err, backend.ErrUnauthorized), errors.Is(err, auth.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgSessionExpired})
		return
	case errors.Is(err, monitoring.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": msgIncompleteForm})
		return
	case errors.Is(err, calendar.ErrDataIntegrity), errors.Is(err, backend.ErrInvalidResponse):
		logger.Error("backend returned unreadable data", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "El servidor devolvió datos inválidos"})
		return
	case errors.Is(err, notify.ErrNotConfigured), errors.Is(err, reporting.ErrArchiveDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Función no configurada", "detalle": err.Error()})
		return
	}

	for _, target := range badRequest {
		if errors.Is(err, target) {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody, "detalle": err.Error()})
			return
		}
	}
	for _, target := range notFound {
		if errors.Is(err, target) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No encontrado"})
			return
		}
	}

	var apiErr *backend.APIError
	var waErr *whatsapp.APIError
	switch {
	case errors.As(err, &waErr):
		logger.Warn("whatsapp rejected message", zap.Int("status", waErr.StatusCode), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "No se pudo enviar el mensaje", "detalle": waErr.Message})
	case errors.As(err, &apiErr):
		logger.Warn("backend rejected request", zap.Int("status", apiErr.StatusCode), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "El servidor rechazó la solicitud", "detalle": apiErr.Message})
	case errors.Is(err, backend.ErrTransport):
		logger.Warn("backend unreachable", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "No se pudo conectar con el servidor"})
	default:
		logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error interno"})
	}
}

// bindJSON decodes the body or answers 400.
func bindJSON(c *gin.Context, logger *zap.Logger, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		logger.Warn("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return false
	}
	return true
}

func wantsRefresh(c *gin.Context) bool {
	v := c.Query("refresh")
	return v == "1" || v == "true"
}
