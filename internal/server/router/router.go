package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mamadbah2/biogeles/internal/server/handlers"
)

// Handlers groups the screen adapters mounted under /api.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Calendar   *handlers.CalendarHandler
	Orders     *handlers.OrdersHandler
	Admin      *handlers.AdminHandler
	Monitoring *handlers.MonitoringHandler
	Reports    *handlers.ReportsHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, session SessionChecker, logger *zap.Logger) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(prometheusMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	h.Auth.RegisterPublic(api.Group("/auth"))

	private := api.Group("")
	private.Use(sessionGuard(session))
	h.Auth.RegisterPrivate(private.Group("/auth"))
	h.Calendar.Register(private.Group("/calendar"))
	h.Orders.Register(private.Group("/orders"))
	h.Admin.Register(private.Group("/admin"))
	h.Monitoring.Register(private.Group("/monitoring"))
	h.Reports.Register(private)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}
