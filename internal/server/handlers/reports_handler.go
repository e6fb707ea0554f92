package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/biogeles/internal/domain/models"
	"github.com/mamadbah2/biogeles/internal/metrics"
	"github.com/mamadbah2/biogeles/internal/service/notify"
	"github.com/mamadbah2/biogeles/internal/service/reporting"
)

// ReportsHandler serves the dashboard, the reports screen, exports and notifications.
type ReportsHandler struct {
	reports  *reporting.Service
	exporter *reporting.Exporter
	notifier *notify.Service
	loc      *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewReportsHandler constructs the reporting HTTP adapter.
func NewReportsHandler(reports *reporting.Service, exporter *reporting.Exporter, notifier *notify.Service, loc *time.Location, logger *zap.Logger) *ReportsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ReportsHandler{
		reports:  reports,
		exporter: exporter,
		notifier: notifier,
		loc:      loc,
		logger:   logger,
		now:      time.Now,
	}
}

// Register mounts the dashboard, report and notification routes.
func (h *ReportsHandler) Register(api *gin.RouterGroup) {
	api.GET("/dashboard", h.Dashboard)

	r := api.Group("/reports")
	r.GET("", h.Report)
	r.GET("/excel", h.Excel)
	r.POST("/export", h.Export)
	r.GET("/snapshots/latest", h.LatestSnapshot)

	n := api.Group("/notify")
	n.POST("/send", h.SendMessage)
	n.POST("/digest", h.SendDigest)
}

func (h *ReportsHandler) Dashboard(c *gin.Context) {
	d, err := h.reports.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *ReportsHandler) Report(c *gin.Context) {
	rep, err := h.reports.Report(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

// Excel downloads the report as an xlsx workbook.
func (h *ReportsHandler) Excel(c *gin.Context) {
	rep, err := h.reports.Report(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	at := h.now().In(h.loc)
	data, err := reporting.GenerateExcel(rep, at)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	metrics.ReportExports.WithLabelValues("xlsx").Inc()
	c.Header("Content-Disposition", "attachment; filename="+reporting.ExcelFilename(at))
	c.Data(http.StatusOK, reporting.ExcelContentType, data)
}

// Export pushes a snapshot to the configured spreadsheet and archive.
func (h *ReportsHandler) Export(c *gin.Context) {
	snap, err := h.exporter.Export(c.Request.Context(), "manual")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *ReportsHandler) LatestSnapshot(c *gin.Context) {
	snap, err := h.exporter.Latest(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// SendMessage pushes an ad hoc WhatsApp note.
func (h *ReportsHandler) SendMessage(c *gin.Context) {
	var req models.OutboundMessageRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	if err := h.notifier.SendOutbound(c.Request.Context(), req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusAccepted)
}

// SendDigest builds and sends the alert digest now.
func (h *ReportsHandler) SendDigest(c *gin.Context) {
	res, err := h.notifier.SendDigest(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
