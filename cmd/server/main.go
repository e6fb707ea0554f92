package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	cal "github.com/mamadbah2/biogeles/internal/calendar"
	"github.com/mamadbah2/biogeles/internal/config"
	"github.com/mamadbah2/biogeles/internal/repository/mongodb"
	"github.com/mamadbah2/biogeles/internal/repository/sheets"
	"github.com/mamadbah2/biogeles/internal/scheduler"
	"github.com/mamadbah2/biogeles/internal/server/handlers"
	"github.com/mamadbah2/biogeles/internal/server/router"
	adminsvc "github.com/mamadbah2/biogeles/internal/service/admin"
	authsvc "github.com/mamadbah2/biogeles/internal/service/auth"
	calendarsvc "github.com/mamadbah2/biogeles/internal/service/calendar"
	monitoringsvc "github.com/mamadbah2/biogeles/internal/service/monitoring"
	notifysvc "github.com/mamadbah2/biogeles/internal/service/notify"
	orderssvc "github.com/mamadbah2/biogeles/internal/service/orders"
	reportingsvc "github.com/mamadbah2/biogeles/internal/service/reporting"
	"github.com/mamadbah2/biogeles/pkg/clients/backend"
	whatsappclient "github.com/mamadbah2/biogeles/pkg/clients/whatsapp"
	"github.com/mamadbah2/biogeles/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level, cfg.Log.Format))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc, err := cfg.Locale.Location()
	if err != nil {
		baseLogger.Fatal("invalid time zone", zap.Error(err))
	}
	mapper := cal.NewMapper(loc)

	// Operator session: everything an HTTP request triggers runs under it.
	session := backend.NewSession()
	api := backend.NewClient(cfg.Backend, session, logger.Named(baseLogger, "client.backend"))

	var sheet reportingsvc.SheetWriter
	if cfg.Sheets.Enabled() {
		repo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sheet = repo
	} else {
		baseLogger.Warn("google sheets not configured, spreadsheet export disabled")
	}

	var archive reportingsvc.SnapshotStore
	if cfg.MongoDB.Enabled() {
		mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		archive = mongoRepo
	} else {
		baseLogger.Warn("mongodb not configured, report snapshots are not archived")
	}

	var whatsClient whatsappclient.Client
	if cfg.WhatsApp.Enabled() {
		whatsClient = whatsappclient.NewClient(cfg.WhatsApp, logger.Named(baseLogger, "client.whatsapp"))
	} else {
		baseLogger.Warn("whatsapp not configured, alert digests disabled")
	}

	calendarScreen := calendarsvc.NewScreen(api, mapper, logger.Named(baseLogger, "svc.calendar"))
	ordersSvc := orderssvc.NewService(api, logger.Named(baseLogger, "svc.orders"))
	adminSvc := adminsvc.NewService(api, logger.Named(baseLogger, "svc.admin"))
	monitoringSvc := monitoringsvc.NewService(api, loc, logger.Named(baseLogger, "svc.monitoring"))
	authSvc := authsvc.NewService(api, session, logger.Named(baseLogger, "svc.auth"))
	reportingSvc := reportingsvc.NewService(api, loc, logger.Named(baseLogger, "svc.reporting"))
	exporter := reportingsvc.NewExporter(api, sheet, archive, loc, logger.Named(baseLogger, "svc.export"))
	notifier := notifysvc.NewService(cfg.WhatsApp, whatsClient, api, mapper, logger.Named(baseLogger, "svc.notify"))

	screens := []handlers.Invalidator{calendarScreen, ordersSvc, adminSvc, monitoringSvc}
	engine := router.New(router.Handlers{
		Auth:       handlers.NewAuthHandler(authSvc, screens, logger.Named(baseLogger, "handlers.auth")),
		Calendar:   handlers.NewCalendarHandler(calendarScreen, logger.Named(baseLogger, "handlers.calendar")),
		Orders:     handlers.NewOrdersHandler(ordersSvc, logger.Named(baseLogger, "handlers.orders")),
		Admin:      handlers.NewAdminHandler(adminSvc, logger.Named(baseLogger, "handlers.admin")),
		Monitoring: handlers.NewMonitoringHandler(monitoringSvc, logger.Named(baseLogger, "handlers.monitoring")),
		Reports:    handlers.NewReportsHandler(reportingSvc, exporter, notifier, loc, logger.Named(baseLogger, "handlers.reports")),
	}, session, logger.Named(baseLogger, "router"))

	// Scheduled jobs use their own token and never the operator's session.
	var sched *scheduler.Scheduler
	if cfg.Backend.ServiceToken != "" {
		serviceAPI := backend.NewClient(cfg.Backend, backend.NewServiceSession(cfg.Backend.ServiceToken), logger.Named(baseLogger, "client.backend.service"))
		jobExporter := reportingsvc.NewExporter(serviceAPI, sheet, archive, loc, logger.Named(baseLogger, "job.export"))

		var digest scheduler.DigestSender
		if whatsClient != nil {
			digest = notifysvc.NewService(cfg.WhatsApp, whatsClient, serviceAPI, mapper, logger.Named(baseLogger, "job.notify"))
		}

		sched = scheduler.NewScheduler(cfg.Reporting, loc, jobExporter, digest, logger.Named(baseLogger, "scheduler"))
		if err := sched.Start(); err != nil {
			baseLogger.Error("scheduler started with errors", zap.Error(err))
		}
	} else {
		baseLogger.Warn("BACKEND_SERVICE_TOKEN missing, scheduled jobs disabled")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("backend", cfg.Backend.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if sched != nil {
		sched.Stop(shutdownCtx)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
