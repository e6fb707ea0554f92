package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/biogeles/internal/config"
	"github.com/mamadbah2/biogeles/internal/domain/models"
	"github.com/mamadbah2/biogeles/internal/service/notify"
)

const jobTimeout = 2 * time.Minute

// ReportExporter runs the periodic report export.
type ReportExporter interface {
	Export(ctx context.Context, origin string) (models.ReportSnapshot, error)
}

// DigestSender runs the periodic alert digest.
type DigestSender interface {
	SendDigest(ctx context.Context) (notify.DigestResult, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	exporter ReportExporter
	digest   DigestSender
	cfg      config.ReportingConfig
	logger   *zap.Logger
}

// NewScheduler creates a scheduler evaluating cron expressions in loc.
// Either job may be nil to leave it unscheduled.
func NewScheduler(cfg config.ReportingConfig, loc *time.Location, exporter ReportExporter, digest DigestSender, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		exporter: exporter,
		digest:   digest,
		cfg:      cfg,
		logger:   logger,
	}
}

// Start registers the jobs and starts the cron loop. A job with a bad
// schedule is reported in the returned error; the others still run.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler")

	var errs []error
	if s.exporter != nil {
		if _, err := s.cron.AddFunc(s.cfg.ExportSchedule, s.exportReport); err != nil {
			errs = append(errs, fmt.Errorf("schedule report export %q: %w", s.cfg.ExportSchedule, err))
		}
	}
	if s.digest != nil {
		if _, err := s.cron.AddFunc(s.cfg.DigestSchedule, s.sendDigest); err != nil {
			errs = append(errs, fmt.Errorf("schedule alert digest %q: %w", s.cfg.DigestSchedule, err))
		}
	}

	s.cron.Start()
	return errors.Join(errs...)
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop(ctx context.Context) {
	s.logger.Info("stopping scheduler")
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out")
	}
}

// Entries reports how many jobs are registered.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) exportReport() {
	s.logger.Info("running scheduled report export")
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	snap, err := s.exporter.Export(ctx, "scheduler")
	if err != nil {
		s.logger.Error("scheduled report export failed", zap.Error(err))
		return
	}
	s.logger.Info("scheduled report exported", zap.Time("generated_at", snap.GeneratedAt))
}

func (s *Scheduler) sendDigest() {
	s.logger.Info("running scheduled alert digest")
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	res, err := s.digest.SendDigest(ctx)
	if err != nil {
		s.logger.Error("scheduled alert digest failed", zap.Error(err))
		return
	}
	if !res.Enviado {
		s.logger.Info("alert digest not sent", zap.String("reason", res.Motivo))
	}
}
