// services/reconcile_service.go
package services

import (
	"context"
	"time"

	"salonpro-bookings/bookings"
	"salonpro-bookings/config"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Sweeper is the engine operation the scheduler drives.
type Sweeper interface {
	Sweep(ctx context.Context) (bookings.SweepResult, error)
}

// ReconcileService periodically re-attempts transaction recording for
// completed bookings that have none. Each pass is safe to repeat.
type ReconcileService struct {
	sweeper Sweeper
	spec    string
	timeout time.Duration
	logger  *logrus.Logger
	cron    *cron.Cron
}

func NewReconcileService(sweeper Sweeper, spec string, logger *logrus.Logger) *ReconcileService {
	if spec == "" {
		spec = "@every 5s"
	}
	return &ReconcileService{
		sweeper: sweeper,
		spec:    spec,
		timeout: 30 * time.Second,
		logger:  logger,
	}
}

func (s *ReconcileService) StartScheduler() error {
	c := cron.New(cron.WithChain(
		cron.Recover(cron.PrintfLogger(s.logger)),
		cron.SkipIfStillRunning(cron.PrintfLogger(s.logger)),
	))
	if _, err := c.AddFunc(s.spec, s.RunOnce); err != nil {
		return err
	}
	c.Start()
	s.cron = c
	s.logger.WithField("spec", s.spec).Info("Reconciliation scheduler started")
	return nil
}

// Stop halts the scheduler and waits for a running pass to finish.
func (s *ReconcileService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

// RunOnce performs a single sweep.
func (s *ReconcileService) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	res, err := s.sweeper.Sweep(ctx)
	if err != nil {
		config.LogError(s.logger, "services", "RunOnce", "Reconciliation sweep failed", nil, err)
		return
	}
	if res.Scanned == 0 {
		return
	}
	s.logger.WithFields(logrus.Fields{
		"scanned":  res.Scanned,
		"recorded": res.Recorded,
		"failed":   res.Failed,
	}).Info("Reconciliation sweep completed")
}
