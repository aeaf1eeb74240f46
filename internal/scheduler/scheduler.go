package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const purgeTimeout = 30 * time.Second

// Purger removes payment plans that are past their expiry
type Purger interface {
	PurgeExpiredPlans(ctx context.Context) (int, error)
}

// Scheduler runs housekeeping jobs on a cron schedule
type Scheduler struct {
	cron   *cron.Cron
	purger Purger
	log    *logrus.Logger
}

// New registers the purge job on spec, e.g. "@every 5m" or "*/10 * * * *"
func New(spec string, purger Purger, log *logrus.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:   cron.New(),
		purger: purger,
		log:    log,
	}
	if _, err := s.cron.AddFunc(spec, s.purge); err != nil {
		return nil, fmt.Errorf("invalid purge schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start runs the jobs in the background
func (s *Scheduler) Start() {
	s.log.Info("Scheduler started")
	s.cron.Start()
}

// Stop waits for running jobs to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("Scheduler stopped")
}

func (s *Scheduler) purge() {
	ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
	defer cancel()

	n, err := s.purger.PurgeExpiredPlans(ctx)
	if err != nil {
		s.log.Errorf("Failed to purge expired plans: %v", err)
		return
	}
	s.log.Debugf("Purge finished, %d plans removed", n)
}
