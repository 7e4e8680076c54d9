package scheduler

import (
	"context"
	"time"

	"github.com/ghain/storefront-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

const purgeTimeout = 5 * time.Minute

// SlotPurger deletes storage slots that have not been written since cutoff.
type SlotPurger interface {
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// SlotPurgeScheduler periodically drops abandoned carts and wishlists.
type SlotPurgeScheduler struct {
	cron   *cron.Cron
	purger SlotPurger
	spec   string
	ttl    time.Duration
	now    func() time.Time
}

// NewSlotPurgeScheduler creates a scheduler running on the cron spec and
// removing slots older than ttl.
func NewSlotPurgeScheduler(purger SlotPurger, spec string, ttl time.Duration) *SlotPurgeScheduler {
	return &SlotPurgeScheduler{
		cron:   cron.New(),
		purger: purger,
		spec:   spec,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Start registers the purge job and starts the cron runner.
func (s *SlotPurgeScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.RunOnce(context.Background())
	})
	if err != nil {
		logger.Error("Failed to add cron job for slot purge", err, map[string]interface{}{
			"schedule": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Slot purge scheduler started", map[string]interface{}{
		"schedule": s.spec,
		"ttl":      s.ttl.String(),
	})
	return nil
}

// RunOnce performs a single purge pass.
func (s *SlotPurgeScheduler) RunOnce(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, purgeTimeout)
	defer cancel()

	cutoff := s.now().Add(-s.ttl)
	logger.Info("Starting scheduled slot purge", map[string]interface{}{
		"cutoff": cutoff,
	})

	purged, err := s.purger.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		logger.Error("Failed to purge storage slots from scheduler", err)
		return 0, err
	}

	logger.Info("Slot purge finished", map[string]interface{}{
		"purged": purged,
	})
	return purged, nil
}

// Stop waits for a running purge to finish and stops the scheduler.
func (s *SlotPurgeScheduler) Stop() {
	logger.Info("Stopping slot purge scheduler...", nil)
	<-s.cron.Stop().Done()
	logger.Info("Slot purge scheduler stopped", nil)
}
