package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const purgeTimeout = 30 * time.Second

type tokenPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Scheduler runs the periodic purge of expired token rows.
type Scheduler struct {
	cron     *cron.Cron
	purger   tokenPurger
	schedule string
	log      zerolog.Logger
}

func NewScheduler(purger tokenPurger, schedule string, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		purger:   purger,
		schedule: schedule,
		log:      log,
	}
}

// Start registers the purge job; an empty schedule leaves the scheduler idle.
func (s *Scheduler) Start() error {
	if s.schedule == "" {
		s.log.Info().Msg("token purge job disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.PurgeExpired); err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info().Str("schedule", s.schedule).Msg("token purge job scheduled")
	return nil
}

// Stop waits for a running job to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) PurgeExpired() {
	ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
	defer cancel()

	n, err := s.purger.PurgeExpired(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("purge expired tokens failed")
		return
	}
	s.log.Info().Int64("deleted", n).Msg("purged expired tokens")
}
