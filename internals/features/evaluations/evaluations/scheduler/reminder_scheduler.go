package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Sweeper is the part of the evaluation service the reminder loop drives.
type Sweeper interface {
	SweepUnacknowledged(ctx context.Context, after time.Duration, limit int) (int, error)
}

type ReminderConfig struct {
	Interval time.Duration // default 1h
	After    time.Duration // default 72h
	Batch    int           // default 100
	// RunTimeout bounds one sweep. Default: the interval.
	RunTimeout time.Duration
}

func (c ReminderConfig) withDefaults() ReminderConfig {
	if c.Interval <= 0 {
		c.Interval = time.Hour
	}
	if c.After <= 0 {
		c.After = 72 * time.Hour
	}
	if c.Batch <= 0 {
		c.Batch = 100
	}
	if c.RunTimeout <= 0 {
		c.RunTimeout = c.Interval
	}
	return c
}

// StartReminderScheduler sweeps once right away, then every Interval, until ctx
// is done. The returned channel closes when the loop has exited.
func StartReminderScheduler(ctx context.Context, s Sweeper, cfg ReminderConfig, log zerolog.Logger) <-chan struct{} {
	cfg = cfg.withDefaults()
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		for {
			runSweep(ctx, s, cfg, log)
			select {
			case <-ctx.Done():
				log.Info().Msg("[REMINDER] scheduler stopped")
				return
			case <-ticker.C:
			}
		}
	}()
	return done
}

func runSweep(ctx context.Context, s Sweeper, cfg ReminderConfig, log zerolog.Logger) {
	if ctx.Err() != nil {
		return
	}
	runCtx, cancel := context.WithTimeout(ctx, cfg.RunTimeout)
	defer cancel()

	sent, err := s.SweepUnacknowledged(runCtx, cfg.After, cfg.Batch)
	switch {
	case err != nil:
		log.Error().Err(err).Msg("[REMINDER] sweep failed")
	case sent > 0:
		log.Info().Int("sent", sent).Msg("[REMINDER] acknowledgement reminders sent")
	default:
		log.Debug().Msg("[REMINDER] nothing due")
	}
}
