package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

// scheduler runs the background refresh on the configured cron spec.
type scheduler struct {
	cron *cron.Cron
}

// StartScheduler begins the background refresh cycle. Each tick refreshes
// the calendar (serving a fresh cache without a provider call) and runs the
// notification check on the resulting data.
func (a *App) StartScheduler() {
	if a.EarningsClient == nil {
		a.Logger.Warn().Msg("Scheduler disabled: no earnings client configured")
		return
	}

	spec := a.Config.Calendar.RefreshCron
	c := cron.New()

	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if err := a.RefreshAndNotify(ctx, false); err != nil {
			a.Logger.Warn().Err(err).Msg("Scheduled refresh failed")
		}
	})
	if err != nil {
		a.Logger.Error().Err(err).Str("spec", spec).Msg("Invalid refresh cron spec, scheduler disabled")
		return
	}

	c.Start()
	a.scheduler = &scheduler{cron: c}
	a.Logger.Info().Str("spec", spec).Msg("Refresh scheduler started")
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
