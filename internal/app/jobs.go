package app

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/router-for-me/storefront/internal/session"
	log "github.com/sirupsen/logrus"
)

const limiterPruneSchedule = "@every 5m"

// StartJobs schedules background maintenance: session purge, limiter pruning
// and, when enabled, the Discord stats refresh.
func (a *App) StartJobs(ctx context.Context) error {
	c := cron.New()

	if purger, ok := a.sessionStore.(session.Purger); ok {
		if _, err := c.AddFunc(a.cfg.Session.PurgeSchedule, func() {
			removed, errPurge := purger.Purge(ctx)
			if errPurge != nil {
				log.WithError(errPurge).Warn("session purge failed")
				return
			}
			if removed > 0 {
				log.WithField("removed", removed).Debug("expired sessions purged")
			}
		}); err != nil {
			return fmt.Errorf("schedule session purge: %w", err)
		}
	}

	if _, err := c.AddFunc(limiterPruneSchedule, func() {
		if removed := a.limiter.PruneMemory(); removed > 0 {
			log.WithField("removed", removed).Debug("expired rate limit counters pruned")
		}
	}); err != nil {
		return fmt.Errorf("schedule limiter prune: %w", err)
	}

	if a.discord != nil {
		if _, err := c.AddFunc(a.cfg.Discord.SyncSchedule, func() {
			if errSync := a.discord.SyncOnce(ctx); errSync != nil {
				log.WithError(errSync).Warn("discord sync failed")
			}
		}); err != nil {
			return fmt.Errorf("schedule discord sync: %w", err)
		}
		go func() {
			if errSync := a.discord.SyncOnce(ctx); errSync != nil {
				log.WithError(errSync).Warn("initial discord sync failed")
			}
		}()
	}

	c.Start()
	a.scheduler = c
	return nil
}
