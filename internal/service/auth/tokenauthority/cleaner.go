package tokenauthority

import (
	"context"
	"time"

	"github.com/kanato-tk51/study-manager/internal/logger"
	"github.com/kanato-tk51/study-manager/internal/repository"
)

const (
	defaultCleanupInterval = 24 * time.Hour
	defaultRetention       = 30 * 24 * time.Hour
)

// Cleaner periodically deletes refresh token rows that expired long ago.
// This is the only place rows are physically removed; the authority only
// ever flips revoked_at. Keeping expired rows around for the retention
// window preserves the reuse detection signal for stale clients.
type Cleaner struct {
	repo      repository.RefreshTokenRepo
	log       logger.Logger
	interval  time.Duration
	retention time.Duration
}

func NewCleaner(repo repository.RefreshTokenRepo, log logger.Logger) *Cleaner {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &Cleaner{
		repo:      repo,
		log:       log,
		interval:  defaultCleanupInterval,
		retention: defaultRetention,
	}
}

// Run blocks until ctx is cancelled, cleaning once immediately and then on
// every tick
func (c *Cleaner) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.clean(ctx)

	for {
		select {
		case <-ticker.C:
			c.clean(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (c *Cleaner) clean(ctx context.Context) {
	cutoff := time.Now().Add(-c.retention)

	count, err := c.repo.DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		c.log.Error("refresh token cleanup failed", "error", err.Error())
		return
	}

	if count > 0 {
		c.log.Info("expired refresh tokens deleted", "count", count, "cutoff", cutoff)
	}
}
