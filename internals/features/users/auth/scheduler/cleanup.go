package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"campusevents_backend/internals/logger"
)

type BlacklistCleaner interface {
	CleanupBlacklist(ctx context.Context) (int64, error)
}

// StartBlacklistCleanupScheduler purges expired token_blacklist rows on schedule
// (cron syntax or "@every 6h"). Stop the returned cron on shutdown.
func StartBlacklistCleanupScheduler(schedule string, cleaner BlacklistCleaner) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() { RunCleanup(cleaner) })
	if err != nil {
		return nil, err
	}
	c.Start()
	logger.L().Info("token blacklist cleanup scheduled", zap.String("schedule", schedule))
	return c, nil
}

func RunCleanup(cleaner BlacklistCleaner) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := cleaner.CleanupBlacklist(ctx)
	if err != nil {
		logger.L().Error("[CLEANUP] token_blacklist cleanup failed", zap.Error(err))
		return
	}
	if n > 0 {
		logger.L().Info("[CLEANUP] expired tokens removed", zap.Int64("rows", n))
	}
}
