package notification

import (
	"context"
	"log"
	"time"
)

// CleanupService removes notifications past their retention
type CleanupService struct {
	repo Repository
	now  func() time.Time
}

func NewCleanupService(repo Repository) *CleanupService {
	return &CleanupService{repo: repo, now: time.Now}
}

// CleanupConfig holds configuration for cleanup tasks
type CleanupConfig struct {
	Retention time.Duration // keep notifications this long (default: 90 days)
	Interval  time.Duration // how often the scheduler runs (default: 24h)
}

func DefaultCleanupConfig() CleanupConfig {
	return CleanupConfig{
		Retention: 90 * 24 * time.Hour,
		Interval:  24 * time.Hour,
	}
}

// CleanupOldNotifications deletes everything created before now-retention.
func (c *CleanupService) CleanupOldNotifications(ctx context.Context, retention time.Duration) (int64, error) {
	start := time.Now()

	deleted, err := c.repo.DeleteOlderThan(ctx, c.now().Add(-retention))
	if err != nil {
		log.Printf("notification_cleanup_error error=%q", err)
		return 0, err
	}

	log.Printf("notification_cleanup deleted=%d duration=%s", deleted, time.Since(start))
	return deleted, nil
}

// ScheduleCleanup runs the cleanup on every tick until ctx is done or the
// returned channel is closed.
func (c *CleanupService) ScheduleCleanup(ctx context.Context, config CleanupConfig) chan struct{} {
	stopCh := make(chan struct{})

	go func() {
		ticker := time.NewTicker(config.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				_, _ = c.CleanupOldNotifications(ctx, config.Retention)
			case <-stopCh:
				log.Println("notification cleanup stopped")
				return
			case <-ctx.Done():
				log.Println("notification cleanup stopped (context done)")
				return
			}
		}
	}()

	log.Printf("notification cleanup scheduled interval=%s retention=%s", config.Interval, config.Retention)
	return stopCh
}
