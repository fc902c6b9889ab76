package scheduler

import (
	"context"
	"log/slog"
	"time"
)

type AnalyticsRetentionProvider interface {
	DeleteAnalyticsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// RetentionScheduler periodically drops analytics day buckets older than the
// retention window.
type RetentionScheduler struct {
	provider  AnalyticsRetentionProvider
	retention time.Duration
	interval  time.Duration
	now       func() time.Time
}

func NewRetentionScheduler(provider AnalyticsRetentionProvider, retentionDays int, interval time.Duration) *RetentionScheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &RetentionScheduler{
		provider:  provider,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		interval:  interval,
		now:       time.Now,
	}
}

func (s *RetentionScheduler) Start(ctx context.Context) {
	if s.provider == nil {
		slog.Warn("analytics retention skipped: no provider configured")
		return
	}
	if s.retention <= 0 {
		slog.Info("analytics retention disabled")
		return
	}
	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		s.run(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.run(ctx)
			}
		}
	}()
}

func (s *RetentionScheduler) run(ctx context.Context) {
	cutoff := s.now().UTC().Add(-s.retention)
	deleted, err := s.provider.DeleteAnalyticsBefore(ctx, cutoff)
	if err != nil {
		slog.Error("analytics retention failed", "err", err)
		return
	}
	if deleted > 0 {
		slog.Info("analytics buckets removed", "count", deleted, "cutoff", cutoff.Format("2006-01-02"))
	}
}
