package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"sitebuilder/internal/domains"
	"sitebuilder/internal/storage"
)

// ViewCounter keeps one page-view counter per website per UTC day.
//
// In read-modify-write mode two views of the same website on the same day
// can race: both read the same count (or both find no bucket) and one
// increment is lost. Atomic mode uses the store's upsert instead.
type ViewCounter struct {
	analytics AnalyticsProvider
	sink      ViewSink
	atomic    bool
	now       func() time.Time
}

// NewViewCounter builds a counter. sink may be nil.
func NewViewCounter(analytics AnalyticsProvider, atomic bool, sink ViewSink) *ViewCounter {
	return &ViewCounter{
		analytics: analytics,
		sink:      sink,
		atomic:    atomic,
		now:       time.Now,
	}
}

// RecordView counts one view. It never fails the caller; errors are logged.
func (c *ViewCounter) RecordView(ctx context.Context, websiteID string) {
	c.RecordPageView(ctx, domains.PageView{WebsiteID: websiteID})
}

// RecordPageView counts the view and mirrors it to the sink, if any.
func (c *ViewCounter) RecordPageView(ctx context.Context, view domains.PageView) {
	if view.Timestamp.IsZero() {
		view.Timestamp = c.now()
	}
	day := domains.Day(view.Timestamp)

	if c.atomic {
		c.increment(ctx, view.WebsiteID, day)
	} else {
		c.readModifyWrite(ctx, view.WebsiteID, day)
	}

	if c.sink != nil {
		if err := c.sink.RecordPageView(ctx, view); err != nil {
			slog.Warn("mirror page view failed", "err", err, "website_id", view.WebsiteID)
		}
	}
}

func (c *ViewCounter) increment(ctx context.Context, websiteID string, day time.Time) {
	if _, err := c.analytics.IncrementPageViews(ctx, websiteID, day); err != nil {
		slog.Error("record view failed", "err", err, "website_id", websiteID, "mode", "atomic")
	}
}

func (c *ViewCounter) readModifyWrite(ctx context.Context, websiteID string, day time.Time) {
	record, err := c.analytics.GetAnalytics(ctx, websiteID, day)
	switch {
	case err == nil:
		if err := c.analytics.UpdatePageViews(ctx, record.ID, record.PageViews+1); err != nil {
			slog.Error("record view failed", "err", err, "website_id", websiteID, "mode", "read-modify-write")
		}
	case errors.Is(err, storage.ErrNotFound):
		if _, err := c.analytics.CreateAnalytics(ctx, websiteID, day, 1); err != nil {
			if errors.Is(err, storage.ErrConflict) {
				slog.Warn("view lost to concurrent bucket creation", "website_id", websiteID, "day", day.Format(domains.DayLayout))
				return
			}
			slog.Error("record view failed", "err", err, "website_id", websiteID, "mode", "read-modify-write")
		}
	default:
		slog.Error("record view failed", "err", err, "website_id", websiteID, "mode", "read-modify-write")
	}
}

// Mode reports the counting strategy, for startup logs.
func (c *ViewCounter) Mode() string {
	if c.atomic {
		return "atomic"
	}
	return "read-modify-write"
}
