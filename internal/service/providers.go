package service

import (
	"context"
	"time"

	"sitebuilder/internal/domains"
)

type WebsiteProvider interface {
	CreateWebsite(ctx context.Context, website domains.WebsiteToSave) (domains.Website, error)
	GetWebsiteByID(ctx context.Context, id string) (domains.Website, error)
	GetWebsiteBySlug(ctx context.Context, slug string) (domains.Website, error)
	UpdateWebsite(ctx context.Context, id string, update domains.WebsiteUpdate) (domains.Website, error)
}

type TemplateProvider interface {
	GetTemplatesByCategory(ctx context.Context, category string) ([]domains.Template, error)
}

type SubmissionProvider interface {
	SaveFormSubmission(ctx context.Context, websiteID string, form domains.FormData) (domains.FormSubmission, error)
	CountFormSubmissions(ctx context.Context, websiteID string) (int64, error)
}

type AnalyticsProvider interface {
	GetAnalytics(ctx context.Context, websiteID string, day time.Time) (domains.AnalyticsRecord, error)
	CreateAnalytics(ctx context.Context, websiteID string, day time.Time, views int64) (domains.AnalyticsRecord, error)
	UpdatePageViews(ctx context.Context, id string, views int64) error
	IncrementPageViews(ctx context.Context, websiteID string, day time.Time) (int64, error)
	DailyViews(ctx context.Context, websiteID string, from, to time.Time) ([]domains.DailyView, error)
	TotalViews(ctx context.Context, websiteID string) (int64, error)
}

type PaymentVerifier interface {
	VerifySession(ctx context.Context, sessionID string) (domains.PaymentStatus, error)
}

// ViewHistory answers per-day view counts from the raw event log.
type ViewHistory interface {
	ViewsPerDay(ctx context.Context, websiteID string, from, to time.Time) ([]domains.DailyView, error)
}

// ViewSink receives a copy of every recorded page view.
type ViewSink interface {
	RecordPageView(ctx context.Context, view domains.PageView) error
}
