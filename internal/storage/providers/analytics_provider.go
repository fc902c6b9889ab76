package providers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sitebuilder/internal/domains"
	"sitebuilder/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const analyticsColumns = `id::text AS id, website_id::text AS website_id, date, page_views`

type AnalyticsProvider struct {
	db *pgxpool.Pool
}

func NewAnalyticsProvider(db *pgxpool.Pool) *AnalyticsProvider {
	return &AnalyticsProvider{
		db: db,
	}
}

func (p *AnalyticsProvider) GetAnalytics(ctx context.Context, websiteID string, day time.Time) (domains.AnalyticsRecord, error) {
	if !validID(websiteID) {
		return domains.AnalyticsRecord{}, storage.ErrNotFound
	}
	rows, err := p.db.Query(ctx, `
          SELECT `+analyticsColumns+`
          FROM website_analytics
          WHERE website_id = $1 AND date = $2`, websiteID, domains.Day(day))
	if err != nil {
		return domains.AnalyticsRecord{}, fmt.Errorf("get analytics: %w", err)
	}
	record, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domains.AnalyticsRecord])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domains.AnalyticsRecord{}, storage.ErrNotFound
		}
		return domains.AnalyticsRecord{}, fmt.Errorf("get analytics: %w", err)
	}
	return record, nil
}

// CreateAnalytics inserts the day bucket. A concurrent insert for the same
// (website, day) fails with ErrConflict.
func (p *AnalyticsProvider) CreateAnalytics(ctx context.Context, websiteID string, day time.Time, views int64) (domains.AnalyticsRecord, error) {
	rows, err := p.db.Query(ctx, `
          INSERT INTO website_analytics (id, website_id, date, page_views)
          VALUES ($1, $2, $3, $4)
          RETURNING `+analyticsColumns,
		uuid.NewString(), websiteID, domains.Day(day), views)
	if err != nil {
		return domains.AnalyticsRecord{}, storage.NewWriteError("create analytics", err)
	}
	record, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domains.AnalyticsRecord])
	if err != nil {
		switch code, _ := pgErrorCode(err); code {
		case pgUniqueViolation:
			return domains.AnalyticsRecord{}, storage.NewWriteError("create analytics", storage.ErrConflict)
		case pgForeignKeyViolation:
			return domains.AnalyticsRecord{}, storage.NewWriteError("create analytics", storage.ErrNotFound)
		}
		return domains.AnalyticsRecord{}, storage.NewWriteError("create analytics", err)
	}
	return record, nil
}

func (p *AnalyticsProvider) UpdatePageViews(ctx context.Context, id string, views int64) error {
	tag, err := p.db.Exec(ctx, `UPDATE website_analytics SET page_views = $2 WHERE id = $1`, id, views)
	if err != nil {
		return storage.NewWriteError("update page views", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// IncrementPageViews bumps the day bucket in one upsert, creating it at 1.
func (p *AnalyticsProvider) IncrementPageViews(ctx context.Context, websiteID string, day time.Time) (int64, error) {
	var views int64
	err := p.db.QueryRow(ctx, `
          INSERT INTO website_analytics (id, website_id, date, page_views)
          VALUES ($1, $2, $3, 1)
          ON CONFLICT (website_id, date)
          DO UPDATE SET page_views = website_analytics.page_views + 1
          RETURNING page_views`,
		uuid.NewString(), websiteID, domains.Day(day),
	).Scan(&views)
	if err != nil {
		if code, _ := pgErrorCode(err); code == pgForeignKeyViolation {
			return 0, storage.NewWriteError("increment page views", storage.ErrNotFound)
		}
		return 0, storage.NewWriteError("increment page views", err)
	}
	return views, nil
}

func (p *AnalyticsProvider) DailyViews(ctx context.Context, websiteID string, from, to time.Time) ([]domains.DailyView, error) {
	if !validID(websiteID) {
		return []domains.DailyView{}, nil
	}
	rows, err := p.db.Query(ctx, `
          SELECT to_char(date, 'YYYY-MM-DD') AS date, page_views AS views
          FROM website_analytics
          WHERE website_id = $1 AND date BETWEEN $2 AND $3
          ORDER BY date`, websiteID, domains.Day(from), domains.Day(to))
	if err != nil {
		return nil, fmt.Errorf("daily views: %w", err)
	}
	views, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domains.DailyView])
	if err != nil {
		return nil, fmt.Errorf("daily views: %w", err)
	}
	if views == nil {
		views = []domains.DailyView{}
	}
	return views, nil
}

func (p *AnalyticsProvider) TotalViews(ctx context.Context, websiteID string) (int64, error) {
	if !validID(websiteID) {
		return 0, nil
	}
	var total int64
	if err := p.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(page_views), 0)::bigint FROM website_analytics WHERE website_id = $1`, websiteID,
	).Scan(&total); err != nil {
		return 0, fmt.Errorf("total views: %w", err)
	}
	return total, nil
}

// DeleteAnalyticsBefore drops day buckets strictly older than cutoff's day.
func (p *AnalyticsProvider) DeleteAnalyticsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := p.db.Exec(ctx, `DELETE FROM website_analytics WHERE date < $1`, domains.Day(cutoff))
	if err != nil {
		return 0, storage.NewWriteError("delete analytics", err)
	}
	return tag.RowsAffected(), nil
}
