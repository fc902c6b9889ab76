// Package events mirrors raw page-view events into ClickHouse. The day-bucket
// counters in the record store stay authoritative; this sink is best effort.
package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sitebuilder/internal/domains"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/google/uuid"
)

type Options struct {
	Addr     string
	Database string
	Username string
	Password string
}

type ClickHouseSink struct {
	conn driver.Conn
}

func NewClickHouseSink(ctx context.Context, opts Options) (*ClickHouseSink, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{opts.Addr},
		Auth: clickhouse.Auth{
			Database: opts.Database,
			Username: opts.Username,
			Password: opts.Password,
		},
		ClientInfo: clickhouse.ClientInfo{
			Products: []struct {
				Name    string
				Version string
			}{{Name: "sitebuilder", Version: "1.0.0"}},
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
		DialTimeout: 5 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("open clickhouse: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := conn.Ping(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping clickhouse: %w", err)
	}

	sink := &ClickHouseSink{conn: conn}
	if err := sink.ensureTable(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	slog.Info("connected to clickhouse", "addr", opts.Addr, "database", opts.Database)
	return sink, nil
}

func (s *ClickHouseSink) ensureTable(ctx context.Context) error {
	err := s.conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS page_views (
			event_id   UUID,
			website_id String,
			slug       String,
			referrer   String,
			user_agent String,
			timestamp  DateTime64(3, 'UTC')
		) ENGINE = MergeTree
		ORDER BY (website_id, timestamp)`)
	if err != nil {
		return fmt.Errorf("create page_views table: %w", err)
	}
	return nil
}

func (s *ClickHouseSink) RecordPageView(ctx context.Context, view domains.PageView) error {
	return s.RecordPageViews(ctx, []domains.PageView{view})
}

// RecordPageViews sends views as one batch. Events without a valid id get one.
func (s *ClickHouseSink) RecordPageViews(ctx context.Context, views []domains.PageView) error {
	if len(views) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO page_views (event_id, website_id, slug, referrer, user_agent, timestamp)`)
	if err != nil {
		return fmt.Errorf("prepare page view batch: %w", err)
	}

	for _, v := range normalize(views) {
		if err := batch.Append(uuid.MustParse(v.EventID), v.WebsiteID, v.Slug, v.Referrer, v.UserAgent, v.Timestamp); err != nil {
			batch.Abort()
			return fmt.Errorf("append page view %s: %w", v.EventID, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send page view batch: %w", err)
	}
	return nil
}

// ViewsPerDay counts raw events per UTC day for one website.
func (s *ClickHouseSink) ViewsPerDay(ctx context.Context, websiteID string, from, to time.Time) ([]domains.DailyView, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT toString(toDate(timestamp)) AS day, count() AS views
		FROM page_views
		WHERE website_id = ? AND timestamp >= ? AND timestamp < ?
		GROUP BY day
		ORDER BY day`, websiteID, domains.Day(from), domains.Day(to).AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("query views per day: %w", err)
	}
	defer rows.Close()

	views := []domains.DailyView{}
	for rows.Next() {
		var day string
		var count uint64
		if err := rows.Scan(&day, &count); err != nil {
			return nil, fmt.Errorf("scan views per day: %w", err)
		}
		views = append(views, domains.DailyView{Date: day, Views: int64(count)})
	}
	return views, rows.Err()
}

func (s *ClickHouseSink) Close() error {
	return s.conn.Close()
}

func normalize(views []domains.PageView) []domains.PageView {
	out := make([]domains.PageView, len(views))
	for i, v := range views {
		if _, err := uuid.Parse(v.EventID); err != nil {
			v.EventID = uuid.NewString()
		}
		if v.Timestamp.IsZero() {
			v.Timestamp = time.Now()
		}
		v.Timestamp = v.Timestamp.UTC()
		out[i] = v
	}
	return out
}
