// Package lite is the embedded SQLite record store. It implements the same
// provider methods as the postgres providers and is meant for single-node
// deployments and local development.
package lite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sitebuilder/internal/domains"
	"sitebuilder/internal/storage"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const timeLayout = time.RFC3339Nano

// Store wraps a SQLite database holding websites, form submissions,
// templates and analytics buckets.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore opens (or creates) the SQLite database at path and ensures the
// schema exists.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	dsn := "file:" + path +
		"?_pragma=foreign_keys(1)" +
		"&_pragma=journal_mode(WAL)" +
		"&_pragma=busy_timeout(5000)" +
		"&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)

	s := &Store{db: db, now: time.Now}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS websites (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    slug TEXT NOT NULL UNIQUE,
    category TEXT NOT NULL,
    website_data TEXT NOT NULL DEFAULT '{}',
    is_published INTEGER NOT NULL DEFAULT 0,
    published_url TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    CHECK ((is_published = 1 AND published_url IS NOT NULL) OR (is_published = 0 AND published_url IS NULL))
);

CREATE TABLE IF NOT EXISTS form_submissions (
    id TEXT PRIMARY KEY,
    website_id TEXT NOT NULL REFERENCES websites(id),
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    phone TEXT NOT NULL DEFAULT '',
    message TEXT NOT NULL,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_form_submissions_website ON form_submissions(website_id);

CREATE TABLE IF NOT EXISTS templates (
    id TEXT PRIMARY KEY,
    category TEXT NOT NULL,
    name TEXT NOT NULL,
    description TEXT,
    preset TEXT,
    is_active INTEGER NOT NULL DEFAULT 1,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_templates_category ON templates(category);

CREATE TABLE IF NOT EXISTS website_analytics (
    id TEXT PRIMARY KEY,
    website_id TEXT NOT NULL REFERENCES websites(id),
    date TEXT NOT NULL,
    page_views INTEGER NOT NULL DEFAULT 0 CHECK (page_views >= 0),
    UNIQUE (website_id, date)
);
`)
	return err
}

const websiteColumns = `id, name, slug, category, website_data, is_published, published_url, created_at, updated_at`

func (s *Store) CreateWebsite(ctx context.Context, website domains.WebsiteToSave) (domains.Website, error) {
	now := s.now().UTC().Format(timeLayout)
	data := string(website.WebsiteData)
	if data == "" {
		data = "{}"
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO websites (id, name, slug, category, website_data, is_published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?)
		RETURNING `+websiteColumns,
		uuid.NewString(), website.Name, website.Slug, website.Category, data, now, now)
	created, err := scanWebsite(row)
	if err != nil {
		if constraintCode(err) == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return domains.Website{}, storage.NewWriteError("create website", fmt.Errorf("%w: %q", storage.ErrSlugTaken, website.Slug))
		}
		return domains.Website{}, storage.NewWriteError("create website", err)
	}
	return created, nil
}

func (s *Store) GetWebsiteByID(ctx context.Context, id string) (domains.Website, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+websiteColumns+` FROM websites WHERE id = ?`, id)
	website, err := scanWebsite(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domains.Website{}, storage.ErrNotFound
		}
		return domains.Website{}, fmt.Errorf("get website: %w", err)
	}
	return website, nil
}

// GetWebsiteBySlug resolves only published websites; drafts look absent.
func (s *Store) GetWebsiteBySlug(ctx context.Context, slug string) (domains.Website, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+websiteColumns+` FROM websites WHERE slug = ? AND is_published = 1`, slug)
	website, err := scanWebsite(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domains.Website{}, storage.ErrNotFound
		}
		return domains.Website{}, fmt.Errorf("get website by slug: %w", err)
	}
	return website, nil
}

// UpdateWebsite merges the non-nil fields of update in a single statement.
// is_published only ever moves to true and published_url is written once.
func (s *Store) UpdateWebsite(ctx context.Context, id string, update domains.WebsiteUpdate) (domains.Website, error) {
	var data any
	if len(update.WebsiteData) > 0 {
		data = string(update.WebsiteData)
	}
	var publish any
	if update.IsPublished != nil {
		publish = boolInt(*update.IsPublished)
	}
	row := s.db.QueryRowContext(ctx, `
		UPDATE websites SET
			name = COALESCE(?, name),
			category = COALESCE(?, category),
			website_data = COALESCE(?, website_data),
			is_published = MAX(is_published, COALESCE(?, 0)),
			published_url = COALESCE(published_url, ?),
			updated_at = ?
		WHERE id = ?
		RETURNING `+websiteColumns,
		update.Name, update.Category, data, publish, update.PublishedURL,
		s.now().UTC().Format(timeLayout), id)
	updated, err := scanWebsite(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domains.Website{}, storage.ErrNotFound
		}
		return domains.Website{}, storage.NewWriteError("update website", err)
	}
	return updated, nil
}

func (s *Store) GetTemplatesByCategory(ctx context.Context, category string) ([]domains.Template, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category, name, description, preset, is_active, created_at
		FROM templates
		WHERE category = ? AND is_active = 1
		ORDER BY name`, category)
	if err != nil {
		return nil, fmt.Errorf("get templates: %w", err)
	}
	defer rows.Close()

	templates := []domains.Template{}
	for rows.Next() {
		var t domains.Template
		var description, preset sql.NullString
		var createdAt string
		if err := rows.Scan(&t.ID, &t.Category, &t.Name, &description, &preset, &t.IsActive, &createdAt); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		if description.Valid {
			t.Description = &description.String
		}
		if preset.Valid {
			t.Preset = json.RawMessage(preset.String)
		}
		t.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// SaveTemplate upserts a catalog template. The catalog is owned elsewhere;
// this exists for seeding and tests.
func (s *Store) SaveTemplate(ctx context.Context, t domains.Template) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	var preset any
	if len(t.Preset) > 0 {
		preset = string(t.Preset)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO templates (id, category, name, description, preset, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Category, t.Name, t.Description, preset, boolInt(t.IsActive), s.now().UTC().Format(timeLayout))
	if err != nil {
		return storage.NewWriteError("save template", err)
	}
	return nil
}

// SaveFormSubmission stores the form as given. Validation happens upstream.
func (s *Store) SaveFormSubmission(ctx context.Context, websiteID string, form domains.FormData) (domains.FormSubmission, error) {
	sub := domains.FormSubmission{
		ID:        uuid.NewString(),
		WebsiteID: websiteID,
		Name:      form.Name,
		Email:     form.Email,
		Phone:     form.Phone,
		Message:   form.Message,
		CreatedAt: s.now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO form_submissions (id, website_id, name, email, phone, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.WebsiteID, sub.Name, sub.Email, sub.Phone, sub.Message, sub.CreatedAt.Format(timeLayout))
	if err != nil {
		if constraintCode(err) == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY {
			return domains.FormSubmission{}, fmt.Errorf("save form submission: %w", storage.ErrNotFound)
		}
		return domains.FormSubmission{}, storage.NewWriteError("save form submission", err)
	}
	return sub, nil
}

func (s *Store) CountFormSubmissions(ctx context.Context, websiteID string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM form_submissions WHERE website_id = ?`, websiteID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count form submissions: %w", err)
	}
	return count, nil
}

func (s *Store) GetAnalytics(ctx context.Context, websiteID string, day time.Time) (domains.AnalyticsRecord, error) {
	var rec domains.AnalyticsRecord
	var date string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, website_id, date, page_views FROM website_analytics
		WHERE website_id = ? AND date = ?`, websiteID, dayKey(day)).
		Scan(&rec.ID, &rec.WebsiteID, &date, &rec.PageViews)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domains.AnalyticsRecord{}, storage.ErrNotFound
		}
		return domains.AnalyticsRecord{}, fmt.Errorf("get analytics: %w", err)
	}
	rec.Date, _ = time.Parse(domains.DayLayout, date)
	return rec, nil
}

// CreateAnalytics inserts the day bucket. A concurrent insert for the same
// (website, day) fails with ErrConflict.
func (s *Store) CreateAnalytics(ctx context.Context, websiteID string, day time.Time, views int64) (domains.AnalyticsRecord, error) {
	rec := domains.AnalyticsRecord{
		ID:        uuid.NewString(),
		WebsiteID: websiteID,
		Date:      domains.Day(day),
		PageViews: views,
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO website_analytics (id, website_id, date, page_views) VALUES (?, ?, ?, ?)`,
		rec.ID, rec.WebsiteID, dayKey(day), rec.PageViews)
	if err != nil {
		switch constraintCode(err) {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return domains.AnalyticsRecord{}, storage.NewWriteError("create analytics", storage.ErrConflict)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return domains.AnalyticsRecord{}, storage.NewWriteError("create analytics", storage.ErrNotFound)
		}
		return domains.AnalyticsRecord{}, storage.NewWriteError("create analytics", err)
	}
	return rec, nil
}

func (s *Store) UpdatePageViews(ctx context.Context, id string, views int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE website_analytics SET page_views = ? WHERE id = ?`, views, id)
	if err != nil {
		return storage.NewWriteError("update page views", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// IncrementPageViews bumps the day bucket in one upsert, creating it at 1.
func (s *Store) IncrementPageViews(ctx context.Context, websiteID string, day time.Time) (int64, error) {
	var views int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO website_analytics (id, website_id, date, page_views) VALUES (?, ?, ?, 1)
		ON CONFLICT (website_id, date) DO UPDATE SET page_views = page_views + 1
		RETURNING page_views`,
		uuid.NewString(), websiteID, dayKey(day)).Scan(&views)
	if err != nil {
		if constraintCode(err) == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY {
			return 0, storage.NewWriteError("increment page views", storage.ErrNotFound)
		}
		return 0, storage.NewWriteError("increment page views", err)
	}
	return views, nil
}

func (s *Store) DailyViews(ctx context.Context, websiteID string, from, to time.Time) ([]domains.DailyView, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, page_views FROM website_analytics
		WHERE website_id = ? AND date BETWEEN ? AND ?
		ORDER BY date`, websiteID, dayKey(from), dayKey(to))
	if err != nil {
		return nil, fmt.Errorf("daily views: %w", err)
	}
	defer rows.Close()

	views := []domains.DailyView{}
	for rows.Next() {
		var v domains.DailyView
		if err := rows.Scan(&v.Date, &v.Views); err != nil {
			return nil, fmt.Errorf("scan daily view: %w", err)
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

func (s *Store) TotalViews(ctx context.Context, websiteID string) (int64, error) {
	var total int64
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(page_views), 0) FROM website_analytics WHERE website_id = ?`, websiteID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total views: %w", err)
	}
	return total, nil
}

// DeleteAnalyticsBefore drops day buckets strictly older than cutoff's day.
func (s *Store) DeleteAnalyticsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM website_analytics WHERE date < ?`, dayKey(cutoff))
	if err != nil {
		return 0, storage.NewWriteError("delete analytics", err)
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWebsite(row rowScanner) (domains.Website, error) {
	var w domains.Website
	var data string
	var publishedURL sql.NullString
	var createdAt, updatedAt string
	if err := row.Scan(&w.ID, &w.Name, &w.Slug, &w.Category, &data, &w.IsPublished, &publishedURL, &createdAt, &updatedAt); err != nil {
		return domains.Website{}, err
	}
	w.WebsiteData = json.RawMessage(data)
	if publishedURL.Valid {
		w.PublishedURL = &publishedURL.String
	}
	w.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	w.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
	return w, nil
}

func constraintCode(err error) int {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code()
	}
	return 0
}

func dayKey(t time.Time) string {
	return domains.Day(t).Format(domains.DayLayout)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
