package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sitebuilder/internal/domains"
	"sitebuilder/internal/slug"
	"sitebuilder/internal/storage"

	"github.com/google/uuid"
)

const (
	defaultWebsiteName     = "My Website"
	defaultWebsiteCategory = "general"
	slugAttempts           = 3
	defaultStatsDays       = 30
	maxStatsDays           = 365
)

type WebsiteService struct {
	websites    WebsiteProvider
	analytics   AnalyticsProvider
	submissions SubmissionProvider
	history     ViewHistory
	randHex     func(n int) string
	now         func() time.Time
}

func NewWebsiteService(websites WebsiteProvider, analytics AnalyticsProvider, submissions SubmissionProvider) *WebsiteService {
	return &WebsiteService{
		websites:    websites,
		analytics:   analytics,
		submissions: submissions,
		randHex:     randomHex,
		now:         time.Now,
	}
}

// WithViewHistory serves the daily breakdown of stats from the raw event log.
// The day counters are used when it fails.
func (s *WebsiteService) WithViewHistory(history ViewHistory) *WebsiteService {
	s.history = history
	return s
}

// CreateWebsite saves a new draft. Name and category come from the payload
// when given, else from the document's own "name" and "category" keys.
func (s *WebsiteService) CreateWebsite(ctx context.Context, payload domains.WebsiteCreate) (domains.Website, error) {
	doc, err := normalizeDocument(payload.WebsiteData)
	if err != nil {
		return domains.Website{}, err
	}

	var meta struct {
		Name     string `json:"name"`
		Category string `json:"category"`
	}
	_ = json.Unmarshal(doc, &meta)

	name := firstNonEmpty(payload.Name, meta.Name, defaultWebsiteName)
	category := firstNonEmpty(payload.Category, meta.Category, defaultWebsiteCategory)

	base := slug.Generate(name)
	if base == "" {
		base = "site-" + s.randHex(8)
	}

	candidate := base
	for attempt := 0; ; attempt++ {
		created, err := s.websites.CreateWebsite(ctx, domains.WebsiteToSave{
			Name:        name,
			Slug:        candidate,
			Category:    category,
			WebsiteData: doc,
		})
		if err == nil {
			slog.Info("website draft created", "website_id", created.ID, "slug", created.Slug)
			return created, nil
		}
		if !errors.Is(err, storage.ErrSlugTaken) || attempt == slugAttempts {
			slog.Error("create website failed", "err", err, "slug", candidate, "attempt", attempt)
			return domains.Website{}, err
		}
		candidate = base + "-" + s.randHex(6)
	}
}

// UpdateWebsite applies editor changes. Publication fields are owned by the
// publication flow and are dropped here.
func (s *WebsiteService) UpdateWebsite(ctx context.Context, id string, update domains.WebsiteUpdate) (domains.Website, error) {
	update.IsPublished = nil
	update.PublishedURL = nil

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return domains.Website{}, invalid("name", "must not be empty")
		}
		update.Name = &name
	}
	if update.Category != nil {
		category := strings.TrimSpace(*update.Category)
		if category == "" {
			return domains.Website{}, invalid("category", "must not be empty")
		}
		update.Category = &category
	}
	// An explicit null leaves the stored document as it is.
	if trimmed := bytes.TrimSpace(update.WebsiteData); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		update.WebsiteData = nil
	} else {
		doc, err := normalizeDocument(update.WebsiteData)
		if err != nil {
			return domains.Website{}, err
		}
		update.WebsiteData = doc
	}

	updated, err := s.websites.UpdateWebsite(ctx, id, update)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Error("update website failed", "err", err, "website_id", id)
		}
		return domains.Website{}, err
	}
	return updated, nil
}

func (s *WebsiteService) GetWebsite(ctx context.Context, id string) (domains.Website, error) {
	return s.websites.GetWebsiteByID(ctx, id)
}

// GetPublishedWebsite resolves the public read path. Drafts are not found.
func (s *WebsiteService) GetPublishedWebsite(ctx context.Context, slug string) (domains.Website, error) {
	return s.websites.GetWebsiteBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
}

// GetWebsiteStats summarizes views and leads for the last days calendar days,
// today included.
func (s *WebsiteService) GetWebsiteStats(ctx context.Context, id string, days int) (domains.WebsiteStats, error) {
	if days <= 0 {
		days = defaultStatsDays
	}
	if days > maxStatsDays {
		days = maxStatsDays
	}

	if _, err := s.websites.GetWebsiteByID(ctx, id); err != nil {
		return domains.WebsiteStats{}, err
	}

	today := domains.Day(s.now())
	stats := domains.WebsiteStats{WebsiteID: id}

	total, err := s.analytics.TotalViews(ctx, id)
	if err != nil {
		return domains.WebsiteStats{}, fmt.Errorf("total views: %w", err)
	}
	stats.TotalViews = total

	record, err := s.analytics.GetAnalytics(ctx, id, today)
	switch {
	case err == nil:
		stats.ViewsToday = record.PageViews
	case !errors.Is(err, storage.ErrNotFound):
		return domains.WebsiteStats{}, fmt.Errorf("today's views: %w", err)
	}

	daily, err := s.dailyViews(ctx, id, today.AddDate(0, 0, -(days-1)), today)
	if err != nil {
		return domains.WebsiteStats{}, fmt.Errorf("daily views: %w", err)
	}
	stats.DailyViews = daily

	submissions, err := s.submissions.CountFormSubmissions(ctx, id)
	if err != nil {
		return domains.WebsiteStats{}, fmt.Errorf("count submissions: %w", err)
	}
	stats.Submissions = submissions

	return stats, nil
}

func (s *WebsiteService) dailyViews(ctx context.Context, id string, from, to time.Time) ([]domains.DailyView, error) {
	if s.history != nil {
		daily, err := s.history.ViewsPerDay(ctx, id, from, to)
		if err == nil {
			return daily, nil
		}
		slog.Warn("view history unavailable, using day counters", "err", err, "website_id", id)
	}
	return s.analytics.DailyViews(ctx, id, from, to)
}

// normalizeDocument accepts a JSON object (or nothing) and returns it compacted.
func normalizeDocument(doc json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(doc)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return json.RawMessage(`{}`), nil
	}
	if trimmed[0] != '{' || !json.Valid(trimmed) {
		return nil, invalid("website_data", "must be a JSON object")
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return nil, invalid("website_data", "must be a JSON object")
	}
	return json.RawMessage(buf.Bytes()), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func randomHex(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}
