package domains

import (
	"encoding/json"
	"time"
)

type Website struct {
	ID           string          `db:"id" json:"id"`
	Name         string          `db:"name" json:"name"`
	Slug         string          `db:"slug" json:"slug"`
	Category     string          `db:"category" json:"category"`
	WebsiteData  json.RawMessage `db:"website_data" json:"website_data"`
	IsPublished  bool            `db:"is_published" json:"is_published"`
	PublishedURL *string         `db:"published_url" json:"published_url"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// WebsiteCreate is the editor payload for a first save. Name and category are
// optional overrides; otherwise they are read from the document itself.
type WebsiteCreate struct {
	Name        string          `json:"name,omitempty"`
	Category    string          `json:"category,omitempty"`
	WebsiteData json.RawMessage `json:"website_data"`
}

type WebsiteToSave struct {
	Name        string
	Slug        string
	Category    string
	WebsiteData json.RawMessage
}

// WebsiteUpdate carries a partial update. Nil fields are left untouched.
type WebsiteUpdate struct {
	Name         *string         `json:"name,omitempty"`
	Category     *string         `json:"category,omitempty"`
	WebsiteData  json.RawMessage `json:"website_data,omitempty"`
	IsPublished  *bool           `json:"-"`
	PublishedURL *string         `json:"-"`
}

type WebsiteStats struct {
	WebsiteID   string      `json:"website_id"`
	TotalViews  int64       `json:"total_views"`
	ViewsToday  int64       `json:"views_today"`
	Submissions int64       `json:"submissions"`
	DailyViews  []DailyView `json:"daily_views"`
}
