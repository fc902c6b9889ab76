package domains

import "time"

// DayLayout is the calendar-day key used for analytics buckets. Days are UTC.
const DayLayout = "2006-01-02"

type AnalyticsRecord struct {
	ID        string    `db:"id" json:"id"`
	WebsiteID string    `db:"website_id" json:"website_id"`
	Date      time.Time `db:"date" json:"date"`
	PageViews int64     `db:"page_views" json:"page_views"`
}

type DailyView struct {
	Date  string `json:"date"`
	Views int64  `json:"views"`
}

// PageView is a single raw view event, mirrored to the event sink.
type PageView struct {
	EventID   string    `json:"event_id"`
	WebsiteID string    `json:"website_id"`
	Slug      string    `json:"slug"`
	Referrer  string    `json:"referrer"`
	UserAgent string    `json:"user_agent"`
	Timestamp time.Time `json:"timestamp"`
}

// Day truncates t to its UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
