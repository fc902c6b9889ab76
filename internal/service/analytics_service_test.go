package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"sitebuilder/internal/domains"
	"sitebuilder/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var fixedNow = time.Date(2024, 7, 10, 23, 59, 0, 0, time.UTC)

func newCounter(atomic bool, sink ViewSink) (*ViewCounter, *mockAnalytics) {
	analytics := new(mockAnalytics)
	c := NewViewCounter(analytics, atomic, sink)
	c.now = func() time.Time { return fixedNow }
	return c, analytics
}

func TestRecordViewCreatesBucket(t *testing.T) {
	c, analytics := newCounter(false, nil)
	day := domains.Day(fixedNow)
	analytics.On("GetAnalytics", mock.Anything, "w1", day).Return(domains.AnalyticsRecord{}, storage.ErrNotFound)
	analytics.On("CreateAnalytics", mock.Anything, "w1", day, int64(1)).Return(domains.AnalyticsRecord{ID: "a1", PageViews: 1}, nil)

	c.RecordView(context.Background(), "w1")
	analytics.AssertExpectations(t)
}

func TestRecordViewIncrementsBucket(t *testing.T) {
	c, analytics := newCounter(false, nil)
	day := domains.Day(fixedNow)
	analytics.On("GetAnalytics", mock.Anything, "w1", day).Return(domains.AnalyticsRecord{ID: "a1", PageViews: 41}, nil)
	analytics.On("UpdatePageViews", mock.Anything, "a1", int64(42)).Return(nil)

	c.RecordView(context.Background(), "w1")
	analytics.AssertExpectations(t)
	analytics.AssertNotCalled(t, "CreateAnalytics", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordViewSwallowsStoreErrors(t *testing.T) {
	c, analytics := newCounter(false, nil)
	analytics.On("GetAnalytics", mock.Anything, "w1", mock.Anything).Return(domains.AnalyticsRecord{}, errors.New("db down"))

	assert.NotPanics(t, func() { c.RecordView(context.Background(), "w1") })
	analytics.AssertNotCalled(t, "UpdatePageViews", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordViewLostCreateRace(t *testing.T) {
	c, analytics := newCounter(false, nil)
	analytics.On("GetAnalytics", mock.Anything, "w1", mock.Anything).Return(domains.AnalyticsRecord{}, storage.ErrNotFound)
	analytics.On("CreateAnalytics", mock.Anything, "w1", mock.Anything, int64(1)).
		Return(domains.AnalyticsRecord{}, storage.NewWriteError("create analytics", storage.ErrConflict))

	assert.NotPanics(t, func() { c.RecordView(context.Background(), "w1") })
}

func TestRecordViewAtomic(t *testing.T) {
	c, analytics := newCounter(true, nil)
	analytics.On("IncrementPageViews", mock.Anything, "w1", domains.Day(fixedNow)).Return(int64(7), nil)

	c.RecordView(context.Background(), "w1")
	analytics.AssertExpectations(t)
	analytics.AssertNotCalled(t, "GetAnalytics", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, "atomic", c.Mode())
}

func TestRecordPageViewMirrorsToSink(t *testing.T) {
	sink := new(mockSink)
	c, analytics := newCounter(true, sink)
	analytics.On("IncrementPageViews", mock.Anything, "w1", mock.Anything).Return(int64(1), nil)
	sink.On("RecordPageView", mock.Anything, mock.MatchedBy(func(v domains.PageView) bool {
		return v.WebsiteID == "w1" && v.Slug == "joes-cafe" && v.Timestamp.Equal(fixedNow)
	})).Return(errors.New("clickhouse unavailable"))

	assert.NotPanics(t, func() {
		c.RecordPageView(context.Background(), domains.PageView{WebsiteID: "w1", Slug: "joes-cafe"})
	})
	sink.AssertExpectations(t)
}

func TestRecordViewUsesEventDay(t *testing.T) {
	c, analytics := newCounter(true, nil)
	yesterday := fixedNow.AddDate(0, 0, -1)
	analytics.On("IncrementPageViews", mock.Anything, "w1", domains.Day(yesterday)).Return(int64(1), nil)

	c.RecordPageView(context.Background(), domains.PageView{WebsiteID: "w1", Timestamp: yesterday})
	analytics.AssertExpectations(t)
}
