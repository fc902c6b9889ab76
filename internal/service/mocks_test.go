package service

import (
	"context"
	"time"

	"sitebuilder/internal/domains"

	"github.com/stretchr/testify/mock"
)

type mockWebsites struct {
	mock.Mock
}

func (m *mockWebsites) CreateWebsite(ctx context.Context, website domains.WebsiteToSave) (domains.Website, error) {
	args := m.Called(ctx, website)
	return args.Get(0).(domains.Website), args.Error(1)
}

func (m *mockWebsites) GetWebsiteByID(ctx context.Context, id string) (domains.Website, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domains.Website), args.Error(1)
}

func (m *mockWebsites) GetWebsiteBySlug(ctx context.Context, slug string) (domains.Website, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(domains.Website), args.Error(1)
}

func (m *mockWebsites) UpdateWebsite(ctx context.Context, id string, update domains.WebsiteUpdate) (domains.Website, error) {
	args := m.Called(ctx, id, update)
	return args.Get(0).(domains.Website), args.Error(1)
}

type mockTemplates struct {
	mock.Mock
}

func (m *mockTemplates) GetTemplatesByCategory(ctx context.Context, category string) ([]domains.Template, error) {
	args := m.Called(ctx, category)
	templates, _ := args.Get(0).([]domains.Template)
	return templates, args.Error(1)
}

type mockSubmissions struct {
	mock.Mock
}

func (m *mockSubmissions) SaveFormSubmission(ctx context.Context, websiteID string, form domains.FormData) (domains.FormSubmission, error) {
	args := m.Called(ctx, websiteID, form)
	return args.Get(0).(domains.FormSubmission), args.Error(1)
}

func (m *mockSubmissions) CountFormSubmissions(ctx context.Context, websiteID string) (int64, error) {
	args := m.Called(ctx, websiteID)
	return args.Get(0).(int64), args.Error(1)
}

type mockAnalytics struct {
	mock.Mock
}

func (m *mockAnalytics) GetAnalytics(ctx context.Context, websiteID string, day time.Time) (domains.AnalyticsRecord, error) {
	args := m.Called(ctx, websiteID, day)
	return args.Get(0).(domains.AnalyticsRecord), args.Error(1)
}

func (m *mockAnalytics) CreateAnalytics(ctx context.Context, websiteID string, day time.Time, views int64) (domains.AnalyticsRecord, error) {
	args := m.Called(ctx, websiteID, day, views)
	return args.Get(0).(domains.AnalyticsRecord), args.Error(1)
}

func (m *mockAnalytics) UpdatePageViews(ctx context.Context, id string, views int64) error {
	return m.Called(ctx, id, views).Error(0)
}

func (m *mockAnalytics) IncrementPageViews(ctx context.Context, websiteID string, day time.Time) (int64, error) {
	args := m.Called(ctx, websiteID, day)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAnalytics) DailyViews(ctx context.Context, websiteID string, from, to time.Time) ([]domains.DailyView, error) {
	args := m.Called(ctx, websiteID, from, to)
	views, _ := args.Get(0).([]domains.DailyView)
	return views, args.Error(1)
}

func (m *mockAnalytics) TotalViews(ctx context.Context, websiteID string) (int64, error) {
	args := m.Called(ctx, websiteID)
	return args.Get(0).(int64), args.Error(1)
}

type mockPayments struct {
	mock.Mock
}

func (m *mockPayments) VerifySession(ctx context.Context, sessionID string) (domains.PaymentStatus, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(domains.PaymentStatus), args.Error(1)
}

type mockSink struct {
	mock.Mock
}

func (m *mockSink) RecordPageView(ctx context.Context, view domains.PageView) error {
	return m.Called(ctx, view).Error(0)
}

type mockHistory struct {
	mock.Mock
}

func (m *mockHistory) ViewsPerDay(ctx context.Context, websiteID string, from, to time.Time) ([]domains.DailyView, error) {
	args := m.Called(ctx, websiteID, from, to)
	return args.Get(0).([]domains.DailyView), args.Error(1)
}
