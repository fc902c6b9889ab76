package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"sitebuilder/internal/domains"
	"sitebuilder/internal/payment"
	"sitebuilder/internal/service"
	"sitebuilder/internal/storage"
	"sitebuilder/internal/storage/lite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	statuses map[string]string
	failWith error
}

func (f *fakeProvider) CreateCheckoutSession(_ context.Context, req domains.CheckoutRequest) (domains.PaymentSession, error) {
	if f.failWith != nil {
		return domains.PaymentSession{}, f.failWith
	}
	return domains.PaymentSession{ID: "cs_test_1", URL: "https://checkout.test/cs_test_1?next=" + req.SuccessURL}, nil
}

func (f *fakeProvider) SessionPaymentStatus(_ context.Context, sessionID string) (string, error) {
	if f.failWith != nil {
		return "", f.failWith
	}
	status, ok := f.statuses[sessionID]
	if !ok {
		return "", errors.New("no such checkout session")
	}
	return status, nil
}

type testServer struct {
	router http.Handler
	store  *lite.Store
	pay    *fakeProvider
	public *PublicHandlers
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store, err := lite.NewStore(filepath.Join(t.TempDir(), "http.db"))
	require.NoError(t, err)

	pay := &fakeProvider{statuses: map[string]string{"cs_paid": "paid", "cs_open": "unpaid"}}
	gate := payment.NewGate(pay)
	websites := service.NewWebsiteService(store, store, store)
	publisher := service.NewPublicationService(gate, store, "https://sites.test")
	forms := service.NewFormService(store, store)
	views := service.NewViewCounter(store, true, nil)
	public := NewPublicHandlers(websites, views)
	t.Cleanup(func() {
		public.Wait()
		store.Close()
	})

	router := Router(Handlers{
		Payments:  NewPaymentHandlers(gate, publisher),
		Websites:  NewWebsiteHandlers(websites, forms),
		Templates: NewTemplateHandlers(service.NewTemplateService(store)),
		Public:    public,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	return &testServer{router: router, store: store, pay: pay, public: public}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (s *testServer) createWebsite(t *testing.T, doc string) domains.Website {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/websites", map[string]json.RawMessage{"website_data": json.RawMessage(doc)})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[domains.Website](t, w)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestCreatePaymentSession(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPost, "/create-payment-session", domains.CheckoutRequest{
		Amount:      1999,
		Currency:    "usd",
		Description: "Publish",
		SuccessURL:  "https://builder.test/done",
		CancelURL:   "https://builder.test/cancel",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[CreateSessionResponse](t, w)
	assert.Equal(t, "cs_test_1", resp.ID)
	assert.Equal(t, "cs_test_1", resp.SessionID)
	assert.Contains(t, resp.URL, "session_id={CHECKOUT_SESSION_ID}")
}

func TestCreatePaymentSessionFailures(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/create-payment-session", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/create-payment-session", domains.CheckoutRequest{Amount: 0, Currency: "usd"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, decode[map[string]string](t, w)["error"], "amount")

	s.pay.failWith = errors.New("stripe down")
	w = s.do(t, http.MethodPost, "/create-payment-session", domains.CheckoutRequest{
		Amount: 100, Currency: "usd", SuccessURL: "https://a.test", CancelURL: "https://a.test",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "payment provider error", decode[map[string]string](t, w)["error"])
}

func TestVerifyPayment(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/verify-payment", VerifyPaymentRequest{SessionID: "cs_paid"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, VerifyPaymentResponse{Paid: true, Verified: true}, decode[VerifyPaymentResponse](t, w))

	w = s.do(t, http.MethodPost, "/verify-payment", VerifyPaymentRequest{SessionID: "cs_open"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, VerifyPaymentResponse{Paid: false, Verified: true}, decode[VerifyPaymentResponse](t, w))

	w = s.do(t, http.MethodPost, "/verify-payment", VerifyPaymentRequest{SessionID: "cs_unknown"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestPublishFlow(t *testing.T) {
	s := newTestServer(t)
	site := s.createWebsite(t, `{"name":"Joe's Café!!","category":"restaurant"}`)
	assert.Equal(t, "joes-cafe", site.Slug)

	w := s.do(t, http.MethodGet, "/website/joes-cafe", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/publish-website", PublishWebsiteRequest{WebsiteID: site.ID, SessionID: "cs_open"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "payment not confirmed", decode[map[string]string](t, w)["error"])

	w = s.do(t, http.MethodPost, "/publish-website", PublishWebsiteRequest{WebsiteID: site.ID, SessionID: "cs_paid"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	published := decode[domains.Website](t, w)
	assert.True(t, published.IsPublished)
	require.NotNil(t, published.PublishedURL)
	assert.Equal(t, "https://sites.test/website/joes-cafe", *published.PublishedURL)

	w = s.do(t, http.MethodPost, "/publish-website", PublishWebsiteRequest{WebsiteID: site.ID, SessionID: "cs_paid"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, *published.PublishedURL, *decode[domains.Website](t, w).PublishedURL)

	w = s.do(t, http.MethodGet, "/website/joes-cafe", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, site.ID, decode[domains.Website](t, w).ID)

	s.public.Wait()
	rec, err := s.store.GetAnalytics(context.Background(), site.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.PageViews)
}

func TestPublicViewsCountOnlyPublishedSites(t *testing.T) {
	s := newTestServer(t)
	draft := s.createWebsite(t, `{"name":"Draft Shop"}`)
	live := s.createWebsite(t, `{"name":"Live Shop"}`)

	w := s.do(t, http.MethodPost, "/publish-website", PublishWebsiteRequest{WebsiteID: live.ID, SessionID: "cs_paid"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/website/live-shop", nil).Code)
		assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/website/draft-shop", nil).Code)
	}
	s.public.Wait()

	rec, err := s.store.GetAnalytics(context.Background(), live.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(3), rec.PageViews)

	_, err = s.store.GetAnalytics(context.Background(), draft.ID, time.Now())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPublishUnknownWebsite(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPost, "/publish-website", PublishWebsiteRequest{WebsiteID: "missing", SessionID: "cs_paid"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "website not found", decode[map[string]string](t, w)["error"])
}

func TestWebsiteAPI(t *testing.T) {
	s := newTestServer(t)
	site := s.createWebsite(t, `{"name":"Studio"}`)

	w := s.do(t, http.MethodGet, "/api/websites/"+site.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/websites/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPut, "/api/websites/"+site.ID, map[string]any{
		"name":          "Studio Two",
		"is_published":  true,
		"published_url": "https://evil.test",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[domains.Website](t, w)
	assert.Equal(t, "Studio Two", updated.Name)
	assert.Equal(t, "studio", updated.Slug)
	assert.False(t, updated.IsPublished)
	assert.Nil(t, updated.PublishedURL)

	w = s.do(t, http.MethodPut, "/api/websites/"+site.ID, map[string]any{"name": " "})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "name", decode[ValidationErrorResponse](t, w).Field)

	w = s.do(t, http.MethodPost, "/api/websites", map[string]any{"website_data": []int{1}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = s.do(t, http.MethodPost, "/api/websites", "nope")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitFormAndStats(t *testing.T) {
	s := newTestServer(t)
	site := s.createWebsite(t, `{"name":"Leads"}`)
	form := domains.FormData{Name: "Ann", Email: "ann@x.io", Message: "Hello"}

	w := s.do(t, http.MethodPost, "/api/websites/"+site.ID+"/submissions", form)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/publish-website", PublishWebsiteRequest{WebsiteID: site.ID, SessionID: "cs_paid"})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/websites/"+site.ID+"/submissions", domains.FormData{Name: "A", Email: "bad-email", Message: "hi"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "email", decode[ValidationErrorResponse](t, w).Field)

	w = s.do(t, http.MethodPost, "/api/websites/"+site.ID+"/submissions", form)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/websites/"+site.ID+"/stats?days=7", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[domains.WebsiteStats](t, w)
	assert.Equal(t, int64(1), stats.Submissions)
	assert.Equal(t, site.ID, stats.WebsiteID)

	w = s.do(t, http.MethodGet, "/api/websites/missing/stats", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTemplatesAPI(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, s.store.SaveTemplate(ctx, domains.Template{Category: "restaurant", Name: "Bistro", IsActive: true}))
	require.NoError(t, s.store.SaveTemplate(ctx, domains.Template{Category: "restaurant", Name: "Hidden", IsActive: false}))

	w := s.do(t, http.MethodGet, "/api/templates?category=restaurant", nil)
	require.Equal(t, http.StatusOK, w.Code)
	templates := decode[[]domains.Template](t, w)
	require.Len(t, templates, 1)
	assert.Equal(t, "Bistro", templates[0].Name)

	w = s.do(t, http.MethodGet, "/api/templates?category=none", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/templates", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
