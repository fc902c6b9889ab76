package httptransport

import (
	"context"
	"net/http"
	"sync"
	"time"

	"sitebuilder/internal/domains"
	"sitebuilder/internal/httpx"
)

const viewRecordTimeout = 5 * time.Second

type PublicHandlers struct {
	sites    SiteResolver
	views    ViewRecorder
	inflight sync.WaitGroup
}

type SiteResolver interface {
	GetPublishedWebsite(ctx context.Context, slug string) (domains.Website, error)
}

type ViewRecorder interface {
	RecordPageView(ctx context.Context, view domains.PageView)
}

func NewPublicHandlers(sites SiteResolver, views ViewRecorder) *PublicHandlers {
	return &PublicHandlers{
		sites: sites,
		views: views,
	}
}

// GetPublishedWebsite serves the public read path and counts the view in the
// background. Drafts and unknown slugs are both 404.
func (h *PublicHandlers) GetPublishedWebsite(w http.ResponseWriter, r *http.Request) {
	slug, ok := httpx.PathVar(w, r, "slug")
	if !ok {
		return
	}

	website, err := h.sites.GetPublishedWebsite(r.Context(), slug)
	if err != nil {
		writeAPIError(w, err)
		return
	}

	view := domains.PageView{
		WebsiteID: website.ID,
		Slug:      website.Slug,
		Referrer:  r.Referer(),
		UserAgent: r.UserAgent(),
		Timestamp: time.Now(),
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), viewRecordTimeout)
	h.inflight.Add(1)
	go func() {
		defer h.inflight.Done()
		defer cancel()
		h.views.RecordPageView(ctx, view)
	}()

	httpx.JSON(w, http.StatusOK, website)
}

// Wait blocks until every background view recording has finished. Each one
// is bounded by its own timeout.
func (h *PublicHandlers) Wait() {
	h.inflight.Wait()
}

func Health(w http.ResponseWriter, _ *http.Request) {
	httpx.JSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}
