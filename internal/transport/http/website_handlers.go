package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"sitebuilder/internal/domains"
	"sitebuilder/internal/httpx"
)

type WebsiteHandlers struct {
	websites WebsiteServices
	forms    FormServices
}

type WebsiteServices interface {
	CreateWebsite(ctx context.Context, payload domains.WebsiteCreate) (domains.Website, error)
	UpdateWebsite(ctx context.Context, id string, update domains.WebsiteUpdate) (domains.Website, error)
	GetWebsite(ctx context.Context, id string) (domains.Website, error)
	GetWebsiteStats(ctx context.Context, id string, days int) (domains.WebsiteStats, error)
}

type FormServices interface {
	Submit(ctx context.Context, websiteID string, form domains.FormData) (domains.FormSubmission, error)
}

func NewWebsiteHandlers(websites WebsiteServices, forms FormServices) *WebsiteHandlers {
	return &WebsiteHandlers{
		websites: websites,
		forms:    forms,
	}
}

func (h *WebsiteHandlers) CreateWebsite(w http.ResponseWriter, r *http.Request) {
	payload, err := httpx.ReadBody[domains.WebsiteCreate](r)
	if err != nil {
		slog.Error("CreateWebsite read body err", "err", err)
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.websites.CreateWebsite(r.Context(), payload)
	if err != nil {
		writeAPIError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, created)
}

func (h *WebsiteHandlers) GetWebsite(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathVar(w, r, "id")
	if !ok {
		return
	}

	website, err := h.websites.GetWebsite(r.Context(), id)
	if err != nil {
		writeAPIError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, website)
}

func (h *WebsiteHandlers) UpdateWebsite(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathVar(w, r, "id")
	if !ok {
		return
	}

	update, err := httpx.ReadBody[domains.WebsiteUpdate](r)
	if err != nil {
		slog.Error("UpdateWebsite read body err", "err", err, "website_id", id)
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.websites.UpdateWebsite(r.Context(), id, update)
	if err != nil {
		writeAPIError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, updated)
}

func (h *WebsiteHandlers) GetWebsiteStats(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathVar(w, r, "id")
	if !ok {
		return
	}

	stats, err := h.websites.GetWebsiteStats(r.Context(), id, httpx.QueryInt(r, "days", 30))
	if err != nil {
		writeAPIError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, stats)
}

func (h *WebsiteHandlers) SubmitForm(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathVar(w, r, "id")
	if !ok {
		return
	}

	form, err := httpx.ReadBody[domains.FormData](r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := h.forms.Submit(r.Context(), id, form)
	if err != nil {
		writeAPIError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, saved)
}
