package httptransport

import (
	"context"
	"net/http"

	"sitebuilder/internal/domains"
	"sitebuilder/internal/httpx"
)

type TemplateHandlers struct {
	service TemplateServices
}

type TemplateServices interface {
	GetTemplatesByCategory(ctx context.Context, category string) ([]domains.Template, error)
}

func NewTemplateHandlers(service TemplateServices) *TemplateHandlers {
	return &TemplateHandlers{
		service: service,
	}
}

func (h *TemplateHandlers) GetTemplatesByCategory(w http.ResponseWriter, r *http.Request) {
	templates, err := h.service.GetTemplatesByCategory(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeAPIError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, templates)
}
