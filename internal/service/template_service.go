package service

import (
	"context"
	"log/slog"
	"strings"

	"sitebuilder/internal/domains"
)

type TemplateService struct {
	provider TemplateProvider
}

func NewTemplateService(provider TemplateProvider) *TemplateService {
	return &TemplateService{
		provider: provider,
	}
}

// GetTemplatesByCategory lists the active templates of a category.
func (s *TemplateService) GetTemplatesByCategory(ctx context.Context, category string) ([]domains.Template, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, invalid("category", "is required")
	}
	templates, err := s.provider.GetTemplatesByCategory(ctx, category)
	if err != nil {
		slog.Error("get templates failed", "err", err, "category", category)
		return nil, err
	}
	return templates, nil
}
