package providers

import (
	"context"
	"fmt"

	"sitebuilder/internal/domains"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TemplateProvider struct {
	db *pgxpool.Pool
}

func NewTemplateProvider(pg *pgxpool.Pool) *TemplateProvider {
	return &TemplateProvider{
		db: pg,
	}
}

// GetTemplatesByCategory lists active templates. No match is an empty slice.
func (p *TemplateProvider) GetTemplatesByCategory(ctx context.Context, category string) ([]domains.Template, error) {
	rows, err := p.db.Query(ctx, `
          SELECT id::text AS id, category, name, description, preset, is_active, created_at
          FROM templates
          WHERE category = $1 AND is_active
          ORDER BY name`, category)
	if err != nil {
		return nil, fmt.Errorf("get templates: %w", err)
	}

	templates, err := pgx.CollectRows(rows, pgx.RowToStructByName[domains.Template])
	if err != nil {
		return nil, fmt.Errorf("get templates: %w", err)
	}
	if templates == nil {
		templates = []domains.Template{}
	}
	return templates, nil
}
