package providers

import (
	"context"
	"errors"
	"fmt"

	"sitebuilder/internal/domains"
	"sitebuilder/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const websiteColumns = `id::text AS id, name, slug, category, website_data,
              is_published, published_url, created_at, updated_at`

type WebsiteProvider struct {
	db *pgxpool.Pool
}

func NewWebsiteProvider(db *pgxpool.Pool) *WebsiteProvider {
	return &WebsiteProvider{
		db: db,
	}
}

func (p *WebsiteProvider) CreateWebsite(ctx context.Context, website domains.WebsiteToSave) (domains.Website, error) {
	rows, err := p.db.Query(ctx, `
          INSERT INTO websites (id, name, slug, category, website_data, is_published)
          VALUES ($1, $2, $3, $4, COALESCE($5::jsonb, '{}'::jsonb), FALSE)
          RETURNING `+websiteColumns,
		uuid.NewString(),
		website.Name,
		website.Slug,
		website.Category,
		jsonArg(website.WebsiteData),
	)
	if err != nil {
		return domains.Website{}, storage.NewWriteError("create website", err)
	}
	created, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domains.Website])
	if err != nil {
		if code, constraint := pgErrorCode(err); code == pgUniqueViolation && constraint == "websites_slug_key" {
			return domains.Website{}, storage.NewWriteError("create website", fmt.Errorf("%w: %q", storage.ErrSlugTaken, website.Slug))
		}
		return domains.Website{}, storage.NewWriteError("create website", err)
	}
	return created, nil
}

func (p *WebsiteProvider) GetWebsiteByID(ctx context.Context, id string) (domains.Website, error) {
	if !validID(id) {
		return domains.Website{}, storage.ErrNotFound
	}
	rows, err := p.db.Query(ctx, `SELECT `+websiteColumns+` FROM websites WHERE id = $1`, id)
	if err != nil {
		return domains.Website{}, fmt.Errorf("get website: %w", err)
	}
	return collectWebsite(rows)
}

// GetWebsiteBySlug resolves only published websites; drafts look absent.
func (p *WebsiteProvider) GetWebsiteBySlug(ctx context.Context, slug string) (domains.Website, error) {
	rows, err := p.db.Query(ctx, `
          SELECT `+websiteColumns+`
          FROM websites
          WHERE slug = $1 AND is_published`, slug)
	if err != nil {
		return domains.Website{}, fmt.Errorf("get website by slug: %w", err)
	}
	return collectWebsite(rows)
}

// UpdateWebsite merges the non-nil fields of update in a single statement.
// is_published only ever moves to true and published_url is written once.
func (p *WebsiteProvider) UpdateWebsite(ctx context.Context, id string, update domains.WebsiteUpdate) (domains.Website, error) {
	if !validID(id) {
		return domains.Website{}, storage.ErrNotFound
	}
	rows, err := p.db.Query(ctx, `
          UPDATE websites SET
              name          = COALESCE($2, name),
              category      = COALESCE($3, category),
              website_data  = COALESCE($4, website_data),
              is_published  = is_published OR COALESCE($5, FALSE),
              published_url = COALESCE(published_url, $6),
              updated_at    = NOW()
          WHERE id = $1
          RETURNING `+websiteColumns,
		id,
		update.Name,
		update.Category,
		jsonArg(update.WebsiteData),
		update.IsPublished,
		update.PublishedURL,
	)
	if err != nil {
		return domains.Website{}, storage.NewWriteError("update website", err)
	}
	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domains.Website])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domains.Website{}, storage.ErrNotFound
		}
		return domains.Website{}, storage.NewWriteError("update website", err)
	}
	return updated, nil
}

func collectWebsite(rows pgx.Rows) (domains.Website, error) {
	website, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domains.Website])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domains.Website{}, storage.ErrNotFound
		}
		return domains.Website{}, err
	}
	return website, nil
}

// jsonArg sends an empty document as SQL NULL so COALESCE keeps the stored one.
func jsonArg(doc []byte) any {
	if len(doc) == 0 {
		return nil
	}
	return string(doc)
}
