package providers

import (
	"context"
	"fmt"

	"sitebuilder/internal/domains"
	"sitebuilder/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SubmissionProvider struct {
	db *pgxpool.Pool
}

func NewSubmissionProvider(db *pgxpool.Pool) *SubmissionProvider {
	return &SubmissionProvider{
		db: db,
	}
}

// SaveFormSubmission stores the form as given. Validation happens upstream.
func (p *SubmissionProvider) SaveFormSubmission(ctx context.Context, websiteID string, form domains.FormData) (domains.FormSubmission, error) {
	if !validID(websiteID) {
		return domains.FormSubmission{}, fmt.Errorf("save form submission: %w", storage.ErrNotFound)
	}
	rows, err := p.db.Query(ctx, `
          INSERT INTO form_submissions (id, website_id, name, email, phone, message)
          VALUES ($1, $2, $3, $4, $5, $6)
          RETURNING id::text AS id, website_id::text AS website_id, name, email, phone, message, created_at`,
		uuid.NewString(),
		websiteID,
		form.Name,
		form.Email,
		form.Phone,
		form.Message,
	)
	if err != nil {
		return domains.FormSubmission{}, storage.NewWriteError("save form submission", err)
	}
	saved, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domains.FormSubmission])
	if err != nil {
		if code, _ := pgErrorCode(err); code == pgForeignKeyViolation {
			return domains.FormSubmission{}, fmt.Errorf("save form submission: %w", storage.ErrNotFound)
		}
		return domains.FormSubmission{}, storage.NewWriteError("save form submission", err)
	}
	return saved, nil
}

func (p *SubmissionProvider) CountFormSubmissions(ctx context.Context, websiteID string) (int64, error) {
	if !validID(websiteID) {
		return 0, nil
	}
	var count int64
	if err := p.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM form_submissions WHERE website_id = $1`, websiteID,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("count form submissions: %w", err)
	}
	return count, nil
}
