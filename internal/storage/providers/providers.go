package providers

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Providers struct {
	WebsiteProvider    *WebsiteProvider
	SubmissionProvider *SubmissionProvider
	TemplateProvider   *TemplateProvider
	AnalyticsProvider  *AnalyticsProvider
}

func New(db *pgxpool.Pool) *Providers {
	return &Providers{
		WebsiteProvider:    NewWebsiteProvider(db),
		SubmissionProvider: NewSubmissionProvider(db),
		TemplateProvider:   NewTemplateProvider(db),
		AnalyticsProvider:  NewAnalyticsProvider(db),
	}
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func pgErrorCode(err error) (code, constraint string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

// validID reports whether id can name a row at all. Ids are UUIDs, so anything
// else is treated as missing instead of being sent to postgres.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
