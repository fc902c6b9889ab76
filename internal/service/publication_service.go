package service

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"sitebuilder/internal/domains"
	"sitebuilder/internal/storage"
)

// PublicationService moves a website from draft to published once payment
// is confirmed. Published is terminal.
type PublicationService struct {
	payments PaymentVerifier
	websites WebsiteProvider
	baseURL  string
}

func NewPublicationService(payments PaymentVerifier, websites WebsiteProvider, baseURL string) *PublicationService {
	return &PublicationService{
		payments: payments,
		websites: websites,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

// Publish verifies the session before touching the record. Publishing an
// already published website returns it unchanged.
func (s *PublicationService) Publish(ctx context.Context, websiteID, sessionID string) (domains.Website, error) {
	websiteID = strings.TrimSpace(websiteID)
	sessionID = strings.TrimSpace(sessionID)
	if websiteID == "" {
		return domains.Website{}, invalid("website_id", "is required")
	}
	if sessionID == "" {
		return domains.Website{}, invalid("session_id", "is required")
	}

	status, err := s.payments.VerifySession(ctx, sessionID)
	if err != nil {
		return domains.Website{}, err
	}
	if !status.Paid {
		slog.Warn("publish refused: payment not confirmed", "website_id", websiteID, "session_id", sessionID, "status", status.Status)
		return domains.Website{}, ErrPaymentNotConfirmed
	}

	website, err := s.websites.GetWebsiteByID(ctx, websiteID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Error("load website for publish failed", "err", err, "website_id", websiteID)
		}
		return domains.Website{}, err
	}
	if website.IsPublished {
		return website, nil
	}

	published := true
	publicURL := s.PublicURL(website.Slug)
	updated, err := s.websites.UpdateWebsite(ctx, website.ID, domains.WebsiteUpdate{
		IsPublished:  &published,
		PublishedURL: &publicURL,
	})
	if err != nil {
		slog.Error("publish website failed", "err", err, "website_id", websiteID)
		return domains.Website{}, err
	}

	slog.Info("website published", "website_id", updated.ID, "url", publicURL, "session_id", sessionID)
	return updated, nil
}

func (s *PublicationService) PublicURL(slug string) string {
	return s.baseURL + "/website/" + url.PathEscape(slug)
}
