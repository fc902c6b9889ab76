// Package payment creates hosted checkout sessions and reports whether a
// session has been paid. It keeps no state between calls.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"sitebuilder/internal/domains"
)

// SessionPlaceholder is substituted by the provider with the real session id
// when it redirects the buyer back.
const SessionPlaceholder = "{CHECKOUT_SESSION_ID}"

// StatusPaid is the only provider status that counts as confirmed payment.
const StatusPaid = "paid"

// Provider is the hosted checkout backend.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, req domains.CheckoutRequest) (domains.PaymentSession, error)
	SessionPaymentStatus(ctx context.Context, sessionID string) (string, error)
}

type Gate struct {
	provider Provider
}

func NewGate(provider Provider) *Gate {
	return &Gate{provider: provider}
}

func (g *Gate) CreateSession(ctx context.Context, req domains.CheckoutRequest) (domains.PaymentSession, error) {
	req, err := normalizeCheckout(req)
	if err != nil {
		return domains.PaymentSession{}, err
	}

	session, err := g.provider.CreateCheckoutSession(ctx, req)
	if err != nil {
		slog.Error("create checkout session failed", "err", err, "amount", req.Amount, "currency", req.Currency)
		return domains.PaymentSession{}, asProviderError("create session", err)
	}
	slog.Info("checkout session created", "session_id", session.ID, "amount", req.Amount, "currency", req.Currency)
	return session, nil
}

// VerifySession reports the session's payment state. An unpaid session is a
// normal answer, not an error.
func (g *Gate) VerifySession(ctx context.Context, sessionID string) (domains.PaymentStatus, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return domains.PaymentStatus{}, &ProviderError{Op: "verify session", Err: fmt.Errorf("%w: empty session id", ErrInvalidCheckout)}
	}

	status, err := g.provider.SessionPaymentStatus(ctx, sessionID)
	if err != nil {
		slog.Error("verify checkout session failed", "err", err, "session_id", sessionID)
		return domains.PaymentStatus{}, asProviderError("verify session", err)
	}
	return domains.PaymentStatus{
		SessionID: sessionID,
		Paid:      status == StatusPaid,
		Status:    status,
	}, nil
}

func normalizeCheckout(req domains.CheckoutRequest) (domains.CheckoutRequest, error) {
	if req.Amount <= 0 {
		return req, fmt.Errorf("%w: amount must be positive", ErrInvalidCheckout)
	}
	req.Currency = strings.ToLower(strings.TrimSpace(req.Currency))
	if !isCurrencyCode(req.Currency) {
		return req, fmt.Errorf("%w: currency must be a 3-letter code", ErrInvalidCheckout)
	}
	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" {
		req.Description = "Website publication"
	}
	if !isAbsoluteURL(req.SuccessURL) {
		return req, fmt.Errorf("%w: success_url must be an absolute URL", ErrInvalidCheckout)
	}
	if !isAbsoluteURL(req.CancelURL) {
		return req, fmt.Errorf("%w: cancel_url must be an absolute URL", ErrInvalidCheckout)
	}
	req.SuccessURL = withSessionPlaceholder(req.SuccessURL)
	return req, nil
}

func withSessionPlaceholder(successURL string) string {
	if strings.Contains(successURL, SessionPlaceholder) {
		return successURL
	}
	sep := "?"
	if strings.Contains(successURL, "?") {
		sep = "&"
	}
	return successURL + sep + "session_id=" + SessionPlaceholder
}

func isCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func asProviderError(op string, err error) error {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return err
	}
	return &ProviderError{Op: op, Err: err}
}
