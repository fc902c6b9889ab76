package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"sitebuilder/internal/domains"
	"sitebuilder/internal/httpx"
)

type PaymentHandlers struct {
	payments  PaymentServices
	publisher PublicationServices
}

type PaymentServices interface {
	CreateSession(ctx context.Context, req domains.CheckoutRequest) (domains.PaymentSession, error)
	VerifySession(ctx context.Context, sessionID string) (domains.PaymentStatus, error)
}

type PublicationServices interface {
	Publish(ctx context.Context, websiteID, sessionID string) (domains.Website, error)
}

func NewPaymentHandlers(payments PaymentServices, publisher PublicationServices) *PaymentHandlers {
	return &PaymentHandlers{
		payments:  payments,
		publisher: publisher,
	}
}

func (h *PaymentHandlers) CreatePaymentSession(w http.ResponseWriter, r *http.Request) {
	req, err := httpx.ReadBody[domains.CheckoutRequest](r)
	if err != nil {
		slog.Error("CreatePaymentSession read body err", "err", err)
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.payments.CreateSession(r.Context(), req)
	if err != nil {
		writePipelineError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, CreateSessionResponse{
		ID:        session.ID,
		SessionID: session.ID,
		URL:       session.URL,
	})
}

func (h *PaymentHandlers) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	req, err := httpx.ReadBody[VerifyPaymentRequest](r)
	if err != nil {
		slog.Error("VerifyPayment read body err", "err", err)
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	status, err := h.payments.VerifySession(r.Context(), req.SessionID)
	if err != nil {
		writePipelineError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, VerifyPaymentResponse{Paid: status.Paid, Verified: true})
}

func (h *PaymentHandlers) PublishWebsite(w http.ResponseWriter, r *http.Request) {
	req, err := httpx.ReadBody[PublishWebsiteRequest](r)
	if err != nil {
		slog.Error("PublishWebsite read body err", "err", err)
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	website, err := h.publisher.Publish(r.Context(), req.WebsiteID, req.SessionID)
	if err != nil {
		writePipelineError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, website)
}
