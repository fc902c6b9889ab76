package httptransport

import (
	"errors"
	"log/slog"
	"net/http"

	"sitebuilder/internal/httpx"
	"sitebuilder/internal/payment"
	"sitebuilder/internal/service"
	"sitebuilder/internal/storage"
)

// writeAPIError maps service errors to status codes for the /api routes.
func writeAPIError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	var providerErr *payment.ProviderError
	switch {
	case errors.As(err, &verr):
		httpx.JSON(w, http.StatusUnprocessableEntity, ValidationErrorResponse{Error: verr.Error(), Field: verr.Field})
	case errors.Is(err, storage.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "not found")
	case errors.Is(err, storage.ErrSlugTaken):
		httpx.Error(w, http.StatusConflict, "slug already taken")
	case errors.Is(err, service.ErrPaymentNotConfirmed):
		httpx.Error(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, payment.ErrInvalidCheckout):
		httpx.Error(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &providerErr):
		httpx.Error(w, http.StatusBadGateway, "payment provider unavailable")
	default:
		slog.Error("request failed", "err", err)
		httpx.Error(w, http.StatusInternalServerError, "internal error")
	}
}

// writePipelineError answers the fixed checkout and publish routes, which
// report every failure as 500 with a message.
func writePipelineError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	var providerErr *payment.ProviderError
	message := "internal error"
	switch {
	case errors.As(err, &verr), errors.Is(err, payment.ErrInvalidCheckout):
		message = err.Error()
	case errors.Is(err, service.ErrPaymentNotConfirmed):
		message = "payment not confirmed"
	case errors.Is(err, storage.ErrNotFound):
		message = "website not found"
	case errors.As(err, &providerErr):
		message = "payment provider error"
		slog.Error("payment provider failed", "err", err)
	default:
		slog.Error("pipeline request failed", "err", err)
	}
	httpx.Error(w, http.StatusInternalServerError, message)
}
