package httptransport

import (
	"log/slog"
	"net/http"

	"sitebuilder/internal/httpx"

	"github.com/gorilla/mux"
)

type Handlers struct {
	Payments  *PaymentHandlers
	Websites  *WebsiteHandlers
	Templates *TemplateHandlers
	Public    *PublicHandlers
}

func Router(h Handlers, logger *slog.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(httpx.RequestID(), httpx.Logging(logger))

	router.HandleFunc("/healthz", Health).Methods(http.MethodGet)

	router.HandleFunc("/create-payment-session", h.Payments.CreatePaymentSession).Methods(http.MethodPost)
	router.HandleFunc("/verify-payment", h.Payments.VerifyPayment).Methods(http.MethodPost)
	router.HandleFunc("/publish-website", h.Payments.PublishWebsite).Methods(http.MethodPost)

	router.HandleFunc("/website/{slug}", h.Public.GetPublishedWebsite).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()

	websites := api.PathPrefix("/websites").Subrouter()
	websites.HandleFunc("", h.Websites.CreateWebsite).Methods(http.MethodPost)
	websites.HandleFunc("/{id}", h.Websites.GetWebsite).Methods(http.MethodGet)
	websites.HandleFunc("/{id}", h.Websites.UpdateWebsite).Methods(http.MethodPut)
	websites.HandleFunc("/{id}/stats", h.Websites.GetWebsiteStats).Methods(http.MethodGet)
	websites.HandleFunc("/{id}/submissions", h.Websites.SubmitForm).Methods(http.MethodPost)

	api.HandleFunc("/templates", h.Templates.GetTemplatesByCategory).Methods(http.MethodGet)

	return router
}
