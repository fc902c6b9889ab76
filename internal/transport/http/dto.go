package httptransport

type CreateSessionResponse struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

type VerifyPaymentRequest struct {
	SessionID string `json:"session_id"`
}

type VerifyPaymentResponse struct {
	Paid     bool `json:"paid"`
	Verified bool `json:"verified"`
}

type PublishWebsiteRequest struct {
	WebsiteID string `json:"website_id"`
	SessionID string `json:"session_id"`
}

type ValidationErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
