package domains

type CheckoutRequest struct {
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
	SuccessURL  string `json:"success_url"`
	CancelURL   string `json:"cancel_url"`
}

type PaymentSession struct {
	ID  string `json:"session_id"`
	URL string `json:"url,omitempty"`
}

type PaymentStatus struct {
	SessionID string `json:"session_id"`
	Paid      bool   `json:"paid"`
	Status    string `json:"status"`
}
