package domains

import "time"

type FormData struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,contact_email"`
	Phone   string `json:"phone" validate:"omitempty,contact_phone"`
	Message string `json:"message" validate:"required"`
}

type FormSubmission struct {
	ID        string    `db:"id" json:"id"`
	WebsiteID string    `db:"website_id" json:"website_id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
