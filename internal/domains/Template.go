package domains

import (
	"encoding/json"
	"time"
)

type Template struct {
	ID          string          `db:"id" json:"id"`
	Category    string          `db:"category" json:"category"`
	Name        string          `db:"name" json:"name"`
	Description *string         `db:"description" json:"description,omitempty"`
	Preset      json.RawMessage `db:"preset" json:"preset,omitempty"`
	IsActive    bool            `db:"is_active" json:"is_active"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}
