package models

import "time"

// Budget is an independent namespace of ledger data.
type Budget struct {
	ID        string    `json:"id" example:"default"`
	Name      string    `json:"name" example:"My Budget"`
	CreatedAt time.Time `json:"createdAt"`
}
