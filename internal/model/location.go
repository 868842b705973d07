package model

import "time"

type Location struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Machine is a serviced device (e.g. a fiscal cash register) installed
// at a location. Tickets always reference one.
type Machine struct {
	ID         string    `json:"id"`
	Code       string    `json:"code"`
	LocationID string    `json:"location_id"`
	Model      string    `json:"model"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	LocationName string `json:"location_name,omitempty"`
}
