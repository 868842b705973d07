package model

import "time"

type TicketStatus string

const (
	StatusNew                 TicketStatus = "new"
	StatusInProgress          TicketStatus = "in_progress"
	StatusWaitingForPart      TicketStatus = "waiting_for_part"
	StatusWaitingForTaxOffice TicketStatus = "waiting_for_tax_authority"
	StatusClosed              TicketStatus = "closed"
)

func ParseTicketStatus(raw string) (TicketStatus, bool) {
	switch TicketStatus(raw) {
	case StatusNew, StatusInProgress, StatusWaitingForPart, StatusWaitingForTaxOffice, StatusClosed:
		return TicketStatus(raw), true
	}
	return "", false
}

// Urgency is display-only: no scheduling or escalation behavior hangs
// off it.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

func ParseUrgency(raw string) (Urgency, bool) {
	switch Urgency(raw) {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return Urgency(raw), true
	}
	return "", false
}

type Ticket struct {
	ID           string       `json:"id"`
	TicketNumber string       `json:"ticket_number"`
	UserID       string       `json:"user_id"`
	TechnicianID *string      `json:"technician_id"`
	LocationID   string       `json:"location_id"`
	MachineID    string       `json:"machine_id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Status       TicketStatus `json:"status"`
	Urgency      Urgency      `json:"urgency"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	// Denormalized display fields joined in by the repository.
	UserName       string  `json:"user_name,omitempty"`
	UserEmail      string  `json:"user_email,omitempty"`
	TechnicianName *string `json:"technician_name,omitempty"`
	LocationName   string  `json:"location_name,omitempty"`
}
