package model

import "time"

// Request is a funding/grant request moving through the approval stages.
type Request struct {
	ID            string    `json:"id"`
	TicketNumber  string    `json:"ticket_number"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	RequestType   string    `json:"request_type"`
	Amount        float64   `json:"amount"`
	Status        string    `json:"status"`
	RequesterName string    `json:"requester_name"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RequestFilter narrows GET /requests. Zero-valued fields are left out of the query.
type RequestFilter struct {
	Status      string
	RequestType string
	Limit       *int
	Offset      *int
}
