package model

import "time"

// Workflow is the approval-tracking record paired one-to-one with a Request.
// Status holds the current Stage identifier.
type Workflow struct {
	ID             string    `json:"id,omitempty"`
	RequestID      string    `json:"request_id,omitempty"`
	AssignedToName string    `json:"assigned_to_name"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Comment is a user-attributed note on a request's workflow.
type Comment struct {
	ID        string    `json:"id"`
	UserName  string    `json:"user_name"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// NewComment is the body of POST /workflows/{id}/comments.
type NewComment struct {
	Comment string `json:"comment" validate:"required,max=2000"`
}
