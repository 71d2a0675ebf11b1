package model

import "time"

// NotificationType classifies a notification's severity.
type NotificationType string

// Notification types sent by the backend.
const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)

// Valid reports whether t is one of the known notification types.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationInfo, NotificationSuccess, NotificationWarning, NotificationError:
		return true
	default:
		return false
	}
}

// Notification is a per-user alert owned by the backend.
type Notification struct {
	ID                string           `json:"id"`
	UserID            string           `json:"user_id"`
	Title             string           `json:"title"`
	Message           string           `json:"message"`
	Type              NotificationType `json:"type"`
	RelatedEntityType *string          `json:"related_entity_type,omitempty"`
	RelatedEntityID   *string          `json:"related_entity_id,omitempty"`
	IsRead            bool             `json:"is_read"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// NotificationFilter narrows GET /notifications. Nil fields are omitted from the query.
type NotificationFilter struct {
	IsRead *bool
	Limit  *int
	Offset *int
}

// UnreadCount is the body of GET /notifications/unread/count.
type UnreadCount struct {
	Count int `json:"count"`
}

// MessageResponse is the acknowledgement body returned by bulk and delete calls.
type MessageResponse struct {
	Message string `json:"message"`
}
