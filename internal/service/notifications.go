package service

import (
	"context"

	"github.com/rshade/grantdesk/internal/api"
	"github.com/rshade/grantdesk/internal/logging"
	"github.com/rshade/grantdesk/internal/model"
)

// Fallback acknowledgement messages returned when a best-effort write fails.
const (
	MsgAllMarkedRead = "All notifications marked as read"
	MsgDeleted       = "Notification deleted successfully"
	MsgAllDeleted    = "All notifications deleted successfully"
)

// Operation names reported to a FallbackHook.
const (
	OpListNotifications = "list_notifications"
	OpUnreadCount       = "unread_count"
	OpMarkRead          = "mark_read"
	OpMarkAllRead       = "mark_all_read"
	OpDelete            = "delete_notification"
	OpDeleteAll         = "delete_all_notifications"
)

// FallbackHook observes failures that a best-effort call replaced with a default.
type FallbackHook func(op string, err error)

// NotificationStore is the notification facade as seen by views and the poller.
type NotificationStore interface {
	List(ctx context.Context, filter model.NotificationFilter) []model.Notification
	UnreadCount(ctx context.Context) model.UnreadCount
	MarkRead(ctx context.Context, id string) *model.Notification
	MarkAllRead(ctx context.Context) model.MessageResponse
	Delete(ctx context.Context, id string) model.MessageResponse
	DeleteAll(ctx context.Context) model.MessageResponse
}

// NotificationService wraps the /notifications resource. No method returns an
// error; see the package documentation.
type NotificationService struct {
	client *api.Client
	hook   FallbackHook
}

// NotificationOption configures a NotificationService.
type NotificationOption func(*NotificationService)

// WithFallbackHook registers a hook invoked for every swallowed failure.
func WithFallbackHook(h FallbackHook) NotificationOption {
	return func(s *NotificationService) {
		s.hook = h
	}
}

// NewNotificationService binds the facade to a transport client.
func NewNotificationService(client *api.Client, opts ...NotificationOption) *NotificationService {
	s := &NotificationService{client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns notifications matching filter, or an empty slice on failure.
func (s *NotificationService) List(ctx context.Context, filter model.NotificationFilter) []model.Notification {
	var out []model.Notification
	if err := s.client.Get(ctx, "/notifications", notificationQuery(filter), &out); err != nil {
		s.fallback(ctx, OpListNotifications, err)
		return []model.Notification{}
	}
	if out == nil {
		return []model.Notification{}
	}
	return out
}

// UnreadCount returns the unread total, or zero on failure.
func (s *NotificationService) UnreadCount(ctx context.Context) model.UnreadCount {
	var out model.UnreadCount
	if err := s.client.Get(ctx, "/notifications/unread/count", nil, &out); err != nil {
		s.fallback(ctx, OpUnreadCount, err)
		return model.UnreadCount{Count: 0}
	}
	return out
}

// MarkRead marks one notification read and returns the updated record, or nil on failure.
func (s *NotificationService) MarkRead(ctx context.Context, id string) *model.Notification {
	if id == "" {
		s.fallback(ctx, OpMarkRead, ErrEmptyID)
		return nil
	}
	var out model.Notification
	if err := s.client.Put(ctx, api.Path("notifications", id, "read"), nil, &out); err != nil {
		s.fallback(ctx, OpMarkRead, err)
		return nil
	}
	return &out
}

// MarkAllRead marks every notification read.
func (s *NotificationService) MarkAllRead(ctx context.Context) model.MessageResponse {
	var out model.MessageResponse
	if err := s.client.Put(ctx, "/notifications/read-all", nil, &out); err != nil {
		s.fallback(ctx, OpMarkAllRead, err)
		return model.MessageResponse{Message: MsgAllMarkedRead}
	}
	return out
}

// Delete removes one notification.
func (s *NotificationService) Delete(ctx context.Context, id string) model.MessageResponse {
	if id == "" {
		s.fallback(ctx, OpDelete, ErrEmptyID)
		return model.MessageResponse{Message: MsgDeleted}
	}
	var out model.MessageResponse
	if err := s.client.Delete(ctx, api.Path("notifications", id), &out); err != nil {
		s.fallback(ctx, OpDelete, err)
		return model.MessageResponse{Message: MsgDeleted}
	}
	return out
}

// DeleteAll removes every notification for the current user.
func (s *NotificationService) DeleteAll(ctx context.Context) model.MessageResponse {
	var out model.MessageResponse
	if err := s.client.Delete(ctx, "/notifications", &out); err != nil {
		s.fallback(ctx, OpDeleteAll, err)
		return model.MessageResponse{Message: MsgAllDeleted}
	}
	return out
}

func (s *NotificationService) fallback(ctx context.Context, op string, err error) {
	logging.FromContext(ctx).Warn().
		Str("component", "service").
		Str("operation", op).
		Err(err).
		Msg("best-effort call failed, using fallback value")
	if s.hook != nil {
		s.hook(op, err)
	}
}
