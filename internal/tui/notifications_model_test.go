package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/grantdesk/internal/model"
	"github.com/rshade/grantdesk/internal/notify"
	"github.com/rshade/grantdesk/internal/service"
)

type fakeStore struct {
	items     []model.Notification
	unread    int
	filters   []model.NotificationFilter
	markRead  []string
	deleted   []string
	allRead   int
	allDelete int
}

func (f *fakeStore) List(_ context.Context, filter model.NotificationFilter) []model.Notification {
	f.filters = append(f.filters, filter)
	return f.items
}

func (f *fakeStore) UnreadCount(context.Context) model.UnreadCount {
	return model.UnreadCount{Count: f.unread}
}

func (f *fakeStore) MarkRead(_ context.Context, id string) *model.Notification {
	f.markRead = append(f.markRead, id)
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].IsRead = true
			n := f.items[i]
			return &n
		}
	}
	return nil
}

func (f *fakeStore) MarkAllRead(context.Context) model.MessageResponse {
	f.allRead++
	return model.MessageResponse{Message: service.MsgAllMarkedRead}
}

func (f *fakeStore) Delete(_ context.Context, id string) model.MessageResponse {
	f.deleted = append(f.deleted, id)
	return model.MessageResponse{Message: service.MsgDeleted}
}

func (f *fakeStore) DeleteAll(context.Context) model.MessageResponse {
	f.allDelete++
	return model.MessageResponse{Message: service.MsgAllDeleted}
}

func newLoadedInbox(t *testing.T, store *fakeStore) *NotificationsModel {
	t.Helper()
	m := NewNotificationsModel(context.Background(), store, model.NotificationFilter{})
	require.NotNil(t, m.Init())
	_, _ = m.Update(m.fetchCmd()())
	return m
}

func sampleNotifications() []model.Notification {
	at := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	entity, id := "request", "42"
	return []model.Notification{
		{ID: "n1", Title: "Request approved", Message: "GR-0042 was approved", Type: model.NotificationSuccess,
			RelatedEntityType: &entity, RelatedEntityID: &id, CreatedAt: at},
		{ID: "n2", Title: "Comment added", Message: "Lee commented", Type: model.NotificationInfo, IsRead: true, CreatedAt: at},
	}
}

func TestNotificationsModel_Loads(t *testing.T) {
	store := &fakeStore{items: sampleNotifications(), unread: 1}
	m := newLoadedInbox(t, store)

	assert.Equal(t, ViewStateList, m.State())
	assert.Len(t, m.Items(), 2)
	assert.Equal(t, 1, m.Unread())

	view := m.View()
	assert.Contains(t, view, "1 unread")
	assert.Contains(t, view, "Request approved")
	assert.Contains(t, view, "Showing: All")
}

func TestNotificationsModel_EmptyInbox(t *testing.T) {
	m := newLoadedInbox(t, &fakeStore{})
	assert.Contains(t, m.View(), "No notifications.")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, ViewStateList, m.State())
}

func TestNotificationsModel_OpenMarksRead(t *testing.T) {
	store := &fakeStore{items: sampleNotifications(), unread: 1}
	m := newLoadedInbox(t, store)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, ViewStateDetail, m.State())

	_, refetch := m.Update(cmd())
	assert.Equal(t, []string{"n1"}, store.markRead)
	require.NotNil(t, refetch)

	view := m.View()
	assert.Contains(t, view, "GR-0042 was approved")
	assert.Contains(t, view, "Request 42")

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	assert.Equal(t, ViewStateList, m.State())
}

func TestNotificationsModel_Actions(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		notice string
		check  func(t *testing.T, s *fakeStore)
	}{
		{"mark read", "a", "Marked as read.", func(t *testing.T, s *fakeStore) {
			assert.Equal(t, []string{"n1"}, s.markRead)
		}},
		{"mark all read", "A", service.MsgAllMarkedRead, func(t *testing.T, s *fakeStore) {
			assert.Equal(t, 1, s.allRead)
		}},
		{"delete", "d", service.MsgDeleted, func(t *testing.T, s *fakeStore) {
			assert.Equal(t, []string{"n1"}, s.deleted)
		}},
		{"delete all", "D", service.MsgAllDeleted, func(t *testing.T, s *fakeStore) {
			assert.Equal(t, 1, s.allDelete)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{items: sampleNotifications(), unread: 1}
			m := newLoadedInbox(t, store)

			_, cmd := m.Update(runeKey(tt.key))
			require.NotNil(t, cmd)
			_, _ = m.Update(cmd())

			tt.check(t, store)
			assert.Contains(t, m.View(), tt.notice)
		})
	}
}

func TestNotificationsModel_MarkReadSkipsReadItem(t *testing.T) {
	store := &fakeStore{items: sampleNotifications()}
	m := newLoadedInbox(t, store)
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})

	_, cmd := m.Update(runeKey("a"))
	assert.Nil(t, cmd)
}

func TestNotificationsModel_TabTogglesUnreadFilter(t *testing.T) {
	store := &fakeStore{items: sampleNotifications()}
	m := newLoadedInbox(t, store)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.NotNil(t, cmd)
	_, _ = m.Update(cmd())

	last := store.filters[len(store.filters)-1]
	require.NotNil(t, last.IsRead)
	assert.False(t, *last.IsRead)
	assert.Contains(t, m.View(), "Showing: Unread")
}

func TestNotificationsModel_UnreadUpdates(t *testing.T) {
	updates := make(chan notify.Update, 1)
	store := &fakeStore{items: sampleNotifications(), unread: 1}
	m := NewNotificationsModel(context.Background(), store, model.NotificationFilter{}).WithUpdates(updates)
	_, _ = m.Update(m.fetchCmd()())

	updates <- notify.Update{Count: 3, Previous: 1}
	msg := m.waitForUpdate()()
	_, cmd := m.Update(msg)

	assert.Equal(t, 3, m.Unread())
	assert.NotNil(t, cmd)

	close(updates)
	assert.Nil(t, m.waitForUpdate()())
}

func TestNotificationsModel_Quit(t *testing.T) {
	m := newLoadedInbox(t, &fakeStore{})
	_, cmd := m.Update(runeKey("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, ViewStateQuitting, m.State())
}
