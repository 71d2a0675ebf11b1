package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/grantdesk/internal/format"
	"github.com/rshade/grantdesk/internal/model"
	"github.com/rshade/grantdesk/internal/notify"
	"github.com/rshade/grantdesk/internal/service"
	listview "github.com/rshade/grantdesk/internal/tui/list"
)

const (
	notifColWidthTitle   = 36
	notifColWidthType    = 8
	notifColWidthWhen    = 18
	notifColWidthMessage = 40
	notifHeaderHeight    = 6
)

type notificationsLoadedMsg struct {
	items  []model.Notification
	unread int
}

type notificationActionMsg struct {
	notice string
}

type unreadUpdateMsg notify.Update

// NotificationsModel is the interactive notification inbox.
type NotificationsModel struct {
	ctx     context.Context
	store   service.NotificationStore
	filter  model.NotificationFilter
	updates <-chan notify.Update

	state   ViewState
	items   []model.Notification
	unread  int
	list    *listview.VirtualListModel[model.Notification]
	loading *LoadingState
	notice  string
	opened  model.Notification

	width  int
	height int
}

// NewNotificationsModel creates an inbox that lists notifications with filter.
func NewNotificationsModel(
	ctx context.Context,
	store service.NotificationStore,
	filter model.NotificationFilter,
) *NotificationsModel {
	m := &NotificationsModel{
		ctx:     ctx,
		store:   store,
		filter:  filter,
		state:   ViewStateLoading,
		loading: NewLoadingState("Loading notifications..."),
		width:   defaultWidth,
		height:  defaultHeight,
	}
	m.rebuildList()
	return m
}

// WithUpdates subscribes the inbox to unread-count changes from a notify.Poller.
func (m *NotificationsModel) WithUpdates(updates <-chan notify.Update) *NotificationsModel {
	m.updates = updates
	return m
}

// Init starts the spinner, the first fetch, and the update subscription.
func (m *NotificationsModel) Init() tea.Cmd {
	return tea.Batch(m.loading.Init(), m.fetchCmd(), m.waitForUpdate())
}

// Items returns the notifications currently listed.
func (m *NotificationsModel) Items() []model.Notification {
	return m.items
}

// Unread returns the last known unread total.
func (m *NotificationsModel) Unread() int {
	return m.unread
}

// State returns the current screen.
func (m *NotificationsModel) State() ViewState {
	return m.state
}

func (m *NotificationsModel) fetchCmd() tea.Cmd {
	ctx, store, filter := m.ctx, m.store, m.filter
	return func() tea.Msg {
		items := store.List(ctx, filter)
		return notificationsLoadedMsg{items: items, unread: store.UnreadCount(ctx).Count}
	}
}

func (m *NotificationsModel) waitForUpdate() tea.Cmd {
	if m.updates == nil {
		return nil
	}
	ch := m.updates
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return nil
		}
		return unreadUpdateMsg(u)
	}
}

func (m *NotificationsModel) actionCmd(action func(ctx context.Context) string) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return notificationActionMsg{notice: action(ctx)}
	}
}

// Update handles messages and updates the model state.
func (m *NotificationsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.rebuildList()
		return m, nil
	case notificationsLoadedMsg:
		m.items = msg.items
		m.unread = msg.unread
		if m.state == ViewStateLoading {
			m.state = ViewStateList
		}
		m.rebuildList()
		return m, nil
	case notificationActionMsg:
		m.notice = msg.notice
		return m, m.fetchCmd()
	case unreadUpdateMsg:
		m.unread = msg.Count
		if msg.Count > msg.Previous {
			return m, tea.Batch(m.fetchCmd(), m.waitForUpdate())
		}
		return m, m.waitForUpdate()
	case tea.KeyMsg:
		switch m.state {
		case ViewStateList:
			return m.handleListKey(msg)
		case ViewStateDetail:
			return m.handleDetailKey(msg)
		case ViewStateLoading, ViewStateError, ViewStateQuitting:
			if msg.String() == keyQuit || msg.String() == keyCtrlC {
				m.state = ViewStateQuitting
				return m, tea.Quit
			}
		}
		return m, nil
	}

	if m.state == ViewStateLoading {
		return m, m.loading.Update(msg)
	}
	return m, nil
}

func (m *NotificationsModel) selected() *model.Notification {
	if m.list == nil {
		return nil
	}
	return m.list.SelectedItem()
}

//nolint:gocognit // One branch per key binding.
func (m *NotificationsModel) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	store := m.store
	switch msg.String() {
	case keyQuit, keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keyEnter:
		n := m.selected()
		if n == nil {
			return m, nil
		}
		m.state = ViewStateDetail
		m.opened = *n
		if n.IsRead {
			return m, nil
		}
		id := n.ID
		return m, m.actionCmd(func(ctx context.Context) string {
			store.MarkRead(ctx, id)
			return ""
		})
	case "a":
		n := m.selected()
		if n == nil || n.IsRead {
			return m, nil
		}
		id := n.ID
		return m, m.actionCmd(func(ctx context.Context) string {
			if store.MarkRead(ctx, id) == nil {
				return "Could not mark notification as read."
			}
			return "Marked as read."
		})
	case "A":
		return m, m.actionCmd(func(ctx context.Context) string {
			return store.MarkAllRead(ctx).Message
		})
	case "d":
		n := m.selected()
		if n == nil {
			return m, nil
		}
		id := n.ID
		return m, m.actionCmd(func(ctx context.Context) string {
			return store.Delete(ctx, id).Message
		})
	case "D":
		return m, m.actionCmd(func(ctx context.Context) string {
			return store.DeleteAll(ctx).Message
		})
	case keyRetry:
		m.notice = ""
		return m, m.fetchCmd()
	case keyTab:
		m.toggleFilter()
		return m, m.fetchCmd()
	}

	if m.list != nil {
		_, cmd := m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *NotificationsModel) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyQuit, keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keyEsc, keyEnter:
		m.state = ViewStateList
	}
	return m, nil
}

// toggleFilter cycles between all notifications and unread only.
func (m *NotificationsModel) toggleFilter() {
	if m.filter.IsRead == nil {
		unread := false
		m.filter.IsRead = &unread
	} else {
		m.filter.IsRead = nil
	}
}

func (m *NotificationsModel) filterLabel() string {
	switch {
	case m.filter.IsRead == nil:
		return "All"
	case *m.filter.IsRead:
		return "Read"
	default:
		return "Unread"
	}
}

func (m *NotificationsModel) rebuildList() {
	var cursor int
	if m.list != nil {
		cursor = m.list.Selected()
	}
	height := max(m.height-notifHeaderHeight, minHeight)
	m.list = listview.NewVirtualListModel(m.items, height, m.width, renderNotificationRow)
	m.list.SetSelected(cursor)
}

func renderNotificationRow(n model.Notification, selected bool) string {
	marker := " "
	if !n.IsRead {
		marker = IconUnread
	}
	row := fmt.Sprintf("%s %-*s  %-*s  %-*s  %s",
		marker,
		notifColWidthTitle, format.Truncate(n.Title, notifColWidthTitle),
		notifColWidthType, string(n.Type),
		notifColWidthWhen, format.Time(n.CreatedAt, format.TimestampLayout),
		format.Truncate(n.Message, notifColWidthMessage),
	)
	if selected {
		return SelectedStyle.Render(row)
	}
	if n.IsRead {
		return SubtleStyle.Render(row)
	}
	return row
}

// NotificationTypeIcon returns a styled icon for a notification type.
func NotificationTypeIcon(t model.NotificationType) string {
	switch t {
	case model.NotificationSuccess:
		return OKStyle.Render(IconDone)
	case model.NotificationWarning:
		return WarnStyle.Render(IconWarning)
	case model.NotificationError:
		return ErrorStyle.Render(IconError)
	case model.NotificationInfo:
		return InfoStyle.Render(IconInfo)
	default:
		return InfoStyle.Render(IconInfo)
	}
}

// View renders the current view.
func (m *NotificationsModel) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateLoading:
		return RenderLoading(m.loading)
	case ViewStateDetail:
		return m.renderDetailView()
	case ViewStateList:
		return m.renderListView()
	case ViewStateError:
		return ErrorStyle.Render("Notifications are unavailable.")
	default:
		return ""
	}
}

func (m *NotificationsModel) renderListView() string {
	title := HeaderStyle.Render(fmt.Sprintf("NOTIFICATIONS  %d unread", m.unread)) +
		SubtleStyle.Render("  Showing: "+m.filterLabel())

	header := ListHeaderStyle.Render(fmt.Sprintf("  %-*s  %-*s  %-*s  %s",
		notifColWidthTitle, "Title",
		notifColWidthType, "Type",
		notifColWidthWhen, "Received",
		"Message",
	))

	body := SubtleStyle.Render("No notifications.")
	if len(m.items) > 0 {
		body = m.list.View()
	}

	sections := []string{title, header, body}
	if m.notice != "" {
		sections = append(sections, InfoStyle.Render(m.notice))
	}
	sections = append(sections, SubtleStyle.Render(
		"[Enter] Open  [a] Read  [A] Read all  [d] Delete  [D] Delete all  [Tab] Filter  [r] Refresh  [q] Quit"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *NotificationsModel) renderDetailView() string {
	n := m.opened

	var content strings.Builder
	content.WriteString(NotificationTypeIcon(n.Type))
	content.WriteString(" ")
	content.WriteString(HeaderStyle.Render(n.Title))
	content.WriteString("\n\n")
	content.WriteString(n.Message)
	content.WriteString("\n\n")
	writeField(&content, "Received", format.Time(n.CreatedAt, format.TimestampLayout))
	if n.RelatedEntityType != nil && n.RelatedEntityID != nil {
		writeField(&content, "Related", format.Humanize(*n.RelatedEntityType)+" "+*n.RelatedEntityID)
	}
	content.WriteString("\n")
	content.WriteString(SubtleStyle.Render("Press ESC to return"))

	return BoxStyle.Width(m.width - borderPadding).Render(content.String())
}
