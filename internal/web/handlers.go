package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rshade/grantdesk/internal/loader"
	"github.com/rshade/grantdesk/internal/logging"
	"github.com/rshade/grantdesk/internal/model"
)

// Notices shown after a redirect.
const (
	noticeCommentAdded = "Comment added."
	noticeMarkedRead   = "Marked as read."
	noticeNotMarked    = "Could not mark notification as read."
)

type stageView struct {
	Label string
	Class string
}

type page struct {
	Title  string
	Notice string
	Unread int
}

type detailPage struct {
	page
	RequestID    string
	Error        string
	Detail       loader.Detail
	Stages       []stageView
	UnknownStage string
	Timeline     []loader.TimelineEvent
}

type notificationsPage struct {
	page
	Filter        string
	FilterLabel   string
	Notifications []model.Notification
	NextOffset    int
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) unreadCount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Notifications.UnreadCount(r.Context()))
}

func (s *Server) newPage(r *http.Request, title string) page {
	return page{
		Title:  title,
		Notice: r.URL.Query().Get("notice"),
		Unread: s.deps.Notifications.UnreadCount(r.Context()).Count,
	}
}

func (s *Server) requestDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctrl := s.newController()
	snap := ctrl.Load(r.Context(), id)
	s.remember(id, ctrl)
	s.renderDetail(w, r, snap, "", http.StatusOK)
}

func (s *Server) requestRetry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctrl := s.controller(id)

	var snap loader.DetailSnapshot
	if ctrl.RequestID() == id {
		snap = ctrl.Retry(r.Context())
	} else {
		snap = ctrl.Load(r.Context(), id)
	}
	s.renderDetail(w, r, snap, "", http.StatusOK)
}

func (s *Server) addComment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	text := strings.TrimSpace(r.PostForm.Get("comment"))

	ctrl := s.controller(id)
	snap := ctrl.Snapshot()
	if snap.Status != loader.StatusPopulated || snap.RequestID != id {
		snap = ctrl.Load(r.Context(), id)
	}
	if snap.Status != loader.StatusPopulated {
		s.renderDetail(w, r, snap, "", http.StatusOK)
		return
	}

	if _, err := ctrl.AddComment(r.Context(), text); err != nil {
		logging.FromContext(r.Context()).Warn().
			Str("component", "web").
			Str("request_id", id).
			Err(err).
			Msg("comment rejected")
		s.renderDetail(w, r, ctrl.Snapshot(), "Failed to add comment: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	redirectWithNotice(w, r, "/requests/"+url.PathEscape(id), noticeCommentAdded)
}

// renderDetail picks exactly one branch: the populated page or the error page.
func (s *Server) renderDetail(
	w http.ResponseWriter,
	r *http.Request,
	snap loader.DetailSnapshot,
	notice string,
	status int,
) {
	data := detailPage{page: s.newPage(r, "Request "+snap.RequestID), RequestID: snap.RequestID}
	if notice != "" {
		data.Notice = notice
	}

	switch snap.Status {
	case loader.StatusPopulated:
	case loader.StatusIdle, loader.StatusLoading:
		// Only reached when the client went away mid-load.
		data.Error = "Request details are still loading. Please refresh."
		s.render(w, r, pageError, data, http.StatusServiceUnavailable)
		return
	default:
		data.Error = snap.Err
		if data.Error == "" {
			data.Error = "Request not found."
		}
		s.render(w, r, pageError, data, http.StatusNotFound)
		return
	}

	data.Detail = snap.Value
	data.Timeline = loader.Timeline(snap.Value)
	if wf := snap.Value.Workflow; wf != nil {
		data.Stages, data.UnknownStage = stageViews(wf.Status)
	}
	if snap.Value.Request != nil {
		data.Title = snap.Value.Request.TicketNumber
	}
	s.render(w, r, pageDetail, data, status)
}

func stageViews(current string) ([]stageView, string) {
	idx := model.StageIndex(current)
	views := make([]stageView, 0, len(model.Stages()))
	for i, st := range model.Stages() {
		v := stageView{Label: model.StageLabel(string(st))}
		switch {
		case idx < 0:
		case i < idx:
			v.Class = "done"
		case i == idx:
			v.Class = "current"
		}
		views = append(views, v)
	}
	if idx < 0 && current != "" {
		return views, model.StageLabel(current)
	}
	return views, ""
}

func (s *Server) listNotifications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filterName := q.Get("filter")
	limit := queryInt(q, "limit", s.opts.PageSize)
	offset := queryInt(q, "offset", 0)

	filter := model.NotificationFilter{Limit: &limit, Offset: &offset}
	label := "all"
	switch filterName {
	case "unread":
		isRead := false
		filter.IsRead = &isRead
		label = "unread"
	case "read":
		isRead := true
		filter.IsRead = &isRead
		label = "read"
	default:
		filterName = ""
	}

	items := s.deps.Notifications.List(r.Context(), filter)
	data := notificationsPage{
		page:          s.newPage(r, "Notifications"),
		Filter:        filterName,
		FilterLabel:   label,
		Notifications: items,
	}
	if len(items) == limit {
		data.NextOffset = offset + limit
	}
	s.render(w, r, pageNotifications, data, http.StatusOK)
}

func (s *Server) markRead(w http.ResponseWriter, r *http.Request) {
	notice := noticeMarkedRead
	if s.deps.Notifications.MarkRead(r.Context(), chi.URLParam(r, "id")) == nil {
		notice = noticeNotMarked
	}
	redirectWithNotice(w, r, "/notifications", notice)
}

func (s *Server) markAllRead(w http.ResponseWriter, r *http.Request) {
	redirectWithNotice(w, r, "/notifications", s.deps.Notifications.MarkAllRead(r.Context()).Message)
}

func (s *Server) deleteNotification(w http.ResponseWriter, r *http.Request) {
	resp := s.deps.Notifications.Delete(r.Context(), chi.URLParam(r, "id"))
	redirectWithNotice(w, r, "/notifications", resp.Message)
}

func (s *Server) deleteAllNotifications(w http.ResponseWriter, r *http.Request) {
	redirectWithNotice(w, r, "/notifications", s.deps.Notifications.DeleteAll(r.Context()).Message)
}

// render executes a page into a buffer first so a template error never
// leaves a half-written response.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any, status int) {
	var buf bytes.Buffer
	if err := s.pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		logging.FromContext(r.Context()).Error().
			Str("component", "web").
			Str("page", name).
			Err(err).
			Msg("template render failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func redirectWithNotice(w http.ResponseWriter, r *http.Request, path, notice string) {
	if notice != "" {
		path += "?notice=" + url.QueryEscape(notice)
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// queryInt parses a non-negative integer query parameter, or returns def.
func queryInt(q url.Values, key string, def int) int {
	n, err := strconv.Atoi(q.Get(key))
	if err != nil || n < 0 {
		return def
	}
	return n
}
