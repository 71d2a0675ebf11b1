// Package web serves the grant approval dashboard over HTTP: request detail
// pages backed by the detail controller and the notification inbox backed
// by the best-effort notification facade.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"

	"github.com/rshade/grantdesk/internal/format"
	"github.com/rshade/grantdesk/internal/loader"
	"github.com/rshade/grantdesk/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageDetail        = "detail"
	pageError         = "error"
	pageNotifications = "notifications"

	maxControllers  = 256
	shutdownTimeout = 10 * time.Second
)

// Deps are the facades the dashboard reads from.
type Deps struct {
	Requests      loader.RequestFetcher
	Workflows     loader.WorkflowFetcher
	Comments      loader.CommentPoster
	Notifications service.NotificationStore
	Logger        zerolog.Logger
}

// Options tune the HTTP surface.
type Options struct {
	RateLimitPerMinute int
	AllowedOrigins     []string
	PageSize           int
}

// Server renders the dashboard pages.
type Server struct {
	deps  Deps
	opts  Options
	pages map[string]*template.Template

	mu          sync.Mutex
	controllers map[string]*loader.DetailController
}

// NewServer parses the embedded templates and binds the facades.
func NewServer(deps Deps, opts Options) (*Server, error) {
	if deps.Requests == nil || deps.Workflows == nil || deps.Comments == nil || deps.Notifications == nil {
		return nil, errors.New("web: all facades are required")
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 50
	}

	funcs := template.FuncMap{
		"amount":    format.Amount,
		"humanize":  format.Humanize,
		"date":      func(t time.Time) string { return format.Time(t, format.DateLayout) },
		"timestamp": func(t time.Time) string { return format.Time(t, format.TimestampLayout) },
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}

	pages := make(map[string]*template.Template)
	for _, name := range []string{pageDetail, pageError, pageNotifications} {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		pages[name] = t
	}

	return &Server{
		deps:        deps,
		opts:        opts,
		pages:       pages,
		controllers: make(map[string]*loader.DetailController),
	}, nil
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(TraceContext(s.deps.Logger))
	r.Use(RequestLogger())
	r.Use(Recoverer())
	r.Use(chimw.StripSlashes)
	if s.opts.RateLimitPerMinute > 0 {
		r.Use(httprate.LimitByIP(s.opts.RateLimitPerMinute, time.Minute))
	}

	r.Get("/healthz", s.health)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/notifications", http.StatusFound)
	})

	r.Route("/requests/{id}", func(r chi.Router) {
		r.Get("/", s.requestDetail)
		r.Get("/retry", s.requestRetry)
		r.Post("/comments", s.addComment)
	})

	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", s.listNotifications)
		r.Post("/read-all", s.markAllRead)
		r.Post("/clear", s.deleteAllNotifications)
		r.Post("/{id}/read", s.markRead)
		r.Post("/{id}/delete", s.deleteNotification)
	})

	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept"},
		}))
		r.Get("/api/notifications/unread-count", s.unreadCount)
	})

	return r
}

// controller returns the registered detail controller for id, creating it
// on first use. Retries and comments go through it so they act on the view
// the last page load produced.
func (s *Server) controller(id string) *loader.DetailController {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.controllers[id]; ok {
		return c
	}
	c := s.newController()
	s.storeLocked(id, c)
	return c
}

// newController builds an unregistered controller. Page loads each use
// their own so concurrent loads of one request never observe each other.
func (s *Server) newController() *loader.DetailController {
	return loader.NewDetailController(s.deps.Requests, s.deps.Workflows, s.deps.Comments)
}

// remember registers c as the controller for id.
func (s *Server) remember(id string, c *loader.DetailController) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storeLocked(id, c)
}

// storeLocked clears the registry when it grows past maxControllers.
func (s *Server) storeLocked(id string, c *loader.DetailController) {
	if _, ok := s.controllers[id]; !ok && len(s.controllers) >= maxControllers {
		clear(s.controllers)
	}
	s.controllers[id] = c
}

// ListenAndServe runs the dashboard on addr until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
