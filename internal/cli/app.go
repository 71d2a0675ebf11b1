package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"

	"github.com/rshade/grantdesk/internal/api"
	"github.com/rshade/grantdesk/internal/cache"
	"github.com/rshade/grantdesk/internal/config"
	"github.com/rshade/grantdesk/internal/loader"
	"github.com/rshade/grantdesk/internal/logging"
	"github.com/rshade/grantdesk/internal/service"
	"github.com/rshade/grantdesk/pkg/version"
)

// app holds the facades shared by every command in one invocation. The
// transport client is built once and handed to each facade.
type app struct {
	cfg *config.Config

	requests      *service.RequestService
	reader        service.RequestReader
	workflows     *service.WorkflowService
	notifications *service.NotificationService

	mu        sync.Mutex
	fallbacks []string
}

// newApp validates the effective config and builds the facades over one client.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg := config.GetGlobalConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := api.NewClient(api.Options{
		BaseURL:   cfg.API.BaseURL,
		Token:     cfg.API.Token,
		Timeout:   config.GetAPITimeout(),
		UserAgent: "grantdesk/" + version.GetVersion(),
		Logger:    baseLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating api client: %w", err)
	}

	store, err := cache.NewFileStore(cfg.Cache.Directory, cfg.Cache.Enabled, cfg.Cache.TTLSeconds)
	if err != nil {
		logging.FromContext(cmd.Context()).Warn().
			Str("component", "cli").
			Err(err).
			Msg("request cache unavailable, reading through to the backend")
		store, _ = cache.NewFileStore("", false, 0)
	}

	a := &app{cfg: cfg}
	a.requests = service.NewRequestService(client)
	a.reader = service.NewCachedRequestService(a.requests, store, cfg.API.BaseURL)
	a.workflows = service.NewWorkflowService(client)
	a.notifications = service.NewNotificationService(client, service.WithFallbackHook(a.recordFallback))
	return a, nil
}

// detailController builds a controller over the cached request reader.
func (a *app) detailController() *loader.DetailController {
	return loader.NewDetailController(a.reader, a.workflows, a.workflows)
}

func (a *app) recordFallback(op string, _ error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fallbacks = append(a.fallbacks, op)
}

// fallbackOps returns the notification operations that degraded to defaults.
func (a *app) fallbackOps() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.fallbacks...)
}

// warnFallbacks tells the user that notification output may be defaults
// rather than backend data.
func (a *app) warnFallbacks(w io.Writer) {
	ops := a.fallbackOps()
	if len(ops) == 0 {
		return
	}
	_, _ = fmt.Fprintf(w, "Warning: notification service unavailable, showing defaults (%d operation(s) failed)\n",
		len(ops))
}

// commandContext returns the command's context, which carries the logger
// and trace ID once the root pre-run has executed.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
