package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rshade/grantdesk/internal/web"
)

// NewServeCmd serves the web dashboard until interrupted.
func NewServeCmd() *cobra.Command {
	var (
		addr    string
		origins []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web dashboard",
		Example: `  # Serve on the configured address
  grantdesk serve

  # Allow a separate frontend to poll the unread count
  grantdesk serve --addr :8088 --cors-origin https://grants.example.org`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			listen := a.cfg.Web.Addr
			if addr != "" {
				listen = addr
			}

			srv, err := web.NewServer(web.Deps{
				Requests:      a.reader,
				Workflows:     a.workflows,
				Comments:      a.workflows,
				Notifications: a.notifications,
				Logger:        baseLogger,
			}, web.Options{
				RateLimitPerMinute: a.cfg.Web.RateLimitPerMinute,
				AllowedOrigins:     origins,
				PageSize:           a.cfg.Notifications.PageSize,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Serving dashboard on http://%s\n", listen)
			logger.Info().Ctx(ctx).Str("addr", listen).Msg("dashboard listening")

			if err = web.ListenAndServe(ctx, listen, srv.Handler()); err != nil {
				return fmt.Errorf("serving dashboard: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringSliceVar(&origins, "cors-origin", nil, "origin allowed to call the JSON API (repeatable)")

	return cmd
}
