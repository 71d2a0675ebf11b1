package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/grantdesk/internal/batch"
	"github.com/rshade/grantdesk/internal/cli/pagination"
	"github.com/rshade/grantdesk/internal/config"
	"github.com/rshade/grantdesk/internal/format"
	"github.com/rshade/grantdesk/internal/model"
	"github.com/rshade/grantdesk/internal/notify"
	"github.com/rshade/grantdesk/internal/tui"
)

// bulkConcurrency bounds parallel per-id notification calls.
const bulkConcurrency = 4

// NewNotificationsCmd creates the notifications command group.
func NewNotificationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notification", "notif"},
		Short:   "Notification inbox commands",
		Long: `Read and manage the notification inbox.

Notification calls are best effort: when the backend is unreachable the
commands show empty results and report a warning instead of failing.`,
	}
	cmd.AddCommand(
		NewNotificationsListCmd(),
		NewNotificationsCountCmd(),
		NewNotificationsReadCmd(),
		NewNotificationsReadAllCmd(),
		NewNotificationsDeleteCmd(),
		NewNotificationsClearCmd(),
		NewNotificationsWatchCmd(),
		NewNotificationsTUICmd(),
	)
	return cmd
}

// readFilter maps --unread/--read onto the is_read query parameter.
func readFilter(unread, read bool) (*bool, error) {
	switch {
	case unread && read:
		return nil, errors.New("--unread and --read are mutually exclusive")
	case unread:
		v := false
		return &v, nil
	case read:
		v := true
		return &v, nil
	default:
		return nil, nil
	}
}

// NewNotificationsListCmd lists notifications newest first.
func NewNotificationsListCmd() *cobra.Command {
	var (
		outputFormat string
		unread       bool
		read         bool
		page         pagination.Params
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notifications",
		Example: `  # Unread notifications only
  grantdesk notifications list --unread

  # Second page of 20
  grantdesk notifications list --page 2 --page-size 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			isRead, err := readFilter(unread, read)
			if err != nil {
				return err
			}
			if err = page.Validate(); err != nil {
				return err
			}
			fmtType, err := resolveOutputFormat(outputFormat)
			if err != nil {
				return err
			}
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			limit, offset := page.WithDefaultLimit(a.cfg.Notifications.PageSize).Query()
			items := a.notifications.List(commandContext(cmd), model.NotificationFilter{
				IsRead: isRead,
				Limit:  limit,
				Offset: offset,
			})
			a.warnFallbacks(cmd.ErrOrStderr())

			if fmtType == OutputJSON {
				return writeJSON(cmd.OutOrStdout(), items)
			}
			return renderNotificationTable(cmd.OutOrStdout(), items)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "", "output format: table or json (default from config)")
	cmd.Flags().BoolVar(&unread, "unread", false, "only unread notifications")
	cmd.Flags().BoolVar(&read, "read", false, "only read notifications")
	page.Bind(cmd)

	return cmd
}

// NewNotificationsCountCmd prints the unread total.
func NewNotificationsCountCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Show the number of unread notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmtType, err := resolveOutputFormat(outputFormat)
			if err != nil {
				return err
			}
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			count := a.notifications.UnreadCount(commandContext(cmd))
			a.warnFallbacks(cmd.ErrOrStderr())

			if fmtType == OutputJSON {
				return writeJSON(cmd.OutOrStdout(), count)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s unread\n", format.Count(count.Count))
			return err
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "", "output format: table or json (default from config)")
	return cmd
}

// runForIDs applies op to each id in batches with bounded concurrency and
// returns how many calls succeeded. When progress is non-nil a line is
// written to it after every batch.
func runForIDs(
	ctx context.Context,
	ids []string,
	progress io.Writer,
	op func(ctx context.Context, id string) bool,
) (int, error) {
	proc, err := batch.NewProcessor[string](batch.DefaultBatchSize)
	if err != nil {
		return 0, err
	}
	if progress != nil {
		proc.WithProgress(func(p batch.Progress) {
			_, _ = fmt.Fprintf(progress, "Processed %s/%s notification(s) (%.0f%%)\n",
				format.Count(p.Processed), format.Count(p.Total), p.Percent())
		})
	}

	var ok atomic.Int32
	err = proc.ProcessConcurrent(ctx, ids, func(ctx context.Context, chunk []string, _ int) error {
		for _, id := range chunk {
			if op(ctx, id) {
				ok.Add(1)
			}
		}
		return nil
	}, bulkConcurrency)
	return int(ok.Load()), err
}

// progressWriter returns stderr when progress was requested or stderr is a
// terminal, and nil otherwise.
func progressWriter(cmd *cobra.Command, force bool) io.Writer {
	w := cmd.ErrOrStderr()
	if force {
		return w
	}
	if f, ok := w.(*os.File); ok && isTerminal(f) {
		return w
	}
	return nil
}

// NewNotificationsReadCmd marks one or more notifications read.
func NewNotificationsReadCmd() *cobra.Command {
	var showProgress bool

	cmd := &cobra.Command{
		Use:   "read <id>...",
		Short: "Mark notifications as read",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			n, err := runForIDs(commandContext(cmd), args, progressWriter(cmd, showProgress),
				func(ctx context.Context, id string) bool {
					return a.notifications.MarkRead(ctx, id) != nil
				})
			if err != nil {
				return err
			}
			a.warnFallbacks(cmd.ErrOrStderr())
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Marked %d of %d notification(s) as read\n", n, len(args))
			return err
		},
	}

	cmd.Flags().BoolVar(&showProgress, "progress", false, "report per-batch progress on stderr (default when stderr is a terminal)")
	return cmd
}

// NewNotificationsReadAllCmd marks every notification read.
func NewNotificationsReadAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read-all",
		Short: "Mark all notifications as read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			resp := a.notifications.MarkAllRead(commandContext(cmd))
			a.warnFallbacks(cmd.ErrOrStderr())
			_, err = fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return err
		},
	}
}

// NewNotificationsDeleteCmd deletes one or more notifications.
func NewNotificationsDeleteCmd() *cobra.Command {
	var showProgress bool

	cmd := &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete notifications",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			_, err = runForIDs(commandContext(cmd), args, progressWriter(cmd, showProgress),
				func(ctx context.Context, id string) bool {
					a.notifications.Delete(ctx, id)
					return true
				})
			if err != nil {
				return err
			}
			a.warnFallbacks(cmd.ErrOrStderr())
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d notification(s)\n", len(args))
			return err
		},
	}

	cmd.Flags().BoolVar(&showProgress, "progress", false, "report per-batch progress on stderr (default when stderr is a terminal)")
	return cmd
}

// NewNotificationsClearCmd deletes every notification after confirmation.
func NewNotificationsClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			if !confirmDestructive(cmd, yes, "Delete all notifications?") {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return err
			}
			resp := a.notifications.DeleteAll(commandContext(cmd))
			a.warnFallbacks(cmd.ErrOrStderr())
			_, err = fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return err
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// NewNotificationsWatchCmd prints the unread count each time it changes.
func NewNotificationsWatchCmd() *cobra.Command {
	var (
		interval int
		once     bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the unread count whenever it changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			every := config.GetPollInterval()
			if interval > 0 {
				every = time.Duration(interval) * time.Second
			}

			for u := range notify.NewPoller(a.notifications, every).Run(ctx) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s unread\n",
					u.At.Format(format.TimestampLayout), format.Count(u.Count))
				if once {
					stop()
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&interval, "interval", 0, "poll interval in seconds (default from config)")
	cmd.Flags().BoolVar(&once, "once", false, "print the current count and exit")

	return cmd
}

// NewNotificationsTUICmd opens the interactive inbox.
func NewNotificationsTUICmd() *cobra.Command {
	var unread bool

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse notifications interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(commandContext(cmd))
			defer cancel()

			filter := model.NotificationFilter{}
			if unread {
				filter.IsRead = new(bool)
			}
			limit := a.cfg.Notifications.PageSize
			filter.Limit = &limit

			updates := notify.NewPoller(a.notifications, config.GetPollInterval()).Run(ctx)
			m := tui.NewNotificationsModel(ctx, a.notifications, filter).WithUpdates(updates)

			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err = p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return fmt.Errorf("running interactive inbox: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&unread, "unread", false, "start with only unread notifications")
	return cmd
}
