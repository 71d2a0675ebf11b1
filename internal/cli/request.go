package cli

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/grantdesk/internal/cli/pagination"
	"github.com/rshade/grantdesk/internal/loader"
	"github.com/rshade/grantdesk/internal/model"
	"github.com/rshade/grantdesk/internal/tui"
)

// NewRequestCmd creates the request command group.
func NewRequestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "request",
		Aliases: []string{"requests", "req"},
		Short:   "Funding request commands",
	}
	cmd.AddCommand(NewRequestShowCmd(), NewRequestListCmd(), NewRequestCommentCmd())
	return cmd
}

// NewRequestShowCmd loads a request together with its workflow and comments.
// Nothing is printed unless all three loads succeed.
func NewRequestShowCmd() *cobra.Command {
	var (
		outputFormat string
		interactive  bool
	)

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a request with its approval workflow and comments",
		Example: `  # Print a request
  grantdesk request show 42

  # Open the interactive detail view
  grantdesk request show 42 --interactive

  # Emit JSON for scripting
  grantdesk request show 42 --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmtType, err := resolveOutputFormat(outputFormat)
			if err != nil {
				return err
			}
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)
			ctrl := a.detailController()

			if fmtType == OutputTable && tui.DetectOutputMode(interactive) == tui.OutputInteractive {
				return runDetailTUI(cmd, ctrl, args[0])
			}

			snap := ctrl.Load(ctx, args[0])
			if snap.Status != loader.StatusPopulated {
				return detailError(snap)
			}
			if fmtType == OutputJSON {
				return renderDetailJSON(cmd.OutOrStdout(), snap.Value)
			}
			return renderDetailPlain(cmd.OutOrStdout(), snap.Value)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "", "output format: table or json (default from config)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "open the interactive view even when stdout is not a terminal")

	return cmd
}

// runDetailTUI runs the detail screen until the user quits.
func runDetailTUI(cmd *cobra.Command, ctrl *loader.DetailController, id string) error {
	m := tui.NewDetailModel(commandContext(cmd), ctrl, id)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(commandContext(cmd)))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return fmt.Errorf("running interactive view: %w", err)
	}
	return nil
}

// NewRequestListCmd lists requests, optionally filtered by status and type.
func NewRequestListCmd() *cobra.Command {
	var (
		outputFormat string
		status       string
		requestType  string
		page         pagination.Params
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List funding requests",
		Example: `  # Requests awaiting director review
  grantdesk request list --status director_review

  # Second page of equipment requests
  grantdesk request list --type equipment --page 2 --page-size 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := page.Validate(); err != nil {
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

			limit, offset := page.Query()
			requests, err := a.requests.List(commandContext(cmd), model.RequestFilter{
				Status:      strings.TrimSpace(status),
				RequestType: strings.TrimSpace(requestType),
				Limit:       limit,
				Offset:      offset,
			})
			if err != nil {
				return fmt.Errorf("listing requests: %w", err)
			}

			if fmtType == OutputJSON {
				return writeJSON(cmd.OutOrStdout(), requests)
			}
			return renderRequestTable(cmd.OutOrStdout(), requests)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "", "output format: table or json (default from config)")
	cmd.Flags().StringVar(&status, "status", "", "only requests with this status")
	cmd.Flags().StringVar(&requestType, "type", "", "only requests of this type")
	page.Bind(cmd)

	return cmd
}

// NewRequestCommentCmd adds a comment to a request's workflow. The request is
// loaded first so that a comment is only posted against a request that exists.
func NewRequestCommentCmd() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "comment <id>",
		Short: "Add a comment to a request",
		Example: `  grantdesk request comment 42 --message "Please attach the vendor quote"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(message)
			if text == "" {
				return errors.New("comment message cannot be empty")
			}
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)
			ctrl := a.detailController()
			if snap := ctrl.Load(ctx, args[0]); snap.Status != loader.StatusPopulated {
				return detailError(snap)
			}

			created, err := ctrl.AddComment(ctx, text)
			if err != nil {
				return fmt.Errorf("adding comment: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Comment %s added to request %s (%d comments)\n",
				created.ID, args[0], len(ctrl.Snapshot().Value.Comments))
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "comment text (required)")
	_ = cmd.MarkFlagRequired("message")

	return cmd
}
