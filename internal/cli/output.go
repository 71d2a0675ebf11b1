package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rshade/grantdesk/internal/config"
	"github.com/rshade/grantdesk/internal/format"
	"github.com/rshade/grantdesk/internal/loader"
	"github.com/rshade/grantdesk/internal/model"
	"github.com/rshade/grantdesk/internal/tui"
)

// Output formats accepted by --output.
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

const (
	titleWidth   = 40
	messageWidth = 60
)

// resolveOutputFormat applies the configured default and rejects unknown formats.
func resolveOutputFormat(flagValue string) (string, error) {
	f := strings.ToLower(config.GetOutputFormat(flagValue))
	switch f {
	case OutputTable, OutputJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", f)
	}
}

// detailJSON is the --output json shape of a populated request.
type detailJSON struct {
	Request  *model.Request  `json:"request"`
	Workflow *model.Workflow `json:"workflow"`
	Comments []model.Comment `json:"comments"`
	Partial  bool            `json:"partial,omitempty"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderDetailJSON writes the populated detail as one JSON document.
func renderDetailJSON(w io.Writer, d loader.Detail) error {
	comments := d.Comments
	if comments == nil {
		comments = []model.Comment{}
	}
	return writeJSON(w, detailJSON{
		Request:  d.Request,
		Workflow: d.Workflow,
		Comments: comments,
		Partial:  d.Partial,
	})
}

// renderDetailPlain writes the populated detail as aligned text.
func renderDetailPlain(w io.Writer, d loader.Detail) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	r := d.Request

	fmt.Fprintf(tw, "Ticket:\t%s\n", r.TicketNumber)
	fmt.Fprintf(tw, "Title:\t%s\n", r.Title)
	fmt.Fprintf(tw, "Type:\t%s\n", format.Humanize(r.RequestType))
	fmt.Fprintf(tw, "Amount:\t%s\n", format.Amount(r.Amount))
	fmt.Fprintf(tw, "Status:\t%s\n", format.Humanize(r.Status))
	fmt.Fprintf(tw, "Requester:\t%s\n", r.RequesterName)
	fmt.Fprintf(tw, "Submitted:\t%s\n", format.Time(r.CreatedAt, format.DateLayout))
	fmt.Fprintf(tw, "Updated:\t%s\n", format.Time(r.UpdatedAt, format.DateLayout))
	if r.Description != "" {
		fmt.Fprintf(tw, "Description:\t%s\n", r.Description)
	}

	fmt.Fprintln(tw)
	switch {
	case d.Workflow != nil:
		stage := model.StageLabel(d.Workflow.Status)
		if idx := model.StageIndex(d.Workflow.Status); idx >= 0 {
			stage = fmt.Sprintf("%s (%d/%d)", stage, idx+1, len(model.Stages()))
		}
		fmt.Fprintf(tw, "Stage:\t%s\n", stage)
		fmt.Fprintf(tw, "Assigned to:\t%s\n", orDash(d.Workflow.AssignedToName))
	case d.Partial:
		fmt.Fprintln(tw, "Workflow not loaded.")
	default:
		fmt.Fprintln(tw, "No workflow.")
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nComments (%d)\n", len(d.Comments))
	for _, c := range d.Comments {
		fmt.Fprintf(w, "  %s  %s\n", c.UserName, format.Time(c.CreatedAt, format.TimestampLayout))
		fmt.Fprintf(w, "    %s\n", c.Comment)
	}
	return nil
}

// renderRequestTable writes one row per request.
func renderRequestTable(w io.Writer, requests []model.Request) error {
	if len(requests) == 0 {
		_, err := fmt.Fprintln(w, "No requests found.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTICKET\tTITLE\tTYPE\tAMOUNT\tSTATUS\tSUBMITTED")
	for _, r := range requests {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID,
			r.TicketNumber,
			format.Truncate(r.Title, titleWidth),
			format.Humanize(r.RequestType),
			format.Amount(r.Amount),
			format.Humanize(r.Status),
			format.Time(r.CreatedAt, format.DateLayout),
		)
	}
	return tw.Flush()
}

// renderNotificationTable writes one row per notification.
func renderNotificationTable(w io.Writer, items []model.Notification) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No notifications.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\t \tTYPE\tTITLE\tMESSAGE\tRECEIVED")
	for _, n := range items {
		unread := " "
		if !n.IsRead {
			unread = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			n.ID,
			unread,
			n.Type,
			format.Truncate(n.Title, titleWidth),
			format.Truncate(n.Message, messageWidth),
			format.Time(n.CreatedAt, format.TimestampLayout),
		)
	}
	return tw.Flush()
}

// detailError turns a NotFound snapshot into the error reported to the user.
func detailError(snap loader.DetailSnapshot) error {
	if snap.Err != "" {
		return errors.New(snap.Err)
	}
	return errors.New(tui.MsgNotFound)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
