package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/grantdesk/internal/format"
	"github.com/rshade/grantdesk/internal/loader"
	"github.com/rshade/grantdesk/internal/model"
)

const labelWidth = 14

// MsgNotFound is shown for a NotFound view with no failure message.
const MsgNotFound = "Request not found."

// RenderStageProgress draws the five approval stages with the current one
// highlighted. A stage id outside the known set is shown on its own.
func RenderStageProgress(current string) string {
	idx := model.StageIndex(current)
	if idx < 0 {
		if current == "" {
			return SubtleStyle.Render("No workflow stage")
		}
		return WarnStyle.Render(model.StageLabel(current))
	}

	parts := make([]string, 0, len(model.Stages()))
	for i, s := range model.Stages() {
		label := model.StageLabel(string(s))
		switch {
		case i < idx:
			parts = append(parts, OKStyle.Render(IconDone+" "+label))
		case i == idx:
			parts = append(parts, HeaderStyle.Render(IconCurrent+" "+label))
		default:
			parts = append(parts, SubtleStyle.Render(IconPending+" "+label))
		}
	}
	return strings.Join(parts, SubtleStyle.Render(" "+IconArrow+" "))
}

// RenderTimeline renders the request history oldest first.
func RenderTimeline(events []loader.TimelineEvent) string {
	if len(events) == 0 {
		return SubtleStyle.Render("No activity yet.")
	}
	var sb strings.Builder
	for i, e := range events {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(LabelStyle.Render(format.Time(e.At, format.TimestampLayout)))
		sb.WriteString("  ")
		sb.WriteString(e.Text)
		if e.Actor != "" {
			sb.WriteString(SubtleStyle.Render(" (" + e.Actor + ")"))
		}
	}
	return sb.String()
}

// RenderComments renders the comment thread in posting order.
func RenderComments(comments []model.Comment) string {
	if len(comments) == 0 {
		return SubtleStyle.Render("No comments yet.")
	}
	var sb strings.Builder
	for i, c := range comments {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(ValueStyle.Render(c.UserName))
		sb.WriteString(" ")
		sb.WriteString(SubtleStyle.Render(format.Time(c.CreatedAt, format.TimestampLayout)))
		sb.WriteString("\n")
		sb.WriteString(c.Comment)
	}
	return sb.String()
}

// RenderDetail renders a populated request with its workflow and comments.
func RenderDetail(d loader.Detail, width int) string {
	r := d.Request
	if r == nil {
		return ErrorStyle.Render(MsgNotFound)
	}

	var content strings.Builder
	content.WriteString(HeaderStyle.Render(fmt.Sprintf("%s  %s", r.TicketNumber, r.Title)))
	content.WriteString("\n\n")
	writeField(&content, "Type", format.Humanize(r.RequestType))
	writeField(&content, "Amount", format.Amount(r.Amount))
	writeField(&content, "Status", format.Humanize(r.Status))
	writeField(&content, "Requester", r.RequesterName)
	writeField(&content, "Submitted", format.Time(r.CreatedAt, format.DateLayout))
	writeField(&content, "Updated", format.Time(r.UpdatedAt, format.DateLayout))

	if r.Description != "" {
		content.WriteString("\n")
		content.WriteString(lipgloss.NewStyle().Width(max(width-borderPadding*2, 20)).Render(r.Description))
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(HeaderStyle.Render("WORKFLOW"))
	content.WriteString("\n")
	switch {
	case d.Workflow != nil:
		content.WriteString(RenderStageProgress(d.Workflow.Status))
		content.WriteString("\n")
		writeField(&content, "Assigned to", orDash(d.Workflow.AssignedToName))
	case d.Partial:
		content.WriteString(SubtleStyle.Render("Workflow not loaded. Press R to reload everything."))
		content.WriteString("\n")
	default:
		content.WriteString(SubtleStyle.Render("No workflow."))
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(HeaderStyle.Render("TIMELINE"))
	content.WriteString("\n")
	content.WriteString(RenderTimeline(loader.Timeline(d)))
	content.WriteString("\n\n")

	content.WriteString(HeaderStyle.Render(fmt.Sprintf("COMMENTS (%d)", len(d.Comments))))
	content.WriteString("\n")
	content.WriteString(RenderComments(d.Comments))

	return BoxStyle.Width(width - borderPadding).Render(content.String())
}

// RenderDetailError renders a failed or missing request view.
func RenderDetailError(snap loader.DetailSnapshot) string {
	msg := snap.Err
	if msg == "" {
		msg = MsgNotFound
	}
	var sb strings.Builder
	sb.WriteString(ErrorStyle.Render(IconError + " " + msg))
	if snap.RequestID != "" {
		sb.WriteString("\n")
		sb.WriteString(SubtleStyle.Render("Request: " + snap.RequestID))
	}
	sb.WriteString("\n\n")
	sb.WriteString(SubtleStyle.Render("[r] Retry  [q] Quit"))
	return sb.String()
}

func writeField(sb *strings.Builder, label, value string) {
	sb.WriteString(LabelStyle.Render(fmt.Sprintf("%-*s", labelWidth, label+":")))
	sb.WriteString(ValueStyle.Render(value))
	sb.WriteString("\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
