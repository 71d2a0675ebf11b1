package loader

import (
	"sort"
	"time"

	"github.com/rshade/grantdesk/internal/model"
)

// EventKind tags a timeline entry.
type EventKind string

// Timeline event kinds.
const (
	EventSubmitted EventKind = "submitted"
	EventUpdated   EventKind = "updated"
	EventAssigned  EventKind = "assigned"
	EventStage     EventKind = "stage"
	EventComment   EventKind = "comment"
)

// TimelineEvent is one row of a request's history.
type TimelineEvent struct {
	At    time.Time
	Kind  EventKind
	Actor string
	Text  string
}

// Timeline flattens a populated detail into chronological events. Events
// with equal timestamps keep their natural order: request, workflow, comments.
func Timeline(d Detail) []TimelineEvent {
	var events []TimelineEvent

	if r := d.Request; r != nil {
		events = append(events, TimelineEvent{
			At:    r.CreatedAt,
			Kind:  EventSubmitted,
			Actor: r.RequesterName,
			Text:  "Request " + r.TicketNumber + " submitted",
		})
		if r.UpdatedAt.After(r.CreatedAt) {
			events = append(events, TimelineEvent{
				At:   r.UpdatedAt,
				Kind: EventUpdated,
				Text: "Request status: " + r.Status,
			})
		}
	}

	if wf := d.Workflow; wf != nil {
		if wf.AssignedToName != "" {
			events = append(events, TimelineEvent{
				At:    wf.CreatedAt,
				Kind:  EventAssigned,
				Actor: wf.AssignedToName,
				Text:  "Assigned to " + wf.AssignedToName,
			})
		}
		if wf.Status != "" {
			events = append(events, TimelineEvent{
				At:   wf.UpdatedAt,
				Kind: EventStage,
				Text: "Stage: " + model.StageLabel(wf.Status),
			})
		}
	}

	for _, c := range d.Comments {
		events = append(events, TimelineEvent{
			At:    c.CreatedAt,
			Kind:  EventComment,
			Actor: c.UserName,
			Text:  c.Comment,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].At.Before(events[j].At)
	})
	return events
}
