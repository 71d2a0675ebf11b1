// Package notify watches the unread notification count by polling.
//
// The backend offers no push channel, so Poller asks for the unread count on
// a fixed interval and publishes only changes. It sits on the best-effort
// notification facade: a failed poll reads as zero and polling continues.
package notify

import (
	"context"
	"time"

	"github.com/rshade/grantdesk/internal/logging"
	"github.com/rshade/grantdesk/internal/model"
)

// DefaultInterval is used when Poller is given a non-positive interval.
const DefaultInterval = 30 * time.Second

// CountSource reports the unread total. It must not block indefinitely.
type CountSource interface {
	UnreadCount(ctx context.Context) model.UnreadCount
}

// Update is published whenever the unread count changes.
type Update struct {
	Count    int
	Previous int
	At       time.Time
}

// Poller publishes unread-count changes until its context is cancelled.
type Poller struct {
	source   CountSource
	interval time.Duration
}

// NewPoller creates a poller over source.
func NewPoller(source CountSource, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{source: source, interval: interval}
}

// Run polls immediately and then every interval, sending an Update on the
// returned channel whenever the count differs from the last one sent. The
// first poll always produces an Update. The channel is closed when ctx ends.
func (p *Poller) Run(ctx context.Context) <-chan Update {
	out := make(chan Update, 1)
	go func() {
		defer close(out)

		log := logging.FromContext(ctx)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		last := -1
		for {
			count := p.source.UnreadCount(ctx).Count
			if count != last {
				prev := last
				if prev < 0 {
					prev = 0
				}
				select {
				case out <- Update{Count: count, Previous: prev, At: time.Now()}:
					log.Debug().Str("component", "notify").Int("unread", count).Msg("unread count changed")
					last = count
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return out
}
