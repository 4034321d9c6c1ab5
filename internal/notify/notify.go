// Package notify fans a human-readable message out to all configured
// notification endpoints. Sends are best-effort everywhere in the
// service: a notification failure never changes a DNS outcome.
package notify

import (
	"context"

	"github.com/containrrr/shoutrrr"
	"github.com/containrrr/shoutrrr/pkg/router"
	"github.com/containrrr/shoutrrr/pkg/types"
	"github.com/sirupsen/logrus"
)

// Notifier sends one message to every configured endpoint
type Notifier interface {
	Send(ctx context.Context, title, message string) error
}

// Noop is the notifier used when notifications are disabled
type Noop struct{}

// Send discards the message
func (Noop) Send(ctx context.Context, title, message string) error {
	return nil
}

// Router delivers messages through shoutrrr service URLs
// (discord://..., telegram://..., generic webhook URLs, ...)
type Router struct {
	sender *router.ServiceRouter
	logger *logrus.Entry
}

// NewRouter builds a notifier from shoutrrr endpoint URLs.
// Disabled notifications or an empty URL list yield a Noop notifier.
func NewRouter(enabled bool, urls []string, logger *logrus.Entry) (Notifier, error) {
	filtered := urls[:0:0]
	for _, u := range urls {
		if u != "" {
			filtered = append(filtered, u)
		}
	}
	if !enabled || len(filtered) == 0 {
		logger.Info("notifications are disabled or not configured")
		return Noop{}, nil
	}

	sender, err := shoutrrr.CreateSender(filtered...)
	if err != nil {
		return nil, err
	}
	return &Router{sender: sender, logger: logger}, nil
}

// Send delivers the message to all endpoints. Per-endpoint failures
// are logged; the first one is returned so callers can count failures.
// The underlying sender has no context support, so the send runs on its
// own goroutine and Send gives up when ctx expires first. An abandoned
// send finishes in the background; only the wait is bounded.
func (r *Router) Send(ctx context.Context, title, message string) error {
	done := make(chan error, 1)
	go func() {
		var first error
		for _, err := range r.sender.Send(message, &types.Params{"title": title}) {
			if err == nil {
				continue
			}
			r.logger.WithError(err).Warn("notification endpoint failed")
			if first == nil {
				first = err
			}
		}
		done <- first
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		r.logger.WithError(ctx.Err()).Warn("notification send abandoned")
		return ctx.Err()
	}
}
