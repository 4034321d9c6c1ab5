// Package updater drives one end-to-end DNS update attempt per request:
// resolve the client address, locate the record for the token, compare
// against the provider's current state and conditionally write.
package updater

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bakerboy448/autodns/internal/clientip"
	"github.com/bakerboy448/autodns/internal/dns"
	"github.com/bakerboy448/autodns/internal/mapping"
	"github.com/bakerboy448/autodns/internal/metrics"
	"github.com/bakerboy448/autodns/internal/notify"
	"github.com/bakerboy448/autodns/internal/ratelimit"
)

// ErrRateLimited is returned when a token's update window has not yet
// elapsed since its last successful update.
var ErrRateLimited = errors.New("update rate limit exceeded for token")

// Status is the outcome of one update attempt
type Status string

const (
	// StatusUnchanged means the record already held the client address
	StatusUnchanged Status = "unchanged"
	// StatusUpdated means the record was rewritten to the client address
	StatusUpdated Status = "updated"
)

// Result describes a successful update attempt
type Result struct {
	Status Status
	Record string
	IP     string
}

// Updater orchestrates update attempts. Safe for concurrent use: all
// request state is local, the mapping is immutable and the limiter
// locks internally.
type Updater struct {
	store         *mapping.Store
	provider      dns.Provider
	notifier      notify.Notifier
	limiter       *ratelimit.Limiter
	logger        *logrus.Entry
	notifyTimeout time.Duration

	pending sync.WaitGroup
}

// Options configures an Updater
type Options struct {
	Store         *mapping.Store
	Provider      dns.Provider
	Notifier      notify.Notifier
	Limiter       *ratelimit.Limiter
	Logger        *logrus.Entry
	NotifyTimeout time.Duration
}

// New creates an Updater
func New(opts Options) *Updater {
	notifyTimeout := opts.NotifyTimeout
	if notifyTimeout <= 0 {
		notifyTimeout = 10 * time.Second
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.Noop{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Updater{
		store:         opts.Store,
		provider:      opts.Provider,
		notifier:      notifier,
		limiter:       opts.Limiter,
		logger:        logger,
		notifyTimeout: notifyTimeout,
	}
}

// Update runs one update attempt for a non-empty token.
//
// Error classification for the HTTP layer, via errors.Is:
// clientip.ErrInvalidAddress and mapping.ErrUnknownToken are client
// errors resolved before any network call, ErrRateLimited throttles,
// and anything wrapping the dns package sentinels is a provider error.
func (u *Updater) Update(ctx context.Context, token, forwardedFor, remoteAddr string) (*Result, error) {
	// Writes cannot be rolled back, so a client disconnect must not
	// cancel an in-flight provider call mid-update.
	ctx = context.WithoutCancel(ctx)

	ip, err := clientip.FromRequest(forwardedFor, remoteAddr)
	if err != nil {
		// A request that reaches us without a usable address points at
		// a misconfigured proxy or a probe; the operator wants to know.
		u.notifyAsync("autodns: update rejected",
			fmt.Sprintf("Rejected update request with no resolvable client address (peer %s).", remoteAddr))
		return nil, err
	}

	entry, err := u.store.Lookup(token)
	if err != nil {
		// Deliberately no notification: token scanning would spam.
		return nil, err
	}

	if u.limiter != nil && !u.limiter.Allow(token) {
		return nil, fmt.Errorf("%w: %s", ErrRateLimited, entry.Subdomain)
	}

	log := u.logger.WithFields(logrus.Fields{
		"record": entry.Subdomain,
		"ip":     ip,
	})

	start := time.Now()
	record, err := u.provider.GetRecord(ctx, entry.Subdomain)
	metrics.ObserveProviderCall("get", time.Since(start))
	if err != nil {
		log.WithError(err).Error("failed to read DNS record")
		u.notifyAsync("autodns: update failed",
			fmt.Sprintf("Failed to read DNS record for %s: %v", entry.Subdomain, err))
		return nil, fmt.Errorf("reading record %s: %w", entry.Subdomain, err)
	}

	if record.Content == ip {
		log.Debug("record already current, skipping update")
		return &Result{Status: StatusUnchanged, Record: record.Name, IP: ip}, nil
	}

	start = time.Now()
	updated, err := u.provider.UpdateRecord(ctx, record, ip)
	metrics.ObserveProviderCall("update", time.Since(start))
	if err != nil {
		log.WithError(err).Error("failed to write DNS record")
		u.notifyAsync("autodns: update failed",
			fmt.Sprintf("Failed to update DNS record for %s to %s: %v", record.Name, ip, err))
		return nil, fmt.Errorf("writing record %s: %w", record.Name, err)
	}

	if u.limiter != nil {
		u.limiter.Mark(token)
	}
	log.WithField("previous", record.Content).Info("DNS record updated")
	u.notifyAsync("autodns: record updated",
		fmt.Sprintf("DNS record for %s updated successfully to %s.", updated.Name, ip))

	return &Result{Status: StatusUpdated, Record: updated.Name, IP: ip}, nil
}

// notifyAsync dispatches a notification without blocking the request.
// Failures are counted and logged, never surfaced to the caller.
func (u *Updater) notifyAsync(title, message string) {
	u.pending.Add(1)
	go func() {
		defer u.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), u.notifyTimeout)
		defer cancel()
		if err := u.notifier.Send(ctx, title, message); err != nil {
			metrics.IncrementNotificationFailure()
			u.logger.WithError(err).Warn("failed to send notification")
		}
	}()
}

// Drain blocks until all in-flight notifications finish. Called during
// graceful shutdown so pending sends are not lost.
func (u *Updater) Drain() {
	u.pending.Wait()
}
