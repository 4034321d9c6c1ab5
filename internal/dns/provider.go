package dns

import (
	"context"
	"errors"
)

// Record represents a provider-side DNS record
type Record struct {
	ID      string // Provider-assigned record identifier
	Type    string // Record type (always "A" for updates)
	Name    string // FQDN (e.g., home.example.com)
	Content string // IP address
	TTL     int    // Time to live (1 = automatic on Cloudflare)
	Proxied bool   // Cloudflare proxy (orange cloud)
}

// Provider error taxonomy. Callers classify with errors.Is; every error
// returned by a Provider wraps exactly one of these sentinels.
var (
	// ErrUnavailable is returned on network/transport failures
	ErrUnavailable = errors.New("dns provider unavailable")

	// ErrAuth is returned when the provider rejects the API credentials
	ErrAuth = errors.New("dns provider rejected credentials")

	// ErrNotFound is returned when the record no longer exists upstream
	ErrNotFound = errors.New("dns record not found")

	// ErrRejected is returned when the provider refuses the written values
	ErrRejected = errors.New("dns provider rejected record values")
)

// Provider defines read/write access to DNS "A" records on a provider.
// Implementations perform real network I/O; a write must never be
// retried without re-reading current state first.
type Provider interface {
	// GetRecord fetches the current state of the A record with the given name
	GetRecord(ctx context.Context, name string) (*Record, error)

	// UpdateRecord sets the record's IP to newIP, preserving name, TTL
	// and proxy flag, and returns the record as stored by the provider
	UpdateRecord(ctx context.Context, record *Record, newIP string) (*Record, error)
}
