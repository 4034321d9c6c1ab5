package cloudflare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bakerboy448/autodns/internal/dns"
)

const (
	defaultAPIBase = "https://api.cloudflare.com/client/v4"
	defaultTimeout = 10 * time.Second
)

// Provider implements dns.Provider against the Cloudflare v4 API.
// All operations are scoped to a single zone.
type Provider struct {
	zoneID   string
	apiToken string
	email    string
	apiKey   string
	baseURL  string
	client   *http.Client
}

// Config holds Cloudflare API access configuration
type Config struct {
	ZoneID   string
	APIToken string // Bearer token auth (preferred)
	Email    string // Legacy key auth
	APIKey   string
	Timeout  time.Duration
	BaseURL  string // Overridable for tests; empty means the public API
}

// New creates a new Cloudflare DNS provider
func New(cfg Config) *Provider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultAPIBase
	}
	return &Provider{
		zoneID:   cfg.ZoneID,
		apiToken: cfg.APIToken,
		email:    cfg.Email,
		apiKey:   cfg.APIKey,
		baseURL:  baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// apiRecord represents a Cloudflare DNS record (API response)
type apiRecord struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Name    string `json:"name"`
	Content string `json:"content"`
	TTL     int    `json:"ttl"`
	Proxied bool   `json:"proxied"`
}

// apiResponse represents a Cloudflare API response envelope
type apiResponse struct {
	Success bool            `json:"success"`
	Errors  []apiError      `json:"errors"`
	Result  json.RawMessage `json:"result"`
}

// apiError represents a Cloudflare API error
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// GetRecord fetches the A record with the given name.
// Cloudflare identifies records by opaque IDs, so the lookup filters
// the zone's records by name and type.
func (p *Provider) GetRecord(ctx context.Context, name string) (*dns.Record, error) {
	reqURL := fmt.Sprintf("%s/zones/%s/dns_records?type=A&name=%s",
		p.baseURL, p.zoneID, url.QueryEscape(name))

	body, err := p.do(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	var records []apiRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("%w: parsing record list: %v", dns.ErrUnavailable, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no A record named %s in zone", dns.ErrNotFound, name)
	}

	return toRecord(&records[0]), nil
}

// UpdateRecord rewrites the record's content to newIP, keeping name,
// TTL and proxy flag as currently stored.
func (p *Provider) UpdateRecord(ctx context.Context, record *dns.Record, newIP string) (*dns.Record, error) {
	reqURL := fmt.Sprintf("%s/zones/%s/dns_records/%s", p.baseURL, p.zoneID, record.ID)

	payload := map[string]interface{}{
		"type":    "A",
		"name":    record.Name,
		"content": newIP,
		"ttl":     record.TTL,
		"proxied": record.Proxied,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: marshaling payload: %v", dns.ErrRejected, err)
	}

	body, err := p.do(ctx, http.MethodPut, reqURL, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var updated apiRecord
	if err := json.Unmarshal(body, &updated); err != nil {
		return nil, fmt.Errorf("%w: parsing updated record: %v", dns.ErrUnavailable, err)
	}

	return toRecord(&updated), nil
}

// do performs one API call and returns the raw result payload.
// Error classification happens here so Get/Update share one taxonomy.
func (p *Provider) do(ctx context.Context, method, reqURL string, payload io.Reader) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, method, reqURL, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", dns.ErrUnavailable, err)
	}
	p.setHeaders(req)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dns.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", dns.ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: HTTP %d", dns.ErrAuth, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: HTTP 404", dns.ErrNotFound)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: HTTP %d", dns.ErrUnavailable, resp.StatusCode)
	}

	var cfResp apiResponse
	if err := json.Unmarshal(body, &cfResp); err != nil {
		return nil, fmt.Errorf("%w: parsing response: %v", dns.ErrUnavailable, err)
	}

	if !cfResp.Success {
		// 81044/81043 mean the record is gone; 9109/10000 are auth codes
		for _, e := range cfResp.Errors {
			switch e.Code {
			case 81043, 81044:
				return nil, fmt.Errorf("%w: %s", dns.ErrNotFound, e.Message)
			case 9109, 10000:
				return nil, fmt.Errorf("%w: %s", dns.ErrAuth, e.Message)
			}
		}
		return nil, fmt.Errorf("%w: %s", dns.ErrRejected, formatErrors(cfResp.Errors))
	}

	return cfResp.Result, nil
}

func (p *Provider) setHeaders(req *http.Request) {
	if p.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiToken)
	} else {
		req.Header.Set("X-Auth-Email", p.email)
		req.Header.Set("X-Auth-Key", p.apiKey)
	}
	req.Header.Set("Content-Type", "application/json")
}

func toRecord(r *apiRecord) *dns.Record {
	return &dns.Record{
		ID:      r.ID,
		Type:    r.Type,
		Name:    r.Name,
		Content: r.Content,
		TTL:     r.TTL,
		Proxied: r.Proxied,
	}
}

// formatErrors formats Cloudflare API errors into a readable string
func formatErrors(errors []apiError) string {
	if len(errors) == 0 {
		return "unknown error"
	}
	var msgs []string
	for _, e := range errors {
		msgs = append(msgs, fmt.Sprintf("[%d] %s", e.Code, e.Message))
	}
	return fmt.Sprintf("%v", msgs)
}
