// Package mapping holds the static token → DNS record mapping.
//
// The mapping file is loaded once at startup; the server never mutates
// it, so lookups are plain map reads and safe for concurrent requests.
// The autodnsctl CLI is the only writer.
package mapping

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// ErrUnknownToken is returned for tokens that are malformed or not
// present in the mapping. Callers must not reveal which case occurred.
var ErrUnknownToken = errors.New("unknown update token")

// Entry maps one token to its DNS record name
type Entry struct {
	Subdomain string `json:"subdomain"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Store is an immutable view of the token mapping for request handling
type Store struct {
	entries map[string]Entry
}

// Load reads the mapping file. A missing file yields an empty store so
// a freshly deployed service starts up before any token is generated.
func Load(path string) (*Store, error) {
	entries, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return &Store{entries: entries}, nil
}

// Lookup maps a token to its record entry. Format validation happens
// first so malformed tokens never reach the map, but both failure modes
// collapse into the same error.
func (s *Store) Lookup(token string) (Entry, error) {
	if !ValidToken(token) {
		return Entry{}, ErrUnknownToken
	}
	entry, ok := s.entries[token]
	if !ok {
		return Entry{}, ErrUnknownToken
	}
	return entry, nil
}

// Len returns the number of configured tokens
func (s *Store) Len() int {
	return len(s.entries)
}

// Subdomains returns all configured record names
func (s *Store) Subdomains() []string {
	names := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		names = append(names, e.Subdomain)
	}
	return names
}

// HasSubdomain reports whether any token already maps to the subdomain
func (s *Store) HasSubdomain(subdomain string) bool {
	for _, e := range s.entries {
		if e.Subdomain == subdomain {
			return true
		}
	}
	return false
}

// ValidToken reports whether token looks like a generated token:
// a UUID or a 64-character hex digest (the legacy format).
func ValidToken(token string) bool {
	if len(token) == 64 {
		for _, c := range token {
			if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
				return false
			}
		}
		return true
	}
	_, err := uuid.Parse(token)
	return err == nil
}

// Generate creates a token for subdomain and writes it to the mapping
// file at path. It refuses subdomains that already have a token.
func Generate(path, subdomain string) (string, error) {
	entries, err := readFile(path)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if e.Subdomain == subdomain {
			return "", fmt.Errorf("subdomain %s already has a token assigned", subdomain)
		}
	}

	token := uuid.NewString()
	entries[token] = Entry{
		Subdomain: subdomain,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := writeFile(path, entries); err != nil {
		return "", err
	}
	return token, nil
}

func readFile(path string) (map[string]Entry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading mapping file %s: %w", path, err)
	}

	entries := map[string]Entry{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding mapping file %s: %w", path, err)
	}
	return entries, nil
}

func writeFile(path string, entries map[string]Entry) error {
	data, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding mapping: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing mapping file %s: %w", path, err)
	}
	return nil
}
