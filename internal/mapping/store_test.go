package mapping

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const testToken = "2b1f9df0-7a63-4a6b-9f20-1c9f6f6b8f11"

func writeMapping(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "guid_mapping.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write mapping file: %v", err)
	}
	return path
}

func TestLoad_And_Lookup(t *testing.T) {
	path := writeMapping(t, `{"`+testToken+`": {"subdomain": "home.example.com"}}`)

	store, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", store.Len())
	}

	entry, err := store.Lookup(testToken)
	if err != nil {
		t.Fatalf("Lookup() failed: %v", err)
	}
	if entry.Subdomain != "home.example.com" {
		t.Errorf("expected subdomain home.example.com, got %s", entry.Subdomain)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	store, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if err != nil {
		t.Fatalf("Load() on missing file should succeed, got: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("expected empty store, got %d entries", store.Len())
	}
}

func TestLoad_BadJSON(t *testing.T) {
	path := writeMapping(t, `{not json`)
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed mapping file")
	}
}

func TestLookup_UnknownAndMalformed(t *testing.T) {
	path := writeMapping(t, `{"`+testToken+`": {"subdomain": "home.example.com"}}`)
	store, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Unknown-but-well-formed and malformed tokens must be indistinguishable
	for _, token := range []string{
		"9e107d9d-372b-4c81-a1f0-d4c9ce6ee10b", // valid UUID, not configured
		"not-a-token",
		"",
	} {
		if _, err := store.Lookup(token); !errors.Is(err, ErrUnknownToken) {
			t.Errorf("Lookup(%q): expected ErrUnknownToken, got %v", token, err)
		}
	}
}

func TestValidToken(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{testToken, true},
		{"9e107d9d372b4c81a1f0d4c9ce6ee10b9e107d9d372b4c81a1f0d4c9ce6ee10b", true}, // legacy sha256 hex
		{"9E107D9D372B4C81A1F0D4C9CE6EE10B9E107D9D372B4C81A1F0D4C9CE6EE10B", false},
		{"short", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidToken(tt.token); got != tt.want {
			t.Errorf("ValidToken(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}

func TestGenerate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guid_mapping.json")

	token, err := Generate(path, "home.example.com")
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if !ValidToken(token) {
		t.Errorf("generated token %q is not valid", token)
	}

	// The generated token must resolve after a fresh load
	store, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	entry, err := store.Lookup(token)
	if err != nil {
		t.Fatalf("Lookup() failed: %v", err)
	}
	if entry.Subdomain != "home.example.com" {
		t.Errorf("expected subdomain home.example.com, got %s", entry.Subdomain)
	}

	// Duplicate subdomains are refused
	if _, err := Generate(path, "home.example.com"); err == nil {
		t.Error("expected error for duplicate subdomain")
	}
}
