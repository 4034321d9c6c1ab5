package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
)

// Config holds all configuration
type Config struct {
	Cloudflare         CloudflareConfig
	Notifications      NotificationConfig
	HTTPAddr           string
	MappingFile        string
	ProviderTimeoutSec int
	RateLimitMinutes   int
}

// CloudflareConfig holds Cloudflare API configuration
type CloudflareConfig struct {
	ZoneID   string
	APIToken string // Bearer token auth (preferred)
	Email    string // Legacy key auth
	APIKey   string
}

// NotificationConfig holds notification fan-out configuration
type NotificationConfig struct {
	Enabled bool
	URLs    []string
}

// Load loads configuration from environment variables. When CONFIG_INI
// points at an INI file, its values fill in behind the environment
// (priority: ENV > INI > default).
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	if iniPath := os.Getenv("CONFIG_INI"); iniPath != "" {
		return LoadFromINI(iniPath)
	}

	cfg := &Config{
		Cloudflare: CloudflareConfig{
			ZoneID:   getEnv("CF_ZONE_ID", ""),
			APIToken: getEnv("CF_API_TOKEN", ""),
			Email:    getEnv("CF_API_EMAIL", ""),
			APIKey:   getEnv("CF_API_KEY", ""),
		},
		Notifications: NotificationConfig{
			Enabled: getEnvBool("ENABLE_NOTIFICATIONS", false),
			URLs:    splitURLs(getEnv("NOTIFY_URLS", "")),
		},
		HTTPAddr:           getEnv("HTTP_ADDR", ":5000"),
		MappingFile:        getEnv("MAPPING_FILE", "/config/guid_mapping.json"),
		ProviderTimeoutSec: getEnvInt("PROVIDER_TIMEOUT_SEC", 10),
		RateLimitMinutes:   getEnvInt("RATE_LIMIT_MINUTES", 10),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromINI loads configuration from an INI file with environment variable override
func LoadFromINI(iniPath string) (*Config, error) {
	cfgFile, err := ini.Load(iniPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load INI file: %w", err)
	}

	getValue := func(envKey, iniSection, iniKey, defaultValue string) string {
		if value := os.Getenv(envKey); value != "" {
			return value
		}
		if value := cfgFile.Section(iniSection).Key(iniKey).String(); value != "" {
			return value
		}
		return defaultValue
	}

	getValueInt := func(envKey, iniSection, iniKey string, defaultValue int) int {
		if value := os.Getenv(envKey); value != "" {
			if intValue, err := strconv.Atoi(value); err == nil {
				return intValue
			}
		}
		if cfgFile.Section(iniSection).HasKey(iniKey) {
			if value, err := cfgFile.Section(iniSection).Key(iniKey).Int(); err == nil {
				return value
			}
		}
		return defaultValue
	}

	getValueBool := func(envKey, iniSection, iniKey string, defaultValue bool) bool {
		if value := os.Getenv(envKey); value != "" {
			return parseBool(value)
		}
		if value, err := cfgFile.Section(iniSection).Key(iniKey).Bool(); err == nil {
			return value
		}
		return defaultValue
	}

	cfg := &Config{
		Cloudflare: CloudflareConfig{
			ZoneID:   getValue("CF_ZONE_ID", "cloudflare", "zone_id", ""),
			APIToken: getValue("CF_API_TOKEN", "cloudflare", "api_token", ""),
			Email:    getValue("CF_API_EMAIL", "cloudflare", "email", ""),
			APIKey:   getValue("CF_API_KEY", "cloudflare", "api_key", ""),
		},
		Notifications: NotificationConfig{
			Enabled: getValueBool("ENABLE_NOTIFICATIONS", "notifications", "enabled", false),
			URLs:    splitURLs(getValue("NOTIFY_URLS", "notifications", "urls", "")),
		},
		HTTPAddr:           getValue("HTTP_ADDR", "http", "addr", ":5000"),
		MappingFile:        getValue("MAPPING_FILE", "app", "mapping_file", "/config/guid_mapping.json"),
		ProviderTimeoutSec: getValueInt("PROVIDER_TIMEOUT_SEC", "cloudflare", "timeout_sec", 10),
		RateLimitMinutes:   getValueInt("RATE_LIMIT_MINUTES", "app", "rate_limit_minutes", 10),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Cloudflare.ZoneID == "" {
		return fmt.Errorf("CF_ZONE_ID is required")
	}
	if c.Cloudflare.APIToken == "" && (c.Cloudflare.Email == "" || c.Cloudflare.APIKey == "") {
		return fmt.Errorf("CF_API_TOKEN or CF_API_EMAIL+CF_API_KEY is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return parseBool(value)
	}
	return defaultValue
}

func parseBool(value string) bool {
	switch strings.ToLower(value) {
	case "true", "1", "t":
		return true
	}
	return false
}

func splitURLs(raw string) []string {
	if raw == "" {
		return nil
	}
	var urls []string
	for _, u := range strings.Split(raw, ",") {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}
