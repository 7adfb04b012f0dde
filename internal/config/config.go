// Package config provides application configuration.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultHost                 = "0.0.0.0"
	DefaultPort                 = 8080
	DefaultLogLevel             = "INFO"
	DefaultLogFormat            = "pretty"
	DefaultProtectionMonths     = 12
	DefaultIntroTokenDays       = 7
	DefaultCheckInTokenDays     = 14
	DefaultFeePercent           = 20.0
	DefaultRemainingDueDays     = 30
	DefaultReminderCooldownDays = 7
	DefaultDispatchParallelism  = 4
	DefaultClassifierTimeout    = 60 * time.Second
	DefaultClassifierRetries    = 3
	DefaultNotifyTimeout        = 15 * time.Second
	DefaultDirectoryTimeout     = 10 * time.Second
)

// ClassifierConfig configures the classification service endpoint.
type ClassifierConfig struct {
	baseURL    string
	model      string
	apiKey     string
	timeout    time.Duration
	maxRetries int
}

// Configured reports whether an endpoint has been provided at all.
func (c ClassifierConfig) Configured() bool { return c.apiKey != "" || c.baseURL != "" }

// BaseURL returns the endpoint base URL ("" means the provider default).
func (c ClassifierConfig) BaseURL() string { return c.baseURL }

// Model returns the chat model identifier.
func (c ClassifierConfig) Model() string { return c.model }

// APIKey returns the endpoint API key.
func (c ClassifierConfig) APIKey() string { return c.apiKey }

// Timeout returns the per-request timeout.
func (c ClassifierConfig) Timeout() time.Duration { return c.timeout }

// MaxRetries returns the retry budget for transient failures.
func (c ClassifierConfig) MaxRetries() int { return c.maxRetries }

// NotifyConfig configures the notification gateway.
type NotifyConfig struct {
	baseURL string
	apiKey  string
	from    string
	timeout time.Duration
}

// Configured reports whether a gateway URL has been provided.
func (c NotifyConfig) Configured() bool { return c.baseURL != "" }

// BaseURL returns the gateway base URL.
func (c NotifyConfig) BaseURL() string { return c.baseURL }

// APIKey returns the gateway API key.
func (c NotifyConfig) APIKey() string { return c.apiKey }

// From returns the sender address for outbound mail.
func (c NotifyConfig) From() string { return c.from }

// Timeout returns the per-request timeout.
func (c NotifyConfig) Timeout() time.Duration { return c.timeout }

// DirectoryConfig configures the profile directory of the surrounding
// application.
type DirectoryConfig struct {
	baseURL string
	apiKey  string
	timeout time.Duration
}

// Configured reports whether a directory URL has been provided.
func (c DirectoryConfig) Configured() bool { return c.baseURL != "" }

// BaseURL returns the directory base URL.
func (c DirectoryConfig) BaseURL() string { return c.baseURL }

// APIKey returns the directory API key.
func (c DirectoryConfig) APIKey() string { return c.apiKey }

// Timeout returns the per-request timeout.
func (c DirectoryConfig) Timeout() time.Duration { return c.timeout }

// ProtectionConfig holds the business parameters of the protection engine.
type ProtectionConfig struct {
	protectionMonths     int
	introTokenDays       int
	checkInTokenDays     int
	feePercent           float64
	remainingDueDays     int
	reminderCooldownDays int
	dispatchParallelism  int
	adminEmail           string
	publicURL            string
}

// ProtectionMonths returns the protection window length in months.
func (c ProtectionConfig) ProtectionMonths() int { return c.protectionMonths }

// IntroTokenDays returns the introduction response token lifetime in days.
func (c ProtectionConfig) IntroTokenDays() int { return c.introTokenDays }

// CheckInTokenDays returns the check-in response token lifetime in days.
func (c ProtectionConfig) CheckInTokenDays() int { return c.checkInTokenDays }

// FeePercent returns the default placement fee percentage for estimates.
func (c ProtectionConfig) FeePercent() float64 { return c.feePercent }

// RemainingDueDays returns the day offset after upfront payment at which
// the remaining amount falls due.
func (c ProtectionConfig) RemainingDueDays() int { return c.remainingDueDays }

// ReminderCooldownDays returns the minimum gap between payment reminders
// for the same placement.
func (c ProtectionConfig) ReminderCooldownDays() int { return c.reminderCooldownDays }

// DispatchParallelism returns the check-in dispatch batch width.
func (c ProtectionConfig) DispatchParallelism() int { return c.dispatchParallelism }

// AdminEmail returns the address for expiry digests and escalations.
func (c ProtectionConfig) AdminEmail() string { return c.adminEmail }

// PublicURL returns the externally reachable base URL used to build
// response links in outbound mail.
func (c ProtectionConfig) PublicURL() string { return c.publicURL }

// AppConfig is the assembled application configuration.
type AppConfig struct {
	host        string
	port        int
	dbURL       string
	logLevel    string
	logFormat   string
	apiKeys     []string
	batchSecret string
	classifier  ClassifierConfig
	notify      NotifyConfig
	directory   DirectoryConfig
	protection  ProtectionConfig
}

// Host returns the server bind host.
func (c AppConfig) Host() string { return c.host }

// Port returns the server port.
func (c AppConfig) Port() int { return c.port }

// Addr returns host:port.
func (c AppConfig) Addr() string { return fmt.Sprintf("%s:%d", c.host, c.port) }

// DBURL returns the database connection URL.
func (c AppConfig) DBURL() string { return c.dbURL }

// LogLevel returns the log level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log format (pretty or json).
func (c AppConfig) LogFormat() string { return c.logFormat }

// APIKeys returns the admin API keys.
func (c AppConfig) APIKeys() []string { return c.apiKeys }

// BatchSecret returns the shared secret for batch endpoints.
func (c AppConfig) BatchSecret() string { return c.batchSecret }

// Classifier returns the classification endpoint configuration.
func (c AppConfig) Classifier() ClassifierConfig { return c.classifier }

// Notify returns the notification gateway configuration.
func (c AppConfig) Notify() NotifyConfig { return c.notify }

// Directory returns the profile directory configuration.
func (c AppConfig) Directory() DirectoryConfig { return c.directory }

// Protection returns the protection business parameters.
func (c AppConfig) Protection() ProtectionConfig { return c.protection }

// WithDBURL returns a config with the database URL overridden.
func (c AppConfig) WithDBURL(url string) AppConfig {
	if url != "" {
		c.dbURL = url
	}
	return c
}

// WithAddr returns a config with the host and port overridden. Zero values
// leave the existing setting in place (flag overrides).
func (c AppConfig) WithAddr(host string, port int) AppConfig {
	if host != "" {
		c.host = host
	}
	if port != 0 {
		c.port = port
	}
	return c
}

func splitKeys(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		if k := strings.TrimSpace(p); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
