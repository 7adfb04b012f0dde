package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration. Field names map to
// environment variables; nested structs use an underscore delimiter
// (e.g. CLASSIFIER_ENDPOINT_BASE_URL).
type EnvConfig struct {
	// Host is the server host to bind to.
	// Env: HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the server port to listen on.
	// Env: PORT (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// DBURL is the database connection URL.
	// Env: DB_URL (default: sqlite:///scoutline.db)
	DBURL string `envconfig:"DB_URL" default:"sqlite:///scoutline.db"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// APIKeys is a comma-separated list of valid admin API keys.
	// Env: API_KEYS
	APIKeys string `envconfig:"API_KEYS"`

	// BatchSecret is the shared secret the external scheduler presents on
	// batch endpoints.
	// Env: BATCH_SECRET
	BatchSecret string `envconfig:"BATCH_SECRET"`

	// AdminEmail receives expiry digests and candidate-question escalations.
	// Env: ADMIN_EMAIL
	AdminEmail string `envconfig:"ADMIN_EMAIL"`

	// ClassifierEndpoint configures the reply classification service.
	ClassifierEndpoint ClassifierEnv `envconfig:"CLASSIFIER_ENDPOINT"`

	// Notify configures the notification gateway.
	Notify NotifyEnv `envconfig:"NOTIFY"`

	// Directory configures the profile directory.
	Directory DirectoryEnv `envconfig:"DIRECTORY"`

	// ProtectionMonths is the protection window length.
	// Env: PROTECTION_MONTHS (default: 12)
	ProtectionMonths int `envconfig:"PROTECTION_MONTHS" default:"12"`

	// IntroTokenDays is the introduction response token lifetime.
	// Env: INTRO_TOKEN_DAYS (default: 7)
	IntroTokenDays int `envconfig:"INTRO_TOKEN_DAYS" default:"7"`

	// CheckInTokenDays is the check-in response token lifetime.
	// Env: CHECKIN_TOKEN_DAYS (default: 14)
	CheckInTokenDays int `envconfig:"CHECKIN_TOKEN_DAYS" default:"14"`

	// FeePercent is the default placement fee percentage.
	// Env: FEE_PERCENT (default: 20)
	FeePercent float64 `envconfig:"FEE_PERCENT" default:"20"`

	// RemainingDueDays is the offset from upfront payment to the remaining
	// amount's due date.
	// Env: REMAINING_DUE_DAYS (default: 30)
	RemainingDueDays int `envconfig:"REMAINING_DUE_DAYS" default:"30"`

	// ReminderCooldownDays is the minimum gap between payment reminders.
	// Env: REMINDER_COOLDOWN_DAYS (default: 7)
	ReminderCooldownDays int `envconfig:"REMINDER_COOLDOWN_DAYS" default:"7"`

	// DispatchParallelism bounds concurrent check-in sends.
	// Env: DISPATCH_PARALLELISM (default: 4)
	DispatchParallelism int `envconfig:"DISPATCH_PARALLELISM" default:"4"`

	// PublicURL is the externally reachable base URL for response links.
	// Env: PUBLIC_URL (default: http://localhost:8080)
	PublicURL string `envconfig:"PUBLIC_URL" default:"http://localhost:8080"`
}

// ClassifierEnv holds environment configuration for the classifier endpoint.
type ClassifierEnv struct {
	// BaseURL is the endpoint base URL (empty uses the provider default).
	// Env: CLASSIFIER_ENDPOINT_BASE_URL
	BaseURL string `envconfig:"BASE_URL"`

	// Model is the chat model identifier.
	// Env: CLASSIFIER_ENDPOINT_MODEL (default: gpt-4o-mini)
	Model string `envconfig:"MODEL" default:"gpt-4o-mini"`

	// APIKey authenticates against the endpoint.
	// Env: CLASSIFIER_ENDPOINT_API_KEY
	APIKey string `envconfig:"API_KEY"`

	// Timeout is the request timeout in seconds.
	// Env: CLASSIFIER_ENDPOINT_TIMEOUT (default: 60)
	Timeout float64 `envconfig:"TIMEOUT" default:"60"`

	// MaxRetries is the retry budget for transient failures.
	// Env: CLASSIFIER_ENDPOINT_MAX_RETRIES (default: 3)
	MaxRetries int `envconfig:"MAX_RETRIES" default:"3"`
}

// NotifyEnv holds environment configuration for the notification gateway.
type NotifyEnv struct {
	// BaseURL is the gateway base URL. Empty means log-only delivery.
	// Env: NOTIFY_BASE_URL
	BaseURL string `envconfig:"BASE_URL"`

	// APIKey authenticates against the gateway.
	// Env: NOTIFY_API_KEY
	APIKey string `envconfig:"API_KEY"`

	// From is the sender address for outbound mail.
	// Env: NOTIFY_FROM (default: no-reply@scoutline.io)
	From string `envconfig:"FROM" default:"no-reply@scoutline.io"`

	// Timeout is the request timeout in seconds.
	// Env: NOTIFY_TIMEOUT (default: 15)
	Timeout float64 `envconfig:"TIMEOUT" default:"15"`
}

// DirectoryEnv holds environment configuration for the profile directory.
type DirectoryEnv struct {
	// BaseURL is the directory base URL. Empty means stub contacts.
	// Env: DIRECTORY_BASE_URL
	BaseURL string `envconfig:"BASE_URL"`

	// APIKey authenticates against the directory.
	// Env: DIRECTORY_API_KEY
	APIKey string `envconfig:"API_KEY"`

	// Timeout is the request timeout in seconds.
	// Env: DIRECTORY_TIMEOUT (default: 10)
	Timeout float64 `envconfig:"TIMEOUT" default:"10"`
}

// LoadFromEnv loads configuration from environment variables (no prefix).
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToAppConfig converts environment configuration to an AppConfig.
func (e EnvConfig) ToAppConfig() AppConfig {
	return AppConfig{
		host:        e.Host,
		port:        e.Port,
		dbURL:       e.DBURL,
		logLevel:    e.LogLevel,
		logFormat:   e.LogFormat,
		apiKeys:     splitKeys(e.APIKeys),
		batchSecret: e.BatchSecret,
		classifier: ClassifierConfig{
			baseURL:    e.ClassifierEndpoint.BaseURL,
			model:      e.ClassifierEndpoint.Model,
			apiKey:     e.ClassifierEndpoint.APIKey,
			timeout:    secondsOrDefault(e.ClassifierEndpoint.Timeout, DefaultClassifierTimeout),
			maxRetries: intOrDefault(e.ClassifierEndpoint.MaxRetries, DefaultClassifierRetries),
		},
		notify: NotifyConfig{
			baseURL: e.Notify.BaseURL,
			apiKey:  e.Notify.APIKey,
			from:    e.Notify.From,
			timeout: secondsOrDefault(e.Notify.Timeout, DefaultNotifyTimeout),
		},
		directory: DirectoryConfig{
			baseURL: strings.TrimRight(e.Directory.BaseURL, "/"),
			apiKey:  e.Directory.APIKey,
			timeout: secondsOrDefault(e.Directory.Timeout, DefaultDirectoryTimeout),
		},
		protection: ProtectionConfig{
			protectionMonths:     intOrDefault(e.ProtectionMonths, DefaultProtectionMonths),
			introTokenDays:       intOrDefault(e.IntroTokenDays, DefaultIntroTokenDays),
			checkInTokenDays:     intOrDefault(e.CheckInTokenDays, DefaultCheckInTokenDays),
			feePercent:           floatOrDefault(e.FeePercent, DefaultFeePercent),
			remainingDueDays:     intOrDefault(e.RemainingDueDays, DefaultRemainingDueDays),
			reminderCooldownDays: intOrDefault(e.ReminderCooldownDays, DefaultReminderCooldownDays),
			dispatchParallelism:  intOrDefault(e.DispatchParallelism, DefaultDispatchParallelism),
			adminEmail:           e.AdminEmail,
			publicURL:            strings.TrimRight(e.PublicURL, "/"),
		},
	}
}

func secondsOrDefault(s float64, def time.Duration) time.Duration {
	if s <= 0 {
		return def
	}
	return time.Duration(s * float64(time.Second))
}

func intOrDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func floatOrDefault(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}
